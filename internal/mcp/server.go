// Copyright (c) 2026 ToeiRei
// pybookmarks - bookmark management library
// This source code is licensed under the MIT license found in the LICENSE file.

// Package mcp exposes the bookmark store as MCP (Model Context Protocol) tools
// so AI assistants can list, search and add bookmarks.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/toeirei/pybookmarks/pybookmarks"
)

// Library is the subset of *pybookmarks.API used by the tools.
type Library interface {
	AllBookmarks(ctx context.Context) ([]pybookmarks.Bookmark, error)
	FindBookmark(ctx context.Context, id int) (pybookmarks.Bookmark, error)
	CreateBookmark(ctx context.Context, nb pybookmarks.NewBookmark) (pybookmarks.Bookmark, error)
	BookmarkTags(ctx context.Context, id int) ([]pybookmarks.Tag, error)
	AssignTag(ctx context.Context, bookmarkID, tagID int) error
	RemoveBookmarkTag(ctx context.Context, bookmarkID, tagID int) error
	Search(ctx context.Context, query string) ([]pybookmarks.Bookmark, error)
	FolderBookmarks(ctx context.Context, id *int) ([]pybookmarks.Bookmark, error)
	Starred(ctx context.Context) ([]pybookmarks.Bookmark, error)
	EnsureTag(ctx context.Context, label string) (pybookmarks.Tag, error)
	FindTagByLabel(ctx context.Context, label string) (pybookmarks.Tag, error)
	AllTags(ctx context.Context) ([]pybookmarks.Tag, error)
	AllFolders(ctx context.Context) ([]pybookmarks.Folder, error)
}

var _ Library = (*pybookmarks.API)(nil)

// Server wraps a Library and exposes it as MCP tools.
type Server struct {
	server *gomcp.Server
	lib    Library
}

// NewServer creates a new MCP server on top of lib.
func NewServer(lib Library, version string) *Server {
	if version == "" {
		version = "dev"
	}
	s := &Server{lib: lib}
	s.server = gomcp.NewServer(
		&gomcp.Implementation{Name: "pybookmarks", Version: version},
		nil,
	)
	s.registerTools()
	return s
}

// Run serves on stdio until the client disconnects or ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying mcp.Server.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

// --- Tool input/output types ---

type bookmarkOutput struct {
	ID       int      `json:"id"`
	URL      string   `json:"url"`
	Label    string   `json:"label,omitempty"`
	FolderID *int     `json:"folder_id,omitempty"`
	Folder   string   `json:"folder,omitempty"`
	Starred  bool     `json:"starred"`
	Tags     []string `json:"tags,omitempty"`
	Created  string   `json:"created"`
	Updated  string   `json:"updated"`
}

type bookmarksOutput struct {
	Bookmarks []bookmarkOutput `json:"bookmarks"`
	Count     int              `json:"count"`
}

type listBookmarksInput struct {
	FolderID *int `json:"folder_id,omitempty" jsonschema:"only return bookmarks in this folder"`
	Starred  bool `json:"starred,omitempty" jsonschema:"only return starred bookmarks"`
}

type searchBookmarksInput struct {
	Query string `json:"query" jsonschema:"search words; supports tag:<expr> and is:starred"`
}

type getBookmarkInput struct {
	ID int `json:"id" jsonschema:"the bookmark id"`
}

type addBookmarkInput struct {
	URL      string   `json:"url" jsonschema:"the url to store"`
	Label    string   `json:"label,omitempty" jsonschema:"a human readable label"`
	FolderID *int     `json:"folder_id,omitempty" jsonschema:"folder to put the bookmark in"`
	Tags     []string `json:"tags,omitempty" jsonschema:"tag labels, created when missing"`
	Starred  bool     `json:"starred,omitempty" jsonschema:"star the bookmark"`
}

type tagBookmarkInput struct {
	ID     int    `json:"id" jsonschema:"the bookmark id"`
	Tag    string `json:"tag" jsonschema:"tag label"`
	Remove bool   `json:"remove,omitempty" jsonschema:"detach the tag instead of attaching it"`
}

type tagOutput struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
	Color string `json:"color,omitempty"`
}

type listTagsInput struct{}

type listTagsOutput struct {
	Tags  []tagOutput `json:"tags"`
	Count int         `json:"count"`
}

type folderOutput struct {
	ID       int    `json:"id"`
	Label    string `json:"label"`
	ParentID *int   `json:"parent_id,omitempty"`
	Path     string `json:"path"`
}

type listFoldersInput struct{}

type listFoldersOutput struct {
	Folders []folderOutput `json:"folders"`
	Count   int            `json:"count"`
}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_bookmarks",
		Description: "List bookmarks, optionally limited to a folder or to starred bookmarks.",
	}, s.handleListBookmarks)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "search_bookmarks",
		Description: "Search bookmarks by url, label and tag. Use tag:<expr> for tag expressions such as tag:go&!draft, and is:starred for starred bookmarks.",
	}, s.handleSearchBookmarks)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_bookmark",
		Description: "Get a bookmark with its tags by id.",
	}, s.handleGetBookmark)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "add_bookmark",
		Description: "Store a new bookmark. Tags are created when they do not exist yet.",
	}, s.handleAddBookmark)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "tag_bookmark",
		Description: "Attach a tag to a bookmark, or detach it with remove=true.",
	}, s.handleTagBookmark)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_tags",
		Description: "List all tags.",
	}, s.handleListTags)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_folders",
		Description: "List all folders with their full path.",
	}, s.handleListFolders)
}

// --- Tool handlers ---

func (s *Server) handleListBookmarks(ctx context.Context, _ *gomcp.CallToolRequest, input listBookmarksInput) (*gomcp.CallToolResult, bookmarksOutput, error) {
	var (
		bms []pybookmarks.Bookmark
		err error
	)
	switch {
	case input.FolderID != nil:
		bms, err = s.lib.FolderBookmarks(ctx, input.FolderID)
	case input.Starred:
		bms, err = s.lib.Starred(ctx)
	default:
		bms, err = s.lib.AllBookmarks(ctx)
	}
	if err != nil {
		return errorResult(fmt.Sprintf("listing bookmarks: %s", err)), bookmarksOutput{}, nil
	}
	if input.FolderID != nil && input.Starred {
		bms = starredOnly(bms)
	}
	out, err := s.bookmarksToOutput(ctx, bms)
	if err != nil {
		return errorResult(fmt.Sprintf("listing bookmarks: %s", err)), bookmarksOutput{}, nil
	}
	return nil, out, nil
}

func (s *Server) handleSearchBookmarks(ctx context.Context, _ *gomcp.CallToolRequest, input searchBookmarksInput) (*gomcp.CallToolResult, bookmarksOutput, error) {
	if strings.TrimSpace(input.Query) == "" {
		return errorResult("query is required"), bookmarksOutput{}, nil
	}
	bms, err := s.lib.Search(ctx, input.Query)
	if err != nil {
		return errorResult(fmt.Sprintf("searching %q: %s", input.Query, err)), bookmarksOutput{}, nil
	}
	out, err := s.bookmarksToOutput(ctx, bms)
	if err != nil {
		return errorResult(fmt.Sprintf("searching %q: %s", input.Query, err)), bookmarksOutput{}, nil
	}
	return nil, out, nil
}

func (s *Server) handleGetBookmark(ctx context.Context, _ *gomcp.CallToolRequest, input getBookmarkInput) (*gomcp.CallToolResult, bookmarkOutput, error) {
	if input.ID <= 0 {
		return errorResult("id is required"), bookmarkOutput{}, nil
	}
	b, err := s.lib.FindBookmark(ctx, input.ID)
	if err != nil {
		return errorResult(fmt.Sprintf("getting bookmark %d: %s", input.ID, err)), bookmarkOutput{}, nil
	}
	out, err := s.bookmarkToOutput(ctx, b, nil)
	if err != nil {
		return errorResult(fmt.Sprintf("getting bookmark %d: %s", input.ID, err)), bookmarkOutput{}, nil
	}
	return nil, out, nil
}

func (s *Server) handleAddBookmark(ctx context.Context, _ *gomcp.CallToolRequest, input addBookmarkInput) (*gomcp.CallToolResult, bookmarkOutput, error) {
	if strings.TrimSpace(input.URL) == "" {
		return errorResult("url is required"), bookmarkOutput{}, nil
	}
	// Resolve tags first so a bad label does not leave a half tagged bookmark.
	var tagIDs []int
	for _, label := range input.Tags {
		t, err := s.lib.EnsureTag(ctx, label)
		if err != nil {
			return errorResult(fmt.Sprintf("tag %q: %s", label, err)), bookmarkOutput{}, nil
		}
		tagIDs = append(tagIDs, t.ID)
	}
	b, err := s.lib.CreateBookmark(ctx, pybookmarks.NewBookmark{
		URL:     input.URL,
		Label:   input.Label,
		Folder:  input.FolderID,
		Starred: input.Starred,
	})
	if err != nil {
		return errorResult(fmt.Sprintf("adding %s: %s", input.URL, err)), bookmarkOutput{}, nil
	}
	for _, id := range tagIDs {
		if err := s.lib.AssignTag(ctx, b.ID, id); err != nil {
			return errorResult(fmt.Sprintf("tagging bookmark %d: %s", b.ID, err)), bookmarkOutput{}, nil
		}
	}
	out, err := s.bookmarkToOutput(ctx, b, nil)
	if err != nil {
		return errorResult(fmt.Sprintf("adding %s: %s", input.URL, err)), bookmarkOutput{}, nil
	}
	return nil, out, nil
}

func (s *Server) handleTagBookmark(ctx context.Context, _ *gomcp.CallToolRequest, input tagBookmarkInput) (*gomcp.CallToolResult, bookmarkOutput, error) {
	if input.ID <= 0 {
		return errorResult("id is required"), bookmarkOutput{}, nil
	}
	if strings.TrimSpace(input.Tag) == "" {
		return errorResult("tag is required"), bookmarkOutput{}, nil
	}
	b, err := s.lib.FindBookmark(ctx, input.ID)
	if err != nil {
		return errorResult(fmt.Sprintf("getting bookmark %d: %s", input.ID, err)), bookmarkOutput{}, nil
	}
	if input.Remove {
		t, err := s.lib.FindTagByLabel(ctx, input.Tag)
		switch {
		case errors.Is(err, pybookmarks.ErrNotFound):
		case err != nil:
			return errorResult(fmt.Sprintf("tag %q: %s", input.Tag, err)), bookmarkOutput{}, nil
		default:
			if err := s.lib.RemoveBookmarkTag(ctx, b.ID, t.ID); err != nil {
				return errorResult(fmt.Sprintf("untagging bookmark %d: %s", b.ID, err)), bookmarkOutput{}, nil
			}
		}
	} else {
		t, err := s.lib.EnsureTag(ctx, input.Tag)
		if err != nil {
			return errorResult(fmt.Sprintf("tag %q: %s", input.Tag, err)), bookmarkOutput{}, nil
		}
		if err := s.lib.AssignTag(ctx, b.ID, t.ID); err != nil {
			return errorResult(fmt.Sprintf("tagging bookmark %d: %s", b.ID, err)), bookmarkOutput{}, nil
		}
	}
	out, err := s.bookmarkToOutput(ctx, b, nil)
	if err != nil {
		return errorResult(fmt.Sprintf("getting bookmark %d: %s", b.ID, err)), bookmarkOutput{}, nil
	}
	return nil, out, nil
}

func (s *Server) handleListTags(ctx context.Context, _ *gomcp.CallToolRequest, _ listTagsInput) (*gomcp.CallToolResult, listTagsOutput, error) {
	tags, err := s.lib.AllTags(ctx)
	if err != nil {
		return errorResult(fmt.Sprintf("listing tags: %s", err)), listTagsOutput{}, nil
	}
	out := listTagsOutput{Tags: make([]tagOutput, len(tags)), Count: len(tags)}
	for i, t := range tags {
		out.Tags[i] = tagOutput{ID: t.ID, Label: t.Label, Color: t.Color}
	}
	return nil, out, nil
}

func (s *Server) handleListFolders(ctx context.Context, _ *gomcp.CallToolRequest, _ listFoldersInput) (*gomcp.CallToolResult, listFoldersOutput, error) {
	folders, err := s.lib.AllFolders(ctx)
	if err != nil {
		return errorResult(fmt.Sprintf("listing folders: %s", err)), listFoldersOutput{}, nil
	}
	out := listFoldersOutput{Folders: make([]folderOutput, len(folders)), Count: len(folders)}
	for i, f := range folders {
		out.Folders[i] = folderOutput{
			ID:       f.ID,
			Label:    f.Label,
			ParentID: f.Parent,
			Path:     strings.Join(pybookmarks.FolderPath(folders, f.ID), "/"),
		}
	}
	return nil, out, nil
}

// --- Helpers ---

func (s *Server) bookmarksToOutput(ctx context.Context, bms []pybookmarks.Bookmark) (bookmarksOutput, error) {
	folders, err := s.lib.AllFolders(ctx)
	if err != nil {
		return bookmarksOutput{}, err
	}
	out := bookmarksOutput{Bookmarks: make([]bookmarkOutput, 0, len(bms)), Count: len(bms)}
	for _, b := range bms {
		bo, err := s.bookmarkToOutput(ctx, b, folders)
		if err != nil {
			return bookmarksOutput{}, err
		}
		out.Bookmarks = append(out.Bookmarks, bo)
	}
	return out, nil
}

// bookmarkToOutput loads the tags of b. folders is fetched when nil.
func (s *Server) bookmarkToOutput(ctx context.Context, b pybookmarks.Bookmark, folders []pybookmarks.Folder) (bookmarkOutput, error) {
	tags, err := s.lib.BookmarkTags(ctx, b.ID)
	if err != nil {
		return bookmarkOutput{}, err
	}
	out := bookmarkOutput{
		ID:       b.ID,
		URL:      b.URL,
		Label:    b.Label,
		FolderID: b.Folder,
		Starred:  b.Starred,
		Created:  b.CreatedAt.UTC().Format(time.RFC3339),
		Updated:  b.UpdatedAt.UTC().Format(time.RFC3339),
	}
	for _, t := range tags {
		out.Tags = append(out.Tags, t.Label)
	}
	if b.Folder != nil {
		if folders == nil {
			if folders, err = s.lib.AllFolders(ctx); err != nil {
				return bookmarkOutput{}, err
			}
		}
		out.Folder = strings.Join(pybookmarks.FolderPath(folders, *b.Folder), "/")
	}
	return out, nil
}

func starredOnly(bms []pybookmarks.Bookmark) []pybookmarks.Bookmark {
	out := bms[:0]
	for _, b := range bms {
		if b.Starred {
			out = append(out, b)
		}
	}
	return out
}

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}
