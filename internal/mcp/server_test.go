// Copyright (c) 2026 ToeiRei
// pybookmarks - bookmark management library
// This source code is licensed under the MIT license found in the LICENSE file.

package mcp

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/toeirei/pybookmarks/pybookmarks"
)

func newTestLibrary(t *testing.T) *pybookmarks.API {
	t.Helper()
	api, err := pybookmarks.New(filepath.Join(t.TempDir(), "bookmarks.db"))
	if err != nil {
		t.Fatalf("open library: %v", err)
	}
	t.Cleanup(func() { _ = api.Close() })
	return api
}

func callTool(t *testing.T, srv *Server, toolName string, args map[string]any) *gomcp.CallToolResult {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	client := gomcp.NewClient(&gomcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)

	t1, t2 := gomcp.NewInMemoryTransports()
	go func() {
		_ = srv.MCPServer().Run(ctx, t1)
	}()

	session, err := client.Connect(ctx, t2, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	defer func() { _ = session.Close() }()

	result, err := session.CallTool(ctx, &gomcp.CallToolParams{
		Name:      toolName,
		Arguments: args,
	})
	if err != nil {
		t.Fatalf("call tool %s: %v", toolName, err)
	}
	return result
}

func extractText(r *gomcp.CallToolResult) string {
	for _, c := range r.Content {
		if tc, ok := c.(*gomcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

// decode reads the structured output of a successful call into out.
func decode(t *testing.T, r *gomcp.CallToolResult, out any) {
	t.Helper()
	if r.IsError {
		t.Fatalf("expected success, got error: %s", extractText(r))
	}
	data := []byte(extractText(r))
	if r.StructuredContent != nil {
		var err error
		if data, err = json.Marshal(r.StructuredContent); err != nil {
			t.Fatalf("marshal structured content: %v", err)
		}
	}
	if err := json.Unmarshal(data, out); err != nil {
		t.Fatalf("unmarshal output: %v (data was: %s)", err, data)
	}
}

func seed(t *testing.T, api *pybookmarks.API) (folder pybookmarks.Folder, goID int) {
	t.Helper()
	ctx := context.Background()
	dev, err := api.CreateFolder(ctx, pybookmarks.NewFolder{Label: "dev"})
	if err != nil {
		t.Fatalf("create folder: %v", err)
	}
	sub, err := api.CreateFolder(ctx, pybookmarks.NewFolder{Label: "go", Parent: &dev.ID})
	if err != nil {
		t.Fatalf("create folder: %v", err)
	}
	b, err := api.CreateBookmark(ctx, pybookmarks.NewBookmark{URL: "https://go.dev", Label: "Go", Folder: &sub.ID, Starred: true})
	if err != nil {
		t.Fatalf("create bookmark: %v", err)
	}
	if _, err := api.CreateBookmark(ctx, pybookmarks.NewBookmark{URL: "https://example.com", Label: "Example"}); err != nil {
		t.Fatalf("create bookmark: %v", err)
	}
	tag, err := api.EnsureTag(ctx, "lang")
	if err != nil {
		t.Fatalf("ensure tag: %v", err)
	}
	if err := api.AssignTag(ctx, b.ID, tag.ID); err != nil {
		t.Fatalf("assign tag: %v", err)
	}
	return sub, b.ID
}

func TestListBookmarks(t *testing.T) {
	api := newTestLibrary(t)
	folder, goID := seed(t, api)
	srv := NewServer(api, "test")

	var all bookmarksOutput
	decode(t, callTool(t, srv, "list_bookmarks", map[string]any{}), &all)
	if all.Count != 2 {
		t.Fatalf("expected 2 bookmarks, got %d", all.Count)
	}

	var inFolder bookmarksOutput
	decode(t, callTool(t, srv, "list_bookmarks", map[string]any{"folder_id": folder.ID}), &inFolder)
	if inFolder.Count != 1 || inFolder.Bookmarks[0].ID != goID {
		t.Fatalf("unexpected folder listing %+v", inFolder)
	}
	got := inFolder.Bookmarks[0]
	if got.Folder != "dev/go" || len(got.Tags) != 1 || got.Tags[0] != "lang" || !got.Starred {
		t.Fatalf("unexpected bookmark output %+v", got)
	}

	var starred bookmarksOutput
	decode(t, callTool(t, srv, "list_bookmarks", map[string]any{"starred": true}), &starred)
	if starred.Count != 1 {
		t.Fatalf("expected 1 starred bookmark, got %d", starred.Count)
	}
}

func TestSearchBookmarks(t *testing.T) {
	api := newTestLibrary(t)
	_, goID := seed(t, api)
	srv := NewServer(api, "test")

	var out bookmarksOutput
	decode(t, callTool(t, srv, "search_bookmarks", map[string]any{"query": "tag:lang"}), &out)
	if out.Count != 1 || out.Bookmarks[0].ID != goID {
		t.Fatalf("unexpected search result %+v", out)
	}

	res := callTool(t, srv, "search_bookmarks", map[string]any{"query": "tag:(lang"})
	if !res.IsError {
		t.Fatalf("expected error for malformed tag expression")
	}
	res = callTool(t, srv, "search_bookmarks", map[string]any{"query": "  "})
	if !res.IsError {
		t.Fatalf("expected error for empty query")
	}
}

func TestGetBookmark(t *testing.T) {
	api := newTestLibrary(t)
	_, goID := seed(t, api)
	srv := NewServer(api, "test")

	var out bookmarkOutput
	decode(t, callTool(t, srv, "get_bookmark", map[string]any{"id": goID}), &out)
	if out.URL != "https://go.dev/" || out.Label != "Go" {
		t.Fatalf("unexpected bookmark %+v", out)
	}

	if res := callTool(t, srv, "get_bookmark", map[string]any{"id": 999}); !res.IsError {
		t.Fatalf("expected error for unknown id")
	}
}

func TestAddBookmark(t *testing.T) {
	api := newTestLibrary(t)
	srv := NewServer(api, "test")

	var out bookmarkOutput
	decode(t, callTool(t, srv, "add_bookmark", map[string]any{
		"url":   "https://pkg.go.dev",
		"label": "Packages",
		"tags":  []string{"go", "docs"},
	}), &out)
	if out.ID == 0 || len(out.Tags) != 2 {
		t.Fatalf("unexpected output %+v", out)
	}

	if res := callTool(t, srv, "add_bookmark", map[string]any{"url": "https://pkg.go.dev/"}); !res.IsError {
		t.Fatalf("expected duplicate error")
	}
	if res := callTool(t, srv, "add_bookmark", map[string]any{"url": "https://x.example", "tags": []string{"a|b"}}); !res.IsError {
		t.Fatalf("expected invalid tag error")
	}
	all, _ := api.AllBookmarks(context.Background())
	if len(all) != 1 {
		t.Fatalf("failed add must not store a bookmark, have %d", len(all))
	}
}

func TestTagBookmark(t *testing.T) {
	api := newTestLibrary(t)
	_, goID := seed(t, api)
	srv := NewServer(api, "test")

	var out bookmarkOutput
	decode(t, callTool(t, srv, "tag_bookmark", map[string]any{"id": goID, "tag": "fav"}), &out)
	if len(out.Tags) != 2 {
		t.Fatalf("expected 2 tags, got %v", out.Tags)
	}
	decode(t, callTool(t, srv, "tag_bookmark", map[string]any{"id": goID, "tag": "LANG", "remove": true}), &out)
	if len(out.Tags) != 1 || out.Tags[0] != "fav" {
		t.Fatalf("expected only fav, got %v", out.Tags)
	}
	decode(t, callTool(t, srv, "tag_bookmark", map[string]any{"id": goID, "tag": "unknown", "remove": true}), &out)
	if len(out.Tags) != 1 {
		t.Fatalf("removing an unknown tag must be a no-op, got %v", out.Tags)
	}
}

func TestListTagsAndFolders(t *testing.T) {
	api := newTestLibrary(t)
	seed(t, api)
	srv := NewServer(api, "test")

	var tags listTagsOutput
	decode(t, callTool(t, srv, "list_tags", map[string]any{}), &tags)
	if tags.Count != 1 || tags.Tags[0].Label != "lang" {
		t.Fatalf("unexpected tags %+v", tags)
	}

	var folders listFoldersOutput
	decode(t, callTool(t, srv, "list_folders", map[string]any{}), &folders)
	if folders.Count != 2 {
		t.Fatalf("expected 2 folders, got %+v", folders)
	}
	paths := map[string]bool{}
	for _, f := range folders.Folders {
		paths[f.Path] = true
	}
	if !paths["dev"] || !paths["dev/go"] {
		t.Fatalf("unexpected folder paths %v", paths)
	}
}
