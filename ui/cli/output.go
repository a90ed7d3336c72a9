// Copyright (c) 2026 ToeiRei
// pybookmarks - bookmark management library
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"golang.org/x/term"

	"github.com/toeirei/pybookmarks/internal/i18n"
	"github.com/toeirei/pybookmarks/internal/tui"
	"github.com/toeirei/pybookmarks/pybookmarks"
)

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || id <= 0 {
		return 0, errors.New(i18n.T("cli.error_invalid_id", s))
	}
	return id, nil
}

// resolveTag finds a tag by id or, when ref is not a number, by label.
func resolveTag(ctx context.Context, ref string) (pybookmarks.Tag, error) {
	if id, err := strconv.Atoi(ref); err == nil {
		return api.FindTag(ctx, id)
	}
	return api.FindTagByLabel(ctx, ref)
}

// resolveFolder finds a folder by id or by its slash separated path, for
// example "work/docs". Path segments are compared ignoring case.
func resolveFolder(ctx context.Context, ref string) (pybookmarks.Folder, error) {
	if id, err := strconv.Atoi(ref); err == nil {
		return api.FindFolder(ctx, id)
	}
	folders, err := api.AllFolders(ctx)
	if err != nil {
		return pybookmarks.Folder{}, err
	}
	want := strings.Trim(ref, "/")
	for _, f := range folders {
		if strings.EqualFold(strings.Join(pybookmarks.FolderPath(folders, f.ID), "/"), want) {
			return f, nil
		}
	}
	return pybookmarks.Folder{}, fmt.Errorf("folder %q: %w", ref, pybookmarks.ErrNotFound)
}

// useColor reports whether w is a terminal that should get styled output.
func useColor(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func renderTags(tags []pybookmarks.Tag, color bool) string {
	parts := make([]string, 0, len(tags))
	for _, t := range tags {
		if color {
			parts = append(parts, tui.RenderTag(t.Label, t.Color))
		} else {
			parts = append(parts, "#"+t.Label)
		}
	}
	return strings.Join(parts, " ")
}

// bookmarkView is the JSON form of a bookmark with its tags and folder path.
type bookmarkView struct {
	pybookmarks.Bookmark
	FolderPath string   `json:"folder_path,omitempty"`
	Tags       []string `json:"tags"`
}

func bookmarkViews(ctx context.Context, bms []pybookmarks.Bookmark) ([]bookmarkView, [][]pybookmarks.Tag, error) {
	folders, err := api.AllFolders(ctx)
	if err != nil {
		return nil, nil, err
	}
	views := make([]bookmarkView, 0, len(bms))
	allTags := make([][]pybookmarks.Tag, 0, len(bms))
	for _, b := range bms {
		tags, err := api.BookmarkTags(ctx, b.ID)
		if err != nil {
			return nil, nil, err
		}
		v := bookmarkView{Bookmark: b, Tags: []string{}}
		if b.Folder != nil {
			v.FolderPath = strings.Join(pybookmarks.FolderPath(folders, *b.Folder), "/")
		}
		for _, t := range tags {
			v.Tags = append(v.Tags, t.Label)
		}
		views = append(views, v)
		allTags = append(allTags, tags)
	}
	return views, allTags, nil
}

// printBookmarks writes bms as a table, or as JSON when asJSON is set.
func printBookmarks(ctx context.Context, w io.Writer, bms []pybookmarks.Bookmark, asJSON bool) error {
	views, tags, err := bookmarkViews(ctx, bms)
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(w, views)
	}
	if len(views) == 0 {
		_, _ = fmt.Fprintln(w, i18n.T("bookmark.list_empty"))
		return nil
	}
	color := useColor(w)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, v := range views {
		star := " "
		if v.Starred {
			star = "*"
		}
		folder := ""
		if v.FolderPath != "" {
			folder = "[" + v.FolderPath + "]"
		}
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", v.ID, star, v.Title(), v.URL, folder, renderTags(tags[i], color))
	}
	return tw.Flush()
}

func printBookmark(ctx context.Context, w io.Writer, b pybookmarks.Bookmark) error {
	views, tags, err := bookmarkViews(ctx, []pybookmarks.Bookmark{b})
	if err != nil {
		return err
	}
	v := views[0]
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "%s\t%d\n", i18n.T("field.id"), v.ID)
	_, _ = fmt.Fprintf(tw, "%s\t%s\n", i18n.T("field.url"), v.URL)
	_, _ = fmt.Fprintf(tw, "%s\t%s\n", i18n.T("field.label"), v.Label)
	_, _ = fmt.Fprintf(tw, "%s\t%s\n", i18n.T("field.folder"), v.FolderPath)
	_, _ = fmt.Fprintf(tw, "%s\t%t\n", i18n.T("field.starred"), v.Starred)
	_, _ = fmt.Fprintf(tw, "%s\t%s\n", i18n.T("field.tags"), renderTags(tags[0], useColor(w)))
	_, _ = fmt.Fprintf(tw, "%s\t%s\n", i18n.T("field.created"), v.CreatedAt.Local().Format(time.DateTime))
	_, _ = fmt.Fprintf(tw, "%s\t%s\n", i18n.T("field.updated"), v.UpdatedAt.Local().Format(time.DateTime))
	return tw.Flush()
}

func printTags(w io.Writer, tags []pybookmarks.Tag, asJSON bool) error {
	if asJSON {
		if tags == nil {
			tags = []pybookmarks.Tag{}
		}
		return writeJSON(w, tags)
	}
	if len(tags) == 0 {
		_, _ = fmt.Fprintln(w, i18n.T("tag.list_empty"))
		return nil
	}
	color := useColor(w)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, t := range tags {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\n", t.ID, renderTags([]pybookmarks.Tag{t}, color), t.Color)
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
