// Copyright (c) 2026 ToeiRei
// pybookmarks - bookmark management library
// This source code is licensed under the MIT license found in the LICENSE file.

package pybookmarks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/toeirei/pybookmarks/internal/logging"
	"github.com/toeirei/pybookmarks/internal/model"
	"github.com/toeirei/pybookmarks/internal/netscape"
)

// ImportReport summarizes an HTML import.
type ImportReport struct {
	FoldersCreated   int
	BookmarksCreated int
	TagsAssigned     int
	// Duplicates counts links whose url was already stored.
	Duplicates int
	// Invalid counts links that could not be stored.
	Invalid int
}

// ImportHTML reads a Netscape bookmark file. Folders are matched by label
// below the same parent and created when missing. Links whose url is already
// stored are skipped.
func (a *API) ImportHTML(ctx context.Context, r io.Reader) (ImportReport, error) {
	var rep ImportReport
	doc, err := netscape.Parse(r)
	if err != nil {
		return rep, err
	}
	folders, err := a.store.AllFolders(ctx)
	if err != nil {
		return rep, err
	}
	err = a.importFolder(ctx, &doc.Root, nil, folders, &rep)
	return rep, err
}

func childFolder(folders []Folder, parent *int, label string) (Folder, bool) {
	for _, f := range folders {
		if model.SameIntPtr(f.Parent, parent) && strings.EqualFold(f.Label, label) {
			return f, true
		}
	}
	return Folder{}, false
}

func (a *API) importFolder(ctx context.Context, nf *netscape.Folder, parent *int, folders []Folder, rep *ImportReport) error {
	for _, l := range nf.Links {
		if err := a.importLink(ctx, l, parent, rep); err != nil {
			return err
		}
	}
	for _, sub := range nf.Folders {
		label := strings.TrimSpace(sub.Title)
		if label == "" {
			label = "Unnamed"
		}
		f, ok := childFolder(folders, parent, label)
		if !ok {
			created, err := a.CreateFolder(ctx, NewFolder{Label: label, Parent: parent})
			if err != nil {
				return fmt.Errorf("import folder %q: %w", label, err)
			}
			f = created
			folders = append(folders, f)
			rep.FoldersCreated++
		}
		if err := a.importFolder(ctx, sub, model.IntPtr(f.ID), folders, rep); err != nil {
			return err
		}
	}
	return nil
}

func (a *API) importLink(ctx context.Context, l netscape.Link, folder *int, rep *ImportReport) error {
	b, err := a.CreateBookmark(ctx, NewBookmark{URL: l.URL, Label: l.Title, Folder: folder, CreatedAt: l.AddDate})
	switch {
	case errors.Is(err, ErrDuplicate):
		rep.Duplicates++
		return nil
	case errors.Is(err, ErrInvalidURL):
		logging.Debugf("import: skipping %q: %v", l.URL, err)
		rep.Invalid++
		return nil
	case err != nil:
		return fmt.Errorf("import %q: %w", l.URL, err)
	}
	rep.BookmarksCreated++
	for _, label := range l.Tags {
		t, err := a.EnsureTag(ctx, label)
		if errors.Is(err, ErrInvalidLabel) {
			logging.Debugf("import: skipping tag %q on %s", label, b.URL)
			continue
		}
		if err != nil {
			return err
		}
		if err := a.AssignTag(ctx, b.ID, t.ID); err != nil {
			return err
		}
		rep.TagsAssigned++
	}
	return nil
}

// ExportHTML writes all folders and bookmarks as a Netscape bookmark file.
func (a *API) ExportHTML(ctx context.Context, w io.Writer) error {
	folders, err := a.store.AllFolders(ctx)
	if err != nil {
		return err
	}
	bookmarks, err := a.store.AllBookmarks(ctx)
	if err != nil {
		return err
	}

	byFolder := map[int][]netscape.Link{}
	var top []netscape.Link
	for _, b := range bookmarks {
		tags, err := a.store.TagsForBookmark(ctx, b.ID)
		if err != nil {
			return err
		}
		l := netscape.Link{URL: b.URL, Title: b.Label, AddDate: b.CreatedAt}
		for _, t := range tags {
			l.Tags = append(l.Tags, t.Label)
		}
		if b.Folder == nil {
			top = append(top, l)
		} else {
			byFolder[*b.Folder] = append(byFolder[*b.Folder], l)
		}
	}

	var convert func(nodes []*FolderNode) []*netscape.Folder
	convert = func(nodes []*FolderNode) []*netscape.Folder {
		out := make([]*netscape.Folder, 0, len(nodes))
		for _, n := range nodes {
			out = append(out, &netscape.Folder{
				Title:   n.Folder.Label,
				Folders: convert(n.Children),
				Links:   byFolder[n.Folder.ID],
			})
		}
		return out
	}
	doc := &netscape.Document{
		Title: "Bookmarks",
		Root:  netscape.Folder{Folders: convert(BuildFolderTree(folders)), Links: top},
	}
	return netscape.Write(w, doc)
}

// Backup exports the whole database.
func (a *API) Backup(ctx context.Context) (*BackupData, error) {
	return a.store.ExportData(ctx)
}

// Restore loads a backup. With full set the database content is replaced,
// otherwise the backup is merged: bookmarks are matched by url, tags by label
// and folders by label and parent, and matched local rows win.
func (a *API) Restore(ctx context.Context, data *BackupData, full bool) error {
	if data == nil {
		return errors.New("restore: no backup data")
	}
	if data.SchemaVersion > model.CurrentSchemaVersion {
		return fmt.Errorf("restore: backup schema version %d is newer than supported version %d", data.SchemaVersion, model.CurrentSchemaVersion)
	}
	if full {
		return a.store.ImportData(ctx, data)
	}
	return a.store.IntegrateData(ctx, data)
}
