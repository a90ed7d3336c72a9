// Copyright (c) 2026 ToeiRei
// pybookmarks - bookmark management library
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"testing"

	"github.com/toeirei/pybookmarks/internal/model"
)

func TestExportImportRoundTrip(t *testing.T) {
	var exported *model.BackupData
	WithTestStore(t, func(ctx context.Context, s *SqliteStore) {
		parent := mustCreateFolder(t, ctx, s, "Parent", nil)
		child := mustCreateFolder(t, ctx, s, "Child", &parent)
		b := mustCreateBookmark(t, ctx, s, model.NewBookmark{URL: "https://backup.example", Label: "Backup", Folder: &child, Starred: true})
		tag := mustCreateTag(t, ctx, s, "keep")
		if err := s.AssignTag(ctx, b, tag); err != nil {
			t.Fatalf("AssignTag failed: %v", err)
		}
		var err error
		exported, err = s.ExportData(ctx)
		if err != nil {
			t.Fatalf("ExportData failed: %v", err)
		}
	})
	if exported.SchemaVersion != model.CurrentSchemaVersion {
		t.Fatalf("unexpected schema version %d", exported.SchemaVersion)
	}
	if len(exported.Folders) != 2 || len(exported.Bookmarks) != 1 || len(exported.Tags) != 1 || len(exported.BookmarkTags) != 1 {
		t.Fatalf("unexpected export sizes: %+v", exported)
	}
	if len(exported.AuditLogEntries) == 0 {
		t.Fatalf("expected audit entries in export")
	}

	// Put children before parents to exercise the ordering on import.
	exported.Folders[0], exported.Folders[1] = exported.Folders[1], exported.Folders[0]

	t.Run("restore", func(t *testing.T) {
		WithTestStore(t, func(ctx context.Context, s *SqliteStore) {
			mustCreateBookmark(t, ctx, s, model.NewBookmark{URL: "https://wiped.example"})
			if err := s.ImportData(ctx, exported); err != nil {
				t.Fatalf("ImportData failed: %v", err)
			}
			all, err := s.AllBookmarks(ctx)
			if err != nil {
				t.Fatalf("AllBookmarks failed: %v", err)
			}
			if len(all) != 1 || all[0].URL != "https://backup.example/" || !all[0].Starred {
				t.Fatalf("unexpected bookmarks after restore: %+v", all)
			}
			tags, err := s.TagsForBookmark(ctx, all[0].ID)
			if err != nil || len(tags) != 1 || tags[0].Label != "keep" {
				t.Fatalf("unexpected tags after restore: %+v, %v", tags, err)
			}
			id, err := s.CreateBookmark(ctx, model.NewBookmark{URL: "https://after.example"})
			if err != nil {
				t.Fatalf("CreateBookmark after restore failed: %v", err)
			}
			if id <= all[0].ID {
				t.Fatalf("new id %d collides with restored id %d", id, all[0].ID)
			}
		})
	})

	t.Run("integrate", func(t *testing.T) {
		WithTestStore(t, func(ctx context.Context, s *SqliteStore) {
			existing := mustCreateBookmark(t, ctx, s, model.NewBookmark{URL: "https://backup.example", Label: "Local"})
			if err := s.IntegrateData(ctx, exported); err != nil {
				t.Fatalf("IntegrateData failed: %v", err)
			}
			b, err := s.GetBookmark(ctx, existing)
			if err != nil || b.Label != "Local" {
				t.Fatalf("existing bookmark must win on conflict, got %+v, %v", b, err)
			}
			folders, err := s.AllFolders(ctx)
			if err != nil || len(folders) != 2 {
				t.Fatalf("expected merged folders, got %+v, %v", folders, err)
			}
			if _, err := s.GetTagByLabel(ctx, "KEEP"); err != nil {
				t.Fatalf("expected merged tag: %v", err)
			}
		})
	})
}

func TestFoldersParentsFirst(t *testing.T) {
	one, two := 1, 2
	in := []model.Folder{
		{ID: 3, Label: "c", Parent: &two},
		{ID: 2, Label: "b", Parent: &one},
		{ID: 1, Label: "a"},
		{ID: 4, Label: "orphan", Parent: model.IntPtr(99)},
	}
	out := foldersParentsFirst(in)
	if len(out) != len(in) {
		t.Fatalf("expected %d folders, got %d", len(in), len(out))
	}
	pos := map[int]int{}
	for i, f := range out {
		pos[f.ID] = i
	}
	if !(pos[1] < pos[2] && pos[2] < pos[3]) {
		t.Fatalf("parents must precede children: %+v", out)
	}

	cyclic := []model.Folder{{ID: 1, Parent: &two}, {ID: 2, Parent: &one}}
	if got := foldersParentsFirst(cyclic); len(got) != 2 {
		t.Fatalf("cyclic input must still be returned, got %+v", got)
	}
}

func TestIntegrateRemapsOverlappingIDs(t *testing.T) {
	var exported *model.BackupData
	t.Run("source", func(t *testing.T) {
		WithTestStore(t, func(ctx context.Context, s *SqliteStore) {
			a := mustCreateBookmark(t, ctx, s, model.NewBookmark{URL: "https://a.example"})
			secret := mustCreateTag(t, ctx, s, "secret")
			if err := s.AssignTag(ctx, a, secret); err != nil {
				t.Fatalf("AssignTag failed: %v", err)
			}
			folder := mustCreateFolder(t, ctx, s, "SrcFolder", nil)
			mustCreateFolder(t, ctx, s, "Nested", &folder)
			mustCreateBookmark(t, ctx, s, model.NewBookmark{URL: "https://c.example", Folder: &folder})
			var err error
			if exported, err = s.ExportData(ctx); err != nil {
				t.Fatalf("ExportData failed: %v", err)
			}
		})
	})

	t.Run("destination", func(t *testing.T) {
		WithTestStore(t, func(ctx context.Context, s *SqliteStore) {
			b := mustCreateBookmark(t, ctx, s, model.NewBookmark{URL: "https://b.example"})
			public := mustCreateTag(t, ctx, s, "public")
			dst := mustCreateFolder(t, ctx, s, "DstFolder", nil)
			if b != 1 || public != 1 || dst != 1 {
				t.Fatalf("expected overlapping ids, got %d %d %d", b, public, dst)
			}

			if err := s.IntegrateData(ctx, exported); err != nil {
				t.Fatalf("IntegrateData failed: %v", err)
			}
			// Merging twice must not duplicate anything.
			if err := s.IntegrateData(ctx, exported); err != nil {
				t.Fatalf("second IntegrateData failed: %v", err)
			}

			all, err := s.AllBookmarks(ctx)
			if err != nil || len(all) != 3 {
				t.Fatalf("expected 3 bookmarks, got %+v, %v", all, err)
			}
			folders, err := s.AllFolders(ctx)
			if err != nil || len(folders) != 3 {
				t.Fatalf("expected 3 folders, got %+v, %v", folders, err)
			}

			a, err := s.GetBookmarkByURL(ctx, "https://a.example")
			if err != nil {
				t.Fatalf("a.example lost in merge: %v", err)
			}
			aTags, err := s.TagsForBookmark(ctx, a.ID)
			if err != nil || len(aTags) != 1 || aTags[0].Label != "secret" {
				t.Fatalf("unexpected tags on a.example: %+v, %v", aTags, err)
			}
			bTags, err := s.TagsForBookmark(ctx, b)
			if err != nil || len(bTags) != 0 {
				t.Fatalf("b.example must keep its own tags, got %+v, %v", bTags, err)
			}

			c, err := s.GetBookmarkByURL(ctx, "https://c.example")
			if err != nil || c.Folder == nil {
				t.Fatalf("unexpected c.example: %+v, %v", c, err)
			}
			f, err := s.GetFolder(ctx, *c.Folder)
			if err != nil || f.Label != "SrcFolder" {
				t.Fatalf("c.example should be in SrcFolder, got %+v, %v", f, err)
			}
			var nested *model.Folder
			for i := range folders {
				if folders[i].Label == "Nested" {
					nested = &folders[i]
				}
			}
			if nested == nil || nested.Parent == nil || *nested.Parent != f.ID {
				t.Fatalf("Nested should hang below SrcFolder, got %+v", nested)
			}
		})
	})
}
