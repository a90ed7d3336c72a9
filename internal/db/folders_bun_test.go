// Copyright (c) 2026 ToeiRei
// pybookmarks - bookmark management library
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"errors"
	"testing"

	"github.com/toeirei/pybookmarks/internal/model"
)

func TestFolderHierarchy(t *testing.T) {
	WithTestStore(t, func(ctx context.Context, s *SqliteStore) {
		root := mustCreateFolder(t, ctx, s, "Root", nil)
		child := mustCreateFolder(t, ctx, s, "Child", &root)
		grandchild := mustCreateFolder(t, ctx, s, "Grandchild", &child)

		if _, err := s.CreateFolder(ctx, model.NewFolder{Label: ""}); !errors.Is(err, ErrInvalidLabel) {
			t.Fatalf("expected ErrInvalidLabel, got %v", err)
		}

		// Moving root below its grandchild would create a cycle.
		if err := s.SaveFolder(ctx, model.Folder{ID: root, Label: "Root", Parent: &grandchild}); !errors.Is(err, ErrFolderCycle) {
			t.Fatalf("expected ErrFolderCycle, got %v", err)
		}
		if err := s.SaveFolder(ctx, model.Folder{ID: root, Label: "Root", Parent: &root}); !errors.Is(err, ErrFolderCycle) {
			t.Fatalf("expected ErrFolderCycle for self parent, got %v", err)
		}

		// Moving grandchild to the top level is fine.
		if err := s.SaveFolder(ctx, model.Folder{ID: grandchild, Label: "Moved"}); err != nil {
			t.Fatalf("SaveFolder failed: %v", err)
		}
		f, err := s.GetFolder(ctx, grandchild)
		if err != nil || f.Parent != nil || f.Label != "Moved" {
			t.Fatalf("GetFolder after move: got %+v, %v", f, err)
		}
	})
}

func TestDeleteFolder_ReparentsContents(t *testing.T) {
	WithTestStore(t, func(ctx context.Context, s *SqliteStore) {
		root := mustCreateFolder(t, ctx, s, "Root", nil)
		mid := mustCreateFolder(t, ctx, s, "Mid", &root)
		leaf := mustCreateFolder(t, ctx, s, "Leaf", &mid)
		b := mustCreateBookmark(t, ctx, s, model.NewBookmark{URL: "https://folder.example", Folder: &mid})

		if err := s.DeleteFolder(ctx, mid); err != nil {
			t.Fatalf("DeleteFolder failed: %v", err)
		}
		if _, err := s.GetFolder(ctx, mid); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		f, err := s.GetFolder(ctx, leaf)
		if err != nil || !model.SameIntPtr(f.Parent, &root) {
			t.Fatalf("leaf should move to root, got %+v, %v", f, err)
		}
		bm, err := s.GetBookmark(ctx, b)
		if err != nil || !model.SameIntPtr(bm.Folder, &root) {
			t.Fatalf("bookmark should move to root, got %+v, %v", bm, err)
		}

		if err := s.DeleteFolder(ctx, root); err != nil {
			t.Fatalf("DeleteFolder(root) failed: %v", err)
		}
		bm, _ = s.GetBookmark(ctx, b)
		if bm.Folder != nil {
			t.Fatalf("bookmark should be top level, got folder %v", *bm.Folder)
		}
	})
}
