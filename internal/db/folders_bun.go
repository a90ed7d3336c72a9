// Copyright (c) 2026 ToeiRei
// pybookmarks - bookmark management library
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/toeirei/pybookmarks/internal/model"
	"github.com/uptrace/bun"
)

func checkFolderLabel(label string) (string, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return "", fmt.Errorf("folder: %w", ErrInvalidLabel)
	}
	return label, nil
}

// AllFolders returns every folder ordered by label.
func (s *bunStore) AllFolders(ctx context.Context) ([]model.Folder, error) {
	var fm []FolderModel
	if err := s.bun.NewSelect().Model(&fm).OrderExpr("f.label, f.id").Scan(ctx); err != nil {
		return nil, err
	}
	return folderModelsToModels(fm), nil
}

// GetFolder returns a folder by id.
func (s *bunStore) GetFolder(ctx context.Context, id int) (*model.Folder, error) {
	var fm FolderModel
	if err := s.bun.NewSelect().Model(&fm).Where("f.id = ?", id).Limit(1).Scan(ctx); err != nil {
		return nil, notFound("folder", id, err)
	}
	f := folderModelToModel(fm)
	return &f, nil
}

// CreateFolder inserts a folder below parent (or at the root) and returns its id.
func (s *bunStore) CreateFolder(ctx context.Context, nf model.NewFolder) (int, error) {
	label, err := checkFolderLabel(nf.Label)
	if err != nil {
		return 0, err
	}
	var id int
	err = WithTx(ctx, s.bun, func(ctx context.Context, tx bun.Tx) error {
		if nf.Parent != nil {
			if err := requireFolder(ctx, tx, *nf.Parent); err != nil {
				return err
			}
		}
		fm := &FolderModel{Label: label, ParentID: nullID(nf.Parent)}
		if _, err := tx.NewInsert().Model(fm).Exec(ctx); err != nil {
			return MapDBError(err)
		}
		id = fm.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.logAction(ctx, "ADD_FOLDER", fmt.Sprintf("id: %d, label: %s", id, label))
	return id, nil
}

// SaveFolder renames or moves a folder. Moving a folder below itself or one
// of its descendants fails with ErrFolderCycle.
func (s *bunStore) SaveFolder(ctx context.Context, f model.Folder) error {
	label, err := checkFolderLabel(f.Label)
	if err != nil {
		return err
	}
	err = WithTx(ctx, s.bun, func(ctx context.Context, tx bun.Tx) error {
		if err := requireFolder(ctx, tx, f.ID); err != nil {
			return err
		}
		if f.Parent != nil {
			if err := requireFolder(ctx, tx, *f.Parent); err != nil {
				return err
			}
			if err := checkFolderCycle(ctx, tx, f.ID, *f.Parent); err != nil {
				return err
			}
		}
		_, err := tx.NewUpdate().Model((*FolderModel)(nil)).
			Set("label = ?", label).
			Set("parent_id = ?", nullID(f.Parent)).
			Where("id = ?", f.ID).
			Exec(ctx)
		return err
	})
	if err == nil {
		s.logAction(ctx, "UPDATE_FOLDER", fmt.Sprintf("id: %d, label: %s", f.ID, label))
	}
	return err
}

// checkFolderCycle walks up from parent and fails when it reaches id.
func checkFolderCycle(ctx context.Context, db bun.IDB, id, parent int) error {
	var fm []FolderModel
	if err := db.NewSelect().Model(&fm).Column("id", "parent_id").Scan(ctx); err != nil {
		return err
	}
	parents := make(map[int]*int, len(fm))
	for _, f := range fm {
		parents[f.ID] = idPtr(f.ParentID)
	}
	cur := &parent
	for steps := 0; cur != nil && steps <= len(parents); steps++ {
		if *cur == id {
			return fmt.Errorf("folder %d: %w", id, ErrFolderCycle)
		}
		cur = parents[*cur]
	}
	return nil
}

// DeleteFolder removes a folder. Its sub folders and bookmarks move up to the
// deleted folder's parent.
func (s *bunStore) DeleteFolder(ctx context.Context, id int) error {
	var label string
	err := WithTx(ctx, s.bun, func(ctx context.Context, tx bun.Tx) error {
		var fm FolderModel
		if err := tx.NewSelect().Model(&fm).Where("f.id = ?", id).Limit(1).Scan(ctx); err != nil {
			return notFound("folder", id, err)
		}
		label = fm.Label
		if _, err := tx.NewUpdate().Model((*FolderModel)(nil)).
			Set("parent_id = ?", fm.ParentID).
			Where("parent_id = ?", id).
			Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewUpdate().Model((*BookmarkModel)(nil)).
			Set("folder_id = ?", fm.ParentID).
			Set("updated_at = ?", s.now()).
			Where("folder_id = ?", id).
			Exec(ctx); err != nil {
			return err
		}
		_, err := tx.NewDelete().Model((*FolderModel)(nil)).Where("id = ?", id).Exec(ctx)
		return err
	})
	if err == nil {
		s.logAction(ctx, "DELETE_FOLDER", fmt.Sprintf("id: %d, label: %s", id, label))
	}
	return err
}
