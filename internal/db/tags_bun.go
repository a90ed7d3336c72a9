// Copyright (c) 2026 ToeiRei
// pybookmarks - bookmark management library
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/toeirei/pybookmarks/internal/db/tags"
	"github.com/toeirei/pybookmarks/internal/model"
	"github.com/uptrace/bun"
)

func checkTagLabel(label string) (string, error) {
	label = strings.TrimSpace(label)
	if label == "" || !tags.ValidLabel(label) {
		return "", fmt.Errorf("tag %q: %w", label, ErrInvalidLabel)
	}
	return label, nil
}

// AllTags returns every tag ordered by its case-folded label.
func (s *bunStore) AllTags(ctx context.Context) ([]model.Tag, error) {
	var tm []TagModel
	if err := s.bun.NewSelect().Model(&tm).OrderExpr("t.label_key, t.id").Scan(ctx); err != nil {
		return nil, err
	}
	return tagModelsToModels(tm), nil
}

// GetTag returns a tag by id.
func (s *bunStore) GetTag(ctx context.Context, id int) (*model.Tag, error) {
	var tm TagModel
	if err := s.bun.NewSelect().Model(&tm).Where("t.id = ?", id).Limit(1).Scan(ctx); err != nil {
		return nil, notFound("tag", id, err)
	}
	t := tagModelToModel(tm)
	return &t, nil
}

// GetTagByLabel returns the tag whose label matches case-insensitively.
func (s *bunStore) GetTagByLabel(ctx context.Context, label string) (*model.Tag, error) {
	var tm TagModel
	if err := s.bun.NewSelect().Model(&tm).Where("t.label_key = ?", tags.LabelKey(label)).Limit(1).Scan(ctx); err != nil {
		return nil, MapDBError(err)
	}
	t := tagModelToModel(tm)
	return &t, nil
}

// CreateTag inserts a new tag and returns its id.
func (s *bunStore) CreateTag(ctx context.Context, nt model.NewTag) (int, error) {
	label, err := checkTagLabel(nt.Label)
	if err != nil {
		return 0, err
	}
	tm := &TagModel{Label: label, LabelKey: tags.LabelKey(label), Color: nullString(nt.Color)}
	if _, err := s.bun.NewInsert().Model(tm).Exec(ctx); err != nil {
		return 0, MapDBError(err)
	}
	s.logAction(ctx, "ADD_TAG", fmt.Sprintf("id: %d, label: %s", tm.ID, label))
	return tm.ID, nil
}

// SaveTag updates label and color of an existing tag.
func (s *bunStore) SaveTag(ctx context.Context, t model.Tag) error {
	label, err := checkTagLabel(t.Label)
	if err != nil {
		return err
	}
	err = WithTx(ctx, s.bun, func(ctx context.Context, tx bun.Tx) error {
		if err := requireTag(ctx, tx, t.ID); err != nil {
			return err
		}
		_, err := tx.NewUpdate().Model((*TagModel)(nil)).
			Set("label = ?", label).
			Set("label_key = ?", tags.LabelKey(label)).
			Set("color = ?", nullString(t.Color)).
			Where("id = ?", t.ID).
			Exec(ctx)
		return MapDBError(err)
	})
	if err == nil {
		s.logAction(ctx, "UPDATE_TAG", fmt.Sprintf("id: %d, label: %s", t.ID, label))
	}
	return err
}

// DeleteTag removes a tag and detaches it from all bookmarks.
func (s *bunStore) DeleteTag(ctx context.Context, id int) error {
	var label string
	err := WithTx(ctx, s.bun, func(ctx context.Context, tx bun.Tx) error {
		var tm TagModel
		if err := tx.NewSelect().Model(&tm).Where("t.id = ?", id).Limit(1).Scan(ctx); err != nil {
			return notFound("tag", id, err)
		}
		label = tm.Label
		if _, err := tx.NewDelete().Model((*BookmarkTagModel)(nil)).Where("tag_id = ?", id).Exec(ctx); err != nil {
			return err
		}
		_, err := tx.NewDelete().Model((*TagModel)(nil)).Where("id = ?", id).Exec(ctx)
		return err
	})
	if err == nil {
		s.logAction(ctx, "DELETE_TAG", fmt.Sprintf("id: %d, label: %s", id, label))
	}
	return err
}

// AssignTag attaches a tag to a bookmark. Assigning an already attached tag
// is a no-op.
func (s *bunStore) AssignTag(ctx context.Context, bookmarkID, tagID int) error {
	inserted := false
	err := WithTx(ctx, s.bun, func(ctx context.Context, tx bun.Tx) error {
		if err := requireBookmark(ctx, tx, bookmarkID); err != nil {
			return err
		}
		if err := requireTag(ctx, tx, tagID); err != nil {
			return err
		}
		ok, err := tx.NewSelect().Model((*BookmarkTagModel)(nil)).
			Where("bt.bookmark_id = ? AND bt.tag_id = ?", bookmarkID, tagID).
			Exists(ctx)
		if err != nil || ok {
			return err
		}
		if _, err := tx.NewInsert().Model(&BookmarkTagModel{BookmarkID: bookmarkID, TagID: tagID}).Exec(ctx); err != nil {
			return MapDBError(err)
		}
		inserted = true
		return nil
	})
	if err == nil && inserted {
		s.logAction(ctx, "ASSIGN_TAG", fmt.Sprintf("bookmark: %d, tag: %d", bookmarkID, tagID))
	}
	return err
}

// RemoveTag detaches a tag from a bookmark. Removing a tag that is not
// attached is a no-op.
func (s *bunStore) RemoveTag(ctx context.Context, bookmarkID, tagID int) error {
	var removed int64
	err := WithTx(ctx, s.bun, func(ctx context.Context, tx bun.Tx) error {
		if err := requireBookmark(ctx, tx, bookmarkID); err != nil {
			return err
		}
		if err := requireTag(ctx, tx, tagID); err != nil {
			return err
		}
		res, err := tx.NewDelete().Model((*BookmarkTagModel)(nil)).
			Where("bookmark_id = ? AND tag_id = ?", bookmarkID, tagID).
			Exec(ctx)
		if err != nil {
			return err
		}
		removed, _ = res.RowsAffected()
		return nil
	})
	if err == nil && removed > 0 {
		s.logAction(ctx, "REMOVE_TAG", fmt.Sprintf("bookmark: %d, tag: %d", bookmarkID, tagID))
	}
	return err
}

// TagsForBookmark returns the tags attached to a bookmark.
func (s *bunStore) TagsForBookmark(ctx context.Context, bookmarkID int) ([]model.Tag, error) {
	if err := requireBookmark(ctx, s.bun, bookmarkID); err != nil {
		return nil, err
	}
	var tm []TagModel
	err := s.bun.NewSelect().Model(&tm).
		Join("JOIN bookmark_tags AS bt ON bt.tag_id = t.id").
		Where("bt.bookmark_id = ?", bookmarkID).
		OrderExpr("t.label_key").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return tagModelsToModels(tm), nil
}

// BookmarksForTag returns the bookmarks a tag is attached to.
func (s *bunStore) BookmarksForTag(ctx context.Context, tagID int) ([]model.Bookmark, error) {
	if err := requireTag(ctx, s.bun, tagID); err != nil {
		return nil, err
	}
	var bm []BookmarkModel
	err := s.bun.NewSelect().Model(&bm).
		Join("JOIN bookmark_tags AS bt ON bt.bookmark_id = b.id").
		Where("bt.tag_id = ?", tagID).
		OrderExpr("b.id").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return bookmarkModelsToModels(bm), nil
}
