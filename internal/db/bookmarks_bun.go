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

// AllBookmarks returns every bookmark ordered by id.
func (s *bunStore) AllBookmarks(ctx context.Context) ([]model.Bookmark, error) {
	var bm []BookmarkModel
	if err := s.bun.NewSelect().Model(&bm).OrderExpr("b.id").Scan(ctx); err != nil {
		return nil, err
	}
	return bookmarkModelsToModels(bm), nil
}

// GetBookmark returns a single bookmark by id.
func (s *bunStore) GetBookmark(ctx context.Context, id int) (*model.Bookmark, error) {
	var bm BookmarkModel
	if err := s.bun.NewSelect().Model(&bm).Where("b.id = ?", id).Limit(1).Scan(ctx); err != nil {
		return nil, notFound("bookmark", id, err)
	}
	m := bookmarkModelToModel(bm)
	return &m, nil
}

// GetBookmarkByURL looks a bookmark up by its normalized url.
func (s *bunStore) GetBookmarkByURL(ctx context.Context, rawURL string) (*model.Bookmark, error) {
	_, hash, err := normalizeAndHash(rawURL)
	if err != nil {
		return nil, err
	}
	var bm BookmarkModel
	if err := s.bun.NewSelect().Model(&bm).Where("b.url_hash = ?", hash).Limit(1).Scan(ctx); err != nil {
		return nil, MapDBError(err)
	}
	m := bookmarkModelToModel(bm)
	return &m, nil
}

// CreateBookmark inserts a new bookmark and returns its id. The url must be
// unique after normalization.
func (s *bunStore) CreateBookmark(ctx context.Context, nb model.NewBookmark) (int, error) {
	normalized, hash, err := normalizeAndHash(nb.URL)
	if err != nil {
		return 0, err
	}
	var id int
	err = WithTx(ctx, s.bun, func(ctx context.Context, tx bun.Tx) error {
		if nb.Folder != nil {
			if err := requireFolder(ctx, tx, *nb.Folder); err != nil {
				return err
			}
		}
		now := s.now()
		created := now
		if !nb.CreatedAt.IsZero() {
			created = nb.CreatedAt.UTC()
		}
		bm := &BookmarkModel{
			URL:       normalized,
			URLHash:   hash,
			Label:     nullString(strings.TrimSpace(nb.Label)),
			FolderID:  nullID(nb.Folder),
			Starred:   nb.Starred,
			CreatedAt: created,
			UpdatedAt: now,
		}
		if _, err := tx.NewInsert().Model(bm).Exec(ctx); err != nil {
			return MapDBError(err)
		}
		id = bm.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.logAction(ctx, "ADD_BOOKMARK", fmt.Sprintf("id: %d, url: %s", id, normalized))
	return id, nil
}

// SaveBookmark writes url, label and folder of b. The starred flag is only
// changed through SetStarred.
func (s *bunStore) SaveBookmark(ctx context.Context, b model.Bookmark) error {
	normalized, hash, err := normalizeAndHash(b.URL)
	if err != nil {
		return err
	}
	err = WithTx(ctx, s.bun, func(ctx context.Context, tx bun.Tx) error {
		if err := requireBookmark(ctx, tx, b.ID); err != nil {
			return err
		}
		if b.Folder != nil {
			if err := requireFolder(ctx, tx, *b.Folder); err != nil {
				return err
			}
		}
		_, err := tx.NewUpdate().Model((*BookmarkModel)(nil)).
			Set("url = ?", normalized).
			Set("url_hash = ?", hash).
			Set("label = ?", nullString(strings.TrimSpace(b.Label))).
			Set("folder_id = ?", nullID(b.Folder)).
			Set("updated_at = ?", s.now()).
			Where("id = ?", b.ID).
			Exec(ctx)
		return MapDBError(err)
	})
	if err == nil {
		s.logAction(ctx, "UPDATE_BOOKMARK", fmt.Sprintf("id: %d, url: %s", b.ID, normalized))
	}
	return err
}

// DeleteBookmark removes a bookmark and its tag assignments.
func (s *bunStore) DeleteBookmark(ctx context.Context, id int) error {
	var url string
	err := WithTx(ctx, s.bun, func(ctx context.Context, tx bun.Tx) error {
		var bm BookmarkModel
		if err := tx.NewSelect().Model(&bm).Where("b.id = ?", id).Limit(1).Scan(ctx); err != nil {
			return notFound("bookmark", id, err)
		}
		url = bm.URL
		if _, err := tx.NewDelete().Model((*BookmarkTagModel)(nil)).Where("bookmark_id = ?", id).Exec(ctx); err != nil {
			return err
		}
		_, err := tx.NewDelete().Model((*BookmarkModel)(nil)).Where("id = ?", id).Exec(ctx)
		return err
	})
	if err == nil {
		s.logAction(ctx, "DELETE_BOOKMARK", fmt.Sprintf("id: %d, url: %s", id, url))
	}
	return err
}

// SetStarred sets or clears the starred flag of a bookmark.
func (s *bunStore) SetStarred(ctx context.Context, id int, starred bool) error {
	err := WithTx(ctx, s.bun, func(ctx context.Context, tx bun.Tx) error {
		if err := requireBookmark(ctx, tx, id); err != nil {
			return err
		}
		_, err := tx.NewUpdate().Model((*BookmarkModel)(nil)).
			Set("starred = ?", starred).
			Set("updated_at = ?", s.now()).
			Where("id = ?", id).
			Exec(ctx)
		return err
	})
	if err == nil {
		s.logAction(ctx, "STAR_BOOKMARK", fmt.Sprintf("id: %d, starred: %t", id, starred))
	}
	return err
}

// StarredBookmarks returns all starred bookmarks.
func (s *bunStore) StarredBookmarks(ctx context.Context) ([]model.Bookmark, error) {
	var bm []BookmarkModel
	if err := s.bun.NewSelect().Model(&bm).Where("b.starred = ?", true).OrderExpr("b.id").Scan(ctx); err != nil {
		return nil, err
	}
	return bookmarkModelsToModels(bm), nil
}

// BookmarksInFolder returns the bookmarks directly inside a folder. A nil
// folder id selects top level bookmarks.
func (s *bunStore) BookmarksInFolder(ctx context.Context, folderID *int) ([]model.Bookmark, error) {
	var bm []BookmarkModel
	q := s.bun.NewSelect().Model(&bm)
	if folderID == nil {
		q = q.Where("b.folder_id IS NULL")
	} else {
		if err := requireFolder(ctx, s.bun, *folderID); err != nil {
			return nil, err
		}
		q = q.Where("b.folder_id = ?", *folderID)
	}
	if err := q.OrderExpr("b.id").Scan(ctx); err != nil {
		return nil, err
	}
	return bookmarkModelsToModels(bm), nil
}

// SearchBookmarks performs a portable search using tokenized LIKE matching
// across url, label and tag labels. "tag:<expr>" tokens filter by tag
// expression and "is:starred" restricts to starred bookmarks.
func (s *bunStore) SearchBookmarks(ctx context.Context, query string) ([]model.Bookmark, error) {
	st := ParseSearchQuery(query)
	var bm []BookmarkModel
	q := s.bun.NewSelect().Model(&bm)
	for _, w := range st.Words {
		like := likePattern(w)
		// label_key is case folded, so the tag arm compares folded forms.
		tagLike := likePattern(tags.LabelKey(w))
		q = q.Where("(LOWER(b.url) LIKE ? ESCAPE '!' OR LOWER(COALESCE(b.label, '')) LIKE ? ESCAPE '!' OR "+
			"EXISTS (SELECT 1 FROM bookmark_tags AS bt JOIN tags AS t ON t.id = bt.tag_id WHERE bt.bookmark_id = b.id AND t.label_key LIKE ? ESCAPE '!'))",
			like, like, tagLike)
	}
	for _, raw := range st.TagExprs {
		expr, err := tags.Parse(raw)
		if err != nil {
			return nil, err
		}
		where, args := tags.SQL(expr, "b")
		q = q.Where(where, args...)
	}
	if st.Starred {
		q = q.Where("b.starred = ?", true)
	}
	if err := q.OrderExpr("b.starred DESC, b.id").Scan(ctx); err != nil {
		return nil, err
	}
	return bookmarkModelsToModels(bm), nil
}
