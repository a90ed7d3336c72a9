// Copyright (c) 2026 ToeiRei
// pybookmarks - bookmark management library
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/toeirei/pybookmarks/internal/db/tags"
	"github.com/toeirei/pybookmarks/internal/model"
	"github.com/uptrace/bun"
)

// ExportData reads every table inside a single transaction.
func (s *bunStore) ExportData(ctx context.Context) (*model.BackupData, error) {
	data := &model.BackupData{SchemaVersion: model.CurrentSchemaVersion}
	err := WithTx(ctx, s.bun, func(ctx context.Context, tx bun.Tx) error {
		var fm []FolderModel
		if err := tx.NewSelect().Model(&fm).OrderExpr("f.id").Scan(ctx); err != nil {
			return fmt.Errorf("export folders: %w", err)
		}
		data.Folders = folderModelsToModels(fm)

		var tm []TagModel
		if err := tx.NewSelect().Model(&tm).OrderExpr("t.id").Scan(ctx); err != nil {
			return fmt.Errorf("export tags: %w", err)
		}
		data.Tags = tagModelsToModels(tm)

		var bm []BookmarkModel
		if err := tx.NewSelect().Model(&bm).OrderExpr("b.id").Scan(ctx); err != nil {
			return fmt.Errorf("export bookmarks: %w", err)
		}
		data.Bookmarks = bookmarkModelsToModels(bm)

		var bt []BookmarkTagModel
		if err := tx.NewSelect().Model(&bt).OrderExpr("bt.bookmark_id, bt.tag_id").Scan(ctx); err != nil {
			return fmt.Errorf("export bookmark tags: %w", err)
		}
		data.BookmarkTags = make([]model.BookmarkTag, 0, len(bt))
		for _, a := range bt {
			data.BookmarkTags = append(data.BookmarkTags, model.BookmarkTag{BookmarkID: a.BookmarkID, TagID: a.TagID})
		}

		var am []AuditLogModel
		if err := tx.NewSelect().Model(&am).OrderExpr("al.id").Scan(ctx); err != nil {
			return fmt.Errorf("export audit log: %w", err)
		}
		data.AuditLogEntries = make([]model.AuditLogEntry, 0, len(am))
		for _, a := range am {
			data.AuditLogEntries = append(data.AuditLogEntries, auditLogModelToModel(a))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// ImportData replaces the whole database content with backup. All ids are
// preserved.
func (s *bunStore) ImportData(ctx context.Context, backup *model.BackupData) error {
	if backup == nil {
		return fmt.Errorf("import: no backup data")
	}
	err := WithTx(ctx, s.bun, func(ctx context.Context, tx bun.Tx) error {
		// Detach folders first so engines that check foreign keys per row can
		// clear the table.
		if _, err := tx.NewUpdate().Model((*FolderModel)(nil)).Set("parent_id = NULL").Where("1 = 1").Exec(ctx); err != nil {
			return fmt.Errorf("import: detach folders: %w", err)
		}
		for _, m := range []interface{}{
			(*BookmarkTagModel)(nil),
			(*BookmarkModel)(nil),
			(*TagModel)(nil),
			(*FolderModel)(nil),
			(*AuditLogModel)(nil),
		} {
			if _, err := tx.NewDelete().Model(m).Where("1 = 1").Exec(ctx); err != nil {
				return fmt.Errorf("import: clear table: %w", err)
			}
		}

		for _, f := range foldersParentsFirst(backup.Folders) {
			fm := &FolderModel{ID: f.ID, Label: f.Label, ParentID: nullID(f.Parent)}
			if _, err := tx.NewInsert().Model(fm).Exec(ctx); err != nil {
				return fmt.Errorf("import folder %d: %w", f.ID, MapDBError(err))
			}
		}
		for _, t := range backup.Tags {
			tm := &TagModel{ID: t.ID, Label: t.Label, LabelKey: tags.LabelKey(t.Label), Color: nullString(t.Color)}
			if _, err := tx.NewInsert().Model(tm).Exec(ctx); err != nil {
				return fmt.Errorf("import tag %d: %w", t.ID, MapDBError(err))
			}
		}
		for _, b := range backup.Bookmarks {
			bm, err := s.bookmarkModelFromBackup(b)
			if err != nil {
				return err
			}
			if _, err := tx.NewInsert().Model(bm).Exec(ctx); err != nil {
				return fmt.Errorf("import bookmark %d: %w", b.ID, MapDBError(err))
			}
		}
		for _, a := range backup.BookmarkTags {
			if _, err := tx.NewInsert().Model(&BookmarkTagModel{BookmarkID: a.BookmarkID, TagID: a.TagID}).Exec(ctx); err != nil {
				return fmt.Errorf("import bookmark tag %d/%d: %w", a.BookmarkID, a.TagID, MapDBError(err))
			}
		}
		for _, e := range backup.AuditLogEntries {
			am := auditLogModelFromBackup(e)
			if _, err := tx.NewInsert().Model(am).Exec(ctx); err != nil {
				return fmt.Errorf("import audit entry %d: %w", e.ID, MapDBError(err))
			}
		}
		return s.afterImport(ctx, tx)
	})
	if err == nil {
		s.logAction(ctx, "RESTORE", fmt.Sprintf("full restore: %d bookmarks, %d tags, %d folders",
			len(backup.Bookmarks), len(backup.Tags), len(backup.Folders)))
	}
	return err
}

// IntegrateData merges backup into the existing data. Folders are matched by
// label and parent, tags by label key and bookmarks by url hash; matched rows
// keep their local values. Unmatched rows are inserted with new ids and all
// references in the backup are rewritten to the local ids.
func (s *bunStore) IntegrateData(ctx context.Context, backup *model.BackupData) error {
	if backup == nil {
		return fmt.Errorf("integrate: no backup data")
	}
	err := WithTx(ctx, s.bun, func(ctx context.Context, tx bun.Tx) error {
		folderIDs, err := s.integrateFolders(ctx, tx, backup.Folders)
		if err != nil {
			return err
		}
		tagIDs, err := s.integrateTags(ctx, tx, backup.Tags)
		if err != nil {
			return err
		}
		bookmarkIDs, err := s.integrateBookmarks(ctx, tx, backup.Bookmarks, folderIDs)
		if err != nil {
			return err
		}
		for _, a := range backup.BookmarkTags {
			bid, okB := bookmarkIDs[a.BookmarkID]
			tid, okT := tagIDs[a.TagID]
			if !okB || !okT {
				continue
			}
			q := s.insertIgnore("bookmark_tags", "bookmark_id, tag_id", "?, ?")
			if _, err := ExecRaw(ctx, tx, q, bid, tid); err != nil {
				return fmt.Errorf("integrate bookmark tag %d/%d: %w", a.BookmarkID, a.TagID, err)
			}
		}
		return s.afterImport(ctx, tx)
	})
	if err == nil {
		s.logAction(ctx, "INTEGRATE", fmt.Sprintf("merged backup: %d bookmarks, %d tags, %d folders",
			len(backup.Bookmarks), len(backup.Tags), len(backup.Folders)))
	}
	return err
}

type folderKey struct {
	label  string
	parent int // 0 for root folders
}

// integrateFolders returns the mapping from backup folder ids to local ids.
func (s *bunStore) integrateFolders(ctx context.Context, tx bun.Tx, folders []model.Folder) (map[int]int, error) {
	var local []FolderModel
	if err := tx.NewSelect().Model(&local).Scan(ctx); err != nil {
		return nil, err
	}
	byKey := make(map[folderKey]int, len(local))
	for _, f := range local {
		byKey[folderKey{f.Label, int(f.ParentID.Int64)}] = f.ID
	}

	ids := make(map[int]int, len(folders))
	for _, f := range foldersParentsFirst(folders) {
		var parent *int
		if f.Parent != nil {
			if p, ok := ids[*f.Parent]; ok {
				parent = &p
			}
		}
		key := folderKey{label: f.Label}
		if parent != nil {
			key.parent = *parent
		}
		if id, ok := byKey[key]; ok {
			ids[f.ID] = id
			continue
		}
		fm := &FolderModel{Label: f.Label, ParentID: nullID(parent)}
		if _, err := tx.NewInsert().Model(fm).Exec(ctx); err != nil {
			return nil, fmt.Errorf("integrate folder %d: %w", f.ID, MapDBError(err))
		}
		byKey[key] = fm.ID
		ids[f.ID] = fm.ID
	}
	return ids, nil
}

// integrateTags returns the mapping from backup tag ids to local ids.
func (s *bunStore) integrateTags(ctx context.Context, tx bun.Tx, in []model.Tag) (map[int]int, error) {
	var local []TagModel
	if err := tx.NewSelect().Model(&local).Scan(ctx); err != nil {
		return nil, err
	}
	byKey := make(map[string]int, len(local))
	for _, t := range local {
		byKey[t.LabelKey] = t.ID
	}

	ids := make(map[int]int, len(in))
	for _, t := range in {
		key := tags.LabelKey(t.Label)
		if id, ok := byKey[key]; ok {
			ids[t.ID] = id
			continue
		}
		tm := &TagModel{Label: t.Label, LabelKey: key, Color: nullString(t.Color)}
		if _, err := tx.NewInsert().Model(tm).Exec(ctx); err != nil {
			return nil, fmt.Errorf("integrate tag %d: %w", t.ID, MapDBError(err))
		}
		byKey[key] = tm.ID
		ids[t.ID] = tm.ID
	}
	return ids, nil
}

// integrateBookmarks returns the mapping from backup bookmark ids to local
// ids. Folder references are rewritten through folderIDs.
func (s *bunStore) integrateBookmarks(ctx context.Context, tx bun.Tx, in []model.Bookmark, folderIDs map[int]int) (map[int]int, error) {
	var local []BookmarkModel
	if err := tx.NewSelect().Model(&local).Column("id", "url_hash").Scan(ctx); err != nil {
		return nil, err
	}
	byHash := make(map[string]int, len(local))
	for _, b := range local {
		byHash[b.URLHash] = b.ID
	}

	ids := make(map[int]int, len(in))
	for _, b := range in {
		bm, err := s.bookmarkModelFromBackup(b)
		if err != nil {
			return nil, err
		}
		if id, ok := byHash[bm.URLHash]; ok {
			ids[b.ID] = id
			continue
		}
		bm.ID = 0
		bm.FolderID = sql.NullInt64{}
		if b.Folder != nil {
			if fid, ok := folderIDs[*b.Folder]; ok {
				bm.FolderID = sql.NullInt64{Int64: int64(fid), Valid: true}
			}
		}
		if _, err := tx.NewInsert().Model(bm).Exec(ctx); err != nil {
			return nil, fmt.Errorf("integrate bookmark %d: %w", b.ID, MapDBError(err))
		}
		byHash[bm.URLHash] = bm.ID
		ids[b.ID] = bm.ID
	}
	return ids, nil
}

func (s *bunStore) bookmarkModelFromBackup(b model.Bookmark) (*BookmarkModel, error) {
	normalized, hash, err := normalizeAndHash(b.URL)
	if err != nil {
		return nil, fmt.Errorf("bookmark %d: %w", b.ID, err)
	}
	created, updated := b.CreatedAt, b.UpdatedAt
	if created.IsZero() {
		created = s.now()
	}
	if updated.IsZero() {
		updated = created
	}
	return &BookmarkModel{
		ID:        b.ID,
		URL:       normalized,
		URLHash:   hash,
		Label:     nullString(b.Label),
		FolderID:  nullID(b.Folder),
		Starred:   b.Starred,
		CreatedAt: created.UTC(),
		UpdatedAt: updated.UTC(),
	}, nil
}

func auditLogModelFromBackup(e model.AuditLogEntry) *AuditLogModel {
	ts, err := time.Parse(time.RFC3339, e.Timestamp)
	if err != nil {
		ts = time.Unix(0, 0)
	}
	return &AuditLogModel{ID: e.ID, Timestamp: ts.UTC(), Username: e.Username, Action: e.Action, Details: e.Details}
}

// foldersParentsFirst orders folders so that every parent precedes its
// children. Folders whose parent is not part of the list count as roots.
// Folders caught in a cycle are appended last.
func foldersParentsFirst(in []model.Folder) []model.Folder {
	known := make(map[int]bool, len(in))
	for _, f := range in {
		known[f.ID] = true
	}
	placedID := make(map[int]bool, len(in))
	done := make([]bool, len(in))
	out := make([]model.Folder, 0, len(in))
	for len(out) < len(in) {
		progress := false
		for i, f := range in {
			if done[i] {
				continue
			}
			if f.Parent == nil || !known[*f.Parent] || placedID[*f.Parent] {
				out = append(out, f)
				done[i], placedID[f.ID] = true, true
				progress = true
			}
		}
		if !progress {
			for i, f := range in {
				if !done[i] {
					out = append(out, f)
					done[i] = true
				}
			}
		}
	}
	return out
}
