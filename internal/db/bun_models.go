// Copyright (c) 2026 ToeiRei
// pybookmarks - bookmark management library
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"database/sql"
	"time"

	"github.com/toeirei/pybookmarks/internal/model"
	"github.com/uptrace/bun"
)

// BookmarkModel maps the `bookmarks` table for Bun queries.
type BookmarkModel struct {
	bun.BaseModel `bun:"table:bookmarks,alias:b"`
	ID            int            `bun:"id,pk,autoincrement"`
	URL           string         `bun:"url"`
	URLHash       string         `bun:"url_hash"`
	Label         sql.NullString `bun:"label"`
	FolderID      sql.NullInt64  `bun:"folder_id"`
	Starred       bool           `bun:"starred"`
	CreatedAt     time.Time      `bun:"created_at"`
	UpdatedAt     time.Time      `bun:"updated_at"`
}

// TagModel maps the `tags` table. LabelKey is the case-folded label that
// carries the unique index.
type TagModel struct {
	bun.BaseModel `bun:"table:tags,alias:t"`
	ID            int            `bun:"id,pk,autoincrement"`
	Label         string         `bun:"label"`
	LabelKey      string         `bun:"label_key"`
	Color         sql.NullString `bun:"color"`
}

// FolderModel maps the `folders` table.
type FolderModel struct {
	bun.BaseModel `bun:"table:folders,alias:f"`
	ID            int           `bun:"id,pk,autoincrement"`
	Label         string        `bun:"label"`
	ParentID      sql.NullInt64 `bun:"parent_id"`
}

// BookmarkTagModel maps the `bookmark_tags` association table.
type BookmarkTagModel struct {
	bun.BaseModel `bun:"table:bookmark_tags,alias:bt"`
	BookmarkID    int `bun:"bookmark_id,pk"`
	TagID         int `bun:"tag_id,pk"`
}

// AuditLogModel maps the audit_log table.
type AuditLogModel struct {
	bun.BaseModel `bun:"table:audit_log,alias:al"`
	ID            int       `bun:"id,pk,autoincrement"`
	Timestamp     time.Time `bun:"timestamp"`
	Username      string    `bun:"username"`
	Action        string    `bun:"action"`
	Details       string    `bun:"details"`
}

// --- Mapping helpers (centralized conversions) ---

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullID(id *int) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*id), Valid: true}
}

func idPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func bookmarkModelToModel(b BookmarkModel) model.Bookmark {
	return model.Bookmark{
		ID:        b.ID,
		URL:       b.URL,
		Label:     b.Label.String,
		Folder:    idPtr(b.FolderID),
		Starred:   b.Starred,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func bookmarkModelsToModels(in []BookmarkModel) []model.Bookmark {
	out := make([]model.Bookmark, 0, len(in))
	for _, b := range in {
		out = append(out, bookmarkModelToModel(b))
	}
	return out
}

func tagModelToModel(t TagModel) model.Tag {
	return model.Tag{ID: t.ID, Label: t.Label, Color: t.Color.String}
}

func tagModelsToModels(in []TagModel) []model.Tag {
	out := make([]model.Tag, 0, len(in))
	for _, t := range in {
		out = append(out, tagModelToModel(t))
	}
	return out
}

func folderModelToModel(f FolderModel) model.Folder {
	return model.Folder{ID: f.ID, Label: f.Label, Parent: idPtr(f.ParentID)}
}

func folderModelsToModels(in []FolderModel) []model.Folder {
	out := make([]model.Folder, 0, len(in))
	for _, f := range in {
		out = append(out, folderModelToModel(f))
	}
	return out
}

func auditLogModelToModel(a AuditLogModel) model.AuditLogEntry {
	return model.AuditLogEntry{
		ID:        a.ID,
		Timestamp: a.Timestamp.UTC().Format(time.RFC3339),
		Username:  a.Username,
		Action:    a.Action,
		Details:   a.Details,
	}
}
