// Copyright (c) 2026 ToeiRei
// pybookmarks - bookmark management library
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"

	"github.com/toeirei/pybookmarks/internal/model"
)

// Store defines the interface for all database operations in pybookmarks.
// This allows for multiple database backends to be implemented.
type Store interface {
	// Bookmark methods
	AllBookmarks(ctx context.Context) ([]model.Bookmark, error)
	GetBookmark(ctx context.Context, id int) (*model.Bookmark, error)
	GetBookmarkByURL(ctx context.Context, rawURL string) (*model.Bookmark, error)
	CreateBookmark(ctx context.Context, nb model.NewBookmark) (int, error)
	SaveBookmark(ctx context.Context, b model.Bookmark) error
	DeleteBookmark(ctx context.Context, id int) error
	SetStarred(ctx context.Context, id int, starred bool) error
	StarredBookmarks(ctx context.Context) ([]model.Bookmark, error)
	BookmarksInFolder(ctx context.Context, folderID *int) ([]model.Bookmark, error)
	SearchBookmarks(ctx context.Context, query string) ([]model.Bookmark, error)

	// Tag methods
	AllTags(ctx context.Context) ([]model.Tag, error)
	GetTag(ctx context.Context, id int) (*model.Tag, error)
	GetTagByLabel(ctx context.Context, label string) (*model.Tag, error)
	CreateTag(ctx context.Context, nt model.NewTag) (int, error)
	SaveTag(ctx context.Context, t model.Tag) error
	DeleteTag(ctx context.Context, id int) error

	// Assignment methods
	AssignTag(ctx context.Context, bookmarkID, tagID int) error
	RemoveTag(ctx context.Context, bookmarkID, tagID int) error
	TagsForBookmark(ctx context.Context, bookmarkID int) ([]model.Tag, error)
	BookmarksForTag(ctx context.Context, tagID int) ([]model.Bookmark, error)

	// Folder methods
	AllFolders(ctx context.Context) ([]model.Folder, error)
	GetFolder(ctx context.Context, id int) (*model.Folder, error)
	CreateFolder(ctx context.Context, nf model.NewFolder) (int, error)
	SaveFolder(ctx context.Context, f model.Folder) error
	DeleteFolder(ctx context.Context, id int) error

	// Audit Log methods
	AllAuditLogEntries(ctx context.Context) ([]model.AuditLogEntry, error)
	LogAction(ctx context.Context, action string, details string) error

	// Backup methods
	ExportData(ctx context.Context) (*model.BackupData, error)
	ImportData(ctx context.Context, backup *model.BackupData) error
	IntegrateData(ctx context.Context, backup *model.BackupData) error

	// Type returns the database type this store was opened with.
	Type() string
	Close() error
}

var (
	_ Store = (*SqliteStore)(nil)
	_ Store = (*PostgresStore)(nil)
	_ Store = (*MySQLStore)(nil)
)
