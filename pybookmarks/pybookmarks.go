// Copyright (c) 2026 ToeiRei
// pybookmarks - bookmark management library
// This source code is licensed under the MIT license found in the LICENSE file.

// Package pybookmarks manages bookmarks organized with tags and folders.
//
// An API value wraps one database. SQLite files are addressed by path; the
// database file and its directory are created on first use:
//
//	api, err := pybookmarks.New("")  // default database file
//	if err != nil { ... }
//	defer api.Close()
//	b, err := api.CreateBookmark(ctx, pybookmarks.NewBookmark{URL: "https://go.dev"})
//
// PostgreSQL and MySQL are reached through Open with an explicit type and DSN.
package pybookmarks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/toeirei/pybookmarks/internal/config"
	"github.com/toeirei/pybookmarks/internal/db"
	"github.com/toeirei/pybookmarks/internal/model"
)

// Version of the library.
const Version = "1.0"

type (
	Bookmark      = model.Bookmark
	NewBookmark   = model.NewBookmark
	Tag           = model.Tag
	NewTag        = model.NewTag
	Folder        = model.Folder
	NewFolder     = model.NewFolder
	FolderNode    = model.FolderNode
	AuditLogEntry = model.AuditLogEntry
	BackupData    = model.BackupData
)

var (
	ErrNotFound     = db.ErrNotFound
	ErrDuplicate    = db.ErrDuplicate
	ErrFolderCycle  = db.ErrFolderCycle
	ErrInvalidURL   = db.ErrInvalidURL
	ErrInvalidLabel = db.ErrInvalidLabel
	// ErrInvalidColor is returned for tag colors that are neither hex nor an
	// ANSI 256 color index.
	ErrInvalidColor = errors.New("invalid color")
	// ErrNotAPath is returned by New for server DSNs, which need Open.
	ErrNotAPath = errors.New("database path must be a file path, use Open for server databases")
)

// Options selects the database opened by Open.
type Options struct {
	// Type is sqlite, postgres or mysql. Empty means sqlite.
	Type string
	// DSN is the connection string. For sqlite an empty DSN selects the
	// default database file.
	DSN string
}

// API is the entry point for all bookmark operations. It is safe for
// concurrent use.
type API struct {
	store db.Store
	opts  Options
}

// DefaultDatabasePath returns the SQLite file used when no path is given.
func DefaultDatabasePath() string {
	return config.DefaultDatabasePath()
}

// New opens the SQLite database at databasePath, or the default database
// when the path is empty.
func New(databasePath string) (*API, error) {
	return NewWithContext(context.Background(), databasePath)
}

// NewWithContext is New with a context for the initial migration.
func NewWithContext(ctx context.Context, databasePath string) (*API, error) {
	if strings.Contains(databasePath, "://") || strings.HasPrefix(databasePath, "postgres:") || strings.HasPrefix(databasePath, "mysql:") {
		return nil, ErrNotAPath
	}
	return Open(ctx, Options{Type: "sqlite", DSN: databasePath})
}

// Open connects to the database described by opts and applies pending
// migrations.
func Open(ctx context.Context, opts Options) (*API, error) {
	if opts.Type == "" {
		opts.Type = "sqlite"
	}
	if opts.DSN == "" {
		if opts.Type != "sqlite" {
			return nil, fmt.Errorf("%s: empty dsn", opts.Type)
		}
		opts.DSN = DefaultDatabasePath()
	}
	s, err := db.NewStoreFromDSN(ctx, opts.Type, opts.DSN)
	if err != nil {
		return nil, err
	}
	return &API{store: s, opts: opts}, nil
}

// Close releases the database connection.
func (a *API) Close() error {
	return a.store.Close()
}

// Options returns the options the API was opened with.
func (a *API) Options() Options {
	return a.opts
}

// Maintain runs engine specific maintenance (VACUUM, OPTIMIZE, ...).
func (a *API) Maintain(ctx context.Context) error {
	return db.RunDBMaintenance(ctx, a.opts.Type, a.opts.DSN)
}

// AuditLog returns the audit log, newest first.
func (a *API) AuditLog(ctx context.Context) ([]AuditLogEntry, error) {
	return a.store.AllAuditLogEntries(ctx)
}
