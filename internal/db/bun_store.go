// Copyright (c) 2026 ToeiRei
// pybookmarks - bookmark management library
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// bunStore holds the dialect independent implementation of Store. The
// dialect specific store types embed it and supply the few statements that
// differ between engines.
type bunStore struct {
	bun    *bun.DB
	dbType string
	now    func() time.Time

	// insertIgnore renders an INSERT that silently skips rows violating a
	// unique constraint.
	insertIgnore func(table string, columns string, placeholders string) string
	// afterImport runs inside the import transaction after rows with
	// explicit ids were written.
	afterImport func(ctx context.Context, tx bun.Tx) error
}

func newBunStore(bdb *bun.DB, dbType string) bunStore {
	return bunStore{
		bun:    bdb,
		dbType: dbType,
		now: func() time.Time {
			return time.Now().UTC().Truncate(time.Microsecond)
		},
		afterImport: func(context.Context, bun.Tx) error { return nil },
	}
}

// Type returns the database type this store was opened with.
func (s *bunStore) Type() string {
	return s.dbType
}

// Close closes the underlying database handle.
func (s *bunStore) Close() error {
	return s.bun.Close()
}

// BunDB exposes the Bun handle for maintenance and tests.
func (s *bunStore) BunDB() *bun.DB {
	return s.bun
}

// notFound converts sql.ErrNoRows into a wrapped ErrNotFound naming the record.
func notFound(kind string, id int, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
	}
	return err
}

func rowExists(ctx context.Context, db bun.IDB, model interface{}, where string, id int) (bool, error) {
	return db.NewSelect().Model(model).Where(where, id).Exists(ctx)
}

func requireBookmark(ctx context.Context, db bun.IDB, id int) error {
	ok, err := rowExists(ctx, db, (*BookmarkModel)(nil), "b.id = ?", id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("bookmark %d: %w", id, ErrNotFound)
	}
	return nil
}

func requireTag(ctx context.Context, db bun.IDB, id int) error {
	ok, err := rowExists(ctx, db, (*TagModel)(nil), "t.id = ?", id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("tag %d: %w", id, ErrNotFound)
	}
	return nil
}

func requireFolder(ctx context.Context, db bun.IDB, id int) error {
	ok, err := rowExists(ctx, db, (*FolderModel)(nil), "f.id = ?", id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("folder %d: %w", id, ErrNotFound)
	}
	return nil
}

// logAction writes an audit entry. Failures are logged and otherwise ignored
// so that auditing never fails the primary operation.
func (s *bunStore) logAction(ctx context.Context, action, details string) {
	if err := s.LogAction(ctx, action, details); err != nil {
		dbLogf("db: audit log write failed for %s: %v", action, err)
	}
}
