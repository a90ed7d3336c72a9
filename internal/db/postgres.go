// Copyright (c) 2026 ToeiRei
// pybookmarks - bookmark management library
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// PostgresStore is the PostgreSQL implementation of the Store interface.
type PostgresStore struct {
	bunStore
}

// serialTables are the tables whose id sequence must follow explicit inserts.
var serialTables = []string{"folders", "tags", "bookmarks", "audit_log"}

func newPostgresStore(bdb *bun.DB) *PostgresStore {
	s := &PostgresStore{bunStore: newBunStore(bdb, "postgres")}
	s.insertIgnore = func(table, columns, placeholders string) string {
		return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT DO NOTHING", table, columns, placeholders)
	}
	s.afterImport = resetSequences
	return s
}

// resetSequences moves every id sequence past the highest stored id so that
// rows restored with explicit ids do not collide with new inserts.
func resetSequences(ctx context.Context, tx bun.Tx) error {
	for _, table := range serialTables {
		q := fmt.Sprintf("SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE((SELECT MAX(id) FROM %s), 0) + 1, false)", table, table)
		if _, err := ExecRaw(ctx, tx, q); err != nil {
			return fmt.Errorf("reset sequence for %s: %w", table, err)
		}
	}
	return nil
}
