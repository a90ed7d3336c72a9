// Copyright (c) 2026 ToeiRei
// pybookmarks - bookmark management library
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"fmt"

	"github.com/uptrace/bun"
)

// SqliteStore is the SQLite implementation of the Store interface.
type SqliteStore struct {
	bunStore
}

func newSqliteStore(bdb *bun.DB) *SqliteStore {
	s := &SqliteStore{bunStore: newBunStore(bdb, "sqlite")}
	s.insertIgnore = func(table, columns, placeholders string) string {
		return fmt.Sprintf("INSERT OR IGNORE INTO %s (%s) VALUES (%s)", table, columns, placeholders)
	}
	return s
}
