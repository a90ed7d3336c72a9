// Copyright (c) 2026 ToeiRei
// pybookmarks - bookmark management library
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"fmt"

	"github.com/uptrace/bun"
)

// MySQLStore is the MySQL implementation of the Store interface.
type MySQLStore struct {
	bunStore
}

func newMySQLStore(bdb *bun.DB) *MySQLStore {
	s := &MySQLStore{bunStore: newBunStore(bdb, "mysql")}
	s.insertIgnore = func(table, columns, placeholders string) string {
		return fmt.Sprintf("INSERT IGNORE INTO %s (%s) VALUES (%s)", table, columns, placeholders)
	}
	return s
}
