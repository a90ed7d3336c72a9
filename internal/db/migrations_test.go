// Copyright (c) 2026 ToeiRei
// pybookmarks - bookmark management library
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	_ "modernc.org/sqlite"
)

func TestRunMigrationsSqlite(t *testing.T) {
	ctx := context.Background()
	dbConn, err := sql.Open("sqlite", "file:test_migrations?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	defer func() { _ = dbConn.Close() }()
	dbConn.SetMaxOpenConns(1)

	for i := 0; i < 2; i++ {
		if err := RunMigrations(ctx, dbConn, "sqlite"); err != nil {
			t.Fatalf("RunMigrations run %d failed: %v", i, err)
		}
	}
	versions, err := AppliedMigrations(ctx, dbConn)
	if err != nil {
		t.Fatalf("AppliedMigrations failed: %v", err)
	}
	if len(versions) != 1 || versions[0] != "000001_create_initial_tables" {
		t.Fatalf("unexpected migrations: %v", versions)
	}
	for _, table := range []string{"folders", "tags", "bookmarks", "bookmark_tags", "audit_log"} {
		var n int
		if err := dbConn.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
			t.Fatalf("table %s missing: %v", table, err)
		}
	}
}

func TestRunMigrations_UnknownType(t *testing.T) {
	dbConn, err := sql.Open("sqlite", "file:test_migrations_unknown?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	defer func() { _ = dbConn.Close() }()
	if err := RunMigrations(context.Background(), dbConn, "oracle"); err == nil {
		t.Fatalf("expected error for unknown database type")
	}
}

func TestEmbeddedMigrationsPerDialect(t *testing.T) {
	for _, dbType := range SupportedTypes {
		data, err := embeddedMigrations.ReadFile("migrations/" + dbType + "/000001_create_initial_tables.up.sql")
		if err != nil {
			t.Fatalf("missing migration for %s: %v", dbType, err)
		}
		if n := len(splitStatements(string(data))); n < 5 {
			t.Fatalf("%s: expected at least 5 statements, got %d", dbType, n)
		}
	}
}

func TestRunDBMaintenanceSqlite_Smoke(t *testing.T) {
	if err := RunDBMaintenance(context.Background(), "sqlite", "file:test_maint?mode=memory&cache=shared"); err != nil {
		t.Fatalf("RunDBMaintenance failed: %v", err)
	}
	if err := RunDBMaintenance(context.Background(), "oracle", "x"); err == nil {
		t.Fatalf("expected error for unsupported type")
	}
}

func TestPrepareDSN(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "bookmarks.db")
	dsn, err := PrepareDSN("sqlite", path)
	if err != nil {
		t.Fatalf("PrepareDSN failed: %v", err)
	}
	if !strings.Contains(dsn, "_pragma=foreign_keys(1)") || !strings.Contains(dsn, "_pragma=busy_timeout(5000)") {
		t.Fatalf("missing pragmas in %q", dsn)
	}
	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		t.Fatalf("database directory not created: %v", err)
	}

	my, err := PrepareDSN("mysql", "user:pw@tcp(localhost:3306)/bookmarks")
	if err != nil {
		t.Fatalf("PrepareDSN(mysql) failed: %v", err)
	}
	if !strings.Contains(my, "parseTime=true") {
		t.Fatalf("expected parseTime in %q", my)
	}

	if _, err := PrepareDSN("sqlite", ""); err == nil {
		t.Fatalf("expected error for empty sqlite path")
	}
	if _, err := PrepareDSN("oracle", "x"); err == nil {
		t.Fatalf("expected error for unsupported type")
	}
}

func TestNewStoreFromDSN_FileDatabase(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "bookmarks.db")
	s, err := NewStoreFromDSN(ctx, "sqlite", path)
	if err != nil {
		t.Fatalf("NewStoreFromDSN failed: %v", err)
	}
	if s.Type() != "sqlite" {
		t.Fatalf("unexpected type %q", s.Type())
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	// Reopening an existing database must not reapply migrations.
	s, err = NewStoreFromDSN(ctx, "sqlite", path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	_ = s.Close()
}
