// Copyright (c) 2026 ToeiRei
// pybookmarks - bookmark management library
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"strings"
	"testing"

	"github.com/toeirei/pybookmarks/internal/model"
)

// WithTestStore opens a fresh in-memory SQLite store for the running test.
func WithTestStore(t *testing.T, fn func(ctx context.Context, s *SqliteStore)) {
	t.Helper()
	ctx := context.Background()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := "file:" + name + "?mode=memory&cache=shared"
	st, err := NewStoreFromDSN(ctx, "sqlite", dsn)
	if err != nil {
		t.Fatalf("NewStoreFromDSN failed: %v", err)
	}
	s, ok := st.(*SqliteStore)
	if !ok {
		t.Fatalf("store is not *SqliteStore")
	}
	defer func() { _ = s.Close() }()
	fn(ctx, s)
}

func mustCreateBookmark(t *testing.T, ctx context.Context, s Store, nb model.NewBookmark) int {
	t.Helper()
	id, err := s.CreateBookmark(ctx, nb)
	if err != nil {
		t.Fatalf("CreateBookmark(%q) failed: %v", nb.URL, err)
	}
	return id
}

func mustCreateTag(t *testing.T, ctx context.Context, s Store, label string) int {
	t.Helper()
	id, err := s.CreateTag(ctx, model.NewTag{Label: label})
	if err != nil {
		t.Fatalf("CreateTag(%q) failed: %v", label, err)
	}
	return id
}

func mustCreateFolder(t *testing.T, ctx context.Context, s Store, label string, parent *int) int {
	t.Helper()
	id, err := s.CreateFolder(ctx, model.NewFolder{Label: label, Parent: parent})
	if err != nil {
		t.Fatalf("CreateFolder(%q) failed: %v", label, err)
	}
	return id
}
