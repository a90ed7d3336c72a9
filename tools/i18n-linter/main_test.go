// Copyright (c) 2026 ToeiRei
// pybookmarks - bookmark management library
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestFlattenYAML(t *testing.T) {
	keys := make(map[string]struct{})
	flattenYAML("", map[string]any{
		"tag":          map[string]any{"added": "x"},
		"bookmark.add": "y",
	}, keys)
	for _, k := range []string{"tag.added", "bookmark.add"} {
		if _, ok := keys[k]; !ok {
			t.Fatalf("expected key %s in %v", k, keys)
		}
	}
}

func TestLint(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "ui", "a.go"), `package ui
func f() {
	_ = i18n.T("bookmark.added", 1)
	key := "tag.deleted"
	_ = i18n.T(key)
	_ = i18n.T("folder.missing")
}`)
	writeFile(t, filepath.Join(root, "ui", "a_test.go"), `package ui
var _ = i18n.T("test.only")`)
	writeFile(t, filepath.Join(root, "_examples", "b.go"), `var _ = i18n.T("ignored.key")`)
	writeFile(t, filepath.Join(root, localesDir, "en.yaml"), `"bookmark.added": "Added"
"tag.deleted": "Deleted"
"tag.orphan": "Unused"
`)
	writeFile(t, filepath.Join(root, localesDir, "de.yaml"), `"bookmark.added": "Hinzugefügt"
"tag.orphan": "Unbenutzt"
`)

	rep, err := lint(root)
	if err != nil {
		t.Fatalf("lint: %v", err)
	}
	if strings.Join(rep.Missing, ",") != "folder.missing" {
		t.Fatalf("unexpected missing keys %v", rep.Missing)
	}
	if strings.Join(rep.Orphaned, ",") != "tag.orphan" {
		t.Fatalf("unexpected orphaned keys %v", rep.Orphaned)
	}
	if got := rep.Mismatch["de.yaml"]; strings.Join(got, ",") != "tag.deleted" {
		t.Fatalf("unexpected de.yaml mismatch %v", got)
	}
	if !rep.Failed() {
		t.Fatalf("report should fail")
	}

	var buf bytes.Buffer
	rep.Write(&buf)
	if !strings.Contains(buf.String(), "Keys missing from de.yaml") {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}

func TestLintMissingPrimaryLocale(t *testing.T) {
	if _, err := lint(t.TempDir()); err == nil {
		t.Fatalf("expected error without locale files")
	}
}
