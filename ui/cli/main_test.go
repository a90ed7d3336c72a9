// Copyright (c) 2026 ToeiRei
// pybookmarks - bookmark management library
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/toeirei/pybookmarks/internal/i18n"
	"github.com/toeirei/pybookmarks/internal/tui"
)

// isolate points every config and data location at a temp directory so tests
// never read or write the real user configuration.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("HOME", dir)
	for _, e := range os.Environ() {
		if k, _, ok := strings.Cut(e, "="); ok && strings.HasPrefix(k, "PYBOOKMARKS_") {
			t.Setenv(k, "")
			_ = os.Unsetenv(k)
		}
	}
	wd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

// executeCommand runs the root command with args and returns everything
// written to stdout and stderr. stdin may be nil.
func executeCommand(t *testing.T, stdin io.Reader, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	if stdin != nil {
		cmd.SetIn(stdin)
	}
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	// Failed commands skip the post run hook.
	_ = closeStore(nil, nil)
	i18n.Init("en")
	return buf.String(), err
}

// testEnv is an isolated environment with its own database file.
type testEnv struct {
	t   *testing.T
	dir string
	dsn string
}

func newTestEnv(t *testing.T) *testEnv {
	dir := isolate(t)
	return &testEnv{t: t, dir: dir, dsn: filepath.Join(dir, "bookmarks.db")}
}

// run executes a command against the environment's database.
func (e *testEnv) run(args ...string) (string, error) {
	e.t.Helper()
	return executeCommand(e.t, nil, append([]string{"--database.dsn=" + e.dsn}, args...)...)
}

// mustRun is run that fails the test on error.
func (e *testEnv) mustRun(args ...string) string {
	e.t.Helper()
	out, err := e.run(args...)
	if err != nil {
		e.t.Fatalf("%v failed: %v\n%s", args, err, out)
	}
	return out
}

func TestRootCommandStartsTUI(t *testing.T) {
	env := newTestEnv(t)
	var got tui.Library
	prev := runTUI
	runTUI = func(_ context.Context, lib tui.Library) error {
		got = lib
		return nil
	}
	defer func() { runTUI = prev }()

	env.mustRun()
	if got == nil {
		t.Fatalf("expected the TUI to be started with a library")
	}
	if _, err := os.Stat(env.dsn); err != nil {
		t.Fatalf("database file not created: %v", err)
	}
}

func TestDefaultConfigIsWritten(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("tag", "list")
	path := filepath.Join(env.dir, "config", "pybookmarks", "pybookmarks.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("default config not written: %v", err)
	}
	if strings.Contains(string(data), env.dsn) {
		t.Fatalf("default config must not persist command line flags:\n%s", data)
	}
}

func TestConfigFileSelectsLanguageAndDatabase(t *testing.T) {
	env := newTestEnv(t)
	cfgPath := filepath.Join(env.dir, "custom.yaml")
	content := "language: de\ndatabase:\n  type: sqlite\n  dsn: " + env.dsn + "\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	out, err := executeCommand(t, nil, "--config", cfgPath, "tag", "list")
	if err != nil {
		t.Fatalf("tag list failed: %v", err)
	}
	if !strings.Contains(out, "Keine Tags.") {
		t.Fatalf("expected german output, got %q", out)
	}
	if _, err := os.Stat(env.dsn); err != nil {
		t.Fatalf("configured database not used: %v", err)
	}

	if _, err := executeCommand(t, nil, "--config", filepath.Join(env.dir, "missing.yaml"), "tag", "list"); err == nil {
		t.Fatalf("expected error for a missing --config file")
	}
}

func TestEnvironmentOverridesLanguage(t *testing.T) {
	env := newTestEnv(t)
	t.Setenv("PYBOOKMARKS_LANGUAGE", "de")
	out := env.mustRun("folder", "list")
	if !strings.Contains(out, "Keine Ordner.") {
		t.Fatalf("expected german output, got %q", out)
	}
	out = env.mustRun("--language", "en", "folder", "list")
	if !strings.Contains(out, "No folders.") {
		t.Fatalf("flag should override env, got %q", out)
	}
}

func TestUnknownDatabaseType(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.run("--database.type=oracle", "tag", "list"); err == nil {
		t.Fatalf("expected error for unsupported database type")
	}
}
