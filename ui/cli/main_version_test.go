// Copyright (c) 2026 ToeiRei
// pybookmarks - bookmark management library
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"runtime/debug"
	"strings"
	"testing"

	"github.com/toeirei/pybookmarks/buildvars"
)

func TestResolveBuildVersion_MainVersion(t *testing.T) {
	info := &debug.BuildInfo{
		Main: debug.Module{Path: "github.com/toeirei/pybookmarks", Version: "v1.2.3"},
	}
	v, c, d := resolveBuildVersion(info)
	if v != "v1.2.3" {
		t.Fatalf("expected v1.2.3 got %s", v)
	}
	if c != "dev" {
		t.Fatalf("expected default commit got %s", c)
	}
	if d != "" {
		t.Fatalf("expected empty date got %s", d)
	}
}

func TestResolveBuildVersion_DependencyFallback(t *testing.T) {
	info := &debug.BuildInfo{
		Main: debug.Module{Path: "example.com/tool", Version: "(devel)"},
		Deps: []*debug.Module{
			{Path: "github.com/toeirei/pybookmarks", Version: "v1.0.1"},
		},
	}
	v, _, _ := resolveBuildVersion(info)
	if v != "v1.0.1" {
		t.Fatalf("expected dependency version fallback got %s", v)
	}
}

func TestResolveBuildVersion_VCSSettings(t *testing.T) {
	info := &debug.BuildInfo{
		Main: debug.Module{Path: "github.com/toeirei/pybookmarks", Version: "(devel)"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-10-19T10:00:00Z"},
		},
	}
	v, c, d := resolveBuildVersion(info)
	if c != "abc123" || d != "2026-10-19T10:00:00Z" {
		t.Fatalf("unexpected commit/date %s %s", c, d)
	}
	if v != "abc123" {
		t.Fatalf("expected commit fallback for version got %s", v)
	}
}

func TestResolveBuildVersion_LinkerVariablesWin(t *testing.T) {
	origV, origC, origD := buildvars.Version, buildvars.GitCommit, buildvars.BuildDate
	defer func() { buildvars.Version, buildvars.GitCommit, buildvars.BuildDate = origV, origC, origD }()
	buildvars.Version, buildvars.GitCommit, buildvars.BuildDate = "1.4.0", "deadbeef", "2026-01-01"

	info := &debug.BuildInfo{
		Main:     debug.Module{Path: "github.com/toeirei/pybookmarks", Version: "v0.0.1"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "other"}},
	}
	v, c, d := resolveBuildVersion(info)
	if v != "1.4.0" || c != "deadbeef" || d != "2026-01-01" {
		t.Fatalf("linker values should win, got %s %s %s", v, c, d)
	}
}

func TestVersionCommand(t *testing.T) {
	isolate(t)
	out, err := executeCommand(t, nil, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(out, "version: ") || !strings.Contains(out, "library: 1.0") {
		t.Fatalf("unexpected version output %q", out)
	}
}
