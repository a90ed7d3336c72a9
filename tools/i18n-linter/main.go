// Copyright (c) 2026 ToeiRei
// pybookmarks - bookmark management library
// This source code is licensed under the MIT license found in the LICENSE file.

// i18n-linter checks that every translation key used in the Go sources exists
// in the primary locale, that every locale carries the same keys, and lists
// keys that nothing uses.
//
// Run it from the repository root:
//
//	go run ./tools/i18n-linter
package main

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	localesDir    = "internal/i18n/locales"
	primaryLocale = "en.yaml"
)

// keyLiteral matches i18n.T("key") calls and bare string literals shaped like
// a key, e.g. a key chosen in a switch before the call.
var keyLiteral = regexp.MustCompile(`i18n\.T\("([^"]+)"|"((?:bookmark|tag|folder|import|export|backup|restore|migrate|check|db|tui|cli|config|field)\.[a-z_]+)"`)

// Report is the outcome of a lint run.
type Report struct {
	Missing  []string            // used in code, absent from the primary locale
	Orphaned []string            // in the primary locale, never used
	Mismatch map[string][]string // locale file -> keys absent from it
}

// Failed reports whether the run found problems that must be fixed.
func (r Report) Failed() bool {
	return len(r.Missing) > 0 || len(r.Mismatch) > 0
}

func main() {
	rep, err := lint(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "i18n-linter: %v\n", err)
		os.Exit(2)
	}
	rep.Write(os.Stdout)
	if rep.Failed() {
		os.Exit(1)
	}
}

func lint(root string) (Report, error) {
	used, err := findUsedKeys(root)
	if err != nil {
		return Report{}, err
	}
	dir := filepath.Join(root, localesDir)
	primary, err := loadKeysFromLocale(filepath.Join(dir, primaryLocale))
	if err != nil {
		return Report{}, fmt.Errorf("load primary locale: %w", err)
	}
	files, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return Report{}, err
	}

	rep := Report{
		Missing:  difference(used, primary),
		Orphaned: difference(primary, used),
		Mismatch: map[string][]string{},
	}
	for _, f := range files {
		if filepath.Base(f) == primaryLocale {
			continue
		}
		keys, err := loadKeysFromLocale(f)
		if err != nil {
			return Report{}, fmt.Errorf("load %s: %w", f, err)
		}
		if missing := difference(primary, keys); len(missing) > 0 {
			rep.Mismatch[filepath.Base(f)] = missing
		}
	}
	return rep, nil
}

// Write prints the report in a human readable form.
func (r Report) Write(w io.Writer) {
	section := func(title string, keys []string) {
		_, _ = fmt.Fprintf(w, "--- %s ---\n", title)
		if len(keys) == 0 {
			_, _ = fmt.Fprintln(w, "  none")
		}
		for _, k := range keys {
			_, _ = fmt.Fprintf(w, "  - %s\n", k)
		}
	}
	section("Keys used in code but missing from "+primaryLocale, r.Missing)
	section("Orphaned keys in "+primaryLocale, r.Orphaned)

	names := make([]string, 0, len(r.Mismatch))
	for n := range r.Mismatch {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		section("Keys missing from "+n, r.Mismatch[n])
	}
}

// findUsedKeys scans the non-test .go files below root for translation keys.
func findUsedKeys(root string) (map[string]struct{}, error) {
	keys := make(map[string]struct{})
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (name == "tools" || strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		for _, m := range keyLiteral.FindAllStringSubmatch(string(content), -1) {
			if m[1] != "" {
				keys[m[1]] = struct{}{}
			} else if m[2] != "" {
				keys[m[2]] = struct{}{}
			}
		}
		return nil
	})
	return keys, err
}

// loadKeysFromLocale reads a locale file and returns its keys. Nested maps
// are flattened with dots so both layouts are accepted.
func loadKeysFromLocale(path string) (map[string]struct{}, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var data map[string]any
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, err
	}
	keys := make(map[string]struct{})
	flattenYAML("", data, keys)
	return keys, nil
}

func flattenYAML(prefix string, node any, keys map[string]struct{}) {
	m, ok := node.(map[string]any)
	if !ok {
		if prefix != "" {
			keys[prefix] = struct{}{}
		}
		return
	}
	for k, v := range m {
		p := k
		if prefix != "" {
			p = prefix + "." + k
		}
		flattenYAML(p, v, keys)
	}
}

// difference returns the sorted keys of a that are not in b.
func difference(a, b map[string]struct{}) []string {
	var out []string
	for k := range a {
		if _, ok := b[k]; !ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
