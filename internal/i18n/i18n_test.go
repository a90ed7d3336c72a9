// Copyright (c) 2026 ToeiRei
// pybookmarks - bookmark management library
// This source code is licensed under the MIT license found in the LICENSE file.

package i18n

import (
	"sort"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestInitAndTranslate(t *testing.T) {
	Init("en")
	if got := T("tag.list_empty"); got != "No tags." {
		t.Fatalf("unexpected english text %q", got)
	}
	if got := T("bookmark.added", 3, "https://go.dev/"); got != "Added bookmark 3: https://go.dev/" {
		t.Fatalf("unexpected formatted text %q", got)
	}
	if got := T("bookmark.untagged", 7, "go"); got != "Removed tag go from bookmark 7" {
		t.Fatalf("unexpected indexed formatting %q", got)
	}

	SetLang("de")
	if GetLang() != "de" {
		t.Fatalf("expected de, got %q", GetLang())
	}
	if got := T("tag.list_empty"); got != "Keine Tags." {
		t.Fatalf("unexpected german text %q", got)
	}
	Init("en")
}

func TestUnknownIDAndLanguage(t *testing.T) {
	Init("xx")
	if got := T("tag.list_empty"); got != "No tags." {
		t.Fatalf("unknown language should fall back to english, got %q", got)
	}
	if got := T("does.not.exist"); got != "does.not.exist" {
		t.Fatalf("unknown id should be returned unchanged, got %q", got)
	}
	Init("")
	if GetLang() != "en" {
		t.Fatalf("empty language should select en, got %q", GetLang())
	}
}

func TestAvailableLocales(t *testing.T) {
	Init("en")
	got := SortedLocales()
	if len(got) != 2 || got[0] != "de" || got[1] != "en" {
		t.Fatalf("unexpected locales %v", got)
	}
	names := GetAvailableLocales()
	if names["de"] != "Deutsch" || names["en"] != "English" {
		t.Fatalf("unexpected locale names %v", names)
	}
}

// TestLocalesHaveSameKeys keeps the translations in sync.
func TestLocalesHaveSameKeys(t *testing.T) {
	load := func(name string) []string {
		data, err := localeFS.ReadFile("locales/" + name)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		m := map[string]string{}
		if err := yaml.Unmarshal(data, &m); err != nil {
			t.Fatalf("parse %s: %v", name, err)
		}
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return keys
	}
	en, de := load("en.yaml"), load("de.yaml")
	if len(en) != len(de) {
		t.Fatalf("en has %d keys, de has %d", len(en), len(de))
	}
	for i := range en {
		if en[i] != de[i] {
			t.Fatalf("key mismatch: en %q, de %q", en[i], de[i])
		}
	}
}
