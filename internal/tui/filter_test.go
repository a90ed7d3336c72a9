// Copyright (c) 2026 ToeiRei
// pybookmarks - bookmark management library
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"testing"

	"github.com/toeirei/pybookmarks/internal/model"
)

func sampleEntries() []Entry {
	return []Entry{
		{
			Bookmark: model.Bookmark{ID: 1, URL: "https://go.dev/", Label: "Go", Starred: true},
			Tags:     []model.Tag{{ID: 1, Label: "lang"}},
			Folder:   "dev",
		},
		{
			Bookmark: model.Bookmark{ID: 2, URL: "https://www.rust-lang.org/", Label: "Rust"},
			Tags:     []model.Tag{{ID: 1, Label: "lang"}, {ID: 2, Label: "systems"}},
		},
		{
			Bookmark: model.Bookmark{ID: 3, URL: "https://news.example/"},
			Folder:   "daily/reading",
		},
	}
}

func ids(entries []Entry) []int {
	out := []int{}
	for _, e := range entries {
		out = append(out, e.Bookmark.ID)
	}
	return out
}

func TestFilterEntries(t *testing.T) {
	cases := []struct {
		query string
		want  []int
	}{
		{"", []int{1, 2, 3}},
		{"   ", []int{1, 2, 3}},
		{"GO", []int{1}},
		{"lang", []int{1, 2}},
		{"#lang", []int{1, 2}},
		{"#rust", []int{}},
		{"rust", []int{2}},
		{"lang systems", []int{2}},
		{"is:starred", []int{1}},
		{"is:starred rust", []int{}},
		{"reading", []int{3}},
		{"example", []int{3}},
		{"nothing", []int{}},
	}
	for _, c := range cases {
		got := ids(FilterEntries(sampleEntries(), c.query))
		if len(got) != len(c.want) {
			t.Fatalf("FilterEntries(%q) = %v, want %v", c.query, got, c.want)
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Fatalf("FilterEntries(%q) = %v, want %v", c.query, got, c.want)
			}
		}
	}
}

func TestFilterEntries_DoesNotModifyInput(t *testing.T) {
	in := sampleEntries()
	_ = FilterEntries(in, "rust")
	if len(in) != 3 || in[0].Bookmark.ID != 1 {
		t.Fatalf("input modified: %v", ids(in))
	}
}
