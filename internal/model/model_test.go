// Copyright (c) 2026 ToeiRei
// pybookmarks - bookmark management library
// This source code is licensed under the MIT license found in the LICENSE file.

package model

import "testing"

func TestBookmarkString(t *testing.T) {
	b := Bookmark{URL: "https://go.dev/"}
	if got := b.String(); got != "https://go.dev/" {
		t.Errorf("unexpected Bookmark.String(): %q", got)
	}
	if got := b.Title(); got != "https://go.dev/" {
		t.Errorf("unexpected Bookmark.Title(): %q", got)
	}

	b.Label = "Go"
	if got := b.String(); got != "Go (https://go.dev/)" {
		t.Errorf("unexpected Bookmark.String() with label: %q", got)
	}
	if got := b.Title(); got != "Go" {
		t.Errorf("unexpected Bookmark.Title() with label: %q", got)
	}
}

func TestSameIntPtr(t *testing.T) {
	cases := []struct {
		a, b *int
		want bool
	}{
		{nil, nil, true},
		{IntPtr(1), nil, false},
		{nil, IntPtr(1), false},
		{IntPtr(2), IntPtr(2), true},
		{IntPtr(2), IntPtr(3), false},
	}
	for i, c := range cases {
		if got := SameIntPtr(c.a, c.b); got != c.want {
			t.Errorf("case %d: got %v want %v", i, got, c.want)
		}
	}
}
