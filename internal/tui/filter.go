// Copyright (c) 2026 ToeiRei
// pybookmarks - bookmark management library
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"strings"

	"github.com/toeirei/pybookmarks/internal/model"
)

// Entry is a bookmark as shown in the list, with its tags and folder path
// already resolved.
type Entry struct {
	Bookmark model.Bookmark
	Tags     []model.Tag
	Folder   string
}

// FilterEntries returns the entries matching every word of query. A word
// matches when it is a case-insensitive substring of the url, the label,
// the folder path or one of the tag labels. A word starting with "#" only
// matches tag labels and "is:starred" keeps starred entries. An empty query
// returns entries unchanged.
func FilterEntries(entries []Entry, query string) []Entry {
	words := strings.Fields(strings.ToLower(query))
	if len(words) == 0 {
		return entries
	}
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if matchesAll(e, words) {
			out = append(out, e)
		}
	}
	return out
}

func matchesAll(e Entry, words []string) bool {
	for _, w := range words {
		if !matches(e, w) {
			return false
		}
	}
	return true
}

func matches(e Entry, w string) bool {
	if w == "is:starred" {
		return e.Bookmark.Starred
	}
	if tag, ok := strings.CutPrefix(w, "#"); ok {
		for _, t := range e.Tags {
			if strings.Contains(strings.ToLower(t.Label), tag) {
				return true
			}
		}
		return false
	}
	if strings.Contains(strings.ToLower(e.Bookmark.URL), w) ||
		strings.Contains(strings.ToLower(e.Bookmark.Label), w) ||
		strings.Contains(strings.ToLower(e.Folder), w) {
		return true
	}
	for _, t := range e.Tags {
		if strings.Contains(strings.ToLower(t.Label), w) {
			return true
		}
	}
	return false
}
