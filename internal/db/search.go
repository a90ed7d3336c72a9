// Copyright (c) 2026 ToeiRei
// pybookmarks - bookmark management library
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import "strings"

// TokenizeSearchQuery splits a query into lower-cased tokens, trimming whitespace.
// Returns nil for empty input.
func TokenizeSearchQuery(q string) []string {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil
	}
	parts := strings.Fields(q)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// SearchTerms is a tokenized search query split into its filter kinds.
type SearchTerms struct {
	// Words must each match the url, the label or a tag label.
	Words []string
	// TagExprs are tag expressions taken from "tag:" tokens.
	TagExprs []string
	// Starred restricts results to starred bookmarks ("is:starred").
	Starred bool
}

// ParseSearchQuery tokenizes q and classifies the "tag:" and "is:starred"
// operators.
func ParseSearchQuery(q string) SearchTerms {
	var st SearchTerms
	for _, tok := range TokenizeSearchQuery(q) {
		switch {
		case tok == "is:starred":
			st.Starred = true
		case strings.HasPrefix(tok, "tag:") && len(tok) > len("tag:"):
			st.TagExprs = append(st.TagExprs, strings.TrimPrefix(tok, "tag:"))
		default:
			st.Words = append(st.Words, tok)
		}
	}
	return st
}

// likePattern escapes LIKE wildcards with '!' so the pattern works with an
// explicit ESCAPE clause on every supported engine.
func likePattern(tok string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return "%" + r.Replace(tok) + "%"
}
