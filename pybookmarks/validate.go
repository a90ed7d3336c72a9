// Copyright (c) 2026 ToeiRei
// pybookmarks - bookmark management library
// This source code is licensed under the MIT license found in the LICENSE file.

package pybookmarks

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/toeirei/pybookmarks/internal/db"
	"github.com/toeirei/pybookmarks/internal/db/tags"
)

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateURL returns the normalized form of raw, which is how the url is
// stored and compared.
func ValidateURL(raw string) (string, error) {
	return db.NormalizeURL(raw)
}

// ValidateColor checks a tag color. Valid colors are empty, "#rgb",
// "#rrggbb" or an ANSI 256 color index. Hex colors are returned in lower
// case.
func ValidateColor(c string) (string, error) {
	c = strings.TrimSpace(c)
	if c == "" {
		return "", nil
	}
	if hexColor.MatchString(c) {
		return strings.ToLower(c), nil
	}
	if n, err := strconv.Atoi(c); err == nil && n >= 0 && n <= 255 {
		return strconv.Itoa(n), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidColor, c)
}

// ValidateTagLabel trims label and checks that it can be used in tag
// expressions.
func ValidateTagLabel(label string) (string, error) {
	label = strings.TrimSpace(label)
	if label == "" || !tags.ValidLabel(label) {
		return "", fmt.Errorf("%w: %q", ErrInvalidLabel, label)
	}
	return label, nil
}
