// Copyright (c) 2026 ToeiRei
// pybookmarks - bookmark management library
// This source code is licensed under the MIT license found in the LICENSE file.

package model

import (
	"fmt"
	"time"
)

// Bookmark is a single saved URL. Folder is nil for bookmarks that live at
// the top level.
type Bookmark struct {
	ID        int       `json:"id"`
	URL       string    `json:"url"`
	Label     string    `json:"label,omitempty"`
	Folder    *int      `json:"folder,omitempty"`
	Starred   bool      `json:"starred"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// String returns the label followed by the URL, or just the URL when the
// bookmark has no label.
func (b Bookmark) String() string {
	if b.Label != "" {
		return fmt.Sprintf("%s (%s)", b.Label, b.URL)
	}
	return b.URL
}

// Title returns the label, falling back to the URL.
func (b Bookmark) Title() string {
	if b.Label != "" {
		return b.Label
	}
	return b.URL
}

// NewBookmark holds the fields required to create a bookmark.
type NewBookmark struct {
	URL     string
	Label   string
	Folder  *int
	Starred bool

	// CreatedAt overrides the creation time, e.g. for imported bookmarks.
	// The zero value means now.
	CreatedAt time.Time
}

// Tag is used to organize bookmarks. Color is empty when the tag has no
// display color.
type Tag struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
	Color string `json:"color,omitempty"`
}

func (t Tag) String() string {
	return t.Label
}

// NewTag holds the fields required to create a tag.
type NewTag struct {
	Label string
	Color string
}

// Folder groups bookmarks. Parent is nil for root folders.
type Folder struct {
	ID     int    `json:"id"`
	Label  string `json:"label"`
	Parent *int   `json:"parent,omitempty"`
}

func (f Folder) String() string {
	return f.Label
}

// NewFolder holds the fields required to create a folder.
type NewFolder struct {
	Label  string
	Parent *int
}

// FolderNode is a folder together with its sub folders, used when rendering
// the folder hierarchy.
type FolderNode struct {
	Folder   Folder
	Children []*FolderNode
}

// AuditLogEntry represents a single entry in the audit log.
type AuditLogEntry struct {
	ID        int    `json:"id"`
	Timestamp string `json:"timestamp"`
	Username  string `json:"username"`
	Action    string `json:"action"`
	Details   string `json:"details"`
}

// IntPtr is a small helper for optional ids.
func IntPtr(v int) *int {
	return &v
}

// SameIntPtr reports whether two optional ids hold the same value.
func SameIntPtr(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
