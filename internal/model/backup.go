// Copyright (c) 2026 ToeiRei
// pybookmarks - bookmark management library
// This source code is licensed under the MIT license found in the LICENSE file.

package model

// CurrentSchemaVersion is written into every backup produced by this build.
const CurrentSchemaVersion = 1

// BackupData is a container for all data to be exported for a backup.
// It holds slices of all the core models in pybookmarks.
type BackupData struct {
	// SchemaVersion helps in handling migrations during restore.
	SchemaVersion int `json:"schema_version"`

	// Data from each table.
	Folders         []Folder        `json:"folders"`
	Tags            []Tag           `json:"tags"`
	Bookmarks       []Bookmark      `json:"bookmarks"`
	BookmarkTags    []BookmarkTag   `json:"bookmark_tags"`
	AuditLogEntries []AuditLogEntry `json:"audit_log_entries"`
}

// BookmarkTag represents the many-to-many relationship between bookmarks and tags.
type BookmarkTag struct {
	BookmarkID int `json:"bookmark_id"`
	TagID      int `json:"tag_id"`
}
