// Copyright (c) 2026 ToeiRei
// pybookmarks - bookmark management library
// This source code is licensed under the MIT license found in the LICENSE file.

// Package backup reads and writes zstd-compressed JSON backups.
package backup

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/toeirei/pybookmarks/internal/model"
)

// Extension is appended to backup file names that lack it.
const Extension = ".zst"

// DefaultFileName returns the file name used when no output file is given.
func DefaultFileName(now time.Time) string {
	return fmt.Sprintf("pybookmarks-backup-%s.json.zst", now.Format("2006-01-02"))
}

// FileName returns name with the zstd extension appended if missing.
func FileName(name string) string {
	if !strings.HasSuffix(name, Extension) {
		return name + Extension
	}
	return name
}

// Write streams data as indented JSON through a zstd encoder.
func Write(w io.Writer, data *model.BackupData) error {
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("could not create zstd writer: %w", err)
	}
	encoder := json.NewEncoder(zw)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		_ = zw.Close()
		return fmt.Errorf("could not encode backup: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("could not flush zstd writer: %w", err)
	}
	return nil
}

// Read decodes a zstd-compressed JSON backup. Backups written by a newer
// schema version are rejected.
func Read(r io.Reader) (*model.BackupData, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("could not create zstd reader: %w", err)
	}
	defer zr.Close()

	var data model.BackupData
	if err := json.NewDecoder(zr).Decode(&data); err != nil {
		return nil, fmt.Errorf("could not decode json from zstd reader: %w", err)
	}
	if data.SchemaVersion > model.CurrentSchemaVersion {
		return nil, fmt.Errorf("backup schema version %d is newer than supported version %d", data.SchemaVersion, model.CurrentSchemaVersion)
	}
	return &data, nil
}

// WriteFile writes data to filename, replacing an existing file.
func WriteFile(filename string, data *model.BackupData) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("could not create file: %w", err)
	}
	if err := Write(f, data); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// ReadFile reads a backup from filename.
func ReadFile(filename string) (*model.BackupData, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("could not open file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Read(f)
}
