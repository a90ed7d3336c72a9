// Copyright (c) 2026 ToeiRei
// pybookmarks - bookmark management library
// This source code is licensed under the MIT license found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config is the application configuration.
type Config struct {
	Database Database `mapstructure:"database" yaml:"database"`
	Language string   `mapstructure:"language" yaml:"language"`
	Fetch    Fetch    `mapstructure:"fetch" yaml:"fetch"`
}

// Database selects the storage backend.
type Database struct {
	Type string `mapstructure:"type" yaml:"type"`
	Dsn  string `mapstructure:"dsn" yaml:"dsn"`
}

// Fetch controls page title lookups and link checks.
type Fetch struct {
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Browser     bool          `mapstructure:"browser" yaml:"browser"`
	Concurrency int           `mapstructure:"concurrency" yaml:"concurrency"`
}

// DefaultDatabasePath returns the SQLite file used when no DSN is configured:
// $XDG_DATA_HOME/pybookmarks/bookmarks.db, falling back to the user config
// directory and finally the working directory.
func DefaultDatabasePath() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "pybookmarks", "bookmarks.db")
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "pybookmarks", "bookmarks.db")
	}
	return "bookmarks.db"
}

// DefaultConfig returns the configuration used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Database: Database{Type: "sqlite", Dsn: DefaultDatabasePath()},
		Language: "en",
		Fetch:    Fetch{Timeout: 10 * time.Second, Concurrency: 8},
	}
}

// Defaults returns the default values for every configuration key.
func Defaults() map[string]any {
	c := DefaultConfig()
	return map[string]any{
		"database.type":     c.Database.Type,
		"database.dsn":      c.Database.Dsn,
		"language":          c.Language,
		"fetch.timeout":     c.Fetch.Timeout,
		"fetch.browser":     c.Fetch.Browser,
		"fetch.concurrency": c.Fetch.Concurrency,
	}
}
