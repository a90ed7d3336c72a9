// Copyright (c) 2026 ToeiRei
// pybookmarks - bookmark management library
// This source code is licensed under the MIT license found in the LICENSE file.

// Package tui provides the interactive terminal interface of pybookmarks: a
// filterable list of bookmarks with their tags rendered in color.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/toeirei/pybookmarks/internal/logging"
)

// Run starts the TUI on the alternate screen and blocks until the user quits.
func Run(ctx context.Context, lib Library) error {
	p := tea.NewProgram(newBookmarksModel(ctx, lib), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		logging.Errorf("TUI run error: %v", err)
		return err
	}
	return nil
}
