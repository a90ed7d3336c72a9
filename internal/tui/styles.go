// Copyright (c) 2026 ToeiRei
// pybookmarks - bookmark management library
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import "github.com/charmbracelet/lipgloss"

// colorPalette defines the core colors used in the TUI.
const (
	colorSubtle    = lipgloss.Color("240") // Muted gray
	colorHighlight = lipgloss.Color("81")  // A nice teal/cyan
	colorSpecial   = lipgloss.Color("208") // An orange for stars
	colorError     = lipgloss.Color("196") // A bright red
	colorWhite     = lipgloss.Color("231")
)

var (
	docStyle = lipgloss.NewStyle().Margin(1, 2)

	helpStyle = lipgloss.NewStyle().Foreground(colorSubtle)

	errorStyle   = lipgloss.NewStyle().Foreground(colorError)

	starStyle = lipgloss.NewStyle().Foreground(colorSpecial)

	titleStyle = lipgloss.NewStyle().
			Foreground(colorHighlight).
			Bold(true).
			Padding(0, 0, 1, 0)

	itemStyle         = lipgloss.NewStyle()
	selectedItemStyle = lipgloss.NewStyle().Foreground(colorHighlight).Bold(true)
	urlStyle          = lipgloss.NewStyle().Foreground(colorSubtle)
	folderStyle       = lipgloss.NewStyle().Foreground(colorSubtle).Italic(true)

	// Tags without a color of their own.
	defaultTagStyle = lipgloss.NewStyle().Foreground(colorWhite)

	statusMessageStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Foreground(colorWhite).
				Background(colorHighlight)
)

// TagStyle returns the style used to render a tag with the given color. An
// empty color uses the default tag style.
func TagStyle(color string) lipgloss.Style {
	if color == "" {
		return defaultTagStyle
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// RenderTag renders a tag label as "#label" in its color.
func RenderTag(label, color string) string {
	return TagStyle(color).Render("#" + label)
}
