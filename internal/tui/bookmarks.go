// Copyright (c) 2026 ToeiRei
// pybookmarks - bookmark management library
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/toeirei/pybookmarks/internal/i18n"
	"github.com/toeirei/pybookmarks/internal/model"
	"github.com/toeirei/pybookmarks/pybookmarks"
)

// Library is the part of *pybookmarks.API the TUI reads and writes.
type Library interface {
	AllBookmarks(ctx context.Context) ([]model.Bookmark, error)
	BookmarkTags(ctx context.Context, id int) ([]model.Tag, error)
	AllFolders(ctx context.Context) ([]model.Folder, error)
	Star(ctx context.Context, id int, starred bool) error
}

var _ Library = (*pybookmarks.API)(nil)

// copyToClipboard is swapped in tests.
var copyToClipboard = clipboard.WriteAll

// entriesLoadedMsg carries a fresh list of entries.
type entriesLoadedMsg struct {
	entries []Entry
	err     error
}

// starToggledMsg reports the result of a star toggle.
type starToggledMsg struct {
	id      int
	starred bool
	err     error
}

// bookmarksModel is the bookmark list view.
type bookmarksModel struct {
	ctx       context.Context
	lib       Library
	entries   []Entry // The master list
	shown     []Entry // The filtered list for display
	cursor    int
	filter    textinput.Model
	filtering bool
	loaded    bool
	status    string
	err       error
	width     int
	height    int
}

func newBookmarksModel(ctx context.Context, lib Library) bookmarksModel {
	ti := textinput.New()
	ti.Prompt = i18n.T("tui.filter_prompt")
	ti.CharLimit = 200
	return bookmarksModel{ctx: ctx, lib: lib, filter: ti}
}

// LoadEntries reads all bookmarks with their tags and folder paths.
func LoadEntries(ctx context.Context, lib Library) ([]Entry, error) {
	bms, err := lib.AllBookmarks(ctx)
	if err != nil {
		return nil, err
	}
	folders, err := lib.AllFolders(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(bms))
	for _, b := range bms {
		tags, err := lib.BookmarkTags(ctx, b.ID)
		if err != nil {
			return nil, err
		}
		e := Entry{Bookmark: b, Tags: tags}
		if b.Folder != nil {
			e.Folder = strings.Join(pybookmarks.FolderPath(folders, *b.Folder), "/")
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (m bookmarksModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		entries, err := LoadEntries(m.ctx, m.lib)
		return entriesLoadedMsg{entries: entries, err: err}
	}
}

func (m bookmarksModel) starCmd(id int, starred bool) tea.Cmd {
	return func() tea.Msg {
		return starToggledMsg{id: id, starred: starred, err: m.lib.Star(m.ctx, id, starred)}
	}
}

func (m bookmarksModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m *bookmarksModel) applyFilter() {
	m.shown = FilterEntries(m.entries, m.filter.Value())
	if m.cursor >= len(m.shown) {
		m.cursor = len(m.shown) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m bookmarksModel) current() (Entry, bool) {
	if len(m.shown) == 0 {
		return Entry{}, false
	}
	return m.shown[m.cursor], true
}

func (m bookmarksModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case entriesLoadedMsg:
		m.loaded = true
		m.err = msg.err
		if msg.err == nil {
			m.entries = msg.entries
		}
		m.applyFilter()
		return m, nil

	case starToggledMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		for i := range m.entries {
			if m.entries[i].Bookmark.ID == msg.id {
				m.entries[i].Bookmark.Starred = msg.starred
				key := "tui.unstarred"
				if msg.starred {
					key = "tui.starred"
				}
				m.status = i18n.T(key, m.entries[i].Bookmark.Title())
			}
		}
		m.applyFilter()
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			return m.updateFilter(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

// updateFilter captures all input for the filter while filtering.
func (m bookmarksModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyEnter:
		// Leave filter mode but keep the filter.
		m.filtering = false
		m.filter.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m bookmarksModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "/":
		m.filtering = true
		m.status = ""
		return m, m.filter.Focus()
	case "esc":
		if m.filter.Value() != "" {
			m.filter.SetValue("")
			m.applyFilter()
		}
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.shown)-1 {
			m.cursor++
		}
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		if len(m.shown) > 0 {
			m.cursor = len(m.shown) - 1
		}
	case "r":
		m.status = ""
		m.err = nil
		return m, m.loadCmd()
	case "s":
		if e, ok := m.current(); ok {
			return m, m.starCmd(e.Bookmark.ID, !e.Bookmark.Starred)
		}
	case "c":
		if e, ok := m.current(); ok {
			if err := copyToClipboard(e.Bookmark.URL); err != nil {
				m.err = fmt.Errorf("%s", i18n.T("tui.copy_failed", err))
			} else {
				m.status = i18n.T("tui.copied", e.Bookmark.URL)
			}
		}
	}
	return m, nil
}

// listHeight is the number of rows available for entries.
func (m bookmarksModel) listHeight() int {
	if m.height <= 0 {
		return 20
	}
	// Title, filter line, blank line, footer and margins.
	h := m.height - 7
	if h < 1 {
		h = 1
	}
	return h
}

func (m bookmarksModel) renderEntry(e Entry, selected bool) string {
	var b strings.Builder
	if selected {
		b.WriteString(selectedItemStyle.Render("> "))
	} else {
		b.WriteString("  ")
	}
	if e.Bookmark.Starred {
		b.WriteString(starStyle.Render("★ "))
	} else {
		b.WriteString("  ")
	}
	title := e.Bookmark.Title()
	if selected {
		b.WriteString(selectedItemStyle.Render(title))
	} else {
		b.WriteString(itemStyle.Render(title))
	}
	if e.Bookmark.Label != "" {
		b.WriteString(" " + urlStyle.Render(e.Bookmark.URL))
	}
	for _, t := range e.Tags {
		b.WriteString(" " + RenderTag(t.Label, t.Color))
	}
	if e.Folder != "" {
		b.WriteString(" " + folderStyle.Render("["+e.Folder+"]"))
	}
	return b.String()
}

func (m bookmarksModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(i18n.T("tui.title", len(m.shown), len(m.entries))))
	b.WriteString("\n")
	if m.filtering || m.filter.Value() != "" {
		b.WriteString(m.filter.View())
		b.WriteString("\n")
	}

	switch {
	case !m.loaded:
		b.WriteString(helpStyle.Render(i18n.T("tui.loading")))
		b.WriteString("\n")
	case len(m.shown) == 0:
		b.WriteString(helpStyle.Render(i18n.T("tui.empty")))
		b.WriteString("\n")
	default:
		// Keep the cursor inside the visible window.
		h := m.listHeight()
		start := 0
		if m.cursor >= h {
			start = m.cursor - h + 1
		}
		end := start + h
		if end > len(m.shown) {
			end = len(m.shown)
		}
		for i := start; i < end; i++ {
			b.WriteString(m.renderEntry(m.shown[i], i == m.cursor))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	var left string
	switch {
	case m.err != nil:
		left = errorStyle.Render(i18n.T("tui.error", m.err))
	case m.status != "":
		left = statusMessageStyle.Render(m.status)
	}
	width := m.width - 4
	if width < 0 {
		width = 0
	}
	b.WriteString(AlignFooter(left, helpStyle.Render(i18n.T("tui.help")), width))
	return docStyle.Render(b.String())
}
