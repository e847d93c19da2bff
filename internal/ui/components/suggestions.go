// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/chatline-tui/internal/ui/styles"
)

// SuggestionChips is the row of canned prompts offered before the first
// message. Tab moves the selection; the chat model submits the selected one.
type SuggestionChips struct {
	items    []string
	selected int
	visible  bool
	width    int
	theme    *styles.Theme
}

// NewSuggestionChips creates a hidden, empty chip row.
func NewSuggestionChips(theme *styles.Theme) *SuggestionChips {
	return &SuggestionChips{theme: theme, width: 80}
}

// Show replaces the chips with items and makes them visible.
func (s *SuggestionChips) Show(items []string) {
	s.items = append([]string(nil), items...)
	s.selected = 0
	s.visible = len(items) > 0
}

// Hide removes all chips.
func (s *SuggestionChips) Hide() {
	s.items = nil
	s.selected = 0
	s.visible = false
}

// Visible reports whether chips are on screen.
func (s *SuggestionChips) Visible() bool {
	return s.visible
}

// Items returns the chip texts.
func (s *SuggestionChips) Items() []string {
	return append([]string(nil), s.items...)
}

// SetWidth sets the available width.
func (s *SuggestionChips) SetWidth(width int) {
	s.width = width
}

// Next moves the selection right, wrapping around.
func (s *SuggestionChips) Next() {
	if len(s.items) == 0 {
		return
	}
	s.selected = (s.selected + 1) % len(s.items)
}

// Prev moves the selection left, wrapping around.
func (s *SuggestionChips) Prev() {
	if len(s.items) == 0 {
		return
	}
	s.selected = (s.selected - 1 + len(s.items)) % len(s.items)
}

// Selected returns the selected chip text and whether one exists.
func (s *SuggestionChips) Selected() (string, bool) {
	if !s.visible || len(s.items) == 0 {
		return "", false
	}
	return s.items[s.selected], true
}

// View renders the chips, wrapping onto more lines when the row is full.
func (s *SuggestionChips) View() string {
	if !s.visible {
		return ""
	}

	var rows []string
	var row []string
	rowWidth := 0
	for i, item := range s.items {
		style := s.theme.Chip
		if i == s.selected {
			style = s.theme.ChipSelected
		}
		chip := style.Render(truncate(Sanitize(item), maxInt(s.width-6, 8)))
		w := lipgloss.Width(chip)
		if rowWidth > 0 && rowWidth+w+1 > s.width {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row, rowWidth = nil, 0
		}
		if rowWidth > 0 {
			row = append(row, " ")
			rowWidth++
		}
		row = append(row, chip)
		rowWidth += w
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
