// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/chatline-tui/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// StatusBar is the bottom line: conversation status on the left, session
// and shortcut hints on the right.
type StatusBar struct {
	Width     int
	Label     string // humanized status, "" when the service sent none yet
	Positive  bool   // signed-in treatment
	SessionID string
	Busy      bool
	theme     *styles.Theme
}

// NewStatusBar creates an empty status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{Width: 80, theme: theme}
}

// SetWidth updates the bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// SetStatus sets the humanized label and its treatment.
func (s *StatusBar) SetStatus(label string, positive bool) {
	s.Label = label
	s.Positive = positive
}

// SetSession sets the session id shown in the bar.
func (s *StatusBar) SetSession(id string) {
	s.SessionID = id
}

// SetBusy marks a request as in flight.
func (s *StatusBar) SetBusy(busy bool) {
	s.Busy = busy
}

// View renders the status bar.
func (s *StatusBar) View() string {
	width := maxInt(s.Width, 20)
	inner := width - 2

	left := ""
	if s.Label != "" {
		left = styles.RenderStatusLabel(s.Label, s.Positive)
	}

	var rightParts []string
	if s.Busy {
		rightParts = append(rightParts, lipgloss.NewStyle().Foreground(styles.Amber).Render("sending"))
	}
	if s.SessionID != "" && s.theme.GetLayoutMode() != styles.LayoutNarrow {
		rightParts = append(rightParts, s.theme.ShortcutDesc.Render("session "+shortID(s.SessionID, 8)))
	}
	if s.theme.GetLayoutMode() == styles.LayoutWide {
		rightParts = append(rightParts, s.renderShortcuts())
	}
	right := strings.Join(rightParts, "  ")

	// Drop the right side before squeezing the status label.
	if lipgloss.Width(left)+lipgloss.Width(right)+1 > inner {
		right = ""
	}
	if lipgloss.Width(left) > inner && s.Label != "" {
		left = styles.RenderStatusLabel(truncate(s.Label, maxInt(inner-5, 1)), s.Positive)
	}

	gap := maxInt(inner-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return s.theme.StatusBar.Width(width).Render(left + runewidth.FillRight("", gap) + right)
}

// renderShortcuts renders keyboard shortcut hints.
func (s *StatusBar) renderShortcuts() string {
	shortcuts := []string{
		s.theme.ShortcutKey.Render("tab") + s.theme.ShortcutDesc.Render(" suggest"),
		s.theme.ShortcutKey.Render("x") + s.theme.ShortcutDesc.Render(" dismiss"),
		s.theme.ShortcutKey.Render("/help"),
	}
	return strings.Join(shortcuts, " ")
}
