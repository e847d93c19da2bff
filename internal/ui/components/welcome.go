// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/chatline-tui/internal/ui/styles"
)

// =============================================================================
// WELCOME PANEL
// =============================================================================

// Welcome is the panel shown in place of an empty transcript.
type Welcome struct {
	Service string
	Width   int
	Height  int
	theme   *styles.Theme
}

// NewWelcome creates a welcome panel.
func NewWelcome(theme *styles.Theme) *Welcome {
	return &Welcome{Width: 80, Height: 24, theme: theme}
}

// SetService sets the service address shown in the panel.
func (w *Welcome) SetService(service string) {
	w.Service = service
}

// SetSize updates the area the panel is centered in.
func (w *Welcome) SetSize(width, height int) {
	w.Width = width
	w.Height = height
}

// View renders the panel centered in Width x Height.
// Narrow or short areas get the one-line hint only.
func (w *Welcome) View() string {
	width := maxInt(w.Width, 20)
	height := maxInt(w.Height, 1)

	muted := lipgloss.NewStyle().Foreground(styles.TextMuted)
	hint := muted.Render("Type a message, or press Tab to pick a suggestion.")
	if width < 50 || height < 8 {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, hint)
	}

	lines := []string{w.theme.HeaderTitle.Render("chatline")}
	if w.Service != "" {
		lines = append(lines, muted.Render("Connected to ")+
			lipgloss.NewStyle().Foreground(styles.Cyan).Render(truncate(w.Service, width-24)))
	}
	lines = append(lines, "", hint, muted.Render("/help lists commands, F1 shows keys."))

	boxWidth := 56
	if boxWidth > width-4 {
		boxWidth = width - 4
	}
	box := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.Purple).
		Padding(1, 2).
		Width(boxWidth).
		Align(lipgloss.Center).
		Render(strings.Join(lines, "\n"))

	if lipgloss.Height(box) > height {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, hint)
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
