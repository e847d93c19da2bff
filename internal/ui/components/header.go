// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/chatline-tui/internal/ui/styles"
)

// Header is the title bar: product name on the left, service on the right.
type Header struct {
	Title   string
	Service string
	Width   int
	theme   *styles.Theme
}

// NewHeader creates a header with default values.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title: "chatline",
		Width: 80,
		theme: theme,
	}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetService sets the service address shown on the right.
func (h *Header) SetService(service string) {
	h.Service = service
}

// View renders the header.
func (h *Header) View() string {
	width := maxInt(h.Width, 20)
	inner := width - 2

	accent := lipgloss.NewStyle().Foreground(styles.Purple)
	brand := accent.Render("< ") + h.theme.HeaderTitle.Render(h.Title) + accent.Render(" >")

	right := ""
	if h.Service != "" && h.theme.GetLayoutMode() != styles.LayoutNarrow {
		room := inner - lipgloss.Width(brand) - 2
		if room > 8 {
			right = h.theme.HeaderMeta.Render(truncate(h.Service, room))
		}
	}

	gap := inner - lipgloss.Width(brand) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	line := brand + runewidth.FillRight("", gap) + right
	return h.theme.Header.Width(width).Render(line)
}
