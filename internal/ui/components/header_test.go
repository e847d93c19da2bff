// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/chatline-tui/internal/ui/styles"
)

func TestHeader_View(t *testing.T) {
	theme := styles.NewTheme("dark")
	theme.SetSize(100, 30)
	h := NewHeader(theme)
	h.SetWidth(100)
	h.SetService("http://127.0.0.1:5000")

	view := h.View()
	if !strings.Contains(view, "chatline") {
		t.Errorf("header missing title: %q", view)
	}
	if !strings.Contains(view, "127.0.0.1:5000") {
		t.Errorf("header missing service: %q", view)
	}
	if w := lipgloss.Width(view); w > 100 {
		t.Errorf("header width %d exceeds 100", w)
	}
}

func TestHeader_NarrowHidesService(t *testing.T) {
	theme := styles.NewTheme("dark")
	theme.SetSize(40, 20)
	h := NewHeader(theme)
	h.SetWidth(40)
	h.SetService("http://example.com")

	if strings.Contains(h.View(), "example.com") {
		t.Error("narrow layout should omit the service address")
	}
}
