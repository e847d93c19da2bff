// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/jeranaias/chatline-tui/internal/ui/styles"
)

func TestSuggestionChips_Selection(t *testing.T) {
	chips := NewSuggestionChips(styles.NewTheme("dark"))
	if _, ok := chips.Selected(); ok {
		t.Error("hidden chips should have no selection")
	}

	chips.Show([]string{"a", "b", "c"})
	if got, _ := chips.Selected(); got != "a" {
		t.Errorf("initial selection = %q, want a", got)
	}
	chips.Next()
	chips.Next()
	chips.Next()
	if got, _ := chips.Selected(); got != "a" {
		t.Errorf("Next() should wrap, got %q", got)
	}
	chips.Prev()
	if got, _ := chips.Selected(); got != "c" {
		t.Errorf("Prev() should wrap, got %q", got)
	}

	chips.Hide()
	if chips.Visible() || chips.View() != "" || len(chips.Items()) != 0 {
		t.Error("Hide() should remove all chips")
	}
}

func TestSuggestionChips_ShowEmpty(t *testing.T) {
	chips := NewSuggestionChips(styles.NewTheme("dark"))
	chips.Show(nil)
	if chips.Visible() {
		t.Error("empty suggestion list should not be visible")
	}
	chips.Next()
}

func TestSuggestionChips_View(t *testing.T) {
	chips := NewSuggestionChips(styles.NewTheme("dark"))
	chips.SetWidth(30)
	chips.Show([]string{"Check my balance", "Log in to Vaulta", "Send a payment"})

	view := chips.View()
	for _, item := range chips.Items() {
		if !strings.Contains(view, item) {
			t.Errorf("View() missing %q", item)
		}
	}
	if strings.Count(view, "\n") < 3 {
		t.Error("chips should wrap onto several rows at width 30")
	}
}
