// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/chatline-tui/internal/ui/styles"
)

// =============================================================================
// TYPING INDICATOR
// =============================================================================

// typingFrames is an ASCII-safe dot animation.
var typingFrames = spinner.Spinner{
	Frames: []string{".  ", ".. ", "...", " ..", "  .", "   "},
	FPS:    time.Second / 6,
}

// TypingIndicator shows that the service is composing a reply.
// At most one is ever visible; Start and Stop are idempotent.
type TypingIndicator struct {
	spinner spinner.Model
	text    string
	active  bool
	theme   *styles.Theme
}

// NewTypingIndicator creates an inactive indicator labelled text.
func NewTypingIndicator(theme *styles.Theme, text string) TypingIndicator {
	if text == "" {
		text = "typing"
	}
	return TypingIndicator{
		spinner: newTypingSpinner(),
		text:    text,
		theme:   theme,
	}
}

func newTypingSpinner() spinner.Model {
	return spinner.New(spinner.WithSpinner(typingFrames))
}

// SetText changes the label shown next to the animation.
func (t *TypingIndicator) SetText(text string) {
	if text != "" {
		t.text = text
	}
}

// Start shows the indicator. It returns the first tick command, or nil
// when the indicator is already visible.
func (t *TypingIndicator) Start() tea.Cmd {
	if t.active {
		return nil
	}
	t.active = true
	// Fresh model id so ticks from an earlier run are ignored.
	t.spinner = newTypingSpinner()
	return t.spinner.Tick
}

// Stop hides the indicator.
func (t *TypingIndicator) Stop() {
	t.active = false
}

// IsActive reports whether the indicator is visible.
func (t *TypingIndicator) IsActive() bool {
	return t.active
}

// Update advances the animation while active.
func (t TypingIndicator) Update(msg tea.Msg) (TypingIndicator, tea.Cmd) {
	if !t.active {
		return t, nil
	}
	var cmd tea.Cmd
	t.spinner, cmd = t.spinner.Update(msg)
	return t, cmd
}

// View renders the indicator, or "" when inactive.
func (t TypingIndicator) View() string {
	if !t.active {
		return ""
	}
	return t.theme.TypingText.Render("Assistant is "+t.text) + " " + t.theme.Spinner.Render(t.spinner.View())
}
