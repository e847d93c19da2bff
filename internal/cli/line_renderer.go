// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/chatline-tui/internal/model"
	"github.com/jeranaias/chatline-tui/internal/session"
	"github.com/jeranaias/chatline-tui/internal/turn"
	"github.com/jeranaias/chatline-tui/internal/ui/components"
	"github.com/jeranaias/chatline-tui/internal/ui/styles"
)

var _ turn.Renderer = (*LineRenderer)(nil)

// LineOptions configures a LineRenderer.
type LineOptions struct {
	Width      int
	Classifier session.StatusClassifier
	Timestamps bool
	TypingText string

	// EchoUser prints the user's message. The REPL leaves it off since the
	// line is already on screen.
	EchoUser bool

	// ShowTyping prints a line when the service starts composing.
	ShowTyping bool
}

// LineRenderer renders a conversation as plain scrolling lines.
type LineRenderer struct {
	mu   sync.Mutex
	out  io.Writer
	re   *lipgloss.Renderer
	opts LineOptions

	transcript   *model.Transcript
	typing       bool
	inputEnabled bool
	status       string
	suggestions  []string
}

// NewLineRenderer creates a renderer writing to out.
func NewLineRenderer(out io.Writer, opts LineOptions) *LineRenderer {
	if opts.Width <= 0 {
		opts.Width = DefaultTerminalWidth
	}
	if opts.TypingText == "" {
		opts.TypingText = "typing"
	}
	re := lipgloss.NewRenderer(out)
	if !isTerminalWriter(out) {
		re.SetColorProfile(GetColorProfile())
	}
	return &LineRenderer{
		out:          out,
		re:           re,
		opts:         opts,
		transcript:   model.NewTranscript(),
		inputEnabled: true,
	}
}

// Transcript returns the messages rendered so far.
func (r *LineRenderer) Transcript() *model.Transcript {
	return r.transcript
}

// Suggestions returns the suggestions currently offered.
func (r *LineRenderer) Suggestions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.suggestions...)
}

// InputEnabled reports whether the controller allows input.
func (r *LineRenderer) InputEnabled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inputEnabled
}

// Typing reports whether the typing indicator is on.
func (r *LineRenderer) Typing() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.typing
}

func (r *LineRenderer) RenderUserMessage(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg := r.transcript.AddNew(model.RoleUser, text)
	if r.opts.EchoUser {
		r.printMessage(r.re.NewStyle().Foreground(styles.Cyan).Bold(true), msg)
	}
}

func (r *LineRenderer) RenderBotMessage(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg := r.transcript.AddNew(model.RoleBot, text)
	r.printMessage(r.re.NewStyle().Foreground(styles.Purple).Bold(true), msg)
}

func (r *LineRenderer) SetTyping(on bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.typing == on {
		return
	}
	r.typing = on
	if on && r.opts.ShowTyping {
		fmt.Fprintln(r.out, r.re.NewStyle().Foreground(styles.TextMuted).Italic(true).
			Render("Assistant is "+r.opts.TypingText+"..."))
	}
}

func (r *LineRenderer) RenderError(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transcript.AddNew(model.RoleError, msg)
	fmt.Fprintln(r.out, r.re.NewStyle().Foreground(styles.Rose).Bold(true).
		Render(styles.StatusIndicators.Error+" "+components.Sanitize(msg)))
}

// RenderStatus prints the status when it differs from the last one shown.
func (r *LineRenderer) RenderStatus(label string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if label == r.status {
		return
	}
	r.status = label

	style := r.re.NewStyle().Foreground(styles.Amber)
	indicator := styles.StatusIndicators.Pending
	if r.opts.Classifier.IsAuthenticated(label) {
		style = r.re.NewStyle().Foreground(styles.Emerald).Bold(true)
		indicator = styles.StatusIndicators.Active
	}
	fmt.Fprintln(r.out, style.Render(indicator+" Status: "+components.Sanitize(session.Humanize(label))))
}

func (r *LineRenderer) SetInputEnabled(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inputEnabled = enabled
}

// ClearInput is a no-op: the line editor starts every prompt empty.
func (r *LineRenderer) ClearInput() {}

// FocusInput is a no-op: the next prompt takes focus.
func (r *LineRenderer) FocusInput() {}

func (r *LineRenderer) RenderSuggestions(items []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.suggestions = append([]string(nil), items...)
	if len(items) == 0 {
		return
	}
	muted := r.re.NewStyle().Foreground(styles.TextMuted)
	fmt.Fprintln(r.out, muted.Render("Suggestions (type /s N to use one):"))
	for i, item := range items {
		fmt.Fprintf(r.out, "  %d. %s\n", i+1, components.Sanitize(item))
	}
}

func (r *LineRenderer) ClearSuggestions() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.suggestions = nil
}

// Info prints a local informational message.
func (r *LineRenderer) Info(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transcript.AddNew(model.RoleSystem, text)
	fmt.Fprintln(r.out, r.re.NewStyle().Foreground(styles.TextSecondary).Render(components.Sanitize(text)))
}

// printMessage writes "[15:04] Name: text" with text wrapped under the label.
func (r *LineRenderer) printMessage(label lipgloss.Style, msg *model.Message) {
	prefix := msg.Role.DisplayName() + ":"
	if r.opts.Timestamps {
		prefix = "[" + msg.Timestamp.Format("15:04") + "] " + prefix
	}
	body := WrapText(components.Sanitize(msg.Content), r.opts.Width-2)
	body = strings.ReplaceAll(body, "\n", "\n  ")
	fmt.Fprintf(r.out, "%s\n  %s\n", label.Render(prefix), body)
}
