// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/chatline-tui/internal/model"
	"github.com/jeranaias/chatline-tui/internal/ui/styles"
)

// =============================================================================
// MARKDOWN
// =============================================================================

// Markdown renders bot replies through glamour. Renderers are cached per
// wrap width since building one parses a full style sheet.
type Markdown struct {
	mu        sync.Mutex
	style     string
	renderers map[int]*glamour.TermRenderer
}

// NewMarkdown creates a markdown renderer for the "dark" or "light" style.
func NewMarkdown(dark bool) *Markdown {
	style := "light"
	if dark {
		style = "dark"
	}
	return &Markdown{style: style, renderers: make(map[int]*glamour.TermRenderer)}
}

// Render formats text for width. On any glamour failure the plain text is
// returned unchanged.
func (m *Markdown) Render(text string, width int) string {
	if m == nil {
		return text
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.renderers[width]
	if !ok {
		var err error
		r, err = glamour.NewTermRenderer(
			glamour.WithStandardStyle(m.style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return text
		}
		m.renderers[width] = r
	}

	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}

// =============================================================================
// MESSAGE BUBBLE COMPONENT
// =============================================================================

// MessageBubble renders one transcript entry.
type MessageBubble struct {
	Message       *model.Message
	Width         int
	ShowTimestamp bool
	Markdown      *Markdown
	theme         *styles.Theme
}

// NewMessageBubble creates a bubble for msg.
func NewMessageBubble(msg *model.Message, theme *styles.Theme) *MessageBubble {
	if msg == nil {
		msg = &model.Message{Role: model.RoleSystem}
	}
	return &MessageBubble{
		Message:       msg,
		Width:         80,
		ShowTimestamp: true,
		theme:         theme,
	}
}

// View renders the bubble.
func (b *MessageBubble) View() string {
	switch b.Message.Role {
	case model.RoleUser:
		return b.renderBubble(b.theme.UserLabel, b.theme.UserBubble, false)
	case model.RoleBot:
		return b.renderBubble(b.theme.BotLabel, b.theme.BotBubble, b.Markdown != nil)
	case model.RoleError:
		return styles.RenderError(Sanitize(b.Message.Content)) + b.timestampSuffix()
	default:
		return b.theme.SystemLine.Render(Sanitize(b.Message.Content)) + b.timestampSuffix()
	}
}

func (b *MessageBubble) renderBubble(label, bubble lipgloss.Style, markdown bool) string {
	content := Sanitize(b.Message.Content)
	if strings.TrimSpace(content) == "" {
		content = "..."
	}

	inner := maxInt(b.Width-6, 10)
	if markdown {
		content = b.Markdown.Render(content, inner)
	} else {
		content = lipgloss.NewStyle().Width(inner).Render(content)
	}

	header := label.Render(b.Message.Role.DisplayName()) + b.timestampSuffix()
	return header + "\n" + bubble.Render(content)
}

func (b *MessageBubble) timestampSuffix() string {
	if !b.ShowTimestamp || b.Message.Timestamp.IsZero() {
		return ""
	}
	return " " + b.theme.Timestamp.Render(b.Message.FormatTime())
}

// RenderTranscript renders messages separated by blank lines.
func RenderTranscript(theme *styles.Theme, msgs []*model.Message, width int, showTimestamps bool, md *Markdown) string {
	parts := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		b := NewMessageBubble(msg, theme)
		b.Width = width
		b.ShowTimestamp = showTimestamps
		b.Markdown = md
		parts = append(parts, b.View())
	}
	return strings.Join(parts, "\n\n")
}
