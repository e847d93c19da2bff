// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/chatline-tui/internal/ui/components"
)

// View renders the chat screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}

	sections := []string{m.header.View(), m.viewport.View()}
	sections = append(sections, m.footerSections()...)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// footerSections returns everything below the transcript, top to bottom.
func (m Model) footerSections() []string {
	var out []string
	if v := m.typing.View(); v != "" {
		out = append(out, " "+v)
	}
	if v := m.chips.View(); v != "" {
		out = append(out, v)
	}
	if v := components.RenderToastStack(m.theme, m.toasts.Toasts(), m.toasts.Now(), m.width); v != "" {
		out = append(out, lipgloss.PlaceHorizontal(m.width, lipgloss.Right, v))
	}
	out = append(out, m.renderInput())
	if m.showHelp {
		out = append(out, m.help.View(m.keys))
	}
	out = append(out, m.statusbar.View())
	return out
}

func (m Model) renderInput() string {
	var line string
	if m.inputEnabled {
		line = m.input.View()
	} else {
		line = m.theme.InputDisabled.Render("> waiting for reply...")
	}
	return m.theme.InputContainer.Width(m.width).Render(line)
}

// layout sizes components to the terminal and the current footer.
func (m *Model) layout() {
	if m.width == 0 {
		return
	}
	m.header.SetWidth(m.width)
	m.statusbar.SetWidth(m.width)
	m.chips.SetWidth(m.width)
	m.help.Width = m.width
	m.input.Width = m.width - 6

	fixed := lipgloss.Height(m.header.View())
	for _, s := range m.footerSections() {
		fixed += lipgloss.Height(s)
	}
	height := m.height - fixed
	if height < 3 {
		height = 3
	}
	if m.viewport.Width != m.width || m.viewport.Height != height {
		m.viewport.Width = m.width
		m.viewport.Height = height
		if m.transcript.Len() == 0 {
			m.refreshTranscript()
		}
		m.viewport.GotoBottom()
	}
}
