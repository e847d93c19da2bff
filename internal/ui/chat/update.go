// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"

	"github.com/jeranaias/chatline-tui/internal/model"
	"github.com/jeranaias/chatline-tui/internal/session"
	"github.com/jeranaias/chatline-tui/internal/turn"
	"github.com/jeranaias/chatline-tui/internal/ui/components"
	"github.com/jeranaias/chatline-tui/internal/ui/styles"
)

// =============================================================================
// UPDATE
// =============================================================================

// Update handles all messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	m.layout()
	return m, cmd
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.theme.SetSize(msg.Width, msg.Height)
		m.refreshTranscript()
		return nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	// Render collaborator
	case UserMessageMsg:
		m.appendMessage(model.RoleUser, msg.Text)
	case BotMessageMsg:
		m.appendMessage(model.RoleBot, msg.Text)
	case TypingMsg:
		if msg.On {
			return m.typing.Start()
		}
		m.typing.Stop()
	case ErrorMsg:
		return m.showError(msg.Text)
	case StatusMsg:
		m.setStatus(msg.Label)
	case InputEnabledMsg:
		m.inputEnabled = msg.Enabled
		m.statusbar.SetBusy(!msg.Enabled)
		if !msg.Enabled {
			m.input.Blur()
		}
	case ClearInputMsg:
		m.input.Reset()
	case FocusInputMsg:
		if m.inputEnabled {
			return m.input.Focus()
		}
	case SuggestionsMsg:
		m.chips.Show(msg.Items)
	case ClearSuggestionsMsg:
		m.chips.Hide()

	// Model
	case TurnDoneMsg:
		return m.handleTurnDone(msg)
	case CommandResultMsg:
		return m.handleCommandResult(msg)
	case ConfigReloadMsg:
		return m.handleConfigReload(msg)

	case components.ToastTickMsg:
		if len(m.toasts.Tick()) > 0 {
			return components.ToastTickCmd()
		}
		m.toastTicking = false

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.typing, cmd = m.typing.Update(msg)
		return cmd

	default:
		if m.inputEnabled {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return cmd
		}
	}
	return nil
}

// =============================================================================
// KEYS
// =============================================================================

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return nil

	case key.Matches(msg, m.keys.Dismiss):
		m.toasts.DismissNewest()
		return nil

	case msg.String() == "x" && m.input.Value() == "" && m.toasts.HasToasts():
		m.toasts.DismissNewest()
		return nil

	case key.Matches(msg, m.keys.ScrollUp):
		m.viewport.HalfViewUp()
		return nil

	case key.Matches(msg, m.keys.ScrollDown):
		m.viewport.HalfViewDown()
		return nil

	case key.Matches(msg, m.keys.NextSuggestion) && m.chips.Visible():
		m.chips.Next()
		return nil

	case key.Matches(msg, m.keys.PrevSuggestion) && m.chips.Visible():
		m.chips.Prev()
		return nil

	case key.Matches(msg, m.keys.Submit):
		return m.handleSubmit()
	}

	if !m.inputEnabled {
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

// handleSubmit routes the enter key: slash commands run locally, a blank
// line picks the selected suggestion, anything else starts a turn.
func (m *Model) handleSubmit() tea.Cmd {
	if !m.inputEnabled || m.controller == nil {
		return nil
	}

	text := m.input.Value()
	trimmed := strings.TrimSpace(text)

	if trimmed == "" {
		if label, ok := m.chips.Selected(); ok {
			return m.selectSuggestionCmd(label)
		}
		return nil
	}

	if strings.HasPrefix(trimmed, "/") {
		m.input.Reset()
		return m.runCommand(trimmed)
	}

	return m.submitCmd(text)
}

func (m *Model) submitCmd(text string) tea.Cmd {
	ctrl, ctx := m.controller, m.ctx
	return func() tea.Msg {
		return TurnDoneMsg{Err: ctrl.Submit(ctx, text)}
	}
}

func (m *Model) selectSuggestionCmd(label string) tea.Cmd {
	ctrl, ctx := m.controller, m.ctx
	return func() tea.Msg {
		return TurnDoneMsg{Err: ctrl.SelectSuggestion(ctx, label)}
	}
}

// =============================================================================
// HANDLERS
// =============================================================================

func (m *Model) handleTurnDone(msg TurnDoneMsg) tea.Cmd {
	switch {
	case msg.Err == nil:
	case turn.IsRejected(msg.Err):
		m.logger.Debug().Err(msg.Err).Msg("submit rejected")
	default:
		// Already rendered as a toast by the controller.
		m.logger.Debug().Err(msg.Err).Msg("turn failed")
	}
	if m.controller != nil {
		m.statusbar.SetSession(m.controller.Session().SessionID())
	}
	return nil
}

func (m *Model) handleCommandResult(msg CommandResultMsg) tea.Cmd {
	if msg.Err != nil {
		m.logger.Warn().Err(msg.Err).Str("command", msg.Command).Msg("command failed")
		return m.showError(turn.ErrorPrefix + msg.Err.Error())
	}
	if msg.ClearTranscript {
		m.transcript.Clear()
	}
	if msg.Text != "" {
		m.appendMessage(model.RoleSystem, msg.Text)
	} else {
		m.refreshTranscript()
	}
	return nil
}

func (m *Model) handleConfigReload(msg ConfigReloadMsg) tea.Cmd {
	if msg.Err != nil {
		m.logger.Warn().Err(msg.Err).Msg("config reload failed")
		return m.showError(turn.ErrorPrefix + errors.Wrap(msg.Err, "config reload").Error())
	}
	if msg.Config == nil {
		return nil
	}

	ui := msg.Config.UI
	if ui.Theme != m.ui.Theme {
		*m.theme = *styles.NewTheme(ui.Theme)
		m.theme.SetSize(m.width, m.height)
		m.input.PromptStyle = m.theme.InputPrompt
		m.input.PlaceholderStyle = m.theme.InputPlaceholder
		if m.markdown != nil {
			m.markdown = components.NewMarkdown(m.theme.IsDark)
		}
	}
	switch {
	case ui.Markdown && m.markdown == nil:
		m.markdown = components.NewMarkdown(m.theme.IsDark)
	case !ui.Markdown:
		m.markdown = nil
	}
	m.toasts.SetDuration(ui.ErrorDismiss())
	m.typing.SetText(ui.TypingText)
	m.ui = ui

	m.classifier = session.StatusClassifier{
		AuthenticatedLabels: msg.Config.Chat.AuthenticatedLabels,
		Providers:           msg.Config.Chat.Providers,
	}
	if m.statusLabel != "" {
		m.setStatus(m.statusLabel)
	}

	m.logger.Info().Str("theme", ui.Theme).Bool("markdown", ui.Markdown).Msg("config reloaded")
	m.refreshTranscript()
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func (m *Model) showError(text string) tea.Cmd {
	m.toasts.Add(text)
	if m.toastTicking {
		return nil
	}
	m.toastTicking = true
	return components.ToastTickCmd()
}

func (m *Model) setStatus(label string) {
	m.statusLabel = label
	m.statusbar.SetStatus(session.Humanize(label), m.classifier.IsAuthenticated(label))
}

func (m *Model) appendMessage(role model.Role, text string) {
	m.transcript.AddNew(role, text)
	m.refreshTranscript()
}

func (m *Model) refreshTranscript() {
	if m.transcript.Len() == 0 {
		m.welcome.SetSize(m.viewport.Width, m.viewport.Height)
		m.viewport.SetContent(m.welcome.View())
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	content := components.RenderTranscript(m.theme, m.transcript.Messages(), width, m.ui.ShowTimestamps, m.markdown)
	m.viewport.SetContent(content)
	m.viewport.GotoBottom()
}
