// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/jeranaias/chatline-tui/internal/config"
)

// =============================================================================
// RENDER MESSAGES
// =============================================================================
// Sent by Renderer on behalf of the turn controller.

// UserMessageMsg appends the user's text to the transcript.
type UserMessageMsg struct{ Text string }

// BotMessageMsg appends a service reply to the transcript.
type BotMessageMsg struct{ Text string }

// TypingMsg shows or hides the typing indicator.
type TypingMsg struct{ On bool }

// ErrorMsg shows a transient error toast.
type ErrorMsg struct{ Text string }

// StatusMsg replaces the status indicator label.
type StatusMsg struct{ Label string }

// InputEnabledMsg enables or disables the input line.
type InputEnabledMsg struct{ Enabled bool }

// ClearInputMsg empties the input line.
type ClearInputMsg struct{}

// FocusInputMsg gives the input line focus.
type FocusInputMsg struct{}

// SuggestionsMsg shows the suggestion chips.
type SuggestionsMsg struct{ Items []string }

// ClearSuggestionsMsg removes all suggestion chips.
type ClearSuggestionsMsg struct{}

// =============================================================================
// MODEL MESSAGES
// =============================================================================

// TurnDoneMsg is returned by the command that ran a turn.
type TurnDoneMsg struct{ Err error }

// CommandResultMsg carries the outcome of an asynchronous slash command.
type CommandResultMsg struct {
	Command string
	Text    string
	Err     error

	// ClearTranscript empties the on-screen transcript on success.
	ClearTranscript bool
}

// ConfigReloadMsg delivers a reloaded configuration file.
type ConfigReloadMsg struct {
	Config *config.Config
	Err    error
}
