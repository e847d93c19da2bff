// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/chatline-tui/internal/turn"
)

var _ turn.Renderer = (*Renderer)(nil)

// Renderer turns controller callbacks into Bubble Tea messages.
//
// The controller runs inside a tea.Cmd goroutine, so every callback is
// forwarded with the program's Send. Messages emitted before Attach are
// queued and flushed in order once a program is attached.
type Renderer struct {
	mu      sync.Mutex
	send    func(tea.Msg)
	pending []tea.Msg
}

// NewRenderer creates an unattached renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Attach sets the delivery function, usually (*tea.Program).Send.
func (r *Renderer) Attach(send func(tea.Msg)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.send = send
	for _, msg := range r.pending {
		send(msg)
	}
	r.pending = nil
}

func (r *Renderer) emit(msg tea.Msg) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.send == nil {
		r.pending = append(r.pending, msg)
		return
	}
	r.send(msg)
}

func (r *Renderer) RenderUserMessage(text string) { r.emit(UserMessageMsg{Text: text}) }
func (r *Renderer) RenderBotMessage(text string)  { r.emit(BotMessageMsg{Text: text}) }
func (r *Renderer) SetTyping(on bool)             { r.emit(TypingMsg{On: on}) }
func (r *Renderer) RenderError(msg string)        { r.emit(ErrorMsg{Text: msg}) }
func (r *Renderer) RenderStatus(label string)     { r.emit(StatusMsg{Label: label}) }
func (r *Renderer) SetInputEnabled(enabled bool)  { r.emit(InputEnabledMsg{Enabled: enabled}) }
func (r *Renderer) ClearInput()                   { r.emit(ClearInputMsg{}) }
func (r *Renderer) FocusInput()                   { r.emit(FocusInputMsg{}) }
func (r *Renderer) ClearSuggestions()             { r.emit(ClearSuggestionsMsg{}) }

func (r *Renderer) RenderSuggestions(items []string) {
	r.emit(SuggestionsMsg{Items: append([]string(nil), items...)})
}
