// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package turn

// Renderer is the presentation surface driven by the Controller.
//
// Implementations must tolerate calls from a goroutine other than the one
// that owns the display. SetTyping is idempotent: at most one typing
// indicator is visible at a time. RenderError must remove its artifact on its
// own after a fixed delay.
type Renderer interface {
	RenderUserMessage(text string)
	RenderBotMessage(text string)
	SetTyping(on bool)
	RenderError(message string)
	RenderStatus(label string)
	SetInputEnabled(enabled bool)
	ClearInput()
	FocusInput()
	RenderSuggestions(suggestions []string)
	ClearSuggestions()
}

// NopRenderer discards every call.
type NopRenderer struct{}

func (NopRenderer) RenderUserMessage(string) {}
func (NopRenderer) RenderBotMessage(string) {}
func (NopRenderer) SetTyping(bool) {}
func (NopRenderer) RenderError(string) {}
func (NopRenderer) RenderStatus(string) {}
func (NopRenderer) SetInputEnabled(bool) {}
func (NopRenderer) ClearInput() {}
func (NopRenderer) FocusInput() {}
func (NopRenderer) RenderSuggestions([]string) {}
func (NopRenderer) ClearSuggestions() {}
