// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides reusable UI components for the chatline TUI.

Each component is a small value with setters and a View method, styled
through a shared *styles.Theme. All text that came from the service or the
user passes through Sanitize before it is drawn.

# Components

	Header (header.go)            - Title bar with the service address
	StatusBar (statusbar.go)      - Conversation status, session id and shortcuts
	MessageBubble (message.go)    - Transcript entries, markdown for bot replies
	TypingIndicator (spinner.go)  - Single "Assistant is typing" animation
	SuggestionChips (suggestions.go) - Canned prompts shown before the first message
	ToastManager (error_toast.go) - Auto-dismissing error notifications

# Usage

	theme := styles.NewTheme("auto")
	toasts := components.NewToastManager(5 * time.Second)
	toasts.Add("Error: Failed to send message")
	view := components.RenderToastStack(theme, toasts.Tick(), time.Now(), 80)
*/
package components
