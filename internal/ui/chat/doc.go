// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the Bubble Tea chat screen.
//
// The screen is the terminal rendering of a turn.Controller. Renderer turns
// controller callbacks into tea messages; Model applies them to its
// components and routes keys back to the controller.
//
// # Wiring
//
//	r := chat.NewRenderer()
//	ctrl := turn.NewController(client, r, turn.Options{...})
//	m := chat.New(chat.Options{Config: cfg, Controller: ctrl, Service: client})
//	p := tea.NewProgram(m, tea.WithAltScreen())
//	r.Attach(p.Send)
//	_, err := p.Run()
//
// # Keys
//
//	enter      Send the input, or the selected suggestion when the input is empty
//	tab        Move between suggestions
//	x, ctrl+x  Dismiss the newest error (x only while the input is empty)
//	pgup/pgdn  Scroll the transcript
//	f1         Toggle key help
//	ctrl+c     Quit
//
// Lines starting with "/" are slash commands; see Commands.
package chat
