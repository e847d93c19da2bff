// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the display-side data structures for a chat transcript.
//
// The session controller does not keep a transcript; renderers do. Both the
// TUI and the line renderer record what they show here so slash commands
// such as /copy can find the last reply.
//
// # Key Types
//
//   - Message: One transcript entry with role, content and timestamp
//   - Transcript: Bounded, concurrency-safe list of messages
//   - Role: user, bot, system or error
//
// # Usage
//
//	tr := model.NewTranscript()
//	tr.AddNew(model.RoleUser, "hello")
//	if last := tr.LastOfRole(model.RoleBot); last != nil {
//	    fmt.Println(last.Content)
//	}
package model
