// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package turn drives one conversational turn from submit to reply.
//
// The Controller owns the session state, guards against overlapping
// submissions, and tells a Renderer what to show at each step:
//
//	Idle -> Submitting -> (Success | Failed) -> Idle
//
// Submissions arriving while a turn is in flight are rejected with ErrBusy
// and never queued. The guard lives in the controller itself, so it holds
// even for a renderer with no input widget to disable.
//
// # Key Types
//
//   - Controller: Turn state machine
//   - Renderer: Presentation capabilities the controller drives
//   - Sender: The transport used for the exchange
//   - Turn: Record of one completed submission
//
// # Usage
//
//	ctrl := turn.NewController(client, renderer, turn.Options{
//	    InitialStatus: "NOT_AUTHENTICATED",
//	    Suggestions:   []string{"Check my balance"},
//	})
//	ctrl.Bootstrap()
//	if err := ctrl.Submit(ctx, input); err != nil && !turn.IsRejected(err) {
//	    // already rendered as an error
//	}
package turn
