// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session holds the client-side state of one chat conversation.
//
// The service assigns a session id on the first exchange, may hand out an
// opaque continuation token, and reports a status label. State records all
// three and echoes the id and token back on every request. The client never
// fabricates or clears them on its own: only fields in a service response
// change them.
//
// # Key Types
//
//   - State: Session id, continuation token and status label
//   - Snapshot: Immutable copy of State for display
//   - Changes: Which fields a response actually modified
//   - StatusClassifier: Decides whether a status label means "signed in"
//
// # Usage
//
//	st := session.New("NOT_AUTHENTICATED")
//	resp, err := client.Send(ctx, st.Payload("hello"))
//	if err == nil {
//	    st.Apply(resp)
//	}
//
// # Update Rules
//
// The session id is set only by a present, non-empty value and is never
// unset. The token is replaced whenever the response contains the token key;
// "" and null both clear it, a missing key leaves it alone. The status is
// replaced whenever the response contains the status key.
package session
