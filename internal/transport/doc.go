// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package transport provides the HTTP client for the remote chat service.
//
// One user turn maps to exactly one POST to the chat endpoint. The client
// serializes the outgoing payload, decodes the reply, and classifies every
// failure into a RequestFailedError. It never retries and enforces no timeout
// of its own; callers bound a request through its context.
//
// # Key Types
//
//   - Client: HTTP client for the chat service (chat, history, tools, clear)
//   - Payload: Outgoing request body for one turn
//   - Response: Decoded reply with presence-tracking optional fields
//   - Field: Optional string that remembers whether the key was in the JSON
//   - RequestFailedError: Every failure surfaced by the client
//
// # Usage
//
//	client := transport.NewClient("http://127.0.0.1:5000").WithLogger(logger)
//	resp, err := client.Send(ctx, transport.Payload{Message: "hello"})
//	if err != nil {
//	    var rf *transport.RequestFailedError
//	    if errors.As(err, &rf) {
//	        fmt.Println("Error:", rf.Message)
//	    }
//	}
//
// # Security
//
// Request and response bodies are never logged. Continuation tokens only
// appear in logs as a short SHA-256 fingerprint.
package transport
