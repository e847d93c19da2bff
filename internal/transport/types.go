// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package transport

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

// =============================================================================
// OPTIONAL FIELDS
// =============================================================================

// Field is an optional string from a service response.
//
// Present is true whenever the key appeared in the JSON object, including
// when its value was "" or null. A null value decodes to Present with an
// empty Value.
type Field struct {
	Value   string
	Present bool
}

// Set returns a present field carrying value.
func Set(value string) Field {
	return Field{Value: value, Present: true}
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Field) UnmarshalJSON(data []byte) error {
	f.Present = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Value = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Wrap(err, "optional field is not a string")
	}
	f.Value = s
	return nil
}

// MarshalJSON implements json.Marshaler. An absent field marshals as null.
func (f Field) MarshalJSON() ([]byte, error) {
	if !f.Present {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// =============================================================================
// CHAT EXCHANGE
// =============================================================================

// Payload is the request body for one turn.
// SessionID and Token are omitted from the JSON when empty.
type Payload struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
	Token     string `json:"token,omitempty"`
}

// Response is a successful reply from the chat endpoint.
type Response struct {
	Message   string `json:"message"`
	SessionID Field  `json:"session_id"`
	Token     Field  `json:"token"`
	Status    Field  `json:"status"`
}

// wireResponse catches a missing message key, which Response cannot.
type wireResponse struct {
	Message   *string `json:"message"`
	SessionID Field   `json:"session_id"`
	Token     Field   `json:"token"`
	Status    Field   `json:"status"`
}

// errorBody is the failure shape shared by every endpoint.
type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// =============================================================================
// SUPPLEMENTARY ENDPOINTS
// =============================================================================

// HistoryEntry is one exchange recorded by the service.
type HistoryEntry struct {
	User      string          `json:"user"`
	Assistant string          `json:"assistant"`
	Timestamp string          `json:"timestamp,omitempty"`
	ToolCalls []HistoryToolUse `json:"tool_calls,omitempty"`
}

// HistoryToolUse names a tool the service invoked during an exchange.
type HistoryToolUse struct {
	Function string `json:"function"`
}

// History is the service-side transcript of a session.
type History struct {
	SessionID string         `json:"session_id"`
	Entries   []HistoryEntry `json:"history"`
}

// Tool describes one capability advertised by the service.
type Tool struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// toolsResponse is the body of GET /tools.
type toolsResponse struct {
	Tools []Tool `json:"tools"`
	Count int    `json:"count"`
}

// clearResponse is the body of DELETE /chat/session/{id}.
type clearResponse struct {
	Message string `json:"message"`
}
