// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"sync"

	"github.com/jeranaias/chatline-tui/internal/transport"
)

// =============================================================================
// SESSION STATE
// =============================================================================

// State tracks the session id, continuation token and status of a conversation.
// It lives in memory for the lifetime of the process.
type State struct {
	mu sync.Mutex

	sessionID string
	token     string
	status    string
}

// Snapshot is a point-in-time copy of State.
type Snapshot struct {
	SessionID string
	Token     string
	Status    string
}

// HasSession reports whether the service has assigned a session id.
func (s Snapshot) HasSession() bool {
	return s.SessionID != ""
}

// HasToken reports whether a continuation token is held.
func (s Snapshot) HasToken() bool {
	return s.Token != ""
}

// Changes reports which fields an Apply call modified.
type Changes struct {
	SessionID bool
	Token     bool
	Status    bool
}

// Any reports whether anything changed.
func (c Changes) Any() bool {
	return c.SessionID || c.Token || c.Status
}

// New creates an empty state with the given initial status label.
func New(initialStatus string) *State {
	return &State{status: initialStatus}
}

// =============================================================================
// UPDATE OPERATIONS
// =============================================================================

// ApplySessionID records a session id from the service.
// Absent or empty values are ignored; an existing id is never unset.
func (s *State) ApplySessionID(f transport.Field) bool {
	if !f.Present || f.Value == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := s.sessionID != f.Value
	s.sessionID = f.Value
	return changed
}

// ApplyToken records the continuation token whenever the field is present.
// A present empty or null value clears the stored token.
func (s *State) ApplyToken(f transport.Field) bool {
	if !f.Present {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := s.token != f.Value
	s.token = f.Value
	return changed
}

// ApplyStatus replaces the status label whenever the field is present.
func (s *State) ApplyStatus(f transport.Field) bool {
	if !f.Present {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := s.status != f.Value
	s.status = f.Value
	return changed
}

// Apply records every session field found in a successful response.
func (s *State) Apply(resp *transport.Response) Changes {
	if resp == nil {
		return Changes{}
	}
	return Changes{
		SessionID: s.ApplySessionID(resp.SessionID),
		Token:     s.ApplyToken(resp.Token),
		Status:    s.ApplyStatus(resp.Status),
	}
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Payload builds the request body for message, carrying the current id and token.
func (s *State) Payload(message string) transport.Payload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return transport.Payload{
		Message:   message,
		SessionID: s.sessionID,
		Token:     s.token,
	}
}

// Snapshot returns a copy of the current state.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		SessionID: s.sessionID,
		Token:     s.token,
		Status:    s.status,
	}
}

// SessionID returns the current session id, or "" before the first exchange.
func (s *State) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionID
}

// Status returns the current status label.
func (s *State) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// TokenFingerprint returns a log-safe fingerprint of the held token.
func (s *State) TokenFingerprint() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return transport.Fingerprint(s.token)
}
