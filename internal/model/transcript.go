// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "sync"

// MaxMessages is the maximum number of messages kept in a transcript.
// Older messages are pruned first.
const MaxMessages = 1000

// =============================================================================
// TRANSCRIPT TYPE
// =============================================================================

// Transcript is the ordered list of messages a renderer has shown.
// It is safe for concurrent use.
type Transcript struct {
	mu       sync.RWMutex
	messages []*Message
	limit    int
}

// NewTranscript creates an empty transcript bounded by MaxMessages.
func NewTranscript() *Transcript {
	return &Transcript{limit: MaxMessages}
}

// Add appends msg and prunes the oldest entries beyond the limit.
func (t *Transcript) Add(msg *Message) {
	if msg == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	t.messages = append(t.messages, msg)
	if t.limit > 0 && len(t.messages) > t.limit {
		excess := len(t.messages) - t.limit
		t.messages = append([]*Message(nil), t.messages[excess:]...)
	}
}

// AddNew creates a message with role and content and appends it.
func (t *Transcript) AddNew(role Role, content string) *Message {
	msg := NewMessage(role, content)
	t.Add(msg)
	return msg
}

// Messages returns a copy of the message list.
func (t *Transcript) Messages() []*Message {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]*Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.messages)
}

// Last returns the most recent message, or nil if empty.
func (t *Transcript) Last() *Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if len(t.messages) == 0 {
		return nil
	}
	return t.messages[len(t.messages)-1]
}

// LastOfRole returns the most recent message with the given role.
func (t *Transcript) LastOfRole(role Role) *Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for i := len(t.messages) - 1; i >= 0; i-- {
		if t.messages[i].Role == role {
			return t.messages[i]
		}
	}
	return nil
}

// Count returns how many messages have the given role.
func (t *Transcript) Count(role Role) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := 0
	for _, m := range t.messages {
		if m.Role == role {
			n++
		}
	}
	return n
}

// Clear removes all messages.
func (t *Transcript) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = nil
}
