// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/chatline-tui/internal/model"
	"github.com/jeranaias/chatline-tui/internal/transport"
)

// fakeService records slash command calls.
type fakeService struct {
	history *transport.History
	tools   []transport.Tool
	err     error
	cleared []string
}

func (f *fakeService) History(ctx context.Context, id string) (*transport.History, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.history, nil
}

func (f *fakeService) ClearSession(ctx context.Context, id string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.cleared = append(f.cleared, id)
	return "Session " + id + " cleared", nil
}

func (f *fakeService) ListTools(ctx context.Context) ([]transport.Tool, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.tools, nil
}

func (h *harness) command(line string) tea.Cmd {
	h.typeText(line)
	return h.key(tea.KeyEnter)
}

func (h *harness) lastSystem() string {
	if m := h.m.Transcript().LastOfRole(model.RoleSystem); m != nil {
		return m.Content
	}
	return ""
}

func TestLookupCommand(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"/help", "/help", true},
		{"/H", "/help", true},
		{"/q", "/quit", true},
		{"/exit", "/quit", true},
		{"/nope", "", false},
	}
	for _, tt := range tests {
		got, ok := LookupCommand(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
}

func TestCommand_HelpAndUnknown(t *testing.T) {
	h := newHarness(t, reply("ok"), nil, nil)

	assert.Nil(t, h.command("/help"))
	for _, c := range Commands {
		assert.Contains(t, h.lastSystem(), c.Name)
	}
	assert.Empty(t, h.m.InputValue(), "command line should be cleared")

	h.command("/frobnicate")
	assert.Contains(t, h.lastSystem(), "Unknown command /frobnicate")
}

func TestCommand_DoesNotReachService(t *testing.T) {
	called := false
	h := newHarness(t, senderFunc(func(ctx context.Context, p transport.Payload) (*transport.Response, error) {
		called = true
		return &transport.Response{}, nil
	}), nil, nil)
	h.command("/status")
	assert.False(t, called)
}

func TestCommand_Status(t *testing.T) {
	h := newHarness(t, reply("ok", "session_id", "sess-9", "token", "secret", "status", "AUTHENTICATED"), nil, nil)
	h.command("/status")
	assert.Contains(t, h.lastSystem(), "Session: none yet")
	assert.Contains(t, h.lastSystem(), "Token:   none")

	h.typeText("hi")
	h.run(h.key(tea.KeyEnter))
	h.command("/status")

	out := h.lastSystem()
	assert.Contains(t, out, "Session: sess-9")
	assert.Contains(t, out, "Token:   "+transport.Fingerprint("secret"))
	assert.NotContains(t, out, "secret", "the raw token must never be shown")
	assert.Contains(t, out, "Authenticated (AUTHENTICATED)")
	assert.Contains(t, out, "Turn:    idle")
}

func TestCommand_HistoryAndTools(t *testing.T) {
	svc := &fakeService{
		history: &transport.History{SessionID: "sess-1", Entries: []transport.HistoryEntry{
			{User: "hi", Assistant: "hello", Timestamp: "2025-01-01T00:00:00Z",
				ToolCalls: []transport.HistoryToolUse{{Function: "vaulta_get_balance"}}},
		}},
		tools: []transport.Tool{{Name: "vaulta_verify_otp", Description: "Verify a one-time code"}},
	}
	h := newHarness(t, reply("ok", "session_id", "sess-1"), svc, nil)

	assert.Nil(t, h.command("/history"), "history needs a session first")
	assert.Contains(t, h.lastSystem(), "No session yet")

	h.typeText("hi")
	h.run(h.key(tea.KeyEnter))

	h.run(h.command("/history"))
	out := h.lastSystem()
	assert.Contains(t, out, "History of session sess-1 (1 exchanges)")
	assert.Contains(t, out, "tools: vaulta_get_balance")

	h.run(h.command("/tools"))
	assert.Contains(t, h.lastSystem(), "vaulta_verify_otp")
}

func TestCommand_ServiceError(t *testing.T) {
	svc := &fakeService{err: &transport.RequestFailedError{Kind: transport.KindStatus, Status: 404, Message: "Session not found"}}
	h := newHarness(t, reply("ok", "session_id", "sess-1"), svc, nil)
	h.typeText("hi")
	h.run(h.key(tea.KeyEnter))

	h.run(h.command("/history"))
	toasts := h.m.Toasts()
	require.Len(t, toasts, 1)
	assert.Equal(t, "Error: Session not found", toasts[0].Message)
}

func TestCommand_Reset(t *testing.T) {
	svc := &fakeService{}
	h := newHarness(t, reply("ok", "session_id", "sess-1"), svc, nil)
	h.typeText("hi")
	h.run(h.key(tea.KeyEnter))
	require.Equal(t, 2, h.m.Transcript().Len())

	h.run(h.command("/reset"))
	assert.Equal(t, []string{"sess-1"}, svc.cleared)
	assert.Equal(t, []string{"system:Session sess-1 cleared"}, contents(h.m.Transcript().Messages()))
	assert.Equal(t, "sess-1", h.ctrl.Session().SessionID(), "the client never drops its session id")
}

func TestCommand_Copy(t *testing.T) {
	h := newHarness(t, reply("the reply"), nil, nil)
	h.command("/copy")
	assert.Contains(t, h.lastSystem(), "Nothing to copy")

	h.typeText("hi")
	h.run(h.key(tea.KeyEnter))
	h.command("/copy")
	assert.Equal(t, []string{"the reply"}, h.clip)
	assert.Contains(t, h.lastSystem(), "Copied")
}

func TestCommand_Quit(t *testing.T) {
	h := newHarness(t, reply("ok"), nil, nil)
	cmd := h.command("/quit")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestFormatHistory_Empty(t *testing.T) {
	assert.Equal(t, "History is empty.", FormatHistory(nil))
	assert.Equal(t, "History is empty.", FormatHistory(&transport.History{}))
	assert.True(t, strings.HasPrefix(FormatTools(nil), "The service reports no tools"))
}
