// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/chatline-tui/internal/config"
	"github.com/jeranaias/chatline-tui/internal/model"
	"github.com/jeranaias/chatline-tui/internal/session"
	"github.com/jeranaias/chatline-tui/internal/transport"
	"github.com/jeranaias/chatline-tui/internal/turn"
	"github.com/jeranaias/chatline-tui/internal/ui/components"
)

// =============================================================================
// HARNESS
// =============================================================================

type senderFunc func(ctx context.Context, p transport.Payload) (*transport.Response, error)

func (f senderFunc) Send(ctx context.Context, p transport.Payload) (*transport.Response, error) {
	return f(ctx, p)
}

// harness drives a Model the way a tea.Program would: renderer messages are
// queued and fed back through Update in order.
type harness struct {
	t     *testing.T
	m     Model
	ctrl  *turn.Controller
	mu    sync.Mutex
	queue []tea.Msg
	clip  []string
	clock time.Time
}

func newHarness(t *testing.T, sender turn.Sender, svc Service, mutate func(*config.Config)) *harness {
	t.Helper()
	cfg := config.Default()
	cfg.UI.Markdown = false
	cfg.UI.Theme = "dark"
	if mutate != nil {
		mutate(cfg)
	}

	h := &harness{t: t, clock: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)}
	r := NewRenderer()
	r.Attach(func(msg tea.Msg) {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.queue = append(h.queue, msg)
	})

	h.ctrl = turn.NewController(sender, r, turn.Options{
		InitialStatus: cfg.Chat.InitialStatus,
		Suggestions:   cfg.Chat.Suggestions,
	})
	h.m = New(Options{
		Config:     cfg,
		Controller: h.ctrl,
		Service:    svc,
		Clipboard: func(s string) error {
			h.clip = append(h.clip, s)
			return nil
		},
	})
	h.m.toasts.SetClock(func() time.Time { return h.clock })
	h.send(tea.WindowSizeMsg{Width: 100, Height: 30})
	return h
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	next, cmd := h.m.Update(msg)
	h.m = next.(Model)
	return cmd
}

func (h *harness) drain() {
	for {
		h.mu.Lock()
		if len(h.queue) == 0 {
			h.mu.Unlock()
			return
		}
		msg := h.queue[0]
		h.queue = h.queue[1:]
		h.mu.Unlock()
		h.send(msg)
	}
}

// run executes a command produced by the model, then applies everything the
// renderer emitted, then the command's own result.
func (h *harness) run(cmd tea.Cmd) {
	h.t.Helper()
	require.NotNil(h.t, cmd)
	msg := cmd()
	h.drain()
	h.send(msg)
}

func (h *harness) typeText(s string) {
	h.m.input.SetValue(s)
}

func (h *harness) key(k tea.KeyType) tea.Cmd {
	return h.send(tea.KeyMsg{Type: k})
}

func (h *harness) runes(s string) tea.Cmd {
	return h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func (h *harness) bootstrap() {
	h.ctrl.Bootstrap()
	h.drain()
}

func reply(msg string, fields ...string) senderFunc {
	return func(ctx context.Context, p transport.Payload) (*transport.Response, error) {
		resp := &transport.Response{Message: msg}
		for i := 0; i+1 < len(fields); i += 2 {
			switch fields[i] {
			case "session_id":
				resp.SessionID = transport.Set(fields[i+1])
			case "token":
				resp.Token = transport.Set(fields[i+1])
			case "status":
				resp.Status = transport.Set(fields[i+1])
			}
		}
		return resp, nil
	}
}

func contents(msgs []*model.Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = string(m.Role) + ":" + m.Content
	}
	return out
}

// =============================================================================
// TURNS
// =============================================================================

func TestSubmit_Success(t *testing.T) {
	h := newHarness(t, reply("Hi there", "session_id", "s-1", "status", session.StatusAuthenticated), nil, nil)
	h.bootstrap()
	assert.Equal(t, session.StatusNotAuthenticated, h.m.StatusLabel())

	h.typeText("hello")
	h.run(h.key(tea.KeyEnter))

	assert.Equal(t, []string{"user:hello", "bot:Hi there"}, contents(h.m.Transcript().Messages()))
	assert.True(t, h.m.InputEnabled())
	assert.Empty(t, h.m.InputValue())
	assert.False(t, h.m.Typing())
	assert.Empty(t, h.m.Toasts())
	assert.Equal(t, session.StatusAuthenticated, h.m.StatusLabel())
	assert.Equal(t, "s-1", h.ctrl.Session().SessionID())
	assert.Contains(t, h.m.View(), "Hi there")
}

func TestSubmit_FailureShowsToastThatExpires(t *testing.T) {
	fail := senderFunc(func(ctx context.Context, p transport.Payload) (*transport.Response, error) {
		return nil, &transport.RequestFailedError{Kind: transport.KindNetwork, Message: transport.GenericFailureMessage}
	})
	h := newHarness(t, fail, nil, nil)

	h.typeText("hello")
	h.run(h.key(tea.KeyEnter))

	toasts := h.m.Toasts()
	require.Len(t, toasts, 1)
	assert.Equal(t, "Error: Failed to send message", toasts[0].Message)
	assert.True(t, h.m.InputEnabled(), "input must be re-enabled after a failure")
	assert.False(t, h.m.Typing())
	assert.Equal(t, []string{"user:hello"}, contents(h.m.Transcript().Messages()))
	assert.Contains(t, h.m.View(), "Failed to send message")

	h.clock = h.clock.Add(4 * time.Second)
	h.send(components.ToastTickMsg{})
	assert.Len(t, h.m.Toasts(), 1, "toast removed before 5s")

	h.clock = h.clock.Add(time.Second)
	cmd := h.send(components.ToastTickMsg{})
	assert.Empty(t, h.m.Toasts(), "toast still visible after 5s")
	assert.Nil(t, cmd, "ticking should stop once no toasts remain")
}

func TestSubmit_ErrorDismissFromConfig(t *testing.T) {
	fail := senderFunc(func(ctx context.Context, p transport.Payload) (*transport.Response, error) {
		return nil, &transport.RequestFailedError{Message: "boom"}
	})
	h := newHarness(t, fail, nil, func(c *config.Config) { c.UI.ErrorDismissSecs = 2 })

	h.typeText("hi")
	h.run(h.key(tea.KeyEnter))
	h.clock = h.clock.Add(2 * time.Second)
	h.send(components.ToastTickMsg{})
	assert.Empty(t, h.m.Toasts())
}

func TestSubmit_WhitespaceIgnored(t *testing.T) {
	called := false
	h := newHarness(t, senderFunc(func(ctx context.Context, p transport.Payload) (*transport.Response, error) {
		called = true
		return &transport.Response{Message: "x"}, nil
	}), nil, nil)

	h.typeText("   ")
	assert.Nil(t, h.key(tea.KeyEnter))
	assert.False(t, called)
	assert.Zero(t, h.m.Transcript().Len())
}

func TestSubmit_IgnoredWhileInputDisabled(t *testing.T) {
	h := newHarness(t, reply("ok"), nil, nil)
	h.send(InputEnabledMsg{Enabled: false})

	h.typeText("hello")
	assert.Nil(t, h.key(tea.KeyEnter))
	assert.Contains(t, h.m.View(), "waiting for reply")
}

func TestSubmit_SecondTriggerRejected(t *testing.T) {
	gate := make(chan struct{})
	entered := make(chan struct{})
	var calls int
	var mu sync.Mutex
	sender := senderFunc(func(ctx context.Context, p transport.Payload) (*transport.Response, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		close(entered)
		<-gate
		return &transport.Response{Message: "done"}, nil
	})
	h := newHarness(t, sender, nil, nil)

	h.typeText("one")
	first := h.key(tea.KeyEnter)
	second := h.key(tea.KeyEnter)
	require.NotNil(t, first)
	require.NotNil(t, second)

	done := make(chan tea.Msg)
	go func() { done <- first() }()
	<-entered

	// The model has not seen InputEnabled(false) yet; the controller guard
	// still refuses the second turn.
	msg := second()
	require.IsType(t, TurnDoneMsg{}, msg)
	assert.ErrorIs(t, msg.(TurnDoneMsg).Err, turn.ErrBusy)

	close(gate)
	result := <-done
	h.drain()
	h.send(result)
	h.send(msg)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, h.m.Transcript().Count(model.RoleUser))
}

func TestRender_EscapesServiceText(t *testing.T) {
	h := newHarness(t, reply("\x1b[2Jcleared\nsecond line"), nil, nil)
	h.typeText("hi")
	h.run(h.key(tea.KeyEnter))

	view := h.m.View()
	assert.NotContains(t, view, "\x1b[2J")
	assert.Contains(t, view, "cleared")
	assert.Contains(t, view, "second line")
}

// =============================================================================
// SUGGESTIONS
// =============================================================================

func TestSuggestions_SelectAndRemove(t *testing.T) {
	var got []string
	sender := senderFunc(func(ctx context.Context, p transport.Payload) (*transport.Response, error) {
		got = append(got, p.Message)
		return &transport.Response{Message: "ok"}, nil
	})
	h := newHarness(t, sender, nil, func(c *config.Config) {
		c.Chat.Suggestions = []string{"Check my balance", "Log in"}
	})
	h.bootstrap()
	require.True(t, h.m.SuggestionsVisible())
	assert.Contains(t, h.m.View(), "Check my balance")

	h.key(tea.KeyTab)
	h.run(h.key(tea.KeyEnter))

	assert.Equal(t, []string{"Log in"}, got)
	assert.False(t, h.m.SuggestionsVisible())
	assert.Equal(t, []string{"user:Log in", "bot:ok"}, contents(h.m.Transcript().Messages()))

	// Never shown again.
	h.bootstrap()
	assert.False(t, h.m.SuggestionsVisible())
}

func TestSuggestions_TypedMessageKeepsChips(t *testing.T) {
	h := newHarness(t, reply("ok"), nil, nil)
	h.bootstrap()
	h.typeText("typed")
	h.run(h.key(tea.KeyEnter))
	assert.True(t, h.m.SuggestionsVisible(), "typing a message does not consume suggestions")
}

// =============================================================================
// TOAST DISMISS
// =============================================================================

func TestDismissToast(t *testing.T) {
	h := newHarness(t, reply("ok"), nil, nil)
	h.send(ErrorMsg{Text: "Error: one"})
	h.send(ErrorMsg{Text: "Error: two"})
	require.Len(t, h.m.Toasts(), 2)

	h.runes("x")
	assert.Len(t, h.m.Toasts(), 1)
	assert.Empty(t, h.m.InputValue(), "x should not be typed while dismissing")

	h.key(tea.KeyCtrlX)
	assert.Empty(t, h.m.Toasts())

	h.runes("x")
	assert.Equal(t, "x", h.m.InputValue(), "x is typed when no toast is visible")
}

func TestDismissToast_TypingXWithText(t *testing.T) {
	h := newHarness(t, reply("ok"), nil, nil)
	h.send(ErrorMsg{Text: "Error: one"})
	h.typeText("ma")
	h.m.input.CursorEnd()
	h.runes("x")
	assert.Equal(t, "max", h.m.InputValue())
	assert.Len(t, h.m.Toasts(), 1)
}

// =============================================================================
// STATUS & CONFIG
// =============================================================================

func TestStatus_Treatment(t *testing.T) {
	h := newHarness(t, reply("ok"), nil, nil)

	h.send(StatusMsg{Label: session.StatusNotAuthenticated})
	assert.Contains(t, h.m.View(), "Not Authenticated")
	assert.False(t, h.m.statusbar.Positive)

	h.send(StatusMsg{Label: session.StatusVaultaActive})
	assert.Contains(t, h.m.View(), "Vaulta Active")
	assert.True(t, h.m.statusbar.Positive)
}

func TestConfigReload(t *testing.T) {
	h := newHarness(t, reply("ok"), nil, nil)
	h.send(StatusMsg{Label: "PARTNER_LINKED"})
	assert.False(t, h.m.statusbar.Positive)

	cfg := config.Default()
	cfg.UI.Theme = "light"
	cfg.UI.Markdown = true
	cfg.UI.ErrorDismissSecs = 9
	cfg.Chat.AuthenticatedLabels = []string{"PARTNER_LINKED"}
	h.send(ConfigReloadMsg{Config: cfg})

	assert.Equal(t, 9*time.Second, h.m.toasts.Duration())
	assert.NotNil(t, h.m.markdown)
	assert.False(t, h.m.theme.IsDark)
	assert.True(t, h.m.statusbar.Positive, "classifier should follow the reloaded config")

	h.send(ConfigReloadMsg{Err: assert.AnError})
	require.Len(t, h.m.Toasts(), 1)
	assert.True(t, strings.HasPrefix(h.m.Toasts()[0].Message, "Error: config reload"))
}

func TestQuit(t *testing.T) {
	h := newHarness(t, reply("ok"), nil, nil)
	cmd := h.key(tea.KeyCtrlC)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, h.m.View())
}

func TestInit_Bootstraps(t *testing.T) {
	h := newHarness(t, reply("ok"), nil, nil)
	require.NotNil(t, h.m.Init())
	// Init's batch runs Bootstrap in a command; call it the same way.
	h.bootstrap()
	assert.True(t, h.m.SuggestionsVisible())
	assert.Equal(t, session.StatusNotAuthenticated, h.m.StatusLabel())
}

func TestWelcome_ShownUntilFirstMessage(t *testing.T) {
	h := newHarness(t, reply("Hi there"), nil, nil)
	h.bootstrap()
	assert.Contains(t, h.m.View(), "Type a message, or press Tab")

	h.typeText("hello")
	h.run(h.key(tea.KeyEnter))
	assert.NotContains(t, h.m.View(), "Type a message, or press Tab")
	assert.Contains(t, h.m.View(), "Hi there")
}
