// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package turn

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/jeranaias/chatline-tui/internal/session"
	"github.com/jeranaias/chatline-tui/internal/transport"
)

// ErrorPrefix is prepended to failure messages shown to the user.
const ErrorPrefix = "Error: "

// Sender performs one request/response exchange with the chat service.
type Sender interface {
	Send(ctx context.Context, payload transport.Payload) (*transport.Response, error)
}

// Options configures a Controller.
type Options struct {
	// InitialStatus is shown by Bootstrap before the first exchange.
	InitialStatus string

	// Suggestions are shortcut prompts shown by Bootstrap.
	Suggestions []string

	// Timeout bounds each exchange. Zero waits indefinitely.
	Timeout time.Duration

	// Logger receives turn lifecycle events.
	Logger zerolog.Logger

	// OnTurn is called after every completed turn, after the renderer.
	OnTurn func(Turn)
}

// Suggestion lifecycle: shown once by Bootstrap, removed for good on first use.
const (
	suggestionsHidden int32 = iota
	suggestionsShown
	suggestionsUsed
)

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller runs turns one at a time against a Sender and a Renderer.
type Controller struct {
	sender   Sender
	renderer Renderer
	session  *session.State
	logger   zerolog.Logger

	initialStatus string
	shortcuts     []string
	timeout       time.Duration
	onTurn        func(Turn)

	phase       atomic.Int32
	suggestions atomic.Int32

	mu       sync.Mutex
	lastTurn *Turn
}

// NewController creates a controller with a fresh session.
func NewController(sender Sender, renderer Renderer, opts Options) *Controller {
	if renderer == nil {
		renderer = NopRenderer{}
	}
	return &Controller{
		sender:        sender,
		renderer:      renderer,
		session:       session.New(opts.InitialStatus),
		logger:        opts.Logger.With().Str("component", "turn").Logger(),
		initialStatus: opts.InitialStatus,
		shortcuts:     append([]string(nil), opts.Suggestions...),
		timeout:       opts.Timeout,
		onTurn:        opts.OnTurn,
	}
}

// Phase returns the current state machine phase.
func (c *Controller) Phase() Phase {
	return Phase(c.phase.Load())
}

// Busy reports whether a turn is in flight.
func (c *Controller) Busy() bool {
	return c.Phase() != PhaseIdle
}

// Session returns the session state owned by this controller.
func (c *Controller) Session() *session.State {
	return c.session
}

// LastTurn returns the most recently completed turn, if any.
func (c *Controller) LastTurn() (Turn, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastTurn == nil {
		return Turn{}, false
	}
	return *c.lastTurn, true
}

// =============================================================================
// BOOTSTRAP & SUGGESTIONS
// =============================================================================

// Bootstrap shows the initial status and the suggestion shortcuts.
// It is not a turn and sends nothing.
func (c *Controller) Bootstrap() {
	if c.initialStatus != "" {
		c.renderer.RenderStatus(c.initialStatus)
	}
	if len(c.shortcuts) > 0 && c.suggestions.CompareAndSwap(suggestionsHidden, suggestionsShown) {
		c.renderer.RenderSuggestions(c.Suggestions())
	}
}

// Suggestions returns the configured suggestion labels.
func (c *Controller) Suggestions() []string {
	return append([]string(nil), c.shortcuts...)
}

// SuggestionsVisible reports whether suggestions are still offered.
func (c *Controller) SuggestionsVisible() bool {
	return c.suggestions.Load() == suggestionsShown
}

// SelectSuggestion submits label as if typed. The first selection removes
// every suggestion.
func (c *Controller) SelectSuggestion(ctx context.Context, label string) error {
	if c.Busy() {
		return ErrBusy
	}
	if c.suggestions.CompareAndSwap(suggestionsShown, suggestionsUsed) {
		c.renderer.ClearSuggestions()
	}
	return c.Submit(ctx, label)
}

// =============================================================================
// SUBMIT
// =============================================================================

// Submit runs one turn for text and blocks until it ends.
//
// Blank input returns ErrEmptyInput and a submission during an active turn
// returns ErrBusy; neither renders anything. Otherwise the turn is rendered
// in full and a failure is returned as the *transport.RequestFailedError
// that was already shown to the user.
func (c *Controller) Submit(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyInput
	}
	if !c.phase.CompareAndSwap(int32(PhaseIdle), int32(PhaseSubmitting)) {
		c.logger.Debug().Msg("submit rejected: turn in progress")
		return ErrBusy
	}

	t := Turn{ID: uuid.NewString(), Input: text, Started: time.Now()}
	c.logger.Debug().Str("turn_id", t.ID).Msg("turn started")

	c.renderer.SetInputEnabled(false)
	c.renderer.RenderUserMessage(text)
	c.renderer.ClearInput()
	c.renderer.SetTyping(true)

	resp, err := c.send(ctx, text)
	t.Duration = time.Since(t.Started)

	c.renderer.SetTyping(false)
	if err != nil {
		c.phase.Store(int32(PhaseFailed))
		t.Outcome = OutcomeFailure
		t.ErrorMsg = err.Error()
		c.renderer.RenderError(ErrorPrefix + t.ErrorMsg)
		c.logger.Warn().Str("turn_id", t.ID).Dur("duration", t.Duration).Err(err).Msg("turn failed")
	} else {
		c.phase.Store(int32(PhaseSuccess))
		t.Outcome = OutcomeSuccess
		t.Reply = resp.Message
		changes := c.session.Apply(resp)
		if resp.Status.Present {
			t.Status = resp.Status.Value
			c.renderer.RenderStatus(resp.Status.Value)
		}
		c.renderer.RenderBotMessage(resp.Message)
		c.logger.Info().
			Str("turn_id", t.ID).
			Dur("duration", t.Duration).
			Bool("session_changed", changes.SessionID).
			Bool("token_changed", changes.Token).
			Str("status", c.session.Status()).
			Msg("turn completed")
	}

	c.phase.Store(int32(PhaseIdle))
	c.renderer.SetInputEnabled(true)
	c.renderer.FocusInput()

	c.mu.Lock()
	c.lastTurn = &t
	c.mu.Unlock()
	if c.onTurn != nil {
		c.onTurn(t)
	}
	return err
}

// send performs the exchange and normalizes every failure to a
// *transport.RequestFailedError so the user always sees a message.
func (c *Controller) send(ctx context.Context, text string) (*transport.Response, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.sender.Send(ctx, c.session.Payload(text))
	if err != nil {
		var rf *transport.RequestFailedError
		if errors.As(err, &rf) {
			return nil, rf
		}
		return nil, &transport.RequestFailedError{
			Kind:    transport.KindNetwork,
			Message: transport.NetworkFailureMessage,
			Err:     err,
		}
	}
	if resp == nil {
		return nil, &transport.RequestFailedError{
			Kind:    transport.KindMalformed,
			Message: transport.MalformedResponseMessage,
		}
	}
	return resp, nil
}
