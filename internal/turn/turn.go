// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package turn

import (
	"time"

	"github.com/pkg/errors"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrEmptyInput is returned for blank or whitespace-only input. Nothing is rendered.
	ErrEmptyInput = errors.New("empty input")

	// ErrBusy is returned when a turn is already in flight. The submission is dropped.
	ErrBusy = errors.New("a turn is already in progress")
)

// IsRejected reports whether err means the submission never became a turn.
func IsRejected(err error) bool {
	return errors.Is(err, ErrEmptyInput) || errors.Is(err, ErrBusy)
}

// =============================================================================
// PHASE
// =============================================================================

// Phase is the controller's position in the turn state machine.
type Phase int32

const (
	PhaseIdle Phase = iota
	PhaseSubmitting
	PhaseSuccess
	PhaseFailed
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSubmitting:
		return "submitting"
	case PhaseSuccess:
		return "success"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// =============================================================================
// TURN
// =============================================================================

// Outcome is the terminal result of a turn.
type Outcome int

const (
	OutcomePending Outcome = iota
	OutcomeSuccess
	OutcomeFailure
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	default:
		return "pending"
	}
}

// Turn records one submission and how it ended.
type Turn struct {
	ID       string
	Input    string
	Outcome  Outcome
	Reply    string // set on success
	Status   string // status label from the reply, if it carried one
	ErrorMsg string // set on failure
	Started  time.Time
	Duration time.Duration
}
