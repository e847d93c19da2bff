// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package transport

import (
	"encoding/json"
	"fmt"
)

// Messages used when the service does not supply one.
const (
	// GenericFailureMessage is used for a non-success status without an error field.
	GenericFailureMessage = "Failed to send message"

	// NetworkFailureMessage is used when no response arrived at all.
	NetworkFailureMessage = "Could not reach the chat service"

	// MalformedResponseMessage is used for a success status with an unusable body.
	MalformedResponseMessage = "Received an invalid response from the chat service"
)

// ErrorKind classifies a RequestFailedError.
type ErrorKind int

const (
	// KindStatus is a non-success HTTP status.
	KindStatus ErrorKind = iota
	// KindNetwork means no response was received.
	KindNetwork
	// KindMalformed is a success status whose body could not be used.
	KindMalformed
)

// String returns the display name of the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindStatus:
		return "status"
	case KindNetwork:
		return "network"
	case KindMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// RequestFailedError is returned for every failed exchange.
// Error() returns only Message so it can be shown to the user as-is.
type RequestFailedError struct {
	Kind    ErrorKind
	Status  int    // HTTP status, zero for KindNetwork
	Message string // user-facing text
	Code    string // service error code, when supplied
	Err     error  // underlying cause, if any
}

// Error implements the error interface.
func (e *RequestFailedError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *RequestFailedError) Unwrap() error {
	return e.Err
}

// Detail returns a log-friendly description including kind and status.
func (e *RequestFailedError) Detail() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (HTTP %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func statusError(status int, body []byte) *RequestFailedError {
	rf := &RequestFailedError{Kind: KindStatus, Status: status, Message: GenericFailureMessage}
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		if eb.Error != "" {
			rf.Message = eb.Error
		}
		rf.Code = eb.Code
	}
	return rf
}

func networkError(err error) *RequestFailedError {
	return &RequestFailedError{Kind: KindNetwork, Message: NetworkFailureMessage, Err: err}
}

func malformedError(status int, err error) *RequestFailedError {
	return &RequestFailedError{Kind: KindMalformed, Status: status, Message: MalformedResponseMessage, Err: err}
}
