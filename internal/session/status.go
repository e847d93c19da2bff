// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Status labels sent by the reference chat service. The set is open; any
// other label is displayed as-is after humanizing.
const (
	StatusNotAuthenticated      = "NOT_AUTHENTICATED"
	StatusAuthenticated         = "AUTHENTICATED"
	StatusCreatingVaultaAccount = "CREATING_VAULTA_ACCOUNT"
	StatusVaultaActive          = "VAULTA_ACTIVE"
	StatusProcessingPayment     = "PROCESSING_PAYMENT"
	StatusIdle                  = "IDLE"
	StatusProcessing            = "PROCESSING"
	StatusError                 = "ERROR"
)

var titleCaser = cases.Title(language.English)

// Humanize turns a status label into display text.
// Underscores become spaces and each word is title-cased:
// "NOT_AUTHENTICATED" becomes "Not Authenticated".
func Humanize(label string) string {
	label = strings.TrimSpace(strings.ReplaceAll(label, "_", " "))
	if label == "" {
		return ""
	}
	return titleCaser.String(strings.ToLower(label))
}

// =============================================================================
// STATUS CLASSIFICATION
// =============================================================================

// StatusClassifier decides whether a status label signals a signed-in session.
type StatusClassifier struct {
	// AuthenticatedLabels match by exact equality.
	AuthenticatedLabels []string

	// Providers match when the label contains the name, ignoring case.
	Providers []string
}

// DefaultClassifier returns the classifier for the reference service.
func DefaultClassifier() StatusClassifier {
	return StatusClassifier{
		AuthenticatedLabels: []string{StatusAuthenticated},
		Providers:           []string{"vaulta"},
	}
}

// IsAuthenticated reports whether label indicates an authenticated session.
func (c StatusClassifier) IsAuthenticated(label string) bool {
	if label == "" {
		return false
	}
	for _, known := range c.AuthenticatedLabels {
		if label == known {
			return true
		}
	}
	lower := strings.ToLower(label)
	for _, p := range c.Providers {
		if p != "" && strings.Contains(lower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}
