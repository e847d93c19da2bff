// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mockserver

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"github.com/jeranaias/chatline-tui/internal/session"
)

// Tool is a capability listed by GET /tools.
type Tool struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Tools is the fixed catalog the scripted assistant can invoke.
var Tools = []Tool{
	{Name: "vaulta_login", Description: "Start sign-in and request a one-time code"},
	{Name: "vaulta_verify_otp", Description: "Verify a one-time code and issue an access token"},
	{Name: "vaulta_logout", Description: "Logout by clearing the current access token"},
	{Name: "vaulta_get_all_accounts", Description: "Get all accounts for the authenticated user with balances"},
	{Name: "vaulta_create_account", Description: "Create a new account for holding funds"},
	{Name: "vaulta_create_payment", Description: "Send a payment from one of the user's accounts"},
}

var codePattern = regexp.MustCompile(`^\d{6}$`)

// reply is the scripted outcome of one message.
type reply struct {
	Text         string
	ToolCalls    []ToolCall
	TokenChanged bool
	Fail         bool
}

// script produces replies and applies their effects to a session.
type script struct {
	secret string
	now    func() time.Time
	newID  func() string
}

func newScript(secret string, now func() time.Time) *script {
	return &script{
		secret: secret,
		now:    now,
		newID:  func() string { return uuid.NewString() },
	}
}

// respond handles message for sess, mutating sess as the turn requires.
func (s *script) respond(sess *Session, message string) reply {
	msg := strings.ToLower(strings.TrimSpace(message))

	if sess.AwaitingCode && codePattern.MatchString(msg) {
		return s.verifyCode(sess, msg)
	}

	switch {
	case msg == "fail":
		return reply{Fail: true}

	case msg == "login" || strings.HasPrefix(msg, "log in") || strings.HasPrefix(msg, "login "):
		if sess.Authenticated() {
			return reply{Text: "You're already signed in."}
		}
		sess.AwaitingCode = true
		return reply{
			Text:      "I've started sign-in. Please enter the 6-digit code from your authenticator app.",
			ToolCalls: []ToolCall{{Function: "vaulta_login"}},
		}

	case msg == "logout" || msg == "log out" || msg == "sign out":
		if !sess.Authenticated() {
			return reply{Text: "You're not signed in."}
		}
		sess.Token = ""
		sess.AwaitingCode = false
		return reply{
			Text:         "You've been signed out.",
			ToolCalls:    []ToolCall{{Function: "vaulta_logout"}},
			TokenChanged: true,
		}

	case strings.Contains(msg, "balance"):
		if !sess.Authenticated() {
			return reply{Text: "Please log in first so I can look up your balance."}
		}
		return reply{
			Text:      "**Main account**: $1,234.56\n**Savings**: $10,000.00",
			ToolCalls: []ToolCall{{Function: "vaulta_get_all_accounts"}},
		}

	case strings.Contains(msg, "open account") || strings.Contains(msg, "create account"):
		if !sess.Authenticated() {
			return reply{Text: "Please log in first to open an account."}
		}
		return reply{
			Text:      "Let's open a new account. What should it be called?",
			ToolCalls: []ToolCall{{Function: "vaulta_create_account"}},
		}

	case strings.HasPrefix(msg, "pay") || strings.HasPrefix(msg, "send"):
		if !sess.Authenticated() {
			return reply{Text: "Please log in first to send a payment."}
		}
		return reply{
			Text:      "Payment is being processed.",
			ToolCalls: []ToolCall{{Function: "vaulta_create_payment"}},
		}

	case msg == "help" || strings.Contains(msg, "what can you do"):
		var b strings.Builder
		b.WriteString("I can help with:\n")
		for _, t := range Tools {
			fmt.Fprintf(&b, "- %s\n", t.Description)
		}
		return reply{Text: strings.TrimRight(b.String(), "\n")}
	}

	return reply{Text: "You said: " + strings.TrimSpace(message)}
}

func (s *script) verifyCode(sess *Session, code string) reply {
	if !s.validCode(code) {
		return reply{
			Text:      "That code didn't work. Please try again.",
			ToolCalls: []ToolCall{{Function: "vaulta_verify_otp"}},
		}
	}
	sess.AwaitingCode = false
	sess.Token = s.newID()
	return reply{
		Text:         "Welcome back! You're signed in.",
		ToolCalls:    []ToolCall{{Function: "vaulta_verify_otp"}},
		TokenChanged: true,
	}
}

// validCode checks a 6-digit TOTP code, allowing one step of clock skew.
func (s *script) validCode(code string) bool {
	if s.secret == "" {
		return false
	}
	ok, err := totp.ValidateCustom(code, s.secret, s.now(), totp.ValidateOpts{
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	return err == nil && ok
}

// statusFor derives the conversation status the way the real service does:
// unauthenticated sessions are NOT_AUTHENTICATED, otherwise the most recent
// tool call decides.
func statusFor(sess *Session) string {
	if sess == nil || !sess.Authenticated() {
		return session.StatusNotAuthenticated
	}
	calls := sess.lastToolCalls()
	for i := len(calls) - 1; i >= 0; i-- {
		switch fn := calls[i].Function; {
		case fn == "vaulta_create_account":
			return session.StatusCreatingVaultaAccount
		case fn == "vaulta_create_payment":
			return session.StatusProcessingPayment
		case fn == "vaulta_verify_otp":
			return session.StatusAuthenticated
		case strings.HasPrefix(fn, "vaulta_"):
			return session.StatusVaultaActive
		}
	}
	return session.StatusAuthenticated
}

// GenerateTOTPSecret creates a new base32 secret for the demo login.
func GenerateTOTPSecret() (string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "chatline-mock",
		AccountName: "demo@chatline.local",
	})
	if err != nil {
		return "", err
	}
	return key.Secret(), nil
}

// CurrentCode returns the valid login code for secret at t.
func CurrentCode(secret string, t time.Time) (string, error) {
	return totp.GenerateCode(secret, t)
}
