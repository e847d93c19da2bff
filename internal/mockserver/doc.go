// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package mockserver is a scripted stand-in for the chat service, used for
// local development and tests.
//
// It speaks the same HTTP contract as the real service: POST /chat plus the
// history, clear-session and tools endpoints. Replies are scripted rather than
// generated, but session ids, continuation tokens and status labels follow the
// real service's rules so every client path can be exercised by hand:
//
//	login        starts a sign-in and asks for a one-time code
//	123456       a valid TOTP code completes sign-in and issues a token
//	logout       clears the token (the reply carries "token": null)
//	balance      an authenticated tool call (status VAULTA_ACTIVE)
//	pay          a payment tool call (status PROCESSING_PAYMENT)
//	open account an account creation call (status CREATING_VAULTA_ACCOUNT)
//	fail         HTTP 500 with {"error": "internal"}
//
// Anything else is echoed back.
//
// Sessions are kept in memory or in a SQLite database. An optional rate limit
// answers 429 so the client's failure path can be seen.
package mockserver
