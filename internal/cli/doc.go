// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the chatline command tree.
//
// The root command opens the full-screen interface on a terminal and a
// line-mode REPL otherwise. Subcommands cover one-shot questions, the
// session and tool endpoints of the service, the development mock server
// and the config file.
package cli
