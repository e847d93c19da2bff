// chatline - A terminal client for conversational chat services.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jeranaias/chatline-tui/internal/cli"
	"github.com/jeranaias/chatline-tui/internal/transport"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	transport.Version = cli.Version
	code := cli.Execute(ctx, os.Args[1:])

	stop()
	os.Exit(code)
}
