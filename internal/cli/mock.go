// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jeranaias/chatline-tui/internal/mockserver"
)

func newMockServerCommand(app *App) *cobra.Command {
	var (
		addr  string
		db    string
		rate  float64
		burst int
	)

	cmd := &cobra.Command{
		Use:   "mock-server",
		Short: "Run a local chat service for development",
		Long: `Run a scripted chat service that speaks the same protocol as the real one.

It issues session ids and continuation tokens, walks through the demo login
flow (the one-time code comes from the printed TOTP secret) and serves the
history, session and tool endpoints. Sessions live in memory unless --db
names a SQLite file.`,
		Annotations: map[string]string{annotationConsoleLog: "true"},
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mc := app.cfg.Mock
			if cmd.Flags().Changed("addr") {
				mc.Addr = addr
			}
			if cmd.Flags().Changed("db") {
				mc.DB = db
			}
			if cmd.Flags().Changed("rate") {
				mc.RatePerSec = rate
			}
			if cmd.Flags().Changed("burst") {
				mc.Burst = burst
			}

			opts := mockserver.Options{
				TOTPSecret: mc.TOTPSecret,
				RatePerSec: mc.RatePerSec,
				Burst:      mc.Burst,
				Logger:     app.logger,
			}

			if mc.DB != "" {
				store, err := mockserver.OpenSQLiteStore(mc.DB)
				if err != nil {
					return err
				}
				defer store.Close()
				opts.Store = store
			}

			if opts.TOTPSecret == "" {
				secret, err := mockserver.GenerateTOTPSecret()
				if err != nil {
					return errors.Wrap(err, "failed to generate TOTP secret")
				}
				opts.TOTPSecret = secret
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Mock chat service on http://%s\n", mc.Addr)
			fmt.Fprintf(out, "TOTP secret: %s\n", opts.TOTPSecret)
			if code, err := mockserver.CurrentCode(opts.TOTPSecret, time.Now()); err == nil {
				fmt.Fprintf(out, "Current code: %s (changes every 30s)\n", code)
			}

			return mockserver.New(opts).ListenAndServe(cmd.Context(), mc.Addr)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&addr, "addr", "", "listen address (default from config, 127.0.0.1:5000)")
	flags.StringVar(&db, "db", "", "SQLite file for sessions (default in memory)")
	flags.Float64Var(&rate, "rate", 0, "requests per second across all clients, 0 disables limiting")
	flags.IntVar(&burst, "burst", 0, "rate limiter burst size")
	return cmd
}
