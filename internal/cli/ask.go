// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jeranaias/chatline-tui/internal/turn"
)

func newAskCommand(app *App) *cobra.Command {
	var showStatus bool

	cmd := &cobra.Command{
		Use:   "ask <message>",
		Short: "Send one message and print the reply",
		Long: `Send a single message in a new session and print the reply.

The exit status is 1 when the request fails; the error is printed the same
way the interactive modes show it.`,
		Example: `  chatline ask "What can you do?"
  chatline ask --status "Log in to Vaulta"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer := NewLineRenderer(cmd.OutOrStdout(), LineOptions{
				Width:      GetTerminalWidth(cmd.OutOrStdout()),
				Classifier: app.classifier(),
				Timestamps: false,
			})
			ctrl := turn.NewController(app.newClient(), renderer, turn.Options{
				Timeout: app.cfg.Service.RequestTimeout(),
				Logger:  app.logger,
			})

			if err := ctrl.Submit(cmd.Context(), strings.Join(args, " ")); err != nil {
				if errors.Is(err, turn.ErrEmptyInput) {
					return err
				}
				return &ExitError{Code: 1}
			}
			if showStatus {
				snap := ctrl.Session().Snapshot()
				renderer.Info("session " + snap.SessionID + ", status " + snap.Status)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showStatus, "status", false, "print the session id and status after the reply")
	return cmd
}
