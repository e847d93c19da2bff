// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jeranaias/chatline-tui/internal/config"
	"github.com/jeranaias/chatline-tui/internal/ui/chat"
	"github.com/jeranaias/chatline-tui/internal/ui/styles"
)

func newChatCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Chat in the full-screen interface",
		Long: `Start the full-screen chat interface.

Enter sends, Tab cycles the suggestions, Ctrl+X dismisses an error,
F1 toggles help and Ctrl+C quits. The display settings are reloaded
when the config file changes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runTUI(cmd.Context())
		},
	}
}

// runTUI runs the Bubble Tea program until the user quits.
func (app *App) runTUI(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	theme := styles.NewTheme(app.cfg.UI.Theme)
	renderer := chat.NewRenderer()
	client := app.newClient()
	ctrl := app.newController(client, renderer)

	m := chat.New(chat.Options{
		Config:     app.cfg,
		Theme:      theme,
		Controller: ctrl,
		Service:    client,
		Logger:     app.logger,
		Context:    ctx,
	})

	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithInput(app.In),
		tea.WithOutput(app.Out),
	)
	renderer.Attach(p.Send)

	if path := app.watchPath(); path != "" {
		w, err := config.Watch(path, func(cfg *config.Config, err error) {
			p.Send(chat.ConfigReloadMsg{Config: cfg, Err: err})
		}, app.logger)
		if err != nil {
			app.logger.Warn().Err(err).Str("path", path).Msg("config hot reload disabled")
		} else {
			defer w.Close()
		}
	}

	app.logger.Info().Str("service", app.cfg.Service.BaseURL).Msg("tui started")
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return errors.Wrap(err, "tui")
	}
	app.logger.Info().Msg("tui stopped")
	return nil
}

// watchPath is the config file to watch, or "" when it cannot be resolved.
func (app *App) watchPath() string {
	if app.configPath != "" {
		return app.configPath
	}
	path, err := config.ConfigPath()
	if err != nil {
		return ""
	}
	return path
}
