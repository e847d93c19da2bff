// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jeranaias/chatline-tui/internal/config"
	"github.com/jeranaias/chatline-tui/internal/logging"
	"github.com/jeranaias/chatline-tui/internal/session"
	"github.com/jeranaias/chatline-tui/internal/transport"
	"github.com/jeranaias/chatline-tui/internal/turn"
)

// Version information (set at build time)
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// =============================================================================
// APP
// =============================================================================

// App holds what every command shares: flags, loaded config, logger and
// standard streams.
type App struct {
	// Global flags
	configPath string
	baseURL    string
	logLevel   string

	In  io.Reader
	Out io.Writer
	Err io.Writer

	cfg     *config.Config
	logger  zerolog.Logger
	closeFn func() error
}

// NewApp creates an App on the process's standard streams.
func NewApp() *App {
	return &App{In: os.Stdin, Out: os.Stdout, Err: os.Stderr, logger: zerolog.Nop()}
}

// Config returns the loaded configuration.
func (a *App) Config() *config.Config {
	return a.cfg
}

// loadConfig reads .env, the config file, environment overrides and the
// global flags, in that order of increasing precedence.
func (a *App) loadConfig() error {
	if _, err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	if a.baseURL != "" {
		cfg.Service.BaseURL = a.baseURL
	}
	if a.logLevel != "" {
		cfg.Log.Level = strings.ToLower(a.logLevel)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid flags")
	}

	a.cfg = cfg
	return nil
}

// openLog opens the file logger.
func (a *App) openLog() error {
	logger, closer, err := logging.New(a.cfg.Log)
	if err != nil {
		return err
	}
	a.logger = logger
	a.closeFn = closer.Close
	return nil
}

func (a *App) close() {
	if a.closeFn != nil {
		_ = a.closeFn()
		a.closeFn = nil
	}
}

// newClient builds the transport client from the loaded config.
func (a *App) newClient() *transport.Client {
	return transport.NewClient(a.cfg.Service.BaseURL).
		WithChatPath(a.cfg.Service.ChatPath).
		WithLogger(a.logger)
}

// newController wires a controller to client and renderer.
func (a *App) newController(client turn.Sender, r turn.Renderer) *turn.Controller {
	return turn.NewController(client, r, turn.Options{
		InitialStatus: a.cfg.Chat.InitialStatus,
		Suggestions:   a.cfg.Chat.Suggestions,
		Timeout:       a.cfg.Service.RequestTimeout(),
		Logger:        a.logger,
	})
}

func (a *App) classifier() session.StatusClassifier {
	return session.StatusClassifier{
		AuthenticatedLabels: a.cfg.Chat.AuthenticatedLabels,
		Providers:           a.cfg.Chat.Providers,
	}
}

// =============================================================================
// ROOT COMMAND
// =============================================================================

// NewRootCommand builds the chatline command tree on app.
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "chatline",
		Short: "Terminal client for a conversational chat service",
		Long: `chatline sends what you type to a chat service's POST /chat endpoint and
shows the replies, along with the session's status.

Run without arguments to start the full-screen interface when attached to
a terminal, or a line-mode REPL when input or output is redirected.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if skipsConfig(cmd) {
				return nil
			}
			if err := app.loadConfig(); err != nil {
				return err
			}
			if cmd.Annotations[annotationConsoleLog] == "true" {
				app.logger = logging.NewConsoleWriter(app.Err, logging.ParseLevel(app.cfg.Log.Level))
				return nil
			}
			return app.openLog()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			app.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if isTerminalReader(app.In) && isTerminalWriter(app.Out) {
				return app.runTUI(cmd.Context())
			}
			return app.runREPL(cmd.Context(), false)
		},
	}

	root.SetIn(app.In)
	root.SetOut(app.Out)
	root.SetErr(app.Err)
	root.SetVersionTemplate(versionString() + "\n")

	flags := root.PersistentFlags()
	flags.StringVar(&app.configPath, "config", "", "config file (default ~/.chatline/config.toml)")
	flags.StringVar(&app.baseURL, "base-url", "", "chat service base URL (overrides config)")
	flags.StringVar(&app.logLevel, "log-level", "", "log level: trace, debug, info, warn, error, disabled")

	root.AddCommand(
		newChatCommand(app),
		newREPLCommand(app),
		newAskCommand(app),
		newHistoryCommand(app),
		newToolsCommand(app),
		newClearCommand(app),
		newMockServerCommand(app),
		newConfigCommand(app),
		newVersionCommand(app),
	)
	return root
}

const (
	annotationConsoleLog = "chatline/console-log"
	annotationNoConfig   = "chatline/no-config"
)

func skipsConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[annotationNoConfig] == "true" {
			return true
		}
	}
	return false
}

// Execute runs the CLI and returns the process exit code.
func Execute(ctx context.Context, args []string) int {
	return run(ctx, NewApp(), args)
}

func run(ctx context.Context, app *App, args []string) int {
	root := NewRootCommand(app)
	root.SetArgs(args)

	if err := root.ExecuteContext(ctx); err != nil {
		var exit *ExitError
		if errors.As(err, &exit) {
			return exit.Code
		}
		fmt.Fprintln(app.Err, "Error:", err)
		return 1
	}
	return 0
}

// ExitError ends the process with Code without printing anything more.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}
