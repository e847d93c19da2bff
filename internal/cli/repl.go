// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/peterh/liner"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jeranaias/chatline-tui/internal/config"
	"github.com/jeranaias/chatline-tui/internal/model"
	"github.com/jeranaias/chatline-tui/internal/session"
	"github.com/jeranaias/chatline-tui/internal/turn"
	"github.com/jeranaias/chatline-tui/internal/ui/chat"
)

// =============================================================================
// LINE INPUT
// =============================================================================

// LineReader reads one line of input per call.
type LineReader interface {
	Prompt(prompt string) (string, error)
}

// lineEditor is a LineReader with arrow-key editing and persistent history.
type lineEditor struct {
	line        *liner.State
	historyFile string
}

func newLineEditor() *lineEditor {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	e := &lineEditor{line: line, historyFile: filepath.Join(dir, "repl_history")}
	if f, err := os.Open(e.historyFile); err == nil {
		_, _ = e.line.ReadHistory(f)
		f.Close()
	}
	return e
}

func (e *lineEditor) Prompt(prompt string) (string, error) {
	input, err := e.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		e.line.AppendHistory(input)
	}
	return input, nil
}

// Close saves history with owner-only permissions and restores the terminal.
func (e *lineEditor) Close() error {
	if err := config.EnsureConfigDir(); err == nil {
		if f, err := os.OpenFile(e.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
			_, _ = e.line.WriteHistory(f)
			f.Close()
		}
	}
	return e.line.Close()
}

// scanReader reads lines from a non-interactive stream without prompting.
type scanReader struct {
	sc *bufio.Scanner
}

func newScanReader(r io.Reader) *scanReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &scanReader{sc: sc}
}

func (s *scanReader) Prompt(string) (string, error) {
	if s.sc.Scan() {
		return s.sc.Text(), nil
	}
	if err := s.sc.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// =============================================================================
// REPL
// =============================================================================

// REPL runs a conversation one input line at a time.
type REPL struct {
	Controller *turn.Controller
	Renderer   *LineRenderer
	Service    chat.Service
	Reader     LineReader
	Out        io.Writer
	ServiceURL string
	Clipboard  func(string) error
	Logger     zerolog.Logger
}

// Run shows the suggestions and processes lines until EOF, Ctrl+C or /quit.
func (r *REPL) Run(ctx context.Context) error {
	if r.Clipboard == nil {
		r.Clipboard = clipboard.WriteAll
	}
	r.Controller.Bootstrap()

	for {
		if ctx.Err() != nil {
			return nil
		}
		line, err := r.Reader.Prompt("> ")
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				return nil
			}
			return errors.Wrap(err, "read input")
		}

		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			continue
		case strings.HasPrefix(trimmed, "/"):
			if quit := r.command(ctx, trimmed); quit {
				return nil
			}
		default:
			if err := r.Controller.Submit(ctx, line); err != nil {
				r.Logger.Debug().Err(err).Msg("turn did not succeed")
			}
		}
	}
}

// command runs a slash command and reports whether the REPL should exit.
func (r *REPL) command(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if strings.EqualFold(fields[0], "/s") && len(fields) > 1 {
		r.selectSuggestion(ctx, fields[1])
		return false
	}

	name, ok := chat.LookupCommand(fields[0])
	if !ok {
		r.Renderer.Info(fmt.Sprintf("Unknown command %s. Type /help for a list.", fields[0]))
		return false
	}

	switch name {
	case "/help":
		r.Renderer.Info(chat.HelpText() + "\n  /s N                   Send suggestion number N")
	case "/status":
		r.Renderer.Info(r.statusText())
	case "/history":
		id := r.Controller.Session().SessionID()
		if id == "" {
			r.Renderer.Info("No session yet. Send a message first.")
			return false
		}
		h, err := r.Service.History(ctx, id)
		if err != nil {
			r.Renderer.RenderError(turn.ErrorPrefix + err.Error())
			return false
		}
		r.Renderer.Info(chat.FormatHistory(h))
	case "/tools":
		tools, err := r.Service.ListTools(ctx)
		if err != nil {
			r.Renderer.RenderError(turn.ErrorPrefix + err.Error())
			return false
		}
		r.Renderer.Info(chat.FormatTools(tools))
	case "/reset":
		id := r.Controller.Session().SessionID()
		if id == "" {
			r.Renderer.Info("No session to reset.")
			return false
		}
		text, err := r.Service.ClearSession(ctx, id)
		if err != nil {
			r.Renderer.RenderError(turn.ErrorPrefix + err.Error())
			return false
		}
		r.Renderer.Transcript().Clear()
		r.Renderer.Info(text)
	case "/copy":
		last := r.Renderer.Transcript().LastOfRole(model.RoleBot)
		if last == nil {
			r.Renderer.Info("Nothing to copy yet.")
			return false
		}
		if err := r.Clipboard(last.Content); err != nil {
			r.Renderer.RenderError(turn.ErrorPrefix + errors.Wrap(err, "copy to clipboard").Error())
			return false
		}
		r.Renderer.Info("Copied last reply to the clipboard.")
	case "/quit":
		return true
	}
	return false
}

func (r *REPL) selectSuggestion(ctx context.Context, arg string) {
	items := r.Renderer.Suggestions()
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(items) {
		if len(items) == 0 {
			r.Renderer.Info("No suggestions available.")
		} else {
			r.Renderer.Info(fmt.Sprintf("Pick a suggestion between 1 and %d.", len(items)))
		}
		return
	}
	if err := r.Controller.SelectSuggestion(ctx, items[n-1]); err != nil {
		r.Logger.Debug().Err(err).Msg("suggestion turn did not succeed")
	}
}

func (r *REPL) statusText() string {
	snap := r.Controller.Session().Snapshot()
	id := snap.SessionID
	if id == "" {
		id = "none yet"
	}
	status := snap.Status
	if status == "" {
		status = "unknown"
	} else {
		status = session.Humanize(status) + " (" + status + ")"
	}
	return fmt.Sprintf("Service: %s\nSession: %s\nToken:   %s\nStatus:  %s",
		r.ServiceURL, id, r.Controller.Session().TokenFingerprint(), status)
}

// =============================================================================
// COMMAND
// =============================================================================

func newREPLCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Chat in line mode",
		Long: `Start a line-mode conversation. Replies scroll in the terminal instead of
using the full-screen interface, and input may be piped in.

Type /help during the session for commands; /s N sends suggestion N.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runREPL(cmd.Context(), true)
		},
	}
}

// runREPL runs the line-mode conversation on the App's streams.
func (app *App) runREPL(ctx context.Context, interactiveHint bool) error {
	interactive := isTerminalReader(app.In)

	renderer := NewLineRenderer(app.Out, LineOptions{
		Width:      GetTerminalWidth(app.Out),
		Classifier: app.classifier(),
		Timestamps: app.cfg.UI.ShowTimestamps,
		TypingText: app.cfg.UI.TypingText,
		EchoUser:   !interactive,
		ShowTyping: interactive,
	})
	client := app.newClient()

	var reader LineReader
	if interactive {
		editor := newLineEditor()
		defer editor.Close()
		reader = editor
		if interactiveHint {
			fmt.Fprintf(app.Out, "chatline %s - connected to %s. Type /help for commands.\n", Version, app.cfg.Service.BaseURL)
		}
	} else {
		reader = newScanReader(app.In)
	}

	repl := &REPL{
		Controller: app.newController(client, renderer),
		Renderer:   renderer,
		Service:    client,
		Reader:     reader,
		Out:        app.Out,
		ServiceURL: app.cfg.Service.BaseURL,
		Logger:     app.logger,
	}
	return repl.Run(ctx)
}
