// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging builds the zerolog loggers used across chatline.
//
// The TUI owns the terminal, so interactive commands log JSON lines to a file
// under ~/.chatline. The mock server logs human-readable lines to stderr.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/jeranaias/chatline-tui/internal/config"
)

// DefaultFileName is the log file created in the config directory.
const DefaultFileName = "chatline.log"

// ParseLevel converts a string level into zerolog.Level with a safe default.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off", "none":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// New returns a logger writing JSON lines to the configured file.
// The returned closer must be called on exit.
func New(cfg config.LogConfig) (zerolog.Logger, io.Closer, error) {
	level := ParseLevel(cfg.Level)
	if level == zerolog.Disabled {
		return zerolog.Nop(), io.NopCloser(nil), nil
	}

	path := cfg.File
	if path == "" {
		dir, err := config.ConfigDir()
		if err != nil {
			return zerolog.Nop(), io.NopCloser(nil), err
		}
		path = filepath.Join(dir, DefaultFileName)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return zerolog.Nop(), io.NopCloser(nil), errors.Wrap(err, "failed to create log directory")
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return zerolog.Nop(), io.NopCloser(nil), errors.Wrapf(err, "failed to open log file %s", path)
	}

	return NewWriter(f, level), f, nil
}

// NewWriter returns a JSON logger on w at level.
func NewWriter(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).Level(level).With().Timestamp().Str("app", "chatline").Logger()
}

// NewConsole returns a human-readable logger on stderr, used by the mock server.
func NewConsole(level string) zerolog.Logger {
	return NewConsoleWriter(os.Stderr, ParseLevel(level))
}

// NewConsoleWriter returns a human-readable logger on w at level.
func NewConsoleWriter(w io.Writer, level zerolog.Level) zerolog.Logger {
	cw := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	return zerolog.New(cw).Level(level).With().Timestamp().Logger()
}
