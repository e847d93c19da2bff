// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/chatline-tui/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"trace":    zerolog.TraceLevel,
		"DEBUG":    zerolog.DebugLevel,
		" warn ":   zerolog.WarnLevel,
		"error":    zerolog.ErrorLevel,
		"disabled": zerolog.Disabled,
		"info":     zerolog.InfoLevel,
		"bogus":    zerolog.InfoLevel,
		"":         zerolog.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "chat.log")
	logger, closer, err := New(config.LogConfig{Level: "debug", File: path})
	require.NoError(t, err)

	logger.Debug().Str("component", "test").Msg("hello")
	require.NoError(t, closer.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(raw), &line))
	assert.Equal(t, "hello", line["message"])
	assert.Equal(t, "chatline", line["app"])
	assert.Equal(t, "test", line["component"])
}

func TestNew_Disabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat.log")
	logger, closer, err := New(config.LogConfig{Level: "disabled", File: path})
	require.NoError(t, err)
	logger.Error().Msg("dropped")
	require.NoError(t, closer.Close())

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestNewWriter_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(&buf, zerolog.WarnLevel)
	logger.Info().Msg("quiet")
	assert.Empty(t, buf.String())
	logger.Warn().Msg("loud")
	assert.Contains(t, buf.String(), "loud")
}

func TestNewConsoleWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleWriter(&buf, zerolog.InfoLevel)
	logger.Info().Str("addr", ":5000").Msg("listening")
	out := buf.String()
	assert.Contains(t, out, "listening")
	assert.Contains(t, out, "addr=")
}
