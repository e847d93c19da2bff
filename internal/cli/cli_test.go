// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/chatline-tui/internal/config"
	"github.com/jeranaias/chatline-tui/internal/mockserver"
	"github.com/jeranaias/chatline-tui/internal/transport"
)

// =============================================================================
// HARNESS
// =============================================================================

type cliEnv struct {
	t          *testing.T
	server     *httptest.Server
	configPath string
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, name := range []string{
		config.EnvConfig, config.EnvBaseURL, config.EnvChatPath, config.EnvRequestTimeout,
		config.EnvLogLevel, config.EnvTheme, config.EnvTOTPSecret,
	} {
		t.Setenv(name, "")
	}

	srv := httptest.NewServer(mockserver.New(mockserver.Options{
		TOTPSecret: "JBSWY3DPEHPK3PXP",
		Logger:     zerolog.Nop(),
	}).Handler())
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.Service.BaseURL = srv.URL
	cfg.Log.Level = "disabled"
	cfg.UI.ShowTimestamps = false
	path := filepath.Join(home, "config.toml")
	require.NoError(t, config.SaveTOML(cfg, path))

	return &cliEnv{t: t, server: srv, configPath: path}
}

// run executes the CLI with stdin and returns stdout, stderr and the exit code.
func (e *cliEnv) run(stdin string, args ...string) (string, string, int) {
	return e.runContext(context.Background(), stdin, args...)
}

func (e *cliEnv) runContext(ctx context.Context, stdin string, args ...string) (string, string, int) {
	e.t.Helper()
	var out, errOut bytes.Buffer
	app := &App{In: strings.NewReader(stdin), Out: &out, Err: &errOut, logger: zerolog.Nop()}
	code := run(ctx, app, append([]string{"--config", e.configPath}, args...))
	return out.String(), errOut.String(), code
}

// =============================================================================
// ASK
// =============================================================================

func TestAsk_PrintsReply(t *testing.T) {
	env := newCLIEnv(t)

	out, _, code := env.run("", "ask", "hello", "there")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Assistant:")
	assert.Contains(t, out, "You said: hello there")
	assert.NotContains(t, out, "You:", "ask does not echo the question")
}

func TestAsk_FailureSetsExitCode(t *testing.T) {
	env := newCLIEnv(t)

	out, errOut, code := env.run("", "ask", "fail")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "Error: internal")
	assert.Empty(t, errOut, "the failure is rendered once")
}

func TestAsk_StatusFlag(t *testing.T) {
	env := newCLIEnv(t)

	out, _, code := env.run("", "ask", "--status", "hi")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "status NOT_AUTHENTICATED")
}

// =============================================================================
// REPL
// =============================================================================

func TestREPL_PipedConversation(t *testing.T) {
	env := newCLIEnv(t)

	out, _, code := env.run("hi\n\n/s 4\n/status\n/quit\nnever sent\n")
	require.Equal(t, 0, code)

	assert.Contains(t, out, "Suggestions (type /s N to use one):")
	assert.Contains(t, out, "4. What can you do?")
	assert.Contains(t, out, "You:\n  hi")
	assert.Contains(t, out, "You said: hi")
	assert.Contains(t, out, "I can help with:")
	assert.Contains(t, out, "Status:  Not Authenticated (NOT_AUTHENTICATED)")
	assert.NotContains(t, out, "Session: none yet")
	assert.NotContains(t, out, "never sent")
}

func TestREPL_SuggestionOutOfRange(t *testing.T) {
	env := newCLIEnv(t)

	out, _, code := env.run("/s 9\n/s x\n")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Pick a suggestion between 1 and 4.")
	assert.NotContains(t, out, "Assistant:")
}

func TestREPL_FailureDoesNotEnd(t *testing.T) {
	env := newCLIEnv(t)

	out, _, code := env.run("fail\nhello\n")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "[X] Error: internal")
	assert.Contains(t, out, "You said: hello")
}

func TestREPL_HistoryAndReset(t *testing.T) {
	env := newCLIEnv(t)

	out, _, code := env.run("/history\nping\n/history\n/reset\n/unknown\n")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "No session yet. Send a message first.")
	assert.Contains(t, out, "(1 exchanges):")
	assert.Contains(t, out, "you: ping")
	assert.Contains(t, out, "Session cleared successfully")
	assert.Contains(t, out, "Unknown command /unknown.")
}

// =============================================================================
// SERVICE COMMANDS
// =============================================================================

func TestHistoryToolsClear(t *testing.T) {
	env := newCLIEnv(t)

	client := transport.NewClient(env.server.URL)
	resp, err := client.Send(context.Background(), transport.Payload{Message: "hello"})
	require.NoError(t, err)
	require.True(t, resp.SessionID.Present)
	id := resp.SessionID.Value

	out, _, code := env.run("", "history", id)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "History of session "+id)
	assert.Contains(t, out, "bot: You said: hello")

	out, _, code = env.run("", "history", "--json", id)
	require.Equal(t, 0, code)
	assert.Contains(t, out, `"session_id": "`+id+`"`)

	out, _, code = env.run("", "tools")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "tools:")

	out, _, code = env.run("", "clear", id)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Session cleared successfully")

	_, errOut, code := env.run("", "history", id)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Error: Session not found")
}

// =============================================================================
// CONFIG & VERSION
// =============================================================================

func TestConfigSetGetShow(t *testing.T) {
	env := newCLIEnv(t)

	out, _, code := env.run("", "config", "set", "ui.theme", "light")
	require.Equal(t, 0, code)
	assert.Equal(t, "ui.theme = light\n", out)

	out, _, code = env.run("", "config", "get", "ui.theme")
	require.Equal(t, 0, code)
	assert.Equal(t, "light\n", out)

	out, _, code = env.run("", "config", "show")
	require.Equal(t, 0, code)
	assert.Contains(t, out, `"theme": "light"`)

	_, errOut, code := env.run("", "config", "set", "ui.theme", "neon")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "ui.theme")

	out, _, code = env.run("", "config", "path")
	require.Equal(t, 0, code)
	assert.Equal(t, env.configPath+"\n", out)
}

func TestConfigShow_RedactsSecret(t *testing.T) {
	env := newCLIEnv(t)
	t.Setenv(config.EnvTOTPSecret, "JBSWY3DPEHPK3PXP")

	out, _, code := env.run("", "config", "show")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "[REDACTED]")
	assert.NotContains(t, out, "JBSWY3DPEHPK3PXP")
}

func TestBaseURLFlagOverridesConfig(t *testing.T) {
	env := newCLIEnv(t)

	out, _, code := env.run("", "--base-url", "http://example.test:9", "config", "get", "service.base_url")
	require.Equal(t, 0, code)
	assert.Equal(t, "http://example.test:9\n", out)

	_, errOut, code := env.run("", "--base-url", "ftp://nope", "config", "show")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "service.base_url")
}

func TestMissingExplicitConfigFails(t *testing.T) {
	env := newCLIEnv(t)
	env.configPath = filepath.Join(t.TempDir(), "missing.toml")

	_, errOut, code := env.run("", "config", "show")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "missing.toml")
}

func TestVersion(t *testing.T) {
	env := newCLIEnv(t)

	out, _, code := env.run("", "version")
	require.Equal(t, 0, code)
	assert.True(t, strings.HasPrefix(out, "chatline "+Version))
}

// =============================================================================
// MOCK SERVER
// =============================================================================

func TestMockServer_StopsWithContext(t *testing.T) {
	env := newCLIEnv(t)
	db := filepath.Join(t.TempDir(), "sessions.db")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, _, code := env.runContext(ctx, "", "mock-server", "--addr", "127.0.0.1:0", "--db", db)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Mock chat service on http://127.0.0.1:0")
	assert.Contains(t, out, "TOTP secret: ")
	assert.Contains(t, out, "Current code: ")

	_, err := os.Stat(db)
	assert.NoError(t, err, "sqlite store created")
}
