// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0600))
	return path
}

// =============================================================================
// DEFAULT TESTS
// =============================================================================

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "http://127.0.0.1:5000", cfg.Service.BaseURL)
	assert.Equal(t, "/chat", cfg.Service.ChatPath)
	assert.Zero(t, cfg.Service.RequestTimeout(), "no timeout by default")
	assert.Equal(t, 5*time.Second, cfg.UI.ErrorDismiss())
	assert.Equal(t, "NOT_AUTHENTICATED", cfg.Chat.InitialStatus)
	assert.NotEmpty(t, cfg.Chat.Suggestions)
	assert.NoError(t, cfg.Validate())
}

// =============================================================================
// LOAD TESTS
// =============================================================================

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
[service]
base_url = "https://chat.example.com/"
chat_path = "api/chat"
request_timeout_secs = 30

[chat]
suggestions = ["One", "Two"]
providers = ["acme"]

[ui]
theme = "light"
error_dismiss_secs = 8
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://chat.example.com", cfg.Service.BaseURL)
	assert.Equal(t, "/api/chat", cfg.Service.ChatPath)
	assert.Equal(t, 30*time.Second, cfg.Service.RequestTimeout())
	assert.Equal(t, []string{"One", "Two"}, cfg.Chat.Suggestions)
	assert.Equal(t, []string{"acme"}, cfg.Chat.Providers)
	assert.Equal(t, []string{"AUTHENTICATED"}, cfg.Chat.AuthenticatedLabels)
	assert.Equal(t, "light", cfg.UI.Theme)
	assert.Equal(t, 8, cfg.UI.ErrorDismissSecs)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoad_DefaultLocationMissing(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(EnvConfig, "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Service.BaseURL, cfg.Service.BaseURL)
}

func TestLoad_UnknownKey(t *testing.T) {
	path := writeConfig(t, "[service]\nbase_ur = \"http://x\"\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "service.base_ur")
}

func TestLoad_FixesPermissions(t *testing.T) {
	path := writeConfig(t, "")
	require.NoError(t, os.Chmod(path, 0644))

	_, err := Load(path)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "[service]\nbase_url = \"http://file:1\"\n")
	t.Setenv(EnvBaseURL, "http://env:2")
	t.Setenv(EnvRequestTimeout, "12")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvTheme, "dark")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://env:2", cfg.Service.BaseURL)
	assert.Equal(t, 12, cfg.Service.RequestTimeoutSecs)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "dark", cfg.UI.Theme)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", t.TempDir())
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	require.NoError(t, os.WriteFile(".env", []byte("CHATLINE_CHAT_PATH=/dotenv\nCHATLINE_THEME=light\n"), 0600))
	t.Setenv(EnvTheme, "dark")
	t.Setenv(EnvChatPath, "")
	os.Unsetenv(EnvChatPath)

	loaded, err := LoadDotEnv()
	require.NoError(t, err)
	assert.Equal(t, []string{".env"}, loaded)
	assert.Equal(t, "/dotenv", os.Getenv(EnvChatPath))
	assert.Equal(t, "dark", os.Getenv(EnvTheme), "existing variables win")
}

// =============================================================================
// VALIDATION TESTS
// =============================================================================

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Service.BaseURL = "ftp://x"
	cfg.Service.RequestTimeoutSecs = -1
	cfg.UI.Theme = "neon"
	cfg.UI.ErrorDismissSecs = 0
	cfg.Log.Level = "loud"
	cfg.Chat.Suggestions = []string{"ok", "  "}

	err := cfg.Validate()
	require.Error(t, err)

	var verrs ValidateErrors
	require.True(t, errors.As(err, &verrs))

	fields := make([]string, 0, len(verrs))
	for _, e := range verrs {
		fields = append(fields, e.Field)
	}
	assert.ElementsMatch(t, []string{
		"service.base_url",
		"service.request_timeout_secs",
		"chat.suggestions[1]",
		"ui.theme",
		"ui.error_dismiss_secs",
		"log.level",
	}, fields)
	assert.Contains(t, err.Error(), "; ")
}

// =============================================================================
// GET/SET TESTS
// =============================================================================

func TestGetSet(t *testing.T) {
	cfg := Default()

	v, err := cfg.Get("service.base_url")
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:5000", v)

	require.NoError(t, cfg.Set("ui.error_dismiss_secs", "9"))
	require.NoError(t, cfg.Set("ui.markdown", "false"))
	require.NoError(t, cfg.Set("chat.suggestions", "a, b ,,c"))
	require.NoError(t, cfg.Set("mock.rate_per_sec", "2.5"))
	assert.Equal(t, 9, cfg.UI.ErrorDismissSecs)
	assert.False(t, cfg.UI.Markdown)
	assert.Equal(t, []string{"a", "b", "c"}, cfg.Chat.Suggestions)
	assert.Equal(t, 2.5, cfg.Mock.RatePerSec)

	assert.Error(t, cfg.Set("ui.error_dismiss_secs", "soon"))
	_, err = cfg.Get("ui.nope")
	assert.Error(t, err)
	_, err = cfg.Get("ui")
	assert.Error(t, err)
	_, err = cfg.Get("")
	assert.Error(t, err)
}

func TestGetAllKeys(t *testing.T) {
	keys := GetAllKeys()
	assert.Contains(t, keys, "service.base_url")
	assert.Contains(t, keys, "ui.error_dismiss_secs")
	for _, k := range keys {
		_, err := Default().Get(k)
		assert.NoError(t, err, k)
	}
}

// =============================================================================
// SAVE TESTS
// =============================================================================

func TestSaveTOMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	cfg := Default()
	cfg.Chat.Suggestions = []string{"Hi"}
	cfg.UI.Theme = "light"

	require.NoError(t, SaveTOML(cfg, path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "# chatline configuration file"))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Chat.Suggestions, loaded.Chat.Suggestions)
	assert.Equal(t, "light", loaded.UI.Theme)
}

func TestStringRedactsSecret(t *testing.T) {
	cfg := Default()
	cfg.Mock.TOTPSecret = "JBSWY3DPEHPK3PXP"
	out := cfg.String()
	assert.NotContains(t, out, "JBSWY3DPEHPK3PXP")
	assert.Contains(t, out, "[REDACTED]")
	assert.Equal(t, "JBSWY3DPEHPK3PXP", cfg.Mock.TOTPSecret)
}
