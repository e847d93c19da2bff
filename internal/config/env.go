// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Environment variables read by chatline.
const (
	EnvConfig         = "CHATLINE_CONFIG"
	EnvBaseURL        = "CHATLINE_BASE_URL"
	EnvChatPath       = "CHATLINE_CHAT_PATH"
	EnvRequestTimeout = "CHATLINE_REQUEST_TIMEOUT_SECS"
	EnvLogLevel       = "CHATLINE_LOG_LEVEL"
	EnvTheme          = "CHATLINE_THEME"
	EnvTOTPSecret     = "CHATLINE_TOTP_SECRET"
)

// LoadDotEnv loads .env from the working directory and then from the config
// directory. Variables already set in the environment are never overwritten.
// Missing files are skipped. It returns the files that were loaded.
func LoadDotEnv() ([]string, error) {
	candidates := []string{".env"}
	if dir, err := ConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, ".env"))
	}

	var loaded []string
	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return loaded, errors.Wrapf(err, "failed to load %s", path)
		}
		loaded = append(loaded, path)
	}
	return loaded, nil
}

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - CHATLINE_BASE_URL: overrides service.base_url
//   - CHATLINE_CHAT_PATH: overrides service.chat_path
//   - CHATLINE_REQUEST_TIMEOUT_SECS: overrides service.request_timeout_secs
//   - CHATLINE_LOG_LEVEL: overrides log.level
//   - CHATLINE_THEME: overrides ui.theme
//   - CHATLINE_TOTP_SECRET: overrides mock.totp_secret
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.Service.BaseURL = v
	}
	if v := os.Getenv(EnvChatPath); v != "" {
		c.Service.ChatPath = v
	}
	if v := os.Getenv(EnvRequestTimeout); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Service.RequestTimeoutSecs = n
		}
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvTheme); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv(EnvTOTPSecret); v != "" {
		c.Mock.TOTPSecret = v
	}
}
