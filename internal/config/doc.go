// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for chatline.
//
// Configuration is a single TOML file with sensible defaults, a .env file for
// local development, environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - ServiceConfig: Where the chat service lives
//   - ChatConfig: Initial status, suggestions and status classification
//   - UIConfig: Theme, markdown and error toast settings
//   - Watcher: Reloads the file when it changes on disk
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Command-line flags (applied by the cli package)
//   - Environment variables (CHATLINE_*), including those set by .env
//   - The file named by --config or CHATLINE_CONFIG
//   - ~/.chatline/config.toml
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client := transport.NewClient(cfg.Service.BaseURL)
package config
