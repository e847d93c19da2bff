// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jeranaias/chatline-tui/internal/config"
)

// =============================================================================
// CONFIG COMMAND
// =============================================================================

func newConfigCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the configuration",
		Long: `Show or change the configuration file.

"show" prints the effective configuration after environment variables and
flags are applied. "get" reads from it; "set" edits the file itself.`,
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:         "path",
			Short:       "Print the config file location",
			Annotations: map[string]string{annotationNoConfig: "true"},
			Args:        cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				path, err := app.fileConfigPath()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Fprintln(cmd.OutOrStdout(), app.cfg.String())
				return nil
			},
		},
		&cobra.Command{
			Use:       "get <key>",
			Short:     "Print one effective value",
			Args:      cobra.ExactArgs(1),
			ValidArgs: config.GetAllKeys(),
			RunE: func(cmd *cobra.Command, args []string) error {
				v, err := app.cfg.Get(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), v)
				return nil
			},
		},
		&cobra.Command{
			Use:         "set <key> <value>",
			Short:       "Change a value in the config file",
			Long:        "Change a value in the config file. List values are comma separated.",
			Annotations: map[string]string{annotationNoConfig: "true"},
			Args:        cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				path, err := app.fileConfigPath()
				if err != nil {
					return err
				}
				if err := setConfigValue(path, args[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], args[1])
				return nil
			},
		},
		&cobra.Command{
			Use:         "keys",
			Short:       "List every config key",
			Annotations: map[string]string{annotationNoConfig: "true"},
			Args:        cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				for _, k := range config.GetAllKeys() {
					fmt.Fprintln(cmd.OutOrStdout(), k)
				}
			},
		},
	)
	return cmd
}

// fileConfigPath is --config when given, otherwise the default location.
func (app *App) fileConfigPath() (string, error) {
	if app.configPath != "" {
		return app.configPath, nil
	}
	return config.ConfigPath()
}

// setConfigValue edits the file only, so environment overrides are never
// written back.
func setConfigValue(path, key, value string) error {
	cfg := config.Default()
	if _, err := os.Stat(path); err == nil {
		if err := config.LoadTOML(cfg, path); err != nil {
			return err
		}
	}
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return errors.Wrapf(err, "refusing to save %s", key)
	}
	return config.SaveTOML(cfg, path)
}
