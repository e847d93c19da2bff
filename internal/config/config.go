// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete chatline configuration.
type Config struct {
	// Service is the remote chat service
	Service ServiceConfig `toml:"service" json:"service"`

	// Chat holds conversation bootstrap settings
	Chat ChatConfig `toml:"chat" json:"chat"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`

	// Log configuration
	Log LogConfig `toml:"log" json:"log"`

	// Mock configures the development mock server
	Mock MockConfig `toml:"mock" json:"mock"`
}

// ServiceConfig locates the chat service.
type ServiceConfig struct {
	// BaseURL is the scheme and host of the service, e.g. http://127.0.0.1:5000
	BaseURL string `toml:"base_url" json:"base_url"`
	// ChatPath is the turn endpoint path
	ChatPath string `toml:"chat_path" json:"chat_path"`
	// RequestTimeoutSecs bounds each turn. Zero means wait indefinitely.
	RequestTimeoutSecs int `toml:"request_timeout_secs" json:"request_timeout_secs"`
}

// ChatConfig contains conversation bootstrap settings.
type ChatConfig struct {
	// InitialStatus is shown before the first exchange
	InitialStatus string `toml:"initial_status" json:"initial_status"`
	// Suggestions are shortcut prompts offered at startup
	Suggestions []string `toml:"suggestions" json:"suggestions"`
	// AuthenticatedLabels are status labels that mean "signed in"
	AuthenticatedLabels []string `toml:"authenticated_labels" json:"authenticated_labels"`
	// Providers are names whose presence in a status label means "signed in"
	Providers []string `toml:"providers" json:"providers"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme" json:"theme"`
	// Markdown renders bot replies as markdown
	Markdown bool `toml:"markdown" json:"markdown"`
	// ShowTimestamps prints the time next to each message
	ShowTimestamps bool `toml:"show_timestamps" json:"show_timestamps"`
	// ErrorDismissSecs is how long an error stays on screen
	ErrorDismissSecs int `toml:"error_dismiss_secs" json:"error_dismiss_secs"`
	// TypingText is shown next to the typing spinner
	TypingText string `toml:"typing_text" json:"typing_text"`
}

// LogConfig contains logging configuration.
type LogConfig struct {
	// Level is one of trace, debug, info, warn, error, disabled
	Level string `toml:"level" json:"level"`
	// File is the log file path. Empty means ~/.chatline/chatline.log
	File string `toml:"file" json:"file"`
}

// MockConfig configures the mock chat service.
type MockConfig struct {
	// Addr is the listen address
	Addr string `toml:"addr" json:"addr"`
	// DB is a SQLite path for session storage. Empty keeps sessions in memory.
	DB string `toml:"db" json:"db"`
	// RatePerSec limits requests per second across all clients. Zero disables.
	RatePerSec float64 `toml:"rate_per_sec" json:"rate_per_sec"`
	// Burst is the rate limiter burst size
	Burst int `toml:"burst" json:"burst"`
	// TOTPSecret is the base32 secret used to verify login codes
	TOTPSecret string `toml:"totp_secret" json:"totp_secret"`
}

// RequestTimeout returns the per-turn timeout as a duration.
func (s ServiceConfig) RequestTimeout() time.Duration {
	return time.Duration(s.RequestTimeoutSecs) * time.Second
}

// ErrorDismiss returns the error toast lifetime as a duration.
func (u UIConfig) ErrorDismiss() time.Duration {
	return time.Duration(u.ErrorDismissSecs) * time.Second
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Service: ServiceConfig{
			BaseURL:            "http://127.0.0.1:5000",
			ChatPath:           "/chat",
			RequestTimeoutSecs: 0,
		},

		Chat: ChatConfig{
			InitialStatus: "NOT_AUTHENTICATED",
			Suggestions: []string{
				"Check my balance",
				"Log in to Vaulta",
				"Send a payment",
				"What can you do?",
			},
			AuthenticatedLabels: []string{"AUTHENTICATED"},
			Providers:           []string{"vaulta"},
		},

		UI: UIConfig{
			Theme:            "auto",
			Markdown:         true,
			ShowTimestamps:   true,
			ErrorDismissSecs: 5,
			TypingText:       "typing",
		},

		Log: LogConfig{
			Level: "info",
		},

		Mock: MockConfig{
			Addr:       "127.0.0.1:5000",
			RatePerSec: 5,
			Burst:      10,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the chatline configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "could not determine home directory")
	}
	return filepath.Join(home, ".chatline"), nil
}

// ConfigPath returns the config file path, honoring CHATLINE_CONFIG.
func ConfigPath() (string, error) {
	if p := os.Getenv(EnvConfig); p != "" {
		return p, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}

// ensureSecurePermissions tightens permissions on the config file.
// SECURITY: Config files should be 0600 (owner read/write only).
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	mode := info.Mode().Perm()
	if mode&0077 != 0 {
		if err := os.Chmod(path, 0600); err != nil {
			return errors.Wrapf(err, "failed to fix insecure permissions (was %o)", mode)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from path, or from ConfigPath when path is empty.
// A missing file at the default location is not an error; a missing file
// that was named explicitly is. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := ConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
		explicit = os.Getenv(EnvConfig) != ""
	}

	cfg := Default()
	if _, err := os.Stat(path); err == nil {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, err
		}
	} else if explicit {
		return nil, errors.Wrapf(err, "config file %s", path)
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file on top of cfg.
// SECURITY: Checks and fixes file permissions on load.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return errors.Wrapf(err, "failed to decode TOML file %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return errors.Errorf("unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// SetDefaults fills in empty values with defaults.
// Booleans and the request timeout are left as loaded.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Service.BaseURL == "" {
		c.Service.BaseURL = defaults.Service.BaseURL
	}
	c.Service.BaseURL = strings.TrimRight(c.Service.BaseURL, "/")
	if c.Service.ChatPath == "" {
		c.Service.ChatPath = defaults.Service.ChatPath
	}
	if !strings.HasPrefix(c.Service.ChatPath, "/") {
		c.Service.ChatPath = "/" + c.Service.ChatPath
	}

	if c.Chat.AuthenticatedLabels == nil {
		c.Chat.AuthenticatedLabels = defaults.Chat.AuthenticatedLabels
	}

	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
	if c.UI.ErrorDismissSecs == 0 {
		c.UI.ErrorDismissSecs = defaults.UI.ErrorDismissSecs
	}
	if c.UI.TypingText == "" {
		c.UI.TypingText = defaults.UI.TypingText
	}

	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}

	if c.Mock.Addr == "" {
		c.Mock.Addr = defaults.Mock.Addr
	}
	if c.Mock.Burst == 0 {
		c.Mock.Burst = defaults.Mock.Burst
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes the configuration to the default config path.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes the configuration to a TOML file.
// SECURITY: Creates config files with 0600 permissions (owner read/write only).
func SaveTOML(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return errors.Wrap(err, "failed to create config file")
	}
	defer file.Close()

	if err := os.Chmod(path, 0600); err != nil {
		return errors.Wrap(err, "failed to set config file permissions")
	}

	fmt.Fprintln(file, "# chatline configuration file")
	fmt.Fprintln(file, "# Generated by chatline - edit with care")
	fmt.Fprintln(file, "")

	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		return errors.Wrap(err, "failed to encode config")
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "error": true, "disabled": true,
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	u, err := url.Parse(c.Service.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, ValidationError{
			Field:   "service.base_url",
			Message: fmt.Sprintf("invalid URL '%s', must be http(s)://host[:port]", c.Service.BaseURL),
		})
	}
	if strings.ContainsAny(c.Service.ChatPath, "?# ") {
		errs = append(errs, ValidationError{
			Field:   "service.chat_path",
			Message: fmt.Sprintf("invalid path '%s'", c.Service.ChatPath),
		})
	}
	if c.Service.RequestTimeoutSecs < 0 {
		errs = append(errs, ValidationError{
			Field:   "service.request_timeout_secs",
			Message: "must not be negative",
		})
	}

	for i, s := range c.Chat.Suggestions {
		if strings.TrimSpace(s) == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("chat.suggestions[%d]", i),
				Message: "must not be blank",
			})
		}
	}

	validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme),
		})
	}
	if c.UI.ErrorDismissSecs < 1 || c.UI.ErrorDismissSecs > 300 {
		errs = append(errs, ValidationError{
			Field:   "ui.error_dismiss_secs",
			Message: fmt.Sprintf("must be between 1 and 300, got %d", c.UI.ErrorDismissSecs),
		})
	}

	if !validLogLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: trace, debug, info, warn, error, disabled", c.Log.Level),
		})
	}

	if c.Mock.RatePerSec < 0 {
		errs = append(errs, ValidationError{Field: "mock.rate_per_sec", Message: "must not be negative"})
	}
	if c.Mock.Burst < 1 {
		errs = append(errs, ValidationError{Field: "mock.burst", Message: "must be at least 1"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "ui.theme").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value from its string form using dot notation.
func (c *Config) Set(key, value string) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return errors.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

// lookup walks the struct by toml tag names.
func (c *Config) lookup(key string) (reflect.Value, error) {
	if key == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")
	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		if v.Kind() != reflect.Struct {
			return reflect.Value{}, errors.Errorf("field '%s' is not a section", strings.Join(parts[:i], "."))
		}
		field, ok := fieldByTag(v, part)
		if !ok {
			return reflect.Value{}, errors.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	if v.Kind() == reflect.Struct {
		return reflect.Value{}, errors.Errorf("'%s' is a section, not a value", key)
	}
	return v, nil
}

func fieldByTag(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).Tag.Get("toml") == name {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// setFieldValue parses value into the field's kind.
func setFieldValue(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return errors.Wrapf(err, "invalid boolean '%s'", value)
		}
		field.SetBool(b)
	case reflect.Int:
		n, err := strconv.Atoi(value)
		if err != nil {
			return errors.Wrapf(err, "invalid integer '%s'", value)
		}
		field.SetInt(int64(n))
	case reflect.Float64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return errors.Wrapf(err, "invalid number '%s'", value)
		}
		field.SetFloat(f)
	case reflect.Slice:
		var items []string
		for _, s := range strings.Split(value, ",") {
			if s = strings.TrimSpace(s); s != "" {
				items = append(items, s)
			}
		}
		field.Set(reflect.ValueOf(items))
	default:
		return errors.Errorf("unsupported field type %s", field.Kind())
	}
	return nil
}

// GetAllKeys returns every settable key in dot notation.
func GetAllKeys() []string {
	var keys []string
	t := reflect.TypeOf(Config{})
	for i := 0; i < t.NumField(); i++ {
		section := t.Field(i)
		for j := 0; j < section.Type.NumField(); j++ {
			keys = append(keys, section.Tag.Get("toml")+"."+section.Type.Field(j).Tag.Get("toml"))
		}
	}
	return keys
}

// =============================================================================
// COPY & DISPLAY
// =============================================================================

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Chat.Suggestions = append([]string(nil), c.Chat.Suggestions...)
	clone.Chat.AuthenticatedLabels = append([]string(nil), c.Chat.AuthenticatedLabels...)
	clone.Chat.Providers = append([]string(nil), c.Chat.Providers...)
	return &clone
}

// String returns a JSON representation of the config for display.
// The TOTP secret is redacted.
func (c *Config) String() string {
	safe := c.Clone()
	if safe.Mock.TOTPSecret != "" {
		safe.Mock.TOTPSecret = "[REDACTED]"
	}
	data, _ := json.MarshalIndent(safe, "", "  ")
	return string(data)
}
