// Copyright (c) 2024-2025 OpenClaw Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config handles loading and validating the OpenClaw TUI
// configuration from ~/.openclaw/config.toml.
//
// Components receive their Config value at construction. The Global
// accessor exists for the CLI entry layer only; nothing below the
// command handlers reads ambient configuration.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/openclaw/openclaw-tui/internal/util"
)

// =============================================================================
// CONFIG TYPES
// =============================================================================

// Config is the root configuration.
type Config struct {
	Backend   BackendConfig   `toml:"backend"`
	Stream    StreamConfig    `toml:"stream"`
	Storage   StorageConfig   `toml:"storage"`
	Workspace WorkspaceConfig `toml:"workspace"`
	UI        UIConfig        `toml:"ui"`
}

// BackendConfig points the client at the OpenClaw agent backend.
type BackendConfig struct {
	// BaseURL is the single backend setting everything derives from,
	// including the WebSocket URL.
	BaseURL string `toml:"base_url"`

	// UserID identifies this client to the backend.
	UserID string `toml:"user_id"`

	// RequestTimeoutSecs bounds one HTTP request.
	RequestTimeoutSecs int `toml:"request_timeout_secs"`

	// RequestsPerSecond and Burst shape the outbound rate limiter.
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
}

// StreamConfig tunes the multi-agent WebSocket stream.
type StreamConfig struct {
	// MaxIterations is sent in the initiation payload.
	MaxIterations int `toml:"max_iterations"`

	// DeadlineSecs bounds one whole stream run.
	DeadlineSecs int `toml:"deadline_secs"`

	// HandshakeTimeoutSecs bounds the WebSocket dial.
	HandshakeTimeoutSecs int `toml:"handshake_timeout_secs"`
}

// StorageConfig controls local conversation persistence.
type StorageConfig struct {
	// Path of the SQLite database. Empty means ~/.openclaw/openclaw.db.
	Path string `toml:"path"`

	// MaxConversations caps stored conversations; oldest are pruned.
	MaxConversations int `toml:"max_conversations"`
}

// WorkspaceConfig controls where generated projects are written.
type WorkspaceConfig struct {
	// Dir is the output directory. Empty means ~/.openclaw/workspace.
	Dir string `toml:"dir"`

	// WatchDebounceMs batches rapid file change events.
	WatchDebounceMs int `toml:"watch_debounce_ms"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	// Theme is "auto", "dark", or "light".
	Theme string `toml:"theme"`

	// Mode is the default send mode: "simple" or "multi-agent".
	Mode string `toml:"mode"`

	// ShowTimestamps toggles per-message timestamps.
	ShowTimestamps bool `toml:"show_timestamps"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

const (
	// DefaultBaseURL is the backend's default local address.
	DefaultBaseURL = "http://localhost:8000/api/v1"

	// DefaultUserID matches the backend's default.
	DefaultUserID = "default_user"

	// ModeSimple and ModeMultiAgent are the two send modes.
	ModeSimple     = "simple"
	ModeMultiAgent = "multi-agent"
)

// Default returns a Config with every field set to its default.
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			BaseURL:            DefaultBaseURL,
			UserID:             DefaultUserID,
			RequestTimeoutSecs: 120,
			RequestsPerSecond:  4,
			Burst:              4,
		},
		Stream: StreamConfig{
			MaxIterations:        5,
			DeadlineSecs:         300,
			HandshakeTimeoutSecs: 10,
		},
		Storage: StorageConfig{
			MaxConversations: 100,
		},
		Workspace: WorkspaceConfig{
			WatchDebounceMs: 300,
		},
		UI: UIConfig{
			Theme:          "auto",
			Mode:           ModeSimple,
			ShowTimestamps: false,
		},
	}
}

// fillDefaults replaces zero values with defaults after decoding a
// possibly partial config file.
func (c *Config) fillDefaults() {
	def := Default()

	if c.Backend.BaseURL == "" {
		c.Backend.BaseURL = def.Backend.BaseURL
	}
	if c.Backend.UserID == "" {
		c.Backend.UserID = def.Backend.UserID
	}
	if c.Backend.RequestTimeoutSecs <= 0 {
		c.Backend.RequestTimeoutSecs = def.Backend.RequestTimeoutSecs
	}
	if c.Backend.RequestsPerSecond <= 0 {
		c.Backend.RequestsPerSecond = def.Backend.RequestsPerSecond
	}
	if c.Backend.Burst <= 0 {
		c.Backend.Burst = def.Backend.Burst
	}
	if c.Stream.MaxIterations <= 0 {
		c.Stream.MaxIterations = def.Stream.MaxIterations
	}
	if c.Stream.DeadlineSecs <= 0 {
		c.Stream.DeadlineSecs = def.Stream.DeadlineSecs
	}
	if c.Stream.HandshakeTimeoutSecs <= 0 {
		c.Stream.HandshakeTimeoutSecs = def.Stream.HandshakeTimeoutSecs
	}
	if c.Storage.MaxConversations <= 0 {
		c.Storage.MaxConversations = def.Storage.MaxConversations
	}
	if c.Workspace.WatchDebounceMs <= 0 {
		c.Workspace.WatchDebounceMs = def.Workspace.WatchDebounceMs
	}
	if c.UI.Theme == "" {
		c.UI.Theme = def.UI.Theme
	}
	if c.UI.Mode == "" {
		c.UI.Mode = def.UI.Mode
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// ErrInvalidConfig wraps all validation failures.
var ErrInvalidConfig = errors.New("invalid configuration")

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || u.Host == "" {
		return fmt.Errorf("%w: backend.base_url %q is not a valid URL", ErrInvalidConfig, c.Backend.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: backend.base_url scheme must be http or https, got %q", ErrInvalidConfig, u.Scheme)
	}

	if c.Stream.MaxIterations > 20 {
		return fmt.Errorf("%w: stream.max_iterations %d exceeds 20", ErrInvalidConfig, c.Stream.MaxIterations)
	}

	switch c.UI.Theme {
	case "auto", "dark", "light":
	default:
		return fmt.Errorf("%w: ui.theme must be auto, dark, or light, got %q", ErrInvalidConfig, c.UI.Theme)
	}

	switch c.UI.Mode {
	case ModeSimple, ModeMultiAgent:
	default:
		return fmt.Errorf("%w: ui.mode must be %q or %q, got %q", ErrInvalidConfig, ModeSimple, ModeMultiAgent, c.UI.Mode)
	}

	return nil
}

// =============================================================================
// DERIVED VALUES
// =============================================================================

// WSURL derives the multi-agent stream URL from the base URL
// (http becomes ws, https becomes wss).
func (c *BackendConfig) WSURL() string {
	base := strings.TrimSuffix(c.BaseURL, "/")
	switch {
	case strings.HasPrefix(base, "https://"):
		base = "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}
	return base + "/multi-agent/stream"
}

// RequestTimeout returns the HTTP timeout as a duration.
func (c *BackendConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSecs) * time.Second
}

// Deadline returns the stream deadline as a duration.
func (c *StreamConfig) Deadline() time.Duration {
	return time.Duration(c.DeadlineSecs) * time.Second
}

// HandshakeTimeout returns the dial timeout as a duration.
func (c *StreamConfig) HandshakeTimeout() time.Duration {
	return time.Duration(c.HandshakeTimeoutSecs) * time.Second
}

// WatchDebounce returns the watcher debounce as a duration.
func (c *WorkspaceConfig) WatchDebounce() time.Duration {
	return time.Duration(c.WatchDebounceMs) * time.Millisecond
}

// DatabasePath resolves the storage path, applying the default.
func (c *StorageConfig) DatabasePath() (string, error) {
	if c.Path != "" {
		return c.Path, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "openclaw.db"), nil
}

// ResolveDir resolves the workspace directory, applying the default.
func (c *WorkspaceConfig) ResolveDir() (string, error) {
	if c.Dir != "" {
		return c.Dir, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "workspace"), nil
}

// =============================================================================
// LOADING AND SAVING
// =============================================================================

// ConfigDir returns ~/.openclaw.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".openclaw"), nil
}

// ConfigPath returns the config file path.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureConfigDir creates the config directory if needed.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}

// Load reads the config file, fills defaults, applies environment
// overrides, and validates. A missing file yields the defaults.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads a specific config file.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// First run: defaults only.
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	cfg.fillDefaults()
	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config atomically.
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the config to a specific path atomically.
func (c *Config) SaveTo(path string) error {
	var sb strings.Builder
	if err := toml.NewEncoder(&sb).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return util.AtomicWriteFile(path, []byte(sb.String()), 0600)
}

// ApplyEnvOverrides applies OPENCLAW_* environment variables on top
// of the loaded values.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("OPENCLAW_BASE_URL"); v != "" {
		c.Backend.BaseURL = v
	}
	if v := os.Getenv("OPENCLAW_USER_ID"); v != "" {
		c.Backend.UserID = v
	}
	if v := os.Getenv("OPENCLAW_WORKSPACE"); v != "" {
		c.Workspace.Dir = v
	}
	if v := os.Getenv("OPENCLAW_THEME"); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv("OPENCLAW_MODE"); v != "" {
		c.UI.Mode = v
	}
	if v := os.Getenv("OPENCLAW_MAX_ITERATIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Stream.MaxIterations = n
		}
	}
}

// =============================================================================
// GLOBAL ACCESS (entry layer only)
// =============================================================================

var (
	globalMu     sync.Mutex
	globalConfig *Config
)

// Global returns the process-wide config, loading it on first use.
// Only the CLI entry layer should call this; everything else takes a
// *Config at construction.
func Global() *Config {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			cfg = Default()
			cfg.ApplyEnvOverrides()
		}
		globalConfig = cfg
	}
	return globalConfig
}

// ResetGlobalForTesting clears the cached global config.
func ResetGlobalForTesting() {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalConfig = nil
}
