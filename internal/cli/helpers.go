// Copyright (c) 2024-2025 OpenClaw Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// helpers.go - Shared helpers for CLI command handlers.

package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/openclaw/openclaw-tui/internal/api"
	"github.com/openclaw/openclaw-tui/internal/config"
	"github.com/openclaw/openclaw-tui/internal/storage"
	"github.com/openclaw/openclaw-tui/internal/ui/styles"
)

// loadConfig loads the config file and applies environment overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newAPIClient builds the HTTP client from config.
func newAPIClient(cfg *config.Config) (*api.Client, error) {
	return api.NewClient(cfg)
}

// openStore opens the local conversation store.
func openStore(cfg *config.Config) (*storage.Store, error) {
	path, err := cfg.Storage.DatabasePath()
	if err != nil {
		return nil, err
	}
	return storage.Open(path, cfg.Storage.MaxConversations)
}

// outputJSON writes data as indented JSON to stdout.
func outputJSON(data any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// fail prints an error and exits non-zero.
func fail(err error) {
	fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+err.Error())
	os.Exit(1)
}

// renderMarkdown renders markdown for terminal display when stdout is
// a TTY; piped output passes through untouched.
func renderMarkdown(content, theme string) string {
	if !IsStdoutTTY() {
		return content
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(styles.GlamourStyle(theme)),
		glamour.WithWordWrap(TerminalWidth()),
	)
	if err != nil {
		return content
	}

	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// formatTime formats a timestamp for list output.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
