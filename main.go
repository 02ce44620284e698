// openclaw - terminal client for the OpenClaw agent backend.
//
// Copyright (c) 2024-2025 OpenClaw Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/openclaw/openclaw-tui/internal/api"
	"github.com/openclaw/openclaw-tui/internal/cli"
	"github.com/openclaw/openclaw-tui/internal/config"
	"github.com/openclaw/openclaw-tui/internal/session"
	"github.com/openclaw/openclaw-tui/internal/storage"
	"github.com/openclaw/openclaw-tui/internal/stream"
	"github.com/openclaw/openclaw-tui/internal/ui/chat"
	"github.com/openclaw/openclaw-tui/internal/ui/styles"
	"github.com/openclaw/openclaw-tui/internal/workspace"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdTUI:
		runTUI()
	case cli.CmdAsk:
		cli.HandleAsk(args)
	case cli.CmdGenerate:
		cli.HandleGenerate(args)
	case cli.CmdChat:
		cli.HandleChat(args)
	case cli.CmdStatus:
		cli.HandleStatus(args)
	case cli.CmdSkills:
		cli.HandleSkills(args)
	case cli.CmdSessions:
		cli.HandleSessions(args)
	case cli.CmdConfig:
		cli.HandleConfig(args)
	case cli.CmdVersion:
		cli.PrintVersion()
	case cli.CmdHelp:
		cli.PrintUsage()
	}
}

// runTUI builds the full stack and starts the bubbletea program.
func runTUI() {
	cfg := config.Global()
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		fatal(err)
	}

	client, err := api.NewClient(cfg)
	if err != nil {
		fatal(err)
	}

	sess := session.New(cfg, client, stream.NewClient(cfg))

	// Persistence is best-effort; the TUI works without it.
	var store *storage.Store
	if path, err := cfg.Storage.DatabasePath(); err == nil {
		if s, err := storage.Open(path, cfg.Storage.MaxConversations); err == nil {
			store = s
			defer store.Close()
		}
	}

	// Watching is best-effort too; saves still work without it.
	var watch *workspace.Watcher
	if dir, err := cfg.Workspace.ResolveDir(); err == nil {
		if w, err := workspace.NewWatcher(dir, cfg.Workspace.WatchDebounce()); err == nil {
			if err := w.Watch(); err == nil {
				watch = w
				defer watch.Close()
			} else {
				w.Close()
			}
		}
	}

	styles.Apply(cfg.UI.Theme)

	p := tea.NewProgram(
		chat.New(cfg, sess, store, watch),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
