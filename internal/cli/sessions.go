// Copyright (c) 2024-2025 OpenClaw Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// sessions.go - Saved conversation management handlers.
//
// Command: sessions [list|show|delete|export]
//
// Examples:
//   openclaw sessions list
//   openclaw sessions show conv_a1b2c3d4
//   openclaw sessions export conv_a1b2c3d4 --format json
//   openclaw sessions delete conv_a1b2c3d4

package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/openclaw/openclaw-tui/internal/config"
	"github.com/openclaw/openclaw-tui/internal/export"
	"github.com/openclaw/openclaw-tui/internal/storage"
)

// HandleSessions routes session subcommands.
func HandleSessions(args *ArgParser) {
	cfg, err := loadConfig()
	if err != nil {
		fail(err)
	}
	store, err := openStore(cfg)
	if err != nil {
		fail(err)
	}
	defer store.Close()

	switch args.Subcommand() {
	case "", "list", "ls":
		sessionsList(store, args)
	case "show":
		sessionsShow(cfg, store, args)
	case "delete", "rm":
		sessionsDelete(store, args)
	case "export":
		sessionsExport(cfg, store, args)
	default:
		fail(errors.New("unknown sessions subcommand: " + args.Subcommand()))
	}
}

func sessionsList(store *storage.Store, args *ArgParser) {
	summaries, err := store.List()
	if err != nil {
		fail(err)
	}

	if args.BoolFlag("json") {
		outputJSON(summaries)
		return
	}

	if len(summaries) == 0 {
		fmt.Println(MutedStyle.Render("No saved conversations."))
		return
	}

	fmt.Println(TitleStyle.Render(fmt.Sprintf("Conversations (%d)", len(summaries))))
	for _, s := range summaries {
		title := s.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Printf("  %s  %s\n", ValueStyle.Render(s.ID), title)
		fmt.Printf("      %s\n", MutedStyle.Render(
			fmt.Sprintf("%d messages · %s", s.MessageCount, formatTime(s.UpdatedAt))))
	}
}

func sessionsShow(cfg *config.Config, store *storage.Store, args *ArgParser) {
	id := args.Positional(1)
	if id == "" {
		fail(errors.New("usage: openclaw sessions show ID"))
	}

	conv, err := store.Load(id)
	if err != nil {
		fail(err)
	}

	if args.BoolFlag("json") {
		outputJSON(conv)
		return
	}

	data, err := export.Render(conv, export.FormatMarkdown)
	if err != nil {
		fail(err)
	}
	fmt.Print(renderMarkdown(string(data), cfg.UI.Theme))
}

func sessionsDelete(store *storage.Store, args *ArgParser) {
	id := args.Positional(1)
	if id == "" {
		fail(errors.New("usage: openclaw sessions delete ID"))
	}

	if err := store.Delete(id); err != nil {
		fail(err)
	}
	fmt.Println(SuccessStyle.Render("Deleted ") + ValueStyle.Render(id))
}

func sessionsExport(cfg *config.Config, store *storage.Store, args *ArgParser) {
	id := args.Positional(1)
	if id == "" {
		fail(errors.New("usage: openclaw sessions export ID [--format markdown|json]"))
	}

	format, err := export.ParseFormat(args.FlagOrDefault("format", "markdown"))
	if err != nil {
		fail(err)
	}

	conv, err := store.Load(id)
	if err != nil {
		fail(err)
	}

	path := args.Flag("output")
	if path == "" {
		dir, err := cfg.Workspace.ResolveDir()
		if err != nil {
			fail(err)
		}
		path = filepath.Join(dir, conv.ID+format.Extension())
	}

	if err := export.ToFile(conv, format, path); err != nil {
		fail(err)
	}
	fmt.Println(SuccessStyle.Render("Exported ") + ValueStyle.Render(path))
}
