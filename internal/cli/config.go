// Copyright (c) 2024-2025 OpenClaw Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - Configuration command handlers.
//
// Command: config [show|path|get|set]
//
// Examples:
//   openclaw config show
//   openclaw config set base_url http://10.0.0.5:8000/api/v1
//   openclaw config set mode multi-agent

package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/openclaw/openclaw-tui/internal/config"
)

// HandleConfig routes config subcommands.
func HandleConfig(args *ArgParser) {
	switch args.Subcommand() {
	case "", "show":
		configShow(args)
	case "path":
		path, err := config.ConfigPath()
		if err != nil {
			fail(err)
		}
		fmt.Println(path)
	case "get":
		configGet(args)
	case "set":
		configSet(args)
	default:
		fail(errors.New("unknown config subcommand: " + args.Subcommand()))
	}
}

func configShow(args *ArgParser) {
	cfg, err := loadConfig()
	if err != nil {
		fail(err)
	}

	if args.BoolFlag("json") {
		outputJSON(cfg)
		return
	}

	fmt.Println(TitleStyle.Render("OpenClaw Configuration"))
	printLabeled("base_url", cfg.Backend.BaseURL)
	printLabeled("user_id", cfg.Backend.UserID)
	printLabeled("mode", cfg.UI.Mode)
	printLabeled("theme", cfg.UI.Theme)
	printLabeled("max_iterations", strconv.Itoa(cfg.Stream.MaxIterations))
	printLabeled("workspace", cfg.Workspace.Dir)

	if path, err := config.ConfigPath(); err == nil {
		fmt.Println(MutedStyle.Render("Config file: " + path))
	}
}

func configGet(args *ArgParser) {
	key := args.Positional(1)
	if key == "" {
		fail(errors.New("usage: openclaw config get KEY"))
	}

	cfg, err := loadConfig()
	if err != nil {
		fail(err)
	}

	value, err := configValue(cfg, key)
	if err != nil {
		fail(err)
	}
	fmt.Println(value)
}

func configSet(args *ArgParser) {
	key, value := args.Positional(1), args.Positional(2)
	if key == "" || value == "" {
		fail(errors.New("usage: openclaw config set KEY VALUE"))
	}

	// Set applies to the file as written, without env overrides.
	cfg, err := config.Load()
	if err != nil {
		fail(err)
	}

	if err := applyConfigValue(cfg, key, value); err != nil {
		fail(err)
	}
	if err := cfg.Validate(); err != nil {
		fail(err)
	}
	if err := cfg.Save(); err != nil {
		fail(err)
	}
	fmt.Println(SuccessStyle.Render("Set ") + ValueStyle.Render(key+" = "+value))
}

// configValue reads one settable key from config.
func configValue(cfg *config.Config, key string) (string, error) {
	switch key {
	case "base_url":
		return cfg.Backend.BaseURL, nil
	case "user_id":
		return cfg.Backend.UserID, nil
	case "mode":
		return cfg.UI.Mode, nil
	case "theme":
		return cfg.UI.Theme, nil
	case "max_iterations":
		return strconv.Itoa(cfg.Stream.MaxIterations), nil
	case "workspace":
		return cfg.Workspace.Dir, nil
	default:
		return "", errors.New("unknown config key: " + key)
	}
}

// applyConfigValue writes one settable key into config.
func applyConfigValue(cfg *config.Config, key, value string) error {
	switch key {
	case "base_url":
		cfg.Backend.BaseURL = value
	case "user_id":
		cfg.Backend.UserID = value
	case "mode":
		cfg.UI.Mode = value
	case "theme":
		cfg.UI.Theme = value
	case "max_iterations":
		n, err := strconv.Atoi(value)
		if err != nil {
			return errors.New("max_iterations must be a number")
		}
		cfg.Stream.MaxIterations = n
	case "workspace":
		cfg.Workspace.Dir = value
	default:
		return errors.New("unknown config key: " + key)
	}
	return nil
}
