// Copyright (c) 2024-2025 OpenClaw Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements command parsing and the non-TUI command
// handlers of the openclaw client.
package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version information, overridable at build time.
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command identifies the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdGenerate
	CmdChat
	CmdStatus
	CmdSkills
	CmdSessions
	CmdConfig
	CmdVersion
	CmdHelp
)

const usageText = `openclaw - terminal client for the OpenClaw agent backend

Usage:
  openclaw                     Start the TUI (default)
  openclaw ask "question"      Send one message in simple mode
  openclaw generate "prompt"   Run a multi-agent generation
  openclaw chat                Interactive chat in the terminal
  openclaw status, s           Check backend health
  openclaw skills [subcommand] Skill management
  openclaw sessions, session   Saved conversation management
  openclaw config [show|set]   Configuration
  openclaw version             Print version
  openclaw help                Show this help

Ask:
  openclaw ask "What is a goroutine?"
    --json                     Print the raw response as JSON

Generate (multi-agent):
  openclaw generate "Write a fizzbuzz in Python"
    --max-iter N               Iteration budget (default: 5)
    --save                     Write generated files to the workspace
    --json                     Print the final result as JSON

Skills:
  openclaw skills list         List backend skills
  openclaw skills show NAME    Show one skill
  openclaw skills run NAME     Execute a skill
    --param key=value          Skill parameter (repeatable via commas)
  openclaw skills reload       Reload skills on the backend

Sessions:
  openclaw sessions list       List saved conversations
  openclaw sessions show ID    Print a saved conversation
  openclaw sessions delete ID  Delete a saved conversation
  openclaw sessions export ID  Export a conversation
    --format markdown|json     Export format (default: markdown)
    --output FILE              Destination (default: workspace dir)

Config:
  openclaw config show         Show the active configuration
  openclaw config path         Print the config file location
  openclaw config get KEY      Print one value
  openclaw config set KEY VAL  Set and save one value

  Keys: base_url, user_id, mode, theme, max_iterations, workspace

Environment:
  OPENCLAW_BASE_URL            Override backend base URL
  OPENCLAW_USER_ID             Override user ID
  OPENCLAW_MODE                simple or multi-agent
  OPENCLAW_THEME               auto, dark, or light
  OPENCLAW_WORKSPACE           Override workspace directory
  NO_COLOR                     Disable colored output

Version: %s
`

// PrintUsage prints the help text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("openclaw version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}

// Parse reads os.Args and returns the command plus its arguments.
func Parse() (Command, *ArgParser) {
	raw := os.Args[1:]
	if len(raw) == 0 {
		return CmdTUI, NewArgParser(nil)
	}

	cmd := strings.ToLower(raw[0])
	args := NewArgParser(raw[1:])

	switch cmd {
	case "tui":
		return CmdTUI, args
	case "ask", "a":
		return CmdAsk, args
	case "generate", "gen", "g":
		return CmdGenerate, args
	case "chat", "c":
		return CmdChat, args
	case "status", "s":
		return CmdStatus, args
	case "skills", "skill":
		return CmdSkills, args
	case "sessions", "session":
		return CmdSessions, args
	case "config":
		return CmdConfig, args
	case "version", "--version", "-v":
		return CmdVersion, args
	case "help", "--help", "-h":
		return CmdHelp, args
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		return CmdHelp, args
	}
}
