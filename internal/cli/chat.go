// Copyright (c) 2024-2025 OpenClaw Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive terminal chat without the full TUI.
//
// Command: chat
// A line-oriented REPL with input history, useful over SSH or in
// terminals where the alt-screen TUI is unwanted.
//
// Slash commands:
//   /clear    Clear the conversation
//   /mode     Toggle simple / multi-agent
//   /status   Show session state
//   /quit     Exit

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/openclaw/openclaw-tui/internal/config"
	"github.com/openclaw/openclaw-tui/internal/session"
	"github.com/openclaw/openclaw-tui/internal/stream"
)

// chatHistoryFile is the liner history file name under the config dir.
const chatHistoryFile = "chat_history"

// chatREPL bundles the liner state with its history location.
type chatREPL struct {
	line        *liner.State
	historyFile string
}

func newChatREPL() *chatREPL {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	historyFile := ""
	if dir, err := config.ConfigDir(); err == nil {
		historyFile = filepath.Join(dir, chatHistoryFile)
	}

	r := &chatREPL{line: line, historyFile: historyFile}
	r.loadHistory()
	return r
}

func (r *chatREPL) loadHistory() {
	if r.historyFile == "" {
		return
	}
	if f, err := os.Open(r.historyFile); err == nil {
		r.line.ReadHistory(f)
		f.Close()
	}
}

func (r *chatREPL) saveHistory() {
	if r.historyFile == "" {
		return
	}
	if err := config.EnsureConfigDir(); err != nil {
		return
	}
	f, err := os.OpenFile(r.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	r.line.WriteHistory(f)
	f.Close()
}

// close saves history and restores the terminal.
func (r *chatREPL) close() {
	r.saveHistory()
	r.line.Close()
}

// HandleChat runs the interactive chat loop.
func HandleChat(args *ArgParser) {
	if !IsTTY() {
		fail(errors.New("chat requires an interactive terminal; use ask for piped input"))
	}

	cfg, err := loadConfig()
	if err != nil {
		fail(err)
	}
	client, err := newAPIClient(cfg)
	if err != nil {
		fail(err)
	}

	sess := session.New(cfg, client, stream.NewClient(cfg))
	mode := cfg.UI.Mode
	if args.BoolFlag("multi-agent") {
		mode = config.ModeMultiAgent
	}

	repl := newChatREPL()
	defer repl.close()

	fmt.Println(TitleStyle.Render("OpenClaw Chat"))
	fmt.Println(MutedStyle.Render("Backend: " + cfg.Backend.BaseURL))
	fmt.Println(MutedStyle.Render("Mode: " + mode + " · /mode toggles · /quit exits"))
	fmt.Println()

	for {
		input, err := repl.line.Prompt("you> ")
		if err != nil {
			if err == liner.ErrPromptAborted {
				fmt.Println(MutedStyle.Render("(interrupted)"))
				return
			}
			// io.EOF on ctrl+d ends the session cleanly.
			return
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		repl.line.AppendHistory(input)

		if strings.HasPrefix(input, "/") {
			if quit := chatSlashCommand(input, sess, &mode); quit {
				return
			}
			continue
		}

		chatTurn(cfg, sess, mode, input)
	}
}

// chatTurn sends one message and prints the reply.
func chatTurn(cfg *config.Config, sess *session.Session, mode, input string) {
	ctx := context.Background()

	var err error
	if mode == config.ModeMultiAgent {
		_, err = sess.SendMultiAgent(ctx, input, func(ev stream.Event) {
			if note := ev.Progress(); note != "" {
				fmt.Println(MutedStyle.Render("  " + note))
			}
		})
	} else {
		_, err = sess.Send(ctx, input)
	}

	if err != nil {
		fmt.Println(ErrorStyle.Render("Error: ") + err.Error())
		return
	}

	msgs := sess.Messages()
	last := msgs[len(msgs)-1]
	fmt.Println()
	fmt.Print(renderMarkdown(last.Content, cfg.UI.Theme))
	if last.Meta != nil && last.Meta.Code != "" {
		fmt.Println(MutedStyle.Render("  (code generated; use the TUI or generate --save to write files)"))
	}
	fmt.Println()
}

// chatSlashCommand handles REPL slash commands. Returns true to quit.
func chatSlashCommand(input string, sess *session.Session, mode *string) bool {
	switch strings.Fields(input)[0] {
	case "/quit", "/q", "/exit":
		return true

	case "/clear", "/c":
		if err := sess.Clear(context.Background()); err != nil {
			fmt.Println(ErrorStyle.Render("Error: ") + err.Error())
		} else {
			fmt.Println(MutedStyle.Render("Conversation cleared."))
		}

	case "/mode", "/m":
		if *mode == config.ModeSimple {
			*mode = config.ModeMultiAgent
		} else {
			*mode = config.ModeSimple
		}
		fmt.Println(MutedStyle.Render("Mode: " + *mode))

	case "/status", "/s":
		fmt.Println(MutedStyle.Render(fmt.Sprintf(
			"%d messages · conversation %s", sess.MessageCount(), orNone(sess.ConversationID()))))

	default:
		fmt.Println(ErrorStyle.Render("Unknown command: ") + input)
	}
	return false
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
