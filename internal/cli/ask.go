// Copyright (c) 2024-2025 OpenClaw Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - Single-message command handler.
//
// Command: ask [message]
// Sends one message in simple mode and prints the reply.
//
// Examples:
//   openclaw ask "What is a goroutine?"
//   openclaw ask --json "List three sorting algorithms"

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/openclaw/openclaw-tui/internal/util"
)

// HandleAsk sends one simple-mode message and prints the response.
func HandleAsk(args *ArgParser) {
	message := args.JoinFrom(0)
	if message == "" {
		fail(errors.New("usage: openclaw ask \"your question\""))
	}

	cfg, err := loadConfig()
	if err != nil {
		fail(err)
	}
	client, err := newAPIClient(cfg)
	if err != nil {
		fail(err)
	}

	resp, err := client.Chat(context.Background(), message, "")
	if err != nil {
		fail(err)
	}

	if args.BoolFlag("json") {
		if err := outputJSON(resp); err != nil {
			fail(err)
		}
		return
	}

	fmt.Print(renderMarkdown(resp.Response, cfg.UI.Theme))

	if IsStdoutTTY() {
		detail := resp.ModelUsed
		if resp.TokensUsed > 0 {
			detail += " · " + util.FormatTokens(resp.TokensUsed)
		}
		fmt.Fprintln(os.Stdout, MutedStyle.Render(detail))
	}
}
