// Copyright (c) 2024-2025 OpenClaw Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// generate.go - One-shot multi-agent generation handler.
//
// Command: generate [prompt]
// Streams a multi-agent run over the websocket and prints progress
// lines as the agents work. The final result is rendered with syntax
// highlighting and can be written to the workspace with --save.
//
// Examples:
//   openclaw generate "Write a fizzbuzz in Python"
//   openclaw generate --max-iter 10 --save "Create a Flask todo app"

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/openclaw/openclaw-tui/internal/config"
	"github.com/openclaw/openclaw-tui/internal/stream"
	"github.com/openclaw/openclaw-tui/internal/ui/components"
	"github.com/openclaw/openclaw-tui/internal/workspace"
)

// HandleGenerate runs one multi-agent generation and prints the result.
func HandleGenerate(args *ArgParser) {
	prompt := args.JoinFrom(0)
	if prompt == "" {
		fail(errors.New("usage: openclaw generate \"your prompt\""))
	}

	cfg, err := loadConfig()
	if err != nil {
		fail(err)
	}

	maxIter := args.FlagIntOrDefault("max-iter", cfg.Stream.MaxIterations)

	client := stream.NewClient(cfg)
	task, err := client.Start(context.Background(), stream.Request{
		Message:       prompt,
		MaxIterations: maxIter,
	})
	if err != nil {
		fail(err)
	}

	var final *stream.Event
	for ev := range task.Events() {
		if ev.IsTerminal() {
			captured := ev
			final = &captured
			continue
		}
		if note := ev.Progress(); note != "" && IsStdoutTTY() {
			fmt.Println(MutedStyle.Render("  " + note))
		}
	}

	if err := task.Err(); err != nil {
		fail(err)
	}
	if final == nil {
		fail(errors.New("stream closed without a result"))
	}
	if final.Type == stream.EventError || (final.Type == stream.EventComplete && !final.Success) {
		msg := final.Message
		if msg == "" {
			msg = "generation failed"
		}
		fail(errors.New(msg))
	}

	result := final.Result
	if result == nil {
		fail(errors.New("complete event carried no result"))
	}

	if args.BoolFlag("json") {
		if err := outputJSON(result); err != nil {
			fail(err)
		}
		return
	}

	printResult(cfg, result)

	if args.BoolFlag("save") {
		saveResult(cfg, result)
	}
}

// printResult renders the generation result to stdout.
func printResult(cfg *config.Config, result *stream.Result) {
	if result.Response != "" {
		fmt.Print(renderMarkdown(result.Response, cfg.UI.Theme))
	}

	if result.Code != "" {
		fmt.Println(components.RenderCodeBlock(result.Code, "", result.FilePath, TerminalWidth()))
	}

	if IsStdoutTTY() && len(result.AgentPath) > 0 {
		line := "agents: " + result.AgentPath[0]
		for _, agent := range result.AgentPath[1:] {
			line += " > " + agent
		}
		fmt.Println(MutedStyle.Render(line))
	}
}

// saveResult writes generated code to the workspace directory.
func saveResult(cfg *config.Config, result *stream.Result) {
	if result.Code == "" {
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Nothing to save: the result carried no code"))
		return
	}

	dir, err := cfg.Workspace.ResolveDir()
	if err != nil {
		fail(err)
	}

	name := result.FilePath
	if name == "" {
		name = "generated.txt"
	}
	if err := workspace.WriteFiles(dir, map[string]string{name: result.Code}); err != nil {
		fail(err)
	}
	fmt.Println(SuccessStyle.Render("Saved ") + ValueStyle.Render(name+" to "+dir))
}
