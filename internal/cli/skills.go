// Copyright (c) 2024-2025 OpenClaw Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// skills.go - Skill management handlers.
//
// Command: skills [list|show|run|reload]
//
// Examples:
//   openclaw skills list
//   openclaw skills show weather
//   openclaw skills run weather --param city=Oslo
//   openclaw skills reload

package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openclaw/openclaw-tui/internal/api"
)

// HandleSkills routes skill subcommands.
func HandleSkills(args *ArgParser) {
	cfg, err := loadConfig()
	if err != nil {
		fail(err)
	}
	client, err := newAPIClient(cfg)
	if err != nil {
		fail(err)
	}

	ctx := context.Background()

	switch args.Subcommand() {
	case "", "list", "ls":
		skillsList(ctx, client, args)
	case "show":
		skillsShow(ctx, client, args)
	case "run", "exec":
		skillsRun(ctx, client, args)
	case "reload":
		if err := client.ReloadSkills(ctx); err != nil {
			fail(err)
		}
		fmt.Println(SuccessStyle.Render("Skills reloaded"))
	default:
		fail(errors.New("unknown skills subcommand: " + args.Subcommand()))
	}
}

func skillsList(ctx context.Context, client *api.Client, args *ArgParser) {
	resp, err := client.ListSkills(ctx)
	if err != nil {
		fail(err)
	}

	if args.BoolFlag("json") {
		outputJSON(resp)
		return
	}

	fmt.Println(TitleStyle.Render(fmt.Sprintf("Skills (%d)", resp.Total)))
	for _, skill := range resp.Skills {
		fmt.Println("  " + ValueStyle.Render(skill.Name))
		if skill.Description != "" {
			fmt.Println("    " + MutedStyle.Render(skill.Description))
		}
	}
}

func skillsShow(ctx context.Context, client *api.Client, args *ArgParser) {
	name := args.Positional(1)
	if name == "" {
		fail(errors.New("usage: openclaw skills show NAME"))
	}

	skill, err := client.GetSkill(ctx, name)
	if err != nil {
		fail(err)
	}

	if args.BoolFlag("json") {
		outputJSON(skill)
		return
	}

	fmt.Println(TitleStyle.Render(skill.Name))
	printLabeled("Description", skill.Description)
	if len(skill.Parameters) > 0 {
		printLabeled("Parameters", strings.Join(skill.Parameters, ", "))
	}
}

func skillsRun(ctx context.Context, client *api.Client, args *ArgParser) {
	name := args.Positional(1)
	if name == "" {
		fail(errors.New("usage: openclaw skills run NAME --param key=value"))
	}

	params := parseSkillParams(args.Flag("param"))
	resp, err := client.ExecuteSkill(ctx, name, params)
	if err != nil {
		fail(err)
	}

	if args.BoolFlag("json") {
		outputJSON(resp)
		return
	}

	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = "skill execution failed"
		}
		fail(errors.New(msg))
	}

	fmt.Println(SuccessStyle.Render("OK"))
	if resp.Result != nil {
		outputJSON(resp.Result)
	}
}

// parseSkillParams parses "key=value,key2=value2" into a parameter map.
func parseSkillParams(raw string) map[string]any {
	if raw == "" {
		return nil
	}
	params := make(map[string]any)
	for _, pair := range strings.Split(raw, ",") {
		if key, value, found := strings.Cut(pair, "="); found {
			params[strings.TrimSpace(key)] = strings.TrimSpace(value)
		}
	}
	return params
}
