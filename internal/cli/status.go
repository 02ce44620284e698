// Copyright (c) 2024-2025 OpenClaw Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - Backend health check handler.
//
// Command: status (alias: s)

package cli

import (
	"context"
	"fmt"
	"time"
)

// HandleStatus checks backend health and prints the result.
func HandleStatus(args *ArgParser) {
	cfg, err := loadConfig()
	if err != nil {
		fail(err)
	}
	client, err := newAPIClient(cfg)
	if err != nil {
		fail(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	start := time.Now()
	health, err := client.Health(ctx)
	elapsed := time.Since(start)

	if args.BoolFlag("json") {
		if err != nil {
			outputJSON(map[string]string{"status": "unreachable", "error": err.Error()})
			return
		}
		outputJSON(health)
		return
	}

	fmt.Println(TitleStyle.Render("OpenClaw Status"))
	printLabeled("Backend", cfg.Backend.BaseURL)

	if err != nil {
		printLabeled("Status", ErrorStyle.Render("unreachable"))
		fmt.Println(MutedStyle.Render("  " + err.Error()))
		return
	}

	status := health.Status
	if status == "healthy" {
		status = SuccessStyle.Render(status)
	} else {
		status = WarningStyle.Render(status)
	}
	printLabeled("Status", status)
	printLabeled("Version", health.Version)
	printLabeled("Groq API", health.GroqAPIState)
	printLabeled("Latency", elapsed.Round(time.Millisecond).String())
}
