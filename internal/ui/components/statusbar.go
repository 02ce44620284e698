// Copyright (c) 2024-2025 OpenClaw Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/openclaw/openclaw-tui/internal/ui/styles"
	"github.com/openclaw/openclaw-tui/internal/util"
)

// =============================================================================
// STATUS BAR
// =============================================================================

// StatusBar describes the bottom bar contents.
type StatusBar struct {
	Mode     string // "simple" or "multi-agent"
	Backend  string // backend base URL
	Pending  bool
	Messages int
}

// Render draws the status bar at the given width.
func (s StatusBar) Render(width int) string {
	mode := lipgloss.NewStyle().Foreground(styles.Cyan).Bold(true).Render(s.Mode)

	state := "ready"
	if s.Pending {
		state = "working..."
	}

	left := mode + "  " + state
	if s.Messages > 0 {
		left += "  " + styles.Hint.Render(strconv.Itoa(s.Messages)+" msgs")
	}
	right := util.TruncateWidth(s.Backend, width/2)

	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}

	return styles.StatusBar.Width(width).Render(
		left + strings.Repeat(" ", gap) + right)
}

// =============================================================================
// WELCOME
// =============================================================================

// RenderWelcome draws the empty-transcript help screen.
func RenderWelcome(width int) string {
	title := lipgloss.NewStyle().Foreground(styles.Purple).Bold(true).
		Render("OpenClaw")

	lines := []string{
		title,
		"",
		"Type a message and press Enter to chat.",
		"",
		styles.Hint.Render("/mode      toggle simple / multi-agent"),
		styles.Hint.Render("/clear     clear the conversation"),
		styles.Hint.Render("/export    export the conversation"),
		styles.Hint.Render("/quit      exit"),
		"",
		styles.Hint.Render("Esc cancels a running multi-agent task."),
	}

	content := strings.Join(lines, "\n")
	if width > 0 {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, content)
	}
	return content
}
