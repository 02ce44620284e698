// Copyright (c) 2024-2025 OpenClaw Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// =============================================================================
// THEME
// =============================================================================

// Apply forces the light or dark palette, or detects the terminal
// background when theme is "auto".
func Apply(theme string) {
	switch theme {
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	case "light":
		lipgloss.SetHasDarkBackground(false)
	default:
		lipgloss.SetHasDarkBackground(termenv.HasDarkBackground())
	}
}

// GlamourStyle returns the glamour style name matching the theme.
func GlamourStyle(theme string) string {
	switch theme {
	case "dark":
		return "dark"
	case "light":
		return "light"
	default:
		if termenv.HasDarkBackground() {
			return "dark"
		}
		return "light"
	}
}

// =============================================================================
// SHARED STYLES
// =============================================================================

var (
	// Header renders the top bar.
	Header = lipgloss.NewStyle().
		Foreground(Cyan).
		Background(SurfaceDim).
		Bold(true).
		Padding(0, 1)

	// StatusBar renders the bottom bar.
	StatusBar = lipgloss.NewStyle().
			Foreground(TextSecondary).
			Background(SurfaceDim).
			Padding(0, 1)

	// UserLabel and AssistantLabel head each transcript entry.
	UserLabel = lipgloss.NewStyle().
			Foreground(UserFg).
			Bold(true)

	AssistantLabel = lipgloss.NewStyle().
			Foreground(AssistantFg).
			Bold(true)

	SystemLabel = lipgloss.NewStyle().
			Foreground(SystemFg).
			Bold(true)

	// Timestamp renders per-message times.
	Timestamp = lipgloss.NewStyle().
			Foreground(TextMuted)

	// Activity renders multi-agent progress lines.
	Activity = lipgloss.NewStyle().
			Foreground(Amber).
			Italic(true)

	// ErrorText renders inline errors.
	ErrorText = lipgloss.NewStyle().
			Foreground(Rose).
			Bold(true)

	// Hint renders key hints.
	Hint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)
)
