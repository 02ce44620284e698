// Copyright (c) 2024-2025 OpenClaw Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"

	"github.com/openclaw/openclaw-tui/internal/ui/styles"
)

// =============================================================================
// CODE BLOCK
// =============================================================================

// HighlightCode renders source code with ANSI syntax highlighting.
// Unknown languages fall back to plain text; highlighting failures
// degrade to the raw code rather than erroring.
func HighlightCode(code, language string) string {
	if language == "" {
		language = "text"
	}

	var sb strings.Builder
	if err := quick.Highlight(&sb, code, language, "terminal256", "monokai"); err != nil {
		return code
	}
	return sb.String()
}

// RenderCodeBlock renders a bordered, highlighted code block with an
// optional title line (a file path, typically).
func RenderCodeBlock(code, language, title string, width int) string {
	code = strings.TrimRight(code, "\n")

	var sb strings.Builder
	if title != "" {
		sb.WriteString(styles.Hint.Render(title))
		sb.WriteString("\n")
	}
	sb.WriteString(HighlightCode(code, language))

	block := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Overlay).
		Padding(0, 1)
	if width > 4 {
		block = block.MaxWidth(width)
	}
	return block.Render(sb.String())
}
