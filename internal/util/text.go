// Copyright (c) 2024-2025 OpenClaw Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// TruncateWidth shortens s to at most width terminal cells, appending
// an ellipsis when truncation happens. Width is measured in display
// cells, not runes, so CJK and emoji are handled correctly.
func TruncateWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 1 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "…")
}

// FirstLine returns the first line of s with surrounding space trimmed.
func FirstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// FormatTokens renders a token count for status lines.
func FormatTokens(n int) string {
	if n >= 1000 {
		whole := n / 1000
		frac := (n % 1000) / 100
		if frac == 0 {
			return strconv.Itoa(whole) + "k tokens"
		}
		return strconv.Itoa(whole) + "." + strconv.Itoa(frac) + "k tokens"
	}
	return strconv.Itoa(n) + " tokens"
}

// WrapWords performs simple word wrapping to the given width.
// Words longer than the width are emitted on their own line unsplit.
func WrapWords(text string, width int) string {
	if width <= 0 {
		return text
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return text
	}

	var lines []string
	var line strings.Builder

	for _, word := range words {
		switch {
		case line.Len() == 0:
			line.WriteString(word)
		case runewidth.StringWidth(line.String())+1+runewidth.StringWidth(word) <= width:
			line.WriteString(" ")
			line.WriteString(word)
		default:
			lines = append(lines, line.String())
			line.Reset()
			line.WriteString(word)
		}
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}

	return strings.Join(lines, "\n")
}
