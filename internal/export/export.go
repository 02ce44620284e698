// Copyright (c) 2024-2025 OpenClaw Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes conversations to Markdown or JSON files.
package export

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/openclaw/openclaw-tui/internal/model"
	"github.com/openclaw/openclaw-tui/internal/util"
)

// Format selects the export encoding.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// ParseFormat resolves a user-supplied format name.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "md", "markdown":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown export format %q (markdown, json)", name)
	}
}

// Extension returns the file extension for the format.
func (f Format) Extension() string {
	if f == FormatJSON {
		return ".json"
	}
	return ".md"
}

// ToFile renders the conversation and writes it atomically.
func ToFile(conv *model.Conversation, format Format, path string) error {
	data, err := Render(conv, format)
	if err != nil {
		return err
	}
	return util.AtomicWriteFile(path, data, 0644)
}

// Render encodes the conversation in the requested format.
func Render(conv *model.Conversation, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(conv, "", "  ")
	case FormatMarkdown:
		return renderMarkdown(conv), nil
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
}

func renderMarkdown(conv *model.Conversation) []byte {
	var sb strings.Builder

	title := conv.Title
	if title == "" {
		title = "Conversation"
	}
	fmt.Fprintf(&sb, "# %s\n\n", title)
	fmt.Fprintf(&sb, "Exported %s", time.Now().Format("2006-01-02 15:04"))
	if conv.ServerID != "" {
		fmt.Fprintf(&sb, " · conversation %s", conv.ServerID)
	}
	sb.WriteString("\n\n---\n\n")

	for _, msg := range conv.Messages {
		fmt.Fprintf(&sb, "## %s\n\n", msg.Role.DisplayName())
		sb.WriteString(strings.TrimRight(msg.Content, "\n"))
		sb.WriteString("\n\n")

		if msg.Meta == nil {
			continue
		}
		if msg.Meta.Code != "" {
			lang := msg.Meta.Language
			fmt.Fprintf(&sb, "```%s\n%s\n```\n\n", lang, strings.TrimRight(msg.Meta.Code, "\n"))
		}
		for _, path := range sortedPaths(msg.Meta.Files) {
			fmt.Fprintf(&sb, "**%s**\n\n```\n%s\n```\n\n", path, strings.TrimRight(msg.Meta.Files[path], "\n"))
		}
		if details := metaLine(msg.Meta); details != "" {
			fmt.Fprintf(&sb, "_%s_\n\n", details)
		}
	}

	return []byte(sb.String())
}

// sortedPaths returns file paths in sorted order for stable output.
func sortedPaths(files map[string]string) []string {
	paths := make([]string, 0, len(files))
	for path := range files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

func metaLine(meta *model.AgentMeta) string {
	var parts []string
	if meta.Model != "" {
		parts = append(parts, "model: "+meta.Model)
	}
	if meta.TokensUsed > 0 {
		parts = append(parts, fmt.Sprintf("tokens: %d", meta.TokensUsed))
	}
	if meta.TaskType != "" {
		parts = append(parts, "task: "+meta.TaskType)
	}
	if len(meta.AgentPath) > 0 {
		parts = append(parts, "agents: "+strings.Join(meta.AgentPath, " > "))
	}
	return strings.Join(parts, " · ")
}
