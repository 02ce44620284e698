// Copyright (c) 2024-2025 OpenClaw Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/openclaw/openclaw-tui/internal/model"
	"github.com/openclaw/openclaw-tui/internal/ui/components"
	"github.com/openclaw/openclaw-tui/internal/ui/styles"
	"github.com/openclaw/openclaw-tui/internal/util"
)

// =============================================================================
// LAYOUT
// =============================================================================

// resize lays out the viewport and input for a new terminal size.
func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	inputHeight := m.input.Height() + 1
	headerHeight := 1
	statusHeight := 1
	activityHeight := 0
	if len(m.activity) > 0 {
		activityHeight = len(m.activity)
	}

	viewHeight := height - inputHeight - headerHeight - statusHeight - activityHeight
	if viewHeight < 3 {
		viewHeight = 3
	}

	if !m.ready {
		m.viewport = viewport.New(width, viewHeight)
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = viewHeight
	}
	m.input.SetWidth(width - 2)

	m.refreshTranscript()
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the whole chat screen.
func (m *Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var sb strings.Builder

	title := "OpenClaw"
	if t := m.sess.Title(); t != "" {
		title += " · " + util.TruncateWidth(t, m.width/2)
	}
	sb.WriteString(styles.Header.Width(m.width).Render(title))
	sb.WriteString("\n")

	sb.WriteString(m.viewport.View())
	sb.WriteString("\n")

	for _, line := range m.activity {
		sb.WriteString(m.spin.View())
		sb.WriteString(styles.Activity.Render(util.TruncateWidth(line, m.width-4)))
		sb.WriteString("\n")
	}

	sb.WriteString(m.input.View())
	sb.WriteString("\n")

	bar := components.StatusBar{
		Mode:     m.mode,
		Backend:  m.cfg.Backend.BaseURL,
		Pending:  m.sess.Pending(),
		Messages: m.sess.MessageCount(),
	}
	sb.WriteString(bar.Render(m.width))

	view := sb.String()

	if toasts := m.toasts.Active(); len(toasts) > 0 {
		stack := components.RenderToasts(toasts, m.width)
		view += "\n" + lipgloss.PlaceHorizontal(m.width, lipgloss.Right, stack)
	}

	return view
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// refreshTranscript rebuilds the viewport content from the session.
func (m *Model) refreshTranscript() {
	if !m.ready {
		return
	}

	msgs := m.sess.Messages()
	if len(msgs) == 0 {
		m.viewport.SetContent(components.RenderWelcome(m.width))
		return
	}

	var sb strings.Builder
	for i, msg := range msgs {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(m.renderMessage(msg))
	}

	m.viewport.SetContent(sb.String())
	m.viewport.GotoBottom()
}

// refreshTranscriptSoon re-renders right after an optimistic append.
// The send commands run after Update returns, so the user message is
// already in the session by the next frame; rendering here keeps the
// transcript from lagging one message behind.
func (m *Model) refreshTranscriptSoon() {
	m.refreshTranscript()
}

// renderMessage renders one transcript entry.
func (m *Model) renderMessage(msg *model.Message) string {
	var sb strings.Builder

	label := msg.Role.DisplayName()
	switch msg.Role {
	case model.RoleUser:
		sb.WriteString(styles.UserLabel.Render(label))
	case model.RoleAssistant:
		sb.WriteString(styles.AssistantLabel.Render(label))
	default:
		sb.WriteString(styles.SystemLabel.Render(label))
	}

	if m.cfg.UI.ShowTimestamps {
		sb.WriteString(" ")
		sb.WriteString(styles.Timestamp.Render(msg.Timestamp.Format("15:04")))
	}
	sb.WriteString("\n")

	content := msg.Content
	if msg.Role == model.RoleAssistant && m.renderer != nil {
		if rendered, err := m.renderer.Render(content); err == nil {
			content = strings.TrimSpace(rendered)
		}
	}
	sb.WriteString(content)
	sb.WriteString("\n")

	if msg.Meta != nil {
		sb.WriteString(m.renderMeta(msg.Meta))
	}
	return sb.String()
}

// renderMeta renders generated artifacts and result details.
func (m *Model) renderMeta(meta *model.AgentMeta) string {
	var sb strings.Builder

	if meta.Code != "" {
		sb.WriteString(components.RenderCodeBlock(meta.Code, meta.Language, meta.FilePath, m.width-4))
		sb.WriteString("\n")
	}

	if meta.Project != nil && meta.Project.CountFiles() > 0 {
		sb.WriteString(styles.Hint.Render("Project files:"))
		sb.WriteString("\n")
		meta.Project.Walk(func(path string, node *model.FileNode) {
			indent := strings.Repeat("  ", strings.Count(path, "/"))
			name := path[strings.LastIndex(path, "/")+1:]
			if node.IsDir() {
				name += "/"
			}
			sb.WriteString("  " + indent + name + "\n")
		})
	}

	if details := resultDetails(meta); details != "" {
		sb.WriteString(styles.Hint.Render(details))
		sb.WriteString("\n")
	}
	return sb.String()
}

// resultDetails builds the one-line footer under assistant messages.
func resultDetails(meta *model.AgentMeta) string {
	var parts []string
	if meta.Model != "" {
		parts = append(parts, meta.Model)
	}
	if meta.TokensUsed > 0 {
		parts = append(parts, util.FormatTokens(meta.TokensUsed))
	}
	if meta.TaskType != "" {
		parts = append(parts, meta.TaskType)
	}
	if len(meta.SkillsUsed) > 0 {
		parts = append(parts, "skills: "+strings.Join(meta.SkillsUsed, ", "))
	}
	if len(meta.AgentPath) > 0 {
		parts = append(parts, strings.Join(meta.AgentPath, " > "))
	}
	return strings.Join(parts, " · ")
}
