// Copyright (c) 2024-2025 OpenClaw Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/openclaw/openclaw-tui/internal/config"
	"github.com/openclaw/openclaw-tui/internal/session"
	"github.com/openclaw/openclaw-tui/internal/storage"
	"github.com/openclaw/openclaw-tui/internal/ui/components"
	"github.com/openclaw/openclaw-tui/internal/ui/styles"
	"github.com/openclaw/openclaw-tui/internal/workspace"
)

// =============================================================================
// MODEL
// =============================================================================

// maxActivityLines bounds the multi-agent activity feed.
const maxActivityLines = 6

// Model is the bubbletea model for the chat view.
type Model struct {
	cfg   *config.Config
	sess  *session.Session
	store *storage.Store     // nil when persistence is unavailable
	watch *workspace.Watcher // nil when the workspace is not watched

	input    textarea.Model
	viewport viewport.Model
	spin     spinner.Model
	toasts   *components.ToastManager
	renderer *glamour.TermRenderer

	mode     string // config.ModeSimple or config.ModeMultiAgent
	activity []string
	run      *agentRun

	width  int
	height int
	ready  bool
}

// New creates the chat model. store and watch may be nil.
func New(cfg *config.Config, sess *session.Session, store *storage.Store, watch *workspace.Watcher) *Model {
	input := textarea.New()
	input.Placeholder = "Message OpenClaw..."
	input.Prompt = "┃ "
	input.CharLimit = 5000
	input.SetHeight(3)
	input.ShowLineNumbers = false
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(styles.Amber)

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(styles.GlamourStyle(cfg.UI.Theme)),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		renderer = nil // fall back to plain text
	}

	return &Model{
		cfg:      cfg,
		sess:     sess,
		store:    store,
		watch:    watch,
		input:    input,
		spin:     spin,
		toasts:   components.NewToastManager(),
		renderer: renderer,
		mode:     cfg.UI.Mode,
	}
}

// Init starts background ticks and the workspace watcher.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textarea.Blink, components.ToastTickCmd()}
	if m.watch != nil {
		cmds = append(cmds, waitWorkspaceCmd(m.watch.Changes()))
	}
	return tea.Batch(cmds...)
}

// Mode returns the current send mode.
func (m *Model) Mode() string {
	return m.mode
}

// toggleMode flips between simple and multi-agent.
func (m *Model) toggleMode() {
	if m.mode == config.ModeSimple {
		m.mode = config.ModeMultiAgent
	} else {
		m.mode = config.ModeSimple
	}
}

// pushActivity appends one progress line, keeping the feed bounded.
func (m *Model) pushActivity(line string) {
	if line == "" {
		return
	}
	m.activity = append(m.activity, line)
	if len(m.activity) > maxActivityLines {
		m.activity = m.activity[len(m.activity)-maxActivityLines:]
	}
}
