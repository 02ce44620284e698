// Copyright (c) 2024-2025 OpenClaw Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/openclaw/openclaw-tui/internal/config"
	"github.com/openclaw/openclaw-tui/internal/export"
	"github.com/openclaw/openclaw-tui/internal/ui/components"
	"github.com/openclaw/openclaw-tui/internal/workspace"
)

// =============================================================================
// UPDATE
// =============================================================================

// Update handles one message.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case chatResultMsg:
		m.refreshTranscript()
		if msg.err != nil {
			m.toasts.AddError(msg.err.Error())
		}
		return m, m.persistCmd()

	case agentEventMsg:
		m.pushActivity(msg.ev.Progress())
		if m.run != nil {
			return m, m.run.waitEvent()
		}
		return m, nil

	case agentDoneMsg:
		m.run = nil
		m.activity = nil
		m.refreshTranscript()
		if msg.err != nil {
			m.toasts.AddError(msg.err.Error())
		}
		return m, m.persistCmd()

	case clearResultMsg:
		if msg.err != nil {
			m.toasts.AddError(msg.err.Error())
		} else {
			m.refreshTranscript()
			m.toasts.AddInfo("Conversation cleared")
		}
		return m, nil

	case workspaceChangedMsg:
		if len(msg.paths) == 1 {
			m.toasts.AddInfo("Workspace changed: " + msg.paths[0])
		} else {
			m.toasts.AddInfo(fmt.Sprintf("Workspace changed: %d files", len(msg.paths)))
		}
		if m.watch != nil {
			return m, waitWorkspaceCmd(m.watch.Changes())
		}
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.toasts.AddError(msg.err.Error())
		} else {
			m.toasts.AddSuccess(msg.what)
		}
		return m, nil

	case components.ToastTickMsg:
		m.toasts.Tick()
		return m, components.ToastTickCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// handleKey routes key presses.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.sess.CancelStream()
		return m, tea.Quit

	case "esc":
		// Dismiss the newest toast first; otherwise cancel the run.
		if m.toasts.Dismiss() {
			return m, nil
		}
		if m.sess.Pending() {
			m.sess.CancelStream()
			m.toasts.AddInfo("Canceling...")
		}
		return m, nil

	case "ctrl+t":
		m.toggleMode()
		return m, nil

	case "enter":
		return m.submit()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit sends the input as a message or slash command.
func (m *Model) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}

	if strings.HasPrefix(text, "/") {
		m.input.Reset()
		return m.handleCommand(text)
	}

	if m.sess.Pending() {
		m.toasts.AddError("A request is already in flight")
		return m, nil
	}

	m.input.Reset()

	if m.mode == config.ModeMultiAgent {
		run, cmd := startAgentCmd(m.sess, text)
		m.run = run
		m.refreshTranscriptSoon()
		return m, tea.Batch(cmd, m.spin.Tick)
	}

	m.refreshTranscriptSoon()
	return m, tea.Batch(sendSimpleCmd(m.sess, text), m.spin.Tick)
}

// handleCommand executes a slash command.
func (m *Model) handleCommand(text string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(text)
	switch parts[0] {
	case "/quit", "/q":
		return m, tea.Quit

	case "/clear", "/c":
		if m.sess.Pending() {
			m.toasts.AddError("Cannot clear while a request is in flight")
			return m, nil
		}
		return m, clearCmd(m.sess)

	case "/mode", "/m":
		m.toggleMode()
		m.toasts.AddInfo("Mode: " + m.mode)
		return m, nil

	case "/export", "/e":
		formatName := ""
		if len(parts) > 1 {
			formatName = parts[1]
		}
		return m, m.exportCmd(formatName)

	case "/save", "/s":
		return m, m.saveArtifactsCmd()

	default:
		m.toasts.AddError("Unknown command: " + parts[0])
		return m, nil
	}
}

// exportCmd writes the conversation to the workspace directory.
func (m *Model) exportCmd(formatName string) tea.Cmd {
	sess, cfg := m.sess, m.cfg
	return func() tea.Msg {
		format, err := export.ParseFormat(formatName)
		if err != nil {
			return savedMsg{err: err}
		}

		dir, err := cfg.Workspace.ResolveDir()
		if err != nil {
			return savedMsg{err: err}
		}

		conv := sess.Conversation()
		path := filepath.Join(dir, conv.ID+format.Extension())
		if err := export.ToFile(conv, format, path); err != nil {
			return savedMsg{err: err}
		}
		return savedMsg{what: "Exported to " + path}
	}
}

// saveArtifactsCmd writes the latest generated code to the workspace.
func (m *Model) saveArtifactsCmd() tea.Cmd {
	sess, cfg := m.sess, m.cfg
	return func() tea.Msg {
		msgs := sess.Messages()
		for i := len(msgs) - 1; i >= 0; i-- {
			msg := msgs[i]
			if !msg.HasArtifacts() {
				continue
			}

			dir, err := cfg.Workspace.ResolveDir()
			if err != nil {
				return savedMsg{err: err}
			}

			files := msg.Meta.Files
			if len(files) == 0 && msg.Meta.Project != nil {
				files = msg.Meta.Project.Flatten()
			}
			if len(files) == 0 {
				name := msg.Meta.FilePath
				if name == "" {
					name = "generated.txt"
				}
				files = map[string]string{name: msg.Meta.Code}
			}

			if err := workspace.WriteFiles(dir, files); err != nil {
				return savedMsg{err: err}
			}
			return savedMsg{what: "Saved to " + dir}
		}
		return savedMsg{err: errNoArtifacts}
	}
}

// errNoArtifacts means no assistant message carried generated code.
var errNoArtifacts = errors.New("nothing to save: no generated code in this conversation")

// persistCmd saves the conversation to local storage.
func (m *Model) persistCmd() tea.Cmd {
	if m.store == nil {
		return nil
	}
	store, sess := m.store, m.sess
	return func() tea.Msg {
		if sess.MessageCount() == 0 {
			return nil
		}
		store.Save(sess.Conversation())
		return nil
	}
}
