// Copyright (c) 2024-2025 OpenClaw Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the conversation view of the OpenClaw TUI.
package chat

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/openclaw/openclaw-tui/internal/model"
	"github.com/openclaw/openclaw-tui/internal/session"
	"github.com/openclaw/openclaw-tui/internal/stream"
)

// =============================================================================
// MESSAGES
// =============================================================================

// chatResultMsg reports a finished simple-mode send.
type chatResultMsg struct {
	msg *model.Message
	err error
}

// agentEventMsg carries one multi-agent progress event.
type agentEventMsg struct {
	ev stream.Event
}

// agentDoneMsg reports a finished multi-agent send.
type agentDoneMsg struct {
	msg *model.Message
	err error
}

// clearResultMsg reports a finished clear operation.
type clearResultMsg struct {
	err error
}

// workspaceChangedMsg reports files changed on disk in the workspace.
type workspaceChangedMsg struct {
	paths []string
}

// savedMsg reports a finished artifact save or export.
type savedMsg struct {
	what string
	err  error
}

// =============================================================================
// COMMANDS
// =============================================================================

// sendSimpleCmd runs one simple-mode send off the UI loop.
// Fields are captured before the goroutine starts.
func sendSimpleCmd(sess *session.Session, text string) tea.Cmd {
	return func() tea.Msg {
		msg, err := sess.Send(context.Background(), text)
		return chatResultMsg{msg: msg, err: err}
	}
}

// agentRun owns the channels of one multi-agent send.
type agentRun struct {
	events chan stream.Event
	done   chan agentDoneMsg
}

// startAgentCmd launches a multi-agent send and returns the command
// waiting on its first progress event.
func startAgentCmd(sess *session.Session, text string) (*agentRun, tea.Cmd) {
	run := &agentRun{
		events: make(chan stream.Event, 16),
		done:   make(chan agentDoneMsg, 1),
	}

	events, done := run.events, run.done
	go func() {
		msg, err := sess.SendMultiAgent(context.Background(), text, func(ev stream.Event) {
			events <- ev
		})
		close(events)
		done <- agentDoneMsg{msg: msg, err: err}
	}()

	return run, run.waitEvent()
}

// waitEvent delivers the next progress event. The done message is
// delivered only once the event channel is drained, so no buffered
// progress line can arrive after completion.
func (r *agentRun) waitEvent() tea.Cmd {
	events, done := r.events, r.done
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return <-done
		}
		return agentEventMsg{ev: ev}
	}
}

// clearCmd runs the clear operation off the UI loop.
func clearCmd(sess *session.Session) tea.Cmd {
	return func() tea.Msg {
		return clearResultMsg{err: sess.Clear(context.Background())}
	}
}

// waitWorkspaceCmd delivers the next batch of workspace file changes.
// Returns nil once the watcher closes.
func waitWorkspaceCmd(changes <-chan []string) tea.Cmd {
	return func() tea.Msg {
		paths, ok := <-changes
		if !ok {
			return nil
		}
		return workspaceChangedMsg{paths: paths}
	}
}
