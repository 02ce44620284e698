// Copyright (c) 2024-2025 OpenClaw Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclaw/openclaw-tui/internal/config"
	"github.com/openclaw/openclaw-tui/internal/model"
	"github.com/openclaw/openclaw-tui/internal/session"
	"github.com/openclaw/openclaw-tui/internal/stream"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	cfg := config.Default()
	sess := session.New(cfg, nil, nil)
	return New(cfg, sess, nil, nil)
}

func TestToggleMode(t *testing.T) {
	m := newTestModel(t)
	assert.Equal(t, config.ModeSimple, m.Mode())

	m.toggleMode()
	assert.Equal(t, config.ModeMultiAgent, m.Mode())

	m.toggleMode()
	assert.Equal(t, config.ModeSimple, m.Mode())
}

func TestPushActivityBounded(t *testing.T) {
	m := newTestModel(t)

	m.pushActivity("")
	assert.Empty(t, m.activity, "blank lines are dropped")

	for i := 0; i < maxActivityLines+4; i++ {
		m.pushActivity("working")
	}
	assert.Len(t, m.activity, maxActivityLines)
}

func TestAgentRunDeliversEventsBeforeDone(t *testing.T) {
	run := &agentRun{
		events: make(chan stream.Event, 16),
		done:   make(chan agentDoneMsg, 1),
	}
	run.events <- stream.Event{Type: stream.EventStatus, Message: "Analyzing..."}
	run.events <- stream.Event{Type: stream.EventIteration, Iteration: 1, Total: 5}
	close(run.events)
	run.done <- agentDoneMsg{}

	// Drive the wait loop the way Update does: one command per message,
	// re-armed after each event.
	var got []tea.Msg
	for {
		msg := run.waitEvent()()
		got = append(got, msg)
		if _, ok := msg.(agentDoneMsg); ok {
			break
		}
	}

	require.Len(t, got, 3)
	assert.Equal(t, "Analyzing...", got[0].(agentEventMsg).ev.Message)
	assert.Equal(t, 1, got[1].(agentEventMsg).ev.Iteration)
	assert.IsType(t, agentDoneMsg{}, got[2], "done arrives only after the buffer drains")
}

func TestResultDetails(t *testing.T) {
	assert.Empty(t, resultDetails(&model.AgentMeta{}))

	meta := &model.AgentMeta{
		Model:      "llama3-70b",
		TokensUsed: 42,
		TaskType:   "code",
		AgentPath:  []string{"router", "coder"},
	}
	got := resultDetails(meta)
	assert.Contains(t, got, "llama3-70b")
	assert.Contains(t, got, "42 tokens")
	assert.Contains(t, got, "code")
	assert.Contains(t, got, "router > coder")
}
