// Copyright (c) 2024-2025 OpenClaw Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclaw/openclaw-tui/internal/api"
	"github.com/openclaw/openclaw-tui/internal/config"
	"github.com/openclaw/openclaw-tui/internal/model"
	"github.com/openclaw/openclaw-tui/internal/stream"
)

// =============================================================================
// FAKES
// =============================================================================

type fakeBackend struct {
	mu sync.Mutex

	chatResp  *api.ChatResponse
	chatErr   error
	chatCalls int
	block     chan struct{}

	deleteErr  error
	deletedIDs []string
}

func (f *fakeBackend) Chat(ctx context.Context, message, conversationID string) (*api.ChatResponse, error) {
	f.mu.Lock()
	f.chatCalls++
	block := f.block
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	if f.chatErr != nil {
		return nil, f.chatErr
	}
	return f.chatResp, nil
}

func (f *fakeBackend) DeleteConversation(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletedIDs = append(f.deletedIDs, id)
	return nil
}

// wsStreamer runs a WebSocket handler and returns a real stream
// client pointed at it.
func wsStreamer(t *testing.T, handler func(conn *websocket.Conn)) *stream.Client {
	t.Helper()
	upgrader := websocket.Upgrader{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		handler(conn)
	}))
	t.Cleanup(server.Close)

	cfg := config.Default()
	cfg.Stream.DeadlineSecs = 5
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	return stream.NewClient(cfg).WithURL(wsURL)
}

func newTestSession(backend ChatBackend, streamer Streamer) *Session {
	return New(config.Default(), backend, streamer)
}

// =============================================================================
// SIMPLE MODE
// =============================================================================

func TestSendSuccess(t *testing.T) {
	backend := &fakeBackend{chatResp: &api.ChatResponse{
		Response:       "Here's a plan...",
		ConversationID: "abc-123",
		ModelUsed:      "llama3",
		TokensUsed:     42,
	}}
	s := newTestSession(backend, nil)

	asst, err := s.Send(context.Background(), "make a plan")
	require.NoError(t, err)

	msgs := s.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, model.RoleUser, msgs[0].Role)
	assert.Equal(t, "make a plan", msgs[0].Content)
	assert.Equal(t, model.RoleAssistant, msgs[1].Role)
	assert.Equal(t, "Here's a plan...", msgs[1].Content)
	assert.Same(t, asst, msgs[1])

	require.NotNil(t, asst.Meta)
	assert.Equal(t, "llama3", asst.Meta.Model)
	assert.Equal(t, 42, asst.Meta.TokensUsed)

	assert.Equal(t, "abc-123", s.ConversationID())
	assert.False(t, s.Pending())
	assert.NoError(t, s.LastError())
}

func TestSendSkillReplyAppendsAssistant(t *testing.T) {
	backend := &fakeBackend{chatResp: &api.ChatResponse{
		Response:       "Opened it for you.",
		ConversationID: "abc-123",
		ModelUsed:      "llama3",
		SkillsUsed: []api.SkillUse{
			{SkillName: "open_app", Success: true},
		},
	}}
	s := newTestSession(backend, nil)

	asst, err := s.Send(context.Background(), "open the browser")
	require.NoError(t, err)

	require.Len(t, s.Messages(), 2, "skill-using reply still appends both messages")
	require.NotNil(t, asst.Meta)
	assert.Equal(t, []string{"open_app"}, asst.Meta.SkillsUsed)
	assert.NoError(t, s.LastError())
}

func TestSendFailureRollsBackUserMessage(t *testing.T) {
	backend := &fakeBackend{chatErr: api.ErrBackendUnavailable}
	s := newTestSession(backend, nil)

	_, err := s.Send(context.Background(), "hello")
	require.ErrorIs(t, err, api.ErrBackendUnavailable)

	assert.Empty(t, s.Messages(), "optimistic user message is rolled back")
	assert.ErrorIs(t, s.LastError(), api.ErrBackendUnavailable)
	assert.False(t, s.Pending())
}

func TestSendValidation(t *testing.T) {
	backend := &fakeBackend{}
	s := newTestSession(backend, nil)

	_, err := s.Send(context.Background(), "   \n  ")
	assert.ErrorIs(t, err, ErrEmptyMessage)

	_, err = s.Send(context.Background(), strings.Repeat("x", api.MaxMessageLen+1))
	assert.ErrorIs(t, err, ErrMessageTooLong)

	assert.Empty(t, s.Messages(), "rejected input leaves no trace")
	assert.Zero(t, backend.chatCalls)
	assert.NoError(t, s.LastError())
}

func TestSendWhilePendingRejected(t *testing.T) {
	block := make(chan struct{})
	backend := &fakeBackend{
		chatResp: &api.ChatResponse{Response: "ok", ConversationID: "c1"},
		block:    block,
	}
	s := newTestSession(backend, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Send(context.Background(), "first")
	}()

	require.Eventually(t, s.Pending, time.Second, 5*time.Millisecond)

	_, err := s.Send(context.Background(), "second")
	assert.ErrorIs(t, err, ErrRequestPending)

	close(block)
	<-done

	require.Len(t, s.Messages(), 2, "only the first send landed")
	assert.False(t, s.Pending())
}

func TestSendReusesConversationID(t *testing.T) {
	backend := &fakeBackend{chatResp: &api.ChatResponse{Response: "ok", ConversationID: "abc-123"}}
	s := newTestSession(backend, nil)

	_, err := s.Send(context.Background(), "first")
	require.NoError(t, err)
	_, err = s.Send(context.Background(), "second")
	require.NoError(t, err)

	assert.Equal(t, "abc-123", s.ConversationID())
	assert.Len(t, s.Messages(), 4)
}

// =============================================================================
// MULTI-AGENT MODE
// =============================================================================

func TestSendMultiAgentSuccess(t *testing.T) {
	streamer := wsStreamer(t, func(conn *websocket.Conn) {
		var req stream.Request
		require.NoError(t, conn.ReadJSON(&req))
		assert.Equal(t, 5, req.MaxIterations)

		conn.WriteJSON(stream.Event{Type: stream.EventStatus, Message: "Analyzing your request..."})
		conn.WriteJSON(stream.Event{Type: stream.EventClassification, TaskType: "coding", Confidence: 0.9})
		conn.WriteJSON(stream.Event{Type: stream.EventIteration, Message: "Iteration 1/5"})
		conn.WriteJSON(stream.Event{Type: stream.EventIteration, Message: "Iteration 2/5"})
		conn.WriteJSON(stream.Event{
			Type:    stream.EventComplete,
			Success: true,
			Result:  &stream.Result{TaskType: "coding", Response: "done", Code: "print(1)"},
		})
	})
	s := newTestSession(&fakeBackend{}, streamer)

	var seen []stream.EventType
	asst, err := s.SendMultiAgent(context.Background(), "write a script", func(ev stream.Event) {
		seen = append(seen, ev.Type)
	})
	require.NoError(t, err)

	msgs := s.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, model.RoleUser, msgs[0].Role)
	assert.Equal(t, "done", asst.Content)

	require.NotNil(t, asst.Meta)
	assert.Equal(t, "coding", asst.Meta.TaskType)
	assert.InDelta(t, 0.9, asst.Meta.Confidence, 0.001)
	assert.Equal(t, "print(1)", asst.Meta.Code)

	assert.Equal(t, []stream.EventType{
		stream.EventStatus,
		stream.EventClassification,
		stream.EventIteration,
		stream.EventIteration,
		stream.EventComplete,
	}, seen)

	assert.False(t, s.Pending())
	assert.Empty(t, s.Progress(), "progress cleared after the run")
	assert.NoError(t, s.LastError())
}

func TestSendMultiAgentErrorKeepsUserMessage(t *testing.T) {
	streamer := wsStreamer(t, func(conn *websocket.Conn) {
		var req stream.Request
		conn.ReadJSON(&req)
		conn.WriteJSON(stream.Event{Type: stream.EventStatus, Message: "working"})
		conn.WriteJSON(stream.Event{Type: stream.EventError, Message: "Error: sandbox crashed"})
	})
	s := newTestSession(&fakeBackend{}, streamer)

	_, err := s.SendMultiAgent(context.Background(), "boom", nil)
	require.Error(t, err)

	var agentErr *AgentError
	require.ErrorAs(t, err, &agentErr)
	assert.Equal(t, "Error: sandbox crashed", agentErr.Message)

	// The user message stays, unlike simple mode.
	msgs := s.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, model.RoleUser, msgs[0].Role)

	assert.False(t, s.Pending())
	assert.Empty(t, s.Progress())
	assert.Error(t, s.LastError())
}

func TestSendMultiAgentDialFailureKeepsUserMessage(t *testing.T) {
	cfg := config.Default()
	streamer := stream.NewClient(cfg).WithURL("ws://127.0.0.1:1/api/v1/multi-agent/stream")
	s := newTestSession(&fakeBackend{}, streamer)

	_, err := s.SendMultiAgent(context.Background(), "hello", nil)
	require.Error(t, err)

	assert.Len(t, s.Messages(), 1)
	assert.Error(t, s.LastError())
	assert.False(t, s.Pending())
}

func TestSendMultiAgentWhilePendingRejected(t *testing.T) {
	release := make(chan struct{})
	streamer := wsStreamer(t, func(conn *websocket.Conn) {
		var req stream.Request
		conn.ReadJSON(&req)
		conn.WriteJSON(stream.Event{Type: stream.EventStatus, Message: "working"})
		<-release
		conn.WriteJSON(stream.Event{Type: stream.EventComplete, Success: true, Result: &stream.Result{Response: "done"}})
	})
	s := newTestSession(&fakeBackend{}, streamer)

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.SendMultiAgent(context.Background(), "long job", nil)
	}()

	require.Eventually(t, s.Pending, time.Second, 5*time.Millisecond)

	_, err := s.SendMultiAgent(context.Background(), "another", nil)
	assert.ErrorIs(t, err, ErrRequestPending)
	_, err = s.Send(context.Background(), "another")
	assert.ErrorIs(t, err, ErrRequestPending)

	close(release)
	<-done
	assert.Len(t, s.Messages(), 2)
}

func TestCancelStream(t *testing.T) {
	started := make(chan struct{})
	streamer := wsStreamer(t, func(conn *websocket.Conn) {
		var req stream.Request
		conn.ReadJSON(&req)
		conn.WriteJSON(stream.Event{Type: stream.EventStatus, Message: "working"})
		close(started)
		time.Sleep(2 * time.Second)
	})
	s := newTestSession(&fakeBackend{}, streamer)

	done := make(chan error, 1)
	go func() {
		_, err := s.SendMultiAgent(context.Background(), "long job", nil)
		done <- err
	}()

	<-started
	s.CancelStream()

	err := <-done
	assert.ErrorIs(t, err, stream.ErrCanceled)
	assert.Len(t, s.Messages(), 1, "user message kept after cancel")
	assert.False(t, s.Pending())
}

// =============================================================================
// CLEAR
// =============================================================================

func TestClearWithoutServerIDIsLocalOnly(t *testing.T) {
	backend := &fakeBackend{deleteErr: api.ErrBackendUnavailable}
	s := newTestSession(backend, nil)
	s.Conversation().AddMessage(model.NewUserMessage("local only"))

	require.NoError(t, s.Clear(context.Background()))
	assert.Empty(t, s.Messages())
	assert.Empty(t, backend.deletedIDs, "no HTTP call without a server ID")
}

func TestClearWithServerID(t *testing.T) {
	backend := &fakeBackend{chatResp: &api.ChatResponse{Response: "ok", ConversationID: "abc-123"}}
	s := newTestSession(backend, nil)

	_, err := s.Send(context.Background(), "hello")
	require.NoError(t, err)

	require.NoError(t, s.Clear(context.Background()))
	assert.Empty(t, s.Messages())
	assert.Empty(t, s.ConversationID())
	assert.Equal(t, []string{"abc-123"}, backend.deletedIDs)
}

func TestClearFailureLeavesMessagesUntouched(t *testing.T) {
	backend := &fakeBackend{chatResp: &api.ChatResponse{Response: "ok", ConversationID: "abc-123"}}
	s := newTestSession(backend, nil)

	_, err := s.Send(context.Background(), "hello")
	require.NoError(t, err)
	require.Len(t, s.Messages(), 2)

	backend.deleteErr = api.ErrBackendUnavailable
	err = s.Clear(context.Background())
	require.ErrorIs(t, err, api.ErrBackendUnavailable)

	assert.Len(t, s.Messages(), 2, "message list unchanged on failure")
	assert.Equal(t, "abc-123", s.ConversationID())
	assert.ErrorIs(t, s.LastError(), api.ErrBackendUnavailable)
}

// =============================================================================
// STATE
// =============================================================================

func TestDismissError(t *testing.T) {
	backend := &fakeBackend{chatErr: api.ErrBackendUnavailable}
	s := newTestSession(backend, nil)

	s.Send(context.Background(), "hello")
	require.Error(t, s.LastError())

	s.DismissError()
	assert.NoError(t, s.LastError())
}

func TestRestore(t *testing.T) {
	s := newTestSession(&fakeBackend{}, nil)

	conv := model.NewConversation()
	conv.ServerID = "restored-1"
	conv.AddMessage(model.NewUserMessage("old question"))
	conv.AddMessage(model.NewAssistantMessage("old answer", nil))

	require.NoError(t, s.Restore(conv))
	assert.Len(t, s.Messages(), 2)
	assert.Equal(t, "restored-1", s.ConversationID())
}

func TestMessagesReturnsCopy(t *testing.T) {
	backend := &fakeBackend{chatResp: &api.ChatResponse{Response: "ok", ConversationID: "c1"}}
	s := newTestSession(backend, nil)

	_, err := s.Send(context.Background(), "hello")
	require.NoError(t, err)

	msgs := s.Messages()
	msgs[0] = nil
	assert.NotNil(t, s.Messages()[0])
}
