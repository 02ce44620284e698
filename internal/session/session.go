// Copyright (c) 2024-2025 OpenClaw Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session maintains the message list for one conversation
// and orchestrates sends against the OpenClaw backend in both simple
// and multi-agent mode.
//
// Invariants:
//   - at most one request is in flight; sends while pending fail fast
//   - each successful send appends exactly one assistant message
//   - pending returns to false and progress is cleared on every exit
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/openclaw/openclaw-tui/internal/api"
	"github.com/openclaw/openclaw-tui/internal/config"
	"github.com/openclaw/openclaw-tui/internal/model"
	"github.com/openclaw/openclaw-tui/internal/stream"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrEmptyMessage rejects blank input before any state changes.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrMessageTooLong rejects oversized input before any state changes.
	ErrMessageTooLong = errors.New("message exceeds maximum length")

	// ErrRequestPending enforces the single-request invariant.
	ErrRequestPending = errors.New("a request is already in flight")
)

// AgentError is a terminal error event from the multi-agent stream.
type AgentError struct {
	Message string
}

func (e *AgentError) Error() string {
	if e.Message == "" {
		return "multi-agent run failed"
	}
	return e.Message
}

// =============================================================================
// BACKEND INTERFACES
// =============================================================================

// ChatBackend is the HTTP surface the session needs. *api.Client
// satisfies it.
type ChatBackend interface {
	Chat(ctx context.Context, message, conversationID string) (*api.ChatResponse, error)
	DeleteConversation(ctx context.Context, id string) error
}

// Streamer opens multi-agent stream runs. *stream.Client satisfies it.
type Streamer interface {
	Start(ctx context.Context, req stream.Request) (*stream.Task, error)
}

// =============================================================================
// SESSION
// =============================================================================

// Session is the chat session client. Safe for concurrent use.
type Session struct {
	mu sync.Mutex

	cfg      *config.Config
	backend  ChatBackend
	streamer Streamer

	conv     *model.Conversation
	pending  bool
	lastErr  error
	progress string
	task     *stream.Task
}

// New creates a session from explicit configuration and backends.
func New(cfg *config.Config, backend ChatBackend, streamer Streamer) *Session {
	return &Session{
		cfg:      cfg,
		backend:  backend,
		streamer: streamer,
		conv:     model.NewConversation(),
	}
}

// =============================================================================
// SIMPLE MODE
// =============================================================================

// Send sends one message in simple mode. On success it returns the
// appended assistant message. On failure the optimistic user message
// is rolled back and the error recorded.
func (s *Session) Send(ctx context.Context, text string) (*model.Message, error) {
	if err := validate(text); err != nil {
		return nil, err
	}

	userMsg, err := s.begin(text)
	if err != nil {
		return nil, err
	}

	resp, chatErr := s.backend.Chat(ctx, text, s.ConversationID())

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.settleLocked()

	if chatErr != nil {
		s.conv.RemoveMessage(userMsg.ID)
		s.lastErr = chatErr
		return nil, chatErr
	}

	s.conv.ServerID = resp.ConversationID
	asst := model.NewAssistantMessage(resp.Response, &model.AgentMeta{
		Model:      resp.ModelUsed,
		TokensUsed: resp.TokensUsed,
		SkillsUsed: resp.SkillNames(),
	})
	s.conv.AddMessage(asst)
	return asst, nil
}

// =============================================================================
// MULTI-AGENT MODE
// =============================================================================

// SendMultiAgent sends one message through the multi-agent stream.
// Progress events are forwarded to onEvent (may be nil) as they
// arrive. On a terminal complete it appends one assistant message.
// On any failure the error is recorded but the optimistic user
// message is kept: the backend may have done partial work tied to it.
func (s *Session) SendMultiAgent(ctx context.Context, text string, onEvent func(stream.Event)) (*model.Message, error) {
	if err := validate(text); err != nil {
		return nil, err
	}

	if _, err := s.begin(text); err != nil {
		return nil, err
	}

	task, err := s.streamer.Start(ctx, stream.Request{
		Message:        text,
		ConversationID: s.ConversationID(),
		MaxIterations:  s.cfg.Stream.MaxIterations,
	})
	if err != nil {
		s.fail(err)
		return nil, err
	}

	s.mu.Lock()
	s.task = task
	s.mu.Unlock()

	var (
		terminal   *stream.Event
		taskType   string
		confidence float64
	)

	for ev := range task.Events() {
		ev := ev
		s.setProgress(ev.Progress())
		if onEvent != nil {
			onEvent(ev)
		}

		if ev.Type == stream.EventClassification {
			taskType = ev.TaskType
			confidence = ev.Confidence
		}
		if ev.IsTerminal() {
			terminal = &ev
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() {
		s.task = nil
		s.settleLocked()
	}()

	// Transport-level failure: deadline, cancel, or read error.
	if terminal == nil {
		err := task.Err()
		if err == nil {
			err = fmt.Errorf("stream ended without a terminal event")
		}
		s.lastErr = err
		return nil, err
	}

	if terminal.Type == stream.EventError || !terminal.Success {
		err := &AgentError{Message: terminal.Message}
		if err.Message == "" && terminal.Result != nil {
			err.Message = terminal.Result.Response
		}
		s.lastErr = err
		return nil, err
	}

	result := terminal.Result
	if result == nil {
		err := fmt.Errorf("complete event carried no result")
		s.lastErr = err
		return nil, err
	}

	if result.TaskType != "" {
		taskType = result.TaskType
	}
	asst := model.NewAssistantMessage(result.Response, &model.AgentMeta{
		TaskType:   taskType,
		Confidence: confidence,
		Code:       result.Code,
		FilePath:   result.FilePath,
		AgentPath:  result.AgentPath,
	})
	s.conv.AddMessage(asst)
	return asst, nil
}

// CancelStream cancels the active multi-agent run, if any.
func (s *Session) CancelStream() {
	s.mu.Lock()
	task := s.task
	s.mu.Unlock()

	if task != nil {
		task.Cancel()
	}
}

// =============================================================================
// CLEAR
// =============================================================================

// Clear resets the conversation. Without a server conversation ID it
// is local-only; with one, the server history is deleted first and
// local state is reset only on success. On failure the message list
// is unchanged and the error recorded.
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	if s.pending {
		s.mu.Unlock()
		return ErrRequestPending
	}
	serverID := s.conv.ServerID
	s.mu.Unlock()

	if serverID != "" {
		if err := s.backend.DeleteConversation(ctx, serverID); err != nil {
			s.mu.Lock()
			s.lastErr = err
			s.mu.Unlock()
			return err
		}
	}

	s.mu.Lock()
	s.conv.Clear()
	s.lastErr = nil
	s.progress = ""
	s.mu.Unlock()
	return nil
}

// =============================================================================
// STATE ACCESS
// =============================================================================

// Messages returns a copy of the message list.
func (s *Session) Messages() []*model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := make([]*model.Message, len(s.conv.Messages))
	copy(msgs, s.conv.Messages)
	return msgs
}

// MessageCount returns the number of messages.
func (s *Session) MessageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conv.MessageCount()
}

// Pending reports whether a request is in flight.
func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// LastError returns the most recent recorded error, nil when none.
func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// DismissError clears the recorded error.
func (s *Session) DismissError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = nil
}

// Progress returns the current progress note, empty when idle.
func (s *Session) Progress() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress
}

// ConversationID returns the server conversation ID, empty before
// the first successful exchange.
func (s *Session) ConversationID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conv.ServerID
}

// Title returns the conversation title.
func (s *Session) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conv.Title
}

// Conversation returns the underlying conversation for persistence.
// Callers must not mutate it while the session is in use.
func (s *Session) Conversation() *model.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conv
}

// Restore replaces the session state with a stored conversation.
// Rejected while a request is pending.
func (s *Session) Restore(conv *model.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending {
		return ErrRequestPending
	}
	s.conv = conv
	s.lastErr = nil
	s.progress = ""
	return nil
}

// =============================================================================
// INTERNAL
// =============================================================================

// validate rejects bad input before any state changes.
func validate(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyMessage
	}
	if len(text) > api.MaxMessageLen {
		return fmt.Errorf("%w (%d > %d)", ErrMessageTooLong, len(text), api.MaxMessageLen)
	}
	return nil
}

// begin enters the pending state and appends the optimistic user
// message. Fails when a request is already in flight.
func (s *Session) begin(text string) (*model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending {
		return nil, ErrRequestPending
	}
	s.pending = true
	s.lastErr = nil
	s.progress = ""

	userMsg := model.NewUserMessage(text)
	s.conv.AddMessage(userMsg)
	return userMsg, nil
}

// fail records an error and settles, keeping the user message.
func (s *Session) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err
	s.settleLocked()
}

// settleLocked leaves the pending state. Caller holds the lock.
func (s *Session) settleLocked() {
	s.pending = false
	s.progress = ""
}

func (s *Session) setProgress(note string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress = note
}
