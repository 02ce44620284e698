// Copyright (c) 2024-2025 OpenClaw Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package stream

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/openclaw/openclaw-tui/internal/config"
)

// =============================================================================
// STREAM CLIENT
// =============================================================================

// Request is the initiation payload sent after the WebSocket dial.
type Request struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id,omitempty"`
	MaxIterations  int    `json:"max_iterations"`
}

// ErrEmptyMessage indicates a blank stream request.
var ErrEmptyMessage = errors.New("message is empty")

// Client opens multi-agent stream connections. Construct with
// NewClient from explicit configuration.
type Client struct {
	url              string
	handshakeTimeout time.Duration
	deadline         time.Duration
}

// NewClient derives the stream endpoint from the backend base URL.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		url:              cfg.Backend.WSURL(),
		handshakeTimeout: cfg.Stream.HandshakeTimeout(),
		deadline:         cfg.Stream.Deadline(),
	}
}

// WithURL overrides the stream endpoint. Used in tests.
func (c *Client) WithURL(url string) *Client {
	c.url = url
	return c
}

// URL returns the stream endpoint.
func (c *Client) URL() string {
	return c.url
}

// Start dials the stream, sends the initiation payload, and returns
// a running Task. The run ends on the first terminal event, a read
// error, the configured deadline, ctx cancellation, or Task.Cancel;
// on every path the connection is closed and the event channel
// closed before the task status turns terminal-visible.
func (c *Client) Start(ctx context.Context, req Request) (*Task, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, ErrEmptyMessage
	}

	runCtx, cancel := context.WithTimeout(ctx, c.deadline)

	dialer := websocket.Dialer{HandshakeTimeout: c.handshakeTimeout}
	conn, resp, err := dialer.DialContext(runCtx, c.url, nil)
	if err != nil {
		cancel()
		if resp != nil {
			return nil, fmt.Errorf("dial %s (status %d): %w", c.url, resp.StatusCode, err)
		}
		return nil, fmt.Errorf("dial %s: %w", c.url, err)
	}

	if err := conn.WriteJSON(req); err != nil {
		conn.Close()
		cancel()
		return nil, fmt.Errorf("send request: %w", err)
	}

	task := newTask(cancel)
	if err := task.transition(StatusRunning); err != nil {
		conn.Close()
		cancel()
		return nil, err
	}

	// Closing the connection is the only way to unblock a pending
	// read, so a watchdog ties the connection to the run context.
	go func() {
		<-runCtx.Done()
		conn.Close()
	}()

	go c.consume(runCtx, cancel, conn, task)

	return task, nil
}

// consume reads events until a terminal event or failure.
func (c *Client) consume(runCtx context.Context, cancel context.CancelFunc, conn *websocket.Conn, task *Task) {
	defer func() {
		cancel()
		conn.Close()
		close(task.events)
	}()

	for {
		var ev Event
		if err := conn.ReadJSON(&ev); err != nil {
			task.finish(c.outcomeFor(runCtx, err))
			return
		}

		select {
		case task.events <- ev:
		case <-runCtx.Done():
			task.finish(c.outcomeFor(runCtx, runCtx.Err()))
			return
		}

		// First terminal event ends the run; anything the backend
		// sends afterwards is never read.
		if ev.IsTerminal() {
			task.finish(StatusComplete, nil)
			return
		}
	}
}

// outcomeFor maps a read failure to a terminal status and error.
func (c *Client) outcomeFor(runCtx context.Context, readErr error) (Status, error) {
	switch runCtx.Err() {
	case context.DeadlineExceeded:
		return StatusFailed, ErrDeadlineExceeded
	case context.Canceled:
		return StatusCanceled, ErrCanceled
	}
	return StatusFailed, fmt.Errorf("read event: %w", readErr)
}
