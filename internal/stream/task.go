// Copyright (c) 2024-2025 OpenClaw Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package stream

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// =============================================================================
// TASK STATUS
// =============================================================================

// Status represents the lifecycle state of one stream run.
type Status string

const (
	StatusQueued   Status = "queued"
	StatusRunning  Status = "running"
	StatusComplete Status = "complete"
	StatusFailed   Status = "failed"
	StatusCanceled Status = "canceled"
)

// IsTerminal reports whether the status is final.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusComplete, StatusFailed, StatusCanceled:
		return true
	}
	return false
}

// validTransitions maps each status to the statuses it may move to.
var validTransitions = map[Status][]Status{
	StatusQueued:   {StatusRunning, StatusFailed, StatusCanceled},
	StatusRunning:  {StatusComplete, StatusFailed, StatusCanceled},
	StatusComplete: {},
	StatusFailed:   {},
	StatusCanceled: {},
}

// ErrInvalidTransition is returned for a disallowed status change.
var ErrInvalidTransition = errors.New("invalid task status transition")

// =============================================================================
// TASK
// =============================================================================

// ErrDeadlineExceeded is recorded when a run outlives its deadline.
var ErrDeadlineExceeded = errors.New("stream deadline exceeded")

// ErrCanceled is recorded when the caller cancels a run.
var ErrCanceled = errors.New("stream canceled")

// Task is one cancellable multi-agent stream run. Events arrive on
// Events(); the channel closes when the run ends, after which Status
// and Err describe the outcome. The connection is torn down on every
// exit path.
type Task struct {
	id     string
	events chan Event

	mu     sync.Mutex
	status Status
	err    error
	cancel func()
}

func newTask(cancel func()) *Task {
	return &Task{
		id:     uuid.New().String(),
		events: make(chan Event, 16),
		status: StatusQueued,
		cancel: cancel,
	}
}

// ID returns the task's unique identifier.
func (t *Task) ID() string {
	return t.id
}

// Events returns the event channel. It closes when the run ends.
func (t *Task) Events() <-chan Event {
	return t.events
}

// Status returns the current lifecycle state.
func (t *Task) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Err returns the terminal error, nil on success or cancel-free
// completion. Meaningful once the event channel has closed.
func (t *Task) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Cancel stops the run. Safe to call at any time and more than once.
func (t *Task) Cancel() {
	t.mu.Lock()
	if t.status.IsTerminal() {
		t.mu.Unlock()
		return
	}
	cancel := t.cancel
	t.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// transition moves the task to a new status, validating the edge.
func (t *Task) transition(to Status) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.transitionLocked(to)
}

func (t *Task) transitionLocked(to Status) error {
	for _, allowed := range validTransitions[t.status] {
		if allowed == to {
			t.status = to
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, t.status, to)
}

// finish records the terminal status and error exactly once.
// Later calls are ignored, so the first exit path wins.
func (t *Task) finish(status Status, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status.IsTerminal() {
		return
	}
	if terr := t.transitionLocked(status); terr != nil {
		// Queued tasks may fail before ever running.
		t.status = status
	}
	t.err = err
}
