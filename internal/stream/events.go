// Copyright (c) 2024-2025 OpenClaw Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package stream consumes the backend's multi-agent WebSocket stream.
// One send opens one connection, delivers typed progress events, and
// ends on the first terminal event (complete or error).
package stream

import "strconv"

// =============================================================================
// EVENT TYPES
// =============================================================================

// EventType identifies one kind of stream event.
type EventType string

// Event types emitted by the backend during a multi-agent run.
const (
	EventRouter         EventType = "router"
	EventGreeting       EventType = "greeting"
	EventStatus         EventType = "status"
	EventThinking       EventType = "thinking"
	EventAnalysis       EventType = "analysis"
	EventClassification EventType = "classification"
	EventIteration      EventType = "iteration"
	EventTesting        EventType = "testing"
	EventFixing         EventType = "fixing"
	EventSuccess        EventType = "success"
	EventComplete       EventType = "complete"
	EventError          EventType = "error"
)

// Event is one message from the multi-agent stream. Progress events
// carry only Type/Message/Timestamp; classification adds task type
// and confidence; complete adds the final result.
type Event struct {
	Type      EventType `json:"type"`
	Message   string    `json:"message"`
	Timestamp string    `json:"timestamp"`

	// Set on classification events.
	TaskType   string  `json:"task_type,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`

	// Set on iteration events.
	Iteration int `json:"iteration,omitempty"`
	Total     int `json:"total,omitempty"`

	// Set on complete events.
	Success bool    `json:"success,omitempty"`
	Result  *Result `json:"result,omitempty"`
}

// Result is the final payload of a complete event.
type Result struct {
	TaskType  string         `json:"task_type"`
	Response  string         `json:"response"`
	Code      string         `json:"code,omitempty"`
	FilePath  string         `json:"file_path,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	AgentPath []string       `json:"agent_path,omitempty"`
}

// IsTerminal reports whether the event ends the stream. Exactly one
// terminal event arrives per run; anything after it is ignored.
func (e *Event) IsTerminal() bool {
	return e.Type == EventComplete || e.Type == EventError
}

// Progress returns a short human-readable line for activity feeds.
func (e *Event) Progress() string {
	if e.Message != "" {
		return e.Message
	}
	switch e.Type {
	case EventClassification:
		if e.TaskType != "" {
			return "Identified as: " + e.TaskType + " task"
		}
	case EventIteration:
		if e.Iteration > 0 {
			line := "Iteration " + strconv.Itoa(e.Iteration)
			if e.Total > 0 {
				line += "/" + strconv.Itoa(e.Total)
			}
			return line
		}
	case EventComplete:
		return "Done"
	case EventError:
		return "Failed"
	}
	return string(e.Type)
}
