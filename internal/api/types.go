// Copyright (c) 2024-2025 OpenClaw Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"github.com/openclaw/openclaw-tui/internal/model"
)

// =============================================================================
// WIRE TYPES
// =============================================================================

// MaxMessageLen is the backend's limit on one chat message.
const MaxMessageLen = 5000

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id,omitempty"`
	UserID         string `json:"user_id"`
}

// SkillUse records one skill invocation during a chat turn. The
// backend sends these as objects, not bare names.
type SkillUse struct {
	SkillName string `json:"skill_name"`
	Success   bool   `json:"success"`
}

// ChatResponse is the backend's reply to a simple chat message.
type ChatResponse struct {
	Response       string     `json:"response"`
	ConversationID string     `json:"conversation_id"`
	Timestamp      string     `json:"timestamp"`
	ModelUsed      string     `json:"model_used"`
	TokensUsed     int        `json:"tokens_used,omitempty"`
	SkillsUsed     []SkillUse `json:"skills_used,omitempty"`
}

// SkillNames returns the names of the skills used in this reply.
func (r *ChatResponse) SkillNames() []string {
	if len(r.SkillsUsed) == 0 {
		return nil
	}
	names := make([]string, 0, len(r.SkillsUsed))
	for _, use := range r.SkillsUsed {
		if use.SkillName != "" {
			names = append(names, use.SkillName)
		}
	}
	return names
}

// HistoryMessage is one entry of a stored server-side conversation.
type HistoryMessage struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp,omitempty"`
}

// ConversationHistory is the reply to GET /conversation/{id}.
type ConversationHistory struct {
	ConversationID string           `json:"conversation_id"`
	History        []HistoryMessage `json:"history"`
}

// HealthResponse is the reply to GET /health.
type HealthResponse struct {
	Status       string `json:"status"`
	Version      string `json:"version"`
	Timestamp    string `json:"timestamp"`
	GroqAPIState string `json:"groq_api_status"`
}

// SkillInfo describes one backend skill.
type SkillInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Parameters  []string `json:"parameters,omitempty"`
}

// SkillListResponse is the reply to GET /skills.
type SkillListResponse struct {
	Skills []SkillInfo `json:"skills"`
	Total  int         `json:"total"`
}

// SkillExecuteRequest is the body of POST /skills/execute.
type SkillExecuteRequest struct {
	SkillName  string         `json:"skill_name"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

// SkillExecuteResponse is the backend's skill execution result.
type SkillExecuteResponse struct {
	Success bool   `json:"success"`
	Result  any    `json:"result,omitempty"`
	Error   string `json:"error,omitempty"`
}

// GenerateRequest is the body of POST /multi-agent/generate.
type GenerateRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id,omitempty"`
	UserID         string `json:"user_id"`
	MaxIterations  int    `json:"max_iterations"`
}

// GenerateResponse is the non-streaming multi-agent result.
type GenerateResponse struct {
	Success    bool    `json:"success"`
	TaskType   string  `json:"task_type"`
	Confidence float64 `json:"confidence"`
	Response   string  `json:"response"`

	// Single-file result
	Code     string `json:"code,omitempty"`
	FilePath string `json:"file_path,omitempty"`

	// Multi-file result
	Files            map[string]string `json:"files,omitempty"`
	ProjectStructure *model.FileNode   `json:"project_structure,omitempty"`
	MainFile         string            `json:"main_file,omitempty"`
	ProjectType      string            `json:"project_type,omitempty"`

	Language  string         `json:"language,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Error     string         `json:"error,omitempty"`
	AgentPath []string       `json:"agent_path,omitempty"`
}
