// Copyright (c) 2024-2025 OpenClaw Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations,
// messages, and generated project trees.
package model

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "OpenClaw"
	case RoleSystem:
		return "System"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single message in a conversation.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`
	Content   string    `json:"content"`

	// Meta carries backend result details for assistant messages.
	// Nil for user and system messages.
	Meta *AgentMeta `json:"meta,omitempty"`
}

// AgentMeta holds what the backend reported alongside a reply.
type AgentMeta struct {
	// Simple chat fields
	Model      string   `json:"model,omitempty"`
	TokensUsed int      `json:"tokens_used,omitempty"`
	SkillsUsed []string `json:"skills_used,omitempty"`

	// Multi-agent fields
	TaskType   string   `json:"task_type,omitempty"`
	Confidence float64  `json:"confidence,omitempty"`
	Language   string   `json:"language,omitempty"`
	AgentPath  []string `json:"agent_path,omitempty"`

	// Generated artifacts
	Code     string            `json:"code,omitempty"`
	FilePath string            `json:"file_path,omitempty"`
	Files    map[string]string `json:"files,omitempty"`
	Project  *FileNode         `json:"project,omitempty"`
	MainFile string            `json:"main_file,omitempty"`
}

// NewMessage creates a new message with a generated ID.
func NewMessage(role Role, content string) *Message {
	return &Message{
		ID:        generateID(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) *Message {
	return NewMessage(RoleUser, content)
}

// NewAssistantMessage creates a new assistant message carrying meta.
func NewAssistantMessage(content string, meta *AgentMeta) *Message {
	msg := NewMessage(RoleAssistant, content)
	msg.Meta = meta
	return msg
}

// NewSystemMessage creates a new system message.
func NewSystemMessage(content string) *Message {
	return NewMessage(RoleSystem, content)
}

// =============================================================================
// MESSAGE METHODS
// =============================================================================

// Preview returns a truncated preview of the message content.
// Uses rune-based truncation to handle Unicode correctly.
func (m *Message) Preview(maxLen int) string {
	runes := []rune(m.Content)
	if len(runes) <= maxLen {
		return m.Content
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// IsEmpty returns true if the message has no content.
func (m *Message) IsEmpty() bool {
	return len(m.Content) == 0
}

// HasArtifacts reports whether the message carries generated code,
// files, or a project tree.
func (m *Message) HasArtifacts() bool {
	if m.Meta == nil {
		return false
	}
	return m.Meta.Code != "" || len(m.Meta.Files) > 0 || m.Meta.Project != nil
}

// EstimateTokens gives a rough token estimate (~4 chars per token).
func (m *Message) EstimateTokens() int {
	if m.Meta != nil && m.Meta.TokensUsed > 0 {
		return m.Meta.TokensUsed
	}
	return (len(m.Content) + 3) / 4
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateID creates a unique message ID.
func generateID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return "msg_" + hex.EncodeToString(bytes)
}
