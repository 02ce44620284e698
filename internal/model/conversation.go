// Copyright (c) 2024-2025 OpenClaw Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"
)

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation is the local view of one chat thread: the ordered
// message list plus the backend's conversation ID once one has been
// assigned.
type Conversation struct {
	// ID is the local record ID (conv_ prefix).
	ID string `json:"id"`

	// ServerID is the conversation_id assigned by the backend.
	// Empty until the first successful exchange.
	ServerID string `json:"server_id,omitempty"`

	Title     string     `json:"title"`
	Messages  []*Message `json:"messages"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewConversation creates an empty conversation with a generated ID.
func NewConversation() *Conversation {
	now := time.Now()
	return &Conversation{
		ID:        GenerateConversationID(),
		Messages:  make([]*Message, 0),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// GenerateConversationID creates a unique local conversation ID.
func GenerateConversationID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return "conv_" + hex.EncodeToString(bytes)
}

// =============================================================================
// CONVERSATION METHODS
// =============================================================================

// AddMessage appends a message and updates the timestamp.
// The first user message also seeds the title.
func (c *Conversation) AddMessage(msg *Message) {
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now()

	if c.Title == "" && msg.Role == RoleUser {
		c.Title = deriveTitle(msg.Content)
	}
}

// RemoveMessage removes the message with the given ID.
// Returns true if a message was removed.
func (c *Conversation) RemoveMessage(id string) bool {
	for i, msg := range c.Messages {
		if msg.ID == id {
			c.Messages = append(c.Messages[:i], c.Messages[i+1:]...)
			c.UpdatedAt = time.Now()
			return true
		}
	}
	return false
}

// Clear removes all messages and forgets the server conversation.
func (c *Conversation) Clear() {
	c.Messages = make([]*Message, 0)
	c.ServerID = ""
	c.Title = ""
	c.UpdatedAt = time.Now()
}

// LastMessage returns the most recent message, or nil when empty.
func (c *Conversation) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return c.Messages[len(c.Messages)-1]
}

// MessageCount returns the number of messages.
func (c *Conversation) MessageCount() int {
	return len(c.Messages)
}

// IsEmpty returns true when the conversation has no messages.
func (c *Conversation) IsEmpty() bool {
	return len(c.Messages) == 0
}

// Preview returns a short preview of the last message.
func (c *Conversation) Preview(maxLen int) string {
	last := c.LastMessage()
	if last == nil {
		return ""
	}
	return last.Preview(maxLen)
}

// deriveTitle builds a conversation title from the first user message.
func deriveTitle(content string) string {
	title := strings.TrimSpace(content)
	if i := strings.IndexByte(title, '\n'); i >= 0 {
		title = title[:i]
	}

	const maxTitle = 50
	runes := []rune(title)
	if len(runes) > maxTitle {
		title = string(runes[:maxTitle-3]) + "..."
	}
	if title == "" {
		title = "New Conversation"
	}
	return title
}
