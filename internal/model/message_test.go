// Copyright (c) 2024-2025 OpenClaw Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	msg := NewUserMessage("hello")

	assert.True(t, strings.HasPrefix(msg.ID, "msg_"))
	assert.Equal(t, RoleUser, msg.Role)
	assert.Equal(t, "hello", msg.Content)
	assert.False(t, msg.Timestamp.IsZero())
	assert.Nil(t, msg.Meta)
}

func TestNewAssistantMessage(t *testing.T) {
	meta := &AgentMeta{Model: "llama3", TokensUsed: 42}
	msg := NewAssistantMessage("Here's a plan...", meta)

	assert.Equal(t, RoleAssistant, msg.Role)
	require.NotNil(t, msg.Meta)
	assert.Equal(t, "llama3", msg.Meta.Model)
	assert.Equal(t, 42, msg.Meta.TokensUsed)
}

func TestMessageIDsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		msg := NewUserMessage("x")
		assert.False(t, seen[msg.ID])
		seen[msg.ID] = true
	}
}

func TestPreview(t *testing.T) {
	msg := NewUserMessage("short")
	assert.Equal(t, "short", msg.Preview(20))

	msg = NewUserMessage("a somewhat longer message body")
	preview := msg.Preview(10)
	assert.Equal(t, "a somew...", preview)
	assert.Len(t, []rune(preview), 10)

	// Unicode is truncated on rune boundaries.
	msg = NewUserMessage("héllo wörld with accénts")
	preview = msg.Preview(10)
	assert.Len(t, []rune(preview), 10)
}

func TestHasArtifacts(t *testing.T) {
	assert.False(t, NewUserMessage("x").HasArtifacts())
	assert.False(t, NewAssistantMessage("x", nil).HasArtifacts())
	assert.False(t, NewAssistantMessage("x", &AgentMeta{Model: "llama3"}).HasArtifacts())

	assert.True(t, NewAssistantMessage("x", &AgentMeta{Code: "print(1)"}).HasArtifacts())
	assert.True(t, NewAssistantMessage("x", &AgentMeta{Files: map[string]string{"a.py": ""}}).HasArtifacts())
}

func TestEstimateTokens(t *testing.T) {
	// Reported token count wins.
	msg := NewAssistantMessage("irrelevant", &AgentMeta{TokensUsed: 7})
	assert.Equal(t, 7, msg.EstimateTokens())

	// Otherwise ~4 chars per token.
	msg = NewUserMessage("12345678")
	assert.Equal(t, 2, msg.EstimateTokens())
}

func TestRoleDisplayName(t *testing.T) {
	assert.Equal(t, "You", RoleUser.DisplayName())
	assert.Equal(t, "OpenClaw", RoleAssistant.DisplayName())
	assert.Equal(t, "System", RoleSystem.DisplayName())
	assert.Equal(t, "other", Role("other").DisplayName())
}
