// Copyright (c) 2024-2025 OpenClaw Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclaw/openclaw-tui/internal/config"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.Default()
	cfg.Backend.BaseURL = server.URL + "/api/v1"
	cfg.Backend.RequestsPerSecond = 1000

	client, err := NewClient(cfg)
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	cfg := config.Default()
	cfg.Backend.BaseURL = ""

	_, err := NewClient(cfg)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestChatSuccess(t *testing.T) {
	var gotBody ChatRequest
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/chat", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(ChatResponse{
			Response:       "Here's a plan...",
			ConversationID: "abc-123",
			ModelUsed:      "llama3",
			TokensUsed:     42,
		})
	}))

	resp, err := client.Chat(context.Background(), "make a plan", "")
	require.NoError(t, err)

	assert.Equal(t, "Here's a plan...", resp.Response)
	assert.Equal(t, "abc-123", resp.ConversationID)
	assert.Equal(t, "llama3", resp.ModelUsed)
	assert.Equal(t, 42, resp.TokensUsed)

	assert.Equal(t, "make a plan", gotBody.Message)
	assert.Equal(t, "default_user", gotBody.UserID)
	assert.Empty(t, gotBody.ConversationID)
}

func TestChatDecodesSkillUseObjects(t *testing.T) {
	// skills_used arrives as a list of objects, not bare names.
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"response": "Opened it for you.",
			"conversation_id": "abc-123",
			"model_used": "llama3",
			"skills_used": [
				{"skill_name": "open_app", "success": true},
				{"skill_name": "screenshot", "success": false}
			]
		}`))
	}))

	resp, err := client.Chat(context.Background(), "open the browser", "")
	require.NoError(t, err)

	require.Len(t, resp.SkillsUsed, 2)
	assert.Equal(t, "open_app", resp.SkillsUsed[0].SkillName)
	assert.True(t, resp.SkillsUsed[0].Success)
	assert.False(t, resp.SkillsUsed[1].Success)
	assert.Equal(t, []string{"open_app", "screenshot"}, resp.SkillNames())
}

func TestSkillNamesSkipsBlanks(t *testing.T) {
	resp := &ChatResponse{}
	assert.Nil(t, resp.SkillNames())

	resp.SkillsUsed = []SkillUse{{SkillName: "weather"}, {}}
	assert.Equal(t, []string{"weather"}, resp.SkillNames())
}

func TestChatSendsConversationID(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body ChatRequest
		json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "abc-123", body.ConversationID)
		json.NewEncoder(w).Encode(ChatResponse{Response: "ok", ConversationID: "abc-123"})
	}))

	_, err := client.Chat(context.Background(), "follow up", "abc-123")
	require.NoError(t, err)
}

func TestChatValidation(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}))

	_, err := client.Chat(context.Background(), "   ", "")
	assert.ErrorIs(t, err, ErrEmptyMessage)

	_, err = client.Chat(context.Background(), strings.Repeat("x", MaxMessageLen+1), "")
	assert.ErrorIs(t, err, ErrMessageTooLong)
}

func TestChatServerError(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail": "groq exploded"}`))
	}))

	_, err := client.Chat(context.Background(), "hello", "")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 500, apiErr.Status)
	assert.Equal(t, "groq exploded", apiErr.Message)
}

func TestChatBackendUnreachable(t *testing.T) {
	cfg := config.Default()
	cfg.Backend.BaseURL = "http://127.0.0.1:1/api/v1"

	client, err := NewClient(cfg)
	require.NoError(t, err)

	_, err = client.Chat(context.Background(), "hello", "")
	assert.ErrorIs(t, err, ErrBackendUnavailable)
}

func TestDeleteConversation(t *testing.T) {
	deleted := false
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/api/v1/conversation/abc-123", r.URL.Path)
		deleted = true
		w.Write([]byte(`{"message": "Conversation cleared successfully"}`))
	}))

	require.NoError(t, client.DeleteConversation(context.Background(), "abc-123"))
	assert.True(t, deleted)
}

func TestDeleteConversationNotFound(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail": "Conversation not found"}`))
	}))

	err := client.DeleteConversation(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrConversationNotFound)
}

func TestDeleteConversationEmptyID(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}))
	assert.ErrorIs(t, client.DeleteConversation(context.Background(), ""), ErrConversationNotFound)
}

func TestGetConversation(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/conversation/abc-123", r.URL.Path)
		json.NewEncoder(w).Encode(ConversationHistory{
			ConversationID: "abc-123",
			History: []HistoryMessage{
				{Role: "user", Content: "hi"},
				{Role: "assistant", Content: "hello"},
			},
		})
	}))

	hist, err := client.GetConversation(context.Background(), "abc-123")
	require.NoError(t, err)
	assert.Equal(t, "abc-123", hist.ConversationID)
	require.Len(t, hist.History, 2)
	assert.Equal(t, "assistant", hist.History[1].Role)
}

func TestHealth(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/health", r.URL.Path)
		json.NewEncoder(w).Encode(HealthResponse{
			Status:       "healthy",
			Version:      "1.0.0",
			GroqAPIState: "configured",
		})
	}))

	health, err := client.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "configured", health.GroqAPIState)
}

func TestListSkills(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(SkillListResponse{
			Skills: []SkillInfo{{Name: "open_app", Description: "Opens an application"}},
			Total:  1,
		})
	}))

	list, err := client.ListSkills(context.Background())
	require.NoError(t, err)
	require.Len(t, list.Skills, 1)
	assert.Equal(t, "open_app", list.Skills[0].Name)
}

func TestExecuteSkill(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body SkillExecuteRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "open_app", body.SkillName)
		assert.Equal(t, "firefox", body.Parameters["app"])
		json.NewEncoder(w).Encode(SkillExecuteResponse{Success: true, Result: "opened"})
	}))

	resp, err := client.ExecuteSkill(context.Background(), "open_app", map[string]any{"app": "firefox"})
	require.NoError(t, err)
	assert.True(t, resp.Success)
}

func TestGenerate(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/multi-agent/generate", r.URL.Path)

		var body GenerateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 5, body.MaxIterations)

		w.Write([]byte(`{
			"success": true,
			"task_type": "coding",
			"confidence": 0.95,
			"response": "done",
			"code": "print(1)",
			"language": "python",
			"agent_path": ["router", "code_specialist"],
			"project_structure": {"app": {"main.py": "print(1)"}}
		}`))
	}))

	resp, err := client.Generate(context.Background(), "write a script", "", 5)
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "coding", resp.TaskType)
	assert.Equal(t, "print(1)", resp.Code)
	require.NotNil(t, resp.ProjectStructure)
	assert.Equal(t, 1, resp.ProjectStructure.CountFiles())
}
