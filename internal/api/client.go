// Copyright (c) 2024-2025 OpenClaw Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api implements the HTTP client for the OpenClaw agent
// backend: simple chat, conversation management, health, skills, and
// non-streaming multi-agent generation.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/openclaw/openclaw-tui/internal/config"
)

// =============================================================================
// CLIENT
// =============================================================================

// maxResponseSize caps how much of a response body is read (10 MB).
const maxResponseSize = 10 * 1024 * 1024

// Client talks to the OpenClaw backend over HTTP. Construct with
// NewClient; the zero value is not usable.
//
// Chat sends are never retried: failures surface to the caller, who
// rolls back optimistic state and shows the error.
type Client struct {
	baseURL    string
	userID     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a client from explicit configuration.
func NewClient(cfg *config.Config) (*Client, error) {
	base := strings.TrimSuffix(cfg.Backend.BaseURL, "/")
	if base == "" {
		return nil, ErrNotConfigured
	}

	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     90 * time.Second,
	}

	return &Client{
		baseURL: base,
		userID:  cfg.Backend.UserID,
		httpClient: &http.Client{
			Timeout:   cfg.Backend.RequestTimeout(),
			Transport: transport,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.Backend.RequestsPerSecond), cfg.Backend.Burst),
	}, nil
}

// WithHTTPClient replaces the underlying HTTP client. Used in tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// CHAT
// =============================================================================

// Chat sends one message in simple mode. conversationID may be empty
// on the first message; the response carries the ID to use next.
func (c *Client) Chat(ctx context.Context, message, conversationID string) (*ChatResponse, error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}
	if len(message) > MaxMessageLen {
		return nil, fmt.Errorf("%w (%d > %d)", ErrMessageTooLong, len(message), MaxMessageLen)
	}

	req := ChatRequest{
		Message:        message,
		ConversationID: conversationID,
		UserID:         c.userID,
	}

	var resp ChatResponse
	if err := c.doJSON(ctx, http.MethodPost, "/chat", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// =============================================================================
// CONVERSATIONS
// =============================================================================

// GetConversation fetches the server-side history for an ID.
func (c *Client) GetConversation(ctx context.Context, id string) (*ConversationHistory, error) {
	if id == "" {
		return nil, ErrConversationNotFound
	}

	var resp ConversationHistory
	if err := c.doJSON(ctx, http.MethodGet, "/conversation/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteConversation clears the server-side history for an ID.
func (c *Client) DeleteConversation(ctx context.Context, id string) error {
	if id == "" {
		return ErrConversationNotFound
	}
	return c.doJSON(ctx, http.MethodDelete, "/conversation/"+url.PathEscape(id), nil, nil)
}

// =============================================================================
// HEALTH
// =============================================================================

// Health checks backend availability.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/health", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// =============================================================================
// SKILLS
// =============================================================================

// ListSkills returns the backend's available skills.
func (c *Client) ListSkills(ctx context.Context) (*SkillListResponse, error) {
	var resp SkillListResponse
	if err := c.doJSON(ctx, http.MethodGet, "/skills", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetSkill returns details for one skill.
func (c *Client) GetSkill(ctx context.Context, name string) (*SkillInfo, error) {
	if name == "" {
		return nil, ErrSkillNotFound
	}

	var resp SkillInfo
	if err := c.doJSON(ctx, http.MethodGet, "/skills/"+url.PathEscape(name), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ExecuteSkill runs a skill with parameters.
func (c *Client) ExecuteSkill(ctx context.Context, name string, params map[string]any) (*SkillExecuteResponse, error) {
	req := SkillExecuteRequest{SkillName: name, Parameters: params}

	var resp SkillExecuteResponse
	if err := c.doJSON(ctx, http.MethodPost, "/skills/execute", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ReloadSkills asks the backend to rescan its skill directory.
func (c *Client) ReloadSkills(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/skills/reload", nil, nil)
}

// =============================================================================
// MULTI-AGENT (NON-STREAMING)
// =============================================================================

// Generate runs the multi-agent pipeline without streaming progress.
// Prefer the stream package when progress events matter.
func (c *Client) Generate(ctx context.Context, message, conversationID string, maxIterations int) (*GenerateResponse, error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}
	if len(message) > MaxMessageLen {
		return nil, fmt.Errorf("%w (%d > %d)", ErrMessageTooLong, len(message), MaxMessageLen)
	}

	req := GenerateRequest{
		Message:        message,
		ConversationID: conversationID,
		UserID:         c.userID,
		MaxIterations:  maxIterations,
	}

	var resp GenerateResponse
	if err := c.doJSON(ctx, http.MethodPost, "/multi-agent/generate", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// doJSON performs one request with a JSON body and decodes a JSON
// response into out (out may be nil to discard the body).
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			Status:  resp.StatusCode,
			Path:    path,
			Message: errorDetail(data),
		}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorDetail extracts FastAPI's {"detail": ...} from an error body,
// falling back to the raw text.
func errorDetail(data []byte) string {
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(data, &body); err == nil && body.Detail != "" {
		return body.Detail
	}

	text := strings.TrimSpace(string(data))
	const maxDetail = 200
	if len(text) > maxDetail {
		text = text[:maxDetail]
	}
	return text
}
