// Copyright (c) 2024-2025 OpenClaw Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// Sentinel errors returned by the client.
var (
	// ErrNotConfigured indicates a missing or empty base URL.
	ErrNotConfigured = errors.New("backend base URL not configured")

	// ErrEmptyMessage indicates a blank chat message.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrMessageTooLong indicates the message exceeds the backend limit.
	ErrMessageTooLong = errors.New("message exceeds maximum length")

	// ErrConversationNotFound maps the backend's 404 for unknown IDs.
	ErrConversationNotFound = errors.New("conversation not found")

	// ErrSkillNotFound maps the backend's 404 for unknown skills.
	ErrSkillNotFound = errors.New("skill not found")

	// ErrBackendUnavailable indicates the backend could not be reached.
	ErrBackendUnavailable = errors.New("backend unavailable")
)

// APIError describes a non-2xx response from the backend.
type APIError struct {
	Status  int    // HTTP status code
	Path    string // request path, for context
	Message string // detail from the response body, if any
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend error %d on %s: %s", e.Status, e.Path, e.Message)
	}
	return fmt.Sprintf("backend error %d on %s", e.Status, e.Path)
}

// Is allows matching sentinel errors with errors.Is.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrConversationNotFound:
		return e.Status == 404
	case ErrSkillNotFound:
		return e.Status == 404
	}
	return false
}
