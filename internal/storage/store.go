// Copyright (c) 2024-2025 OpenClaw Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists conversations locally in SQLite so chat
// history survives restarts. The backend keeps its own history; this
// store is the client-side record.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/openclaw/openclaw-tui/internal/model"
)

// =============================================================================
// STORE
// =============================================================================

// ErrNotFound is returned when a conversation ID is unknown.
var ErrNotFound = errors.New("conversation not found in local store")

// Store is a SQLite-backed conversation archive.
type Store struct {
	db               *sql.DB
	maxConversations int
}

// Summary is one row of the conversation list.
type Summary struct {
	ID           string
	ServerID     string
	Title        string
	MessageCount int
	UpdatedAt    time.Time
}

const schema = `
CREATE TABLE IF NOT EXISTS conversations (
	id         TEXT PRIMARY KEY,
	server_id  TEXT NOT NULL DEFAULT '',
	title      TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS messages (
	id              TEXT PRIMARY KEY,
	conversation_id TEXT NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
	seq             INTEGER NOT NULL,
	role            TEXT NOT NULL,
	content         TEXT NOT NULL,
	created_at      INTEGER NOT NULL,
	meta            TEXT
);

CREATE INDEX IF NOT EXISTS idx_messages_conversation
	ON messages(conversation_id, seq);
`

// Open opens (or creates) the store at path.
func Open(path string, maxConversations int) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Single-writer client; serialize access at the pool level.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	if maxConversations <= 0 {
		maxConversations = 100
	}
	return &Store{db: db, maxConversations: maxConversations}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Save upserts a conversation and its messages, then prunes the
// oldest conversations beyond the configured cap.
func (s *Store) Save(conv *model.Conversation) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO conversations (id, server_id, title, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			server_id = excluded.server_id,
			title = excluded.title,
			updated_at = excluded.updated_at`,
		conv.ID, conv.ServerID, conv.Title,
		conv.CreatedAt.UnixMilli(), conv.UpdatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("save conversation: %w", err)
	}

	// Rewrite the message rows; rollback semantics make partial
	// lists possible between saves otherwise.
	if _, err := tx.Exec(`DELETE FROM messages WHERE conversation_id = ?`, conv.ID); err != nil {
		return fmt.Errorf("clear old messages: %w", err)
	}

	for i, msg := range conv.Messages {
		var meta []byte
		if msg.Meta != nil {
			meta, err = json.Marshal(msg.Meta)
			if err != nil {
				return fmt.Errorf("encode message meta: %w", err)
			}
		}
		_, err = tx.Exec(`
			INSERT INTO messages (id, conversation_id, seq, role, content, created_at, meta)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			msg.ID, conv.ID, i, string(msg.Role), msg.Content,
			msg.Timestamp.UnixMilli(), nullable(meta))
		if err != nil {
			return fmt.Errorf("save message: %w", err)
		}
	}

	if err := s.pruneLocked(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// Load reads one conversation with its messages.
func (s *Store) Load(id string) (*model.Conversation, error) {
	conv := &model.Conversation{ID: id}

	var created, updated int64
	err := s.db.QueryRow(`
		SELECT server_id, title, created_at, updated_at
		FROM conversations WHERE id = ?`, id).
		Scan(&conv.ServerID, &conv.Title, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load conversation: %w", err)
	}
	conv.CreatedAt = time.UnixMilli(created)
	conv.UpdatedAt = time.UnixMilli(updated)

	rows, err := s.db.Query(`
		SELECT id, role, content, created_at, meta
		FROM messages WHERE conversation_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		msg := &model.Message{}
		var role string
		var ts int64
		var meta sql.NullString
		if err := rows.Scan(&msg.ID, &role, &msg.Content, &ts, &meta); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msg.Role = model.Role(role)
		msg.Timestamp = time.UnixMilli(ts)
		if meta.Valid && meta.String != "" {
			msg.Meta = &model.AgentMeta{}
			if err := json.Unmarshal([]byte(meta.String), msg.Meta); err != nil {
				return nil, fmt.Errorf("decode message meta: %w", err)
			}
		}
		conv.Messages = append(conv.Messages, msg)
	}
	return conv, rows.Err()
}

// List returns summaries, most recently updated first.
func (s *Store) List() ([]Summary, error) {
	rows, err := s.db.Query(`
		SELECT c.id, c.server_id, c.title, c.updated_at,
			(SELECT COUNT(*) FROM messages m WHERE m.conversation_id = c.id)
		FROM conversations c
		ORDER BY c.updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sum Summary
		var updated int64
		if err := rows.Scan(&sum.ID, &sum.ServerID, &sum.Title, &updated, &sum.MessageCount); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		sum.UpdatedAt = time.UnixMilli(updated)
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Delete removes one conversation and its messages.
func (s *Store) Delete(id string) error {
	res, err := s.db.Exec(`DELETE FROM conversations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete conversation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// pruneLocked deletes the oldest conversations beyond the cap.
func (s *Store) pruneLocked(tx *sql.Tx) error {
	_, err := tx.Exec(`
		DELETE FROM conversations WHERE id IN (
			SELECT id FROM conversations
			ORDER BY updated_at DESC
			LIMIT -1 OFFSET ?
		)`, s.maxConversations)
	if err != nil {
		return fmt.Errorf("prune conversations: %w", err)
	}
	return nil
}

func nullable(data []byte) any {
	if len(data) == 0 {
		return nil
	}
	return string(data)
}
