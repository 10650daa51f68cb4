package store

import (
	"database/sql"
	"fmt"

	"github.com/hollis-dev/attic/internal/models"
)

// MessageStore handles conversation message persistence.
type MessageStore struct {
	db *DB
}

func NewMessageStore(db *DB) *MessageStore {
	return &MessageStore{db: db}
}

// Insert stores a new message and bumps its session's activity counters.
// The session row is created on first use.
func (s *MessageStore) Insert(m *models.Message) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO sessions (id, started_at, last_active_at, message_count)
		VALUES (?, ?, ?, 0)
		ON CONFLICT(id) DO UPDATE SET last_active_at = excluded.last_active_at
	`, m.SessionID, m.CreatedAt, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("ensure session: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO messages (id, session_id, role, content, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, m.ID, m.SessionID, string(m.Role), m.Content, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}

	_, err = tx.Exec(
		`UPDATE sessions SET message_count = message_count + 1 WHERE id = ?`,
		m.SessionID)
	if err != nil {
		return fmt.Errorf("bump message count: %w", err)
	}

	return tx.Commit()
}

// ListRecent returns the newest messages for a session in chronological
// (oldest-first) order, capped at limit.
func (s *MessageStore) ListRecent(sessionID string, limit int) ([]*models.Message, error) {
	rows, err := s.db.Query(`
		SELECT id, session_id, role, content, created_at
		FROM (
			SELECT id, session_id, role, content, created_at
			FROM messages
			WHERE session_id = ?
			ORDER BY created_at DESC, id DESC
			LIMIT ?
		)
		ORDER BY created_at ASC, id ASC
	`, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent messages: %w", err)
	}
	defer rows.Close()

	var msgs []*models.Message
	for rows.Next() {
		var m models.Message
		var role string
		if err := rows.Scan(&m.ID, &m.SessionID, &role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.Role = models.Role(role)
		msgs = append(msgs, &m)
	}
	return msgs, rows.Err()
}

// GetSession fetches one session row, or nil when absent.
func (s *MessageStore) GetSession(id string) (*models.Session, error) {
	var sess models.Session
	err := s.db.QueryRow(`
		SELECT id, started_at, last_active_at, message_count
		FROM sessions WHERE id = ?
	`, id).Scan(&sess.ID, &sess.StartedAt, &sess.LastActiveAt, &sess.MessageCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &sess, nil
}
