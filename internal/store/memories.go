package store

import (
	"database/sql"
	"fmt"

	"github.com/hollis-dev/attic/internal/models"
)

// MemoryStore handles long-term fact persistence.
type MemoryStore struct {
	db *DB
}

func NewMemoryStore(db *DB) *MemoryStore {
	return &MemoryStore{db: db}
}

// Insert stores a new memory. The caller sets all fields including ID.
func (s *MemoryStore) Insert(m *models.Memory) error {
	_, err := s.db.Exec(`
		INSERT INTO memories (id, content, category, importance, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, m.ID, m.Content, m.Category, m.Importance, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert memory: %w", err)
	}
	return nil
}

// GetByID fetches a single memory by ID, or nil when absent.
func (s *MemoryStore) GetByID(id string) (*models.Memory, error) {
	var m models.Memory
	err := s.db.QueryRow(`
		SELECT id, content, category, importance, created_at
		FROM memories WHERE id = ?
	`, id).Scan(&m.ID, &m.Content, &m.Category, &m.Importance, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get memory: %w", err)
	}
	return &m, nil
}

// ListByImportance returns memories ordered most-important-first (recency
// breaks ties), capped at limit.
func (s *MemoryStore) ListByImportance(limit int) ([]*models.Memory, error) {
	rows, err := s.db.Query(`
		SELECT id, content, category, importance, created_at
		FROM memories
		ORDER BY importance DESC, created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list memories: %w", err)
	}
	defer rows.Close()
	return scanMemories(rows)
}

// Delete removes a memory by ID.
func (s *MemoryStore) Delete(id string) error {
	res, err := s.db.Exec("DELETE FROM memories WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete memory: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("memory not found: %s", id)
	}
	return nil
}

func scanMemories(rows *sql.Rows) ([]*models.Memory, error) {
	var mems []*models.Memory
	for rows.Next() {
		var m models.Memory
		if err := rows.Scan(&m.ID, &m.Content, &m.Category, &m.Importance, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan memory: %w", err)
		}
		mems = append(mems, &m)
	}
	return mems, rows.Err()
}
