package store

import (
	"fmt"

	"github.com/hollis-dev/attic/internal/models"
)

// LearningStore handles self-improvement note persistence.
type LearningStore struct {
	db *DB
}

func NewLearningStore(db *DB) *LearningStore {
	return &LearningStore{db: db}
}

// Insert stores a new learning. A nil Importance persists as NULL so the
// severity-tier default applies at normalization time.
func (s *LearningStore) Insert(l *models.Learning) error {
	_, err := s.db.Exec(`
		INSERT INTO learnings (id, "trigger", lesson, severity, importance, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, l.ID, l.Trigger, l.Lesson, string(l.Severity), l.Importance, l.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert learning: %w", err)
	}
	return nil
}

// List returns learnings newest-first, capped at limit.
func (s *LearningStore) List(limit int) ([]*models.Learning, error) {
	rows, err := s.db.Query(`
		SELECT id, "trigger", lesson, severity, importance, created_at
		FROM learnings
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list learnings: %w", err)
	}
	defer rows.Close()

	var ls []*models.Learning
	for rows.Next() {
		var l models.Learning
		var severity string
		if err := rows.Scan(&l.ID, &l.Trigger, &l.Lesson, &severity, &l.Importance, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan learning: %w", err)
		}
		l.Severity = models.Severity(severity)
		ls = append(ls, &l)
	}
	return ls, rows.Err()
}
