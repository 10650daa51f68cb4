package store

import (
	"database/sql"
	"fmt"

	"github.com/hollis-dev/attic/internal/models"
)

// EntityStore handles extracted-entity persistence.
type EntityStore struct {
	db *DB
}

func NewEntityStore(db *DB) *EntityStore {
	return &EntityStore{db: db}
}

// Upsert inserts an entity or, when the name/type pair already exists,
// increments its mention count and refreshes last_seen_at. A non-empty
// description replaces the stored one. Returns the entity's ID.
func (s *EntityStore) Upsert(e *models.Entity) (string, error) {
	_, err := s.db.Exec(`
		INSERT INTO entities (id, name, type, description, mention_count, last_seen_at)
		VALUES (?, ?, ?, ?, 1, ?)
		ON CONFLICT(name, type) DO UPDATE SET
			mention_count = mention_count + 1,
			last_seen_at = excluded.last_seen_at,
			description = CASE WHEN excluded.description != '' THEN excluded.description ELSE description END
	`, e.ID, e.Name, e.Type, e.Description, e.LastSeenAt)
	if err != nil {
		return "", fmt.Errorf("upsert entity: %w", err)
	}

	var id string
	err = s.db.QueryRow(
		`SELECT id FROM entities WHERE name = ? AND type = ?`,
		e.Name, e.Type).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("resolve entity id: %w", err)
	}
	return id, nil
}

// GetByName fetches one entity by its name/type pair, or nil when absent.
func (s *EntityStore) GetByName(name, entityType string) (*models.Entity, error) {
	var e models.Entity
	err := s.db.QueryRow(`
		SELECT id, name, type, description, mention_count, last_seen_at
		FROM entities WHERE name = ? AND type = ?
	`, name, entityType).Scan(&e.ID, &e.Name, &e.Type, &e.Description, &e.MentionCount, &e.LastSeenAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get entity: %w", err)
	}
	return &e, nil
}

// ListByMentions returns entities most-mentioned-first (recency breaks
// ties), capped at limit.
func (s *EntityStore) ListByMentions(limit int) ([]*models.Entity, error) {
	rows, err := s.db.Query(`
		SELECT id, name, type, description, mention_count, last_seen_at
		FROM entities
		ORDER BY mention_count DESC, last_seen_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list entities: %w", err)
	}
	defer rows.Close()

	var ents []*models.Entity
	for rows.Next() {
		var e models.Entity
		if err := rows.Scan(&e.ID, &e.Name, &e.Type, &e.Description, &e.MentionCount, &e.LastSeenAt); err != nil {
			return nil, fmt.Errorf("scan entity: %w", err)
		}
		ents = append(ents, &e)
	}
	return ents, rows.Err()
}
