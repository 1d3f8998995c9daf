package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/sma-seating-api/internal/models"
)

// RosterRepository reads class rosters owned by the SMA platform.
type RosterRepository struct {
	db *sqlx.DB
}

// NewRosterRepository constructs the repository.
func NewRosterRepository(db *sqlx.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

// ListByClassNames returns the actively enrolled students of the named classes, ordered by class
// then NIS so that repeated calls feed the allocator the same roster order.
func (r *RosterRepository) ListByClassNames(ctx context.Context, names []string) ([]models.RosterEntry, error) {
	const query = `SELECT c.name AS class_name, s.nis, s.full_name
		FROM enrollments e
		JOIN classes c ON c.id = e.class_id
		JOIN students s ON s.id = e.student_id
		WHERE c.name = ANY($1) AND e.status = $2 AND s.active = TRUE
		ORDER BY c.name, s.nis`
	var entries []models.RosterEntry
	if err := r.db.SelectContext(ctx, &entries, query, pq.Array(names), "ACTIVE"); err != nil {
		return nil, fmt.Errorf("list roster: %w", err)
	}
	return entries, nil
}
