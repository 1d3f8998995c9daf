package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-seating-api/internal/models"
)

// SeatingLayoutRepository persists saved allocations.
type SeatingLayoutRepository struct {
	db *sqlx.DB
}

// NewSeatingLayoutRepository constructs the repository.
func NewSeatingLayoutRepository(db *sqlx.DB) *SeatingLayoutRepository {
	return &SeatingLayoutRepository{db: db}
}

// Create stores a layout. ID and CreatedAt are filled when empty.
func (r *SeatingLayoutRepository) Create(ctx context.Context, layout *models.SeatingLayout) error {
	if layout.ID == "" {
		layout.ID = uuid.NewString()
	}
	if len(layout.Unseated) == 0 {
		layout.Unseated = []byte("{}")
	}

	const query = `INSERT INTO seating_layouts (id, room_configuration, student_configuration, seat_assignments, unseated, total_students, seated_count, created_by, created_at)
		VALUES (:id, :room_configuration, :student_configuration, :seat_assignments, :unseated, :total_students, :seated_count, :created_by, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, layout); err != nil {
		return fmt.Errorf("create seating layout: %w", err)
	}
	return nil
}

// FindByID returns a layout with its payload columns.
func (r *SeatingLayoutRepository) FindByID(ctx context.Context, id string) (*models.SeatingLayout, error) {
	const query = `SELECT id, room_configuration, student_configuration, seat_assignments, unseated, total_students, seated_count, created_by, created_at FROM seating_layouts WHERE id = $1`
	var layout models.SeatingLayout
	if err := r.db.GetContext(ctx, &layout, query, id); err != nil {
		return nil, err
	}
	return &layout, nil
}

// List returns layout summaries newest first together with the total count.
func (r *SeatingLayoutRepository) List(ctx context.Context, filter models.SeatingLayoutFilter) ([]models.SeatingLayoutSummary, int, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT id, total_students, seated_count, created_by, created_at FROM seating_layouts ORDER BY created_at DESC, id LIMIT %d OFFSET %d", size, offset)
	var layouts []models.SeatingLayoutSummary
	if err := r.db.SelectContext(ctx, &layouts, query); err != nil {
		return nil, 0, fmt.Errorf("list seating layouts: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM seating_layouts`); err != nil {
		return nil, 0, fmt.Errorf("count seating layouts: %w", err)
	}
	return layouts, total, nil
}

// Delete removes a layout.
func (r *SeatingLayoutRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM seating_layouts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete seating layout: %w", err)
	}
	return requireAffected(res)
}
