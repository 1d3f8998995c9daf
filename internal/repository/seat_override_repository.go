package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/sma-seating-api/internal/models"
)

// SeatOverrideRepository stores manually disabled seats.
type SeatOverrideRepository struct {
	db *sqlx.DB
}

// NewSeatOverrideRepository constructs the repository.
func NewSeatOverrideRepository(db *sqlx.DB) *SeatOverrideRepository {
	return &SeatOverrideRepository{db: db}
}

// ListByRoom returns the disabled coordinates of one room.
func (r *SeatOverrideRepository) ListByRoom(ctx context.Context, roomID string) ([]string, error) {
	var coords []string
	if err := r.db.SelectContext(ctx, &coords, `SELECT coordinate FROM seat_overrides WHERE room_id = $1 ORDER BY coordinate`, roomID); err != nil {
		return nil, fmt.Errorf("list seat overrides: %w", err)
	}
	return coords, nil
}

// ListByRooms returns disabled coordinates keyed by room ID.
func (r *SeatOverrideRepository) ListByRooms(ctx context.Context, roomIDs []string) (map[string][]string, error) {
	var rows []models.SeatOverride
	const query = `SELECT room_id, coordinate, created_at FROM seat_overrides WHERE room_id = ANY($1) ORDER BY room_id, coordinate`
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(roomIDs)); err != nil {
		return nil, fmt.Errorf("list seat overrides by rooms: %w", err)
	}
	out := make(map[string][]string, len(roomIDs))
	for _, row := range rows {
		out[row.RoomID] = append(out[row.RoomID], row.Coordinate)
	}
	return out, nil
}

// Toggle removes the override when present and creates it otherwise. It reports whether the seat
// is disabled afterwards.
func (r *SeatOverrideRepository) Toggle(ctx context.Context, roomID, coordinate string) (disabled bool, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin toggle: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `DELETE FROM seat_overrides WHERE room_id = $1 AND coordinate = $2`, roomID, coordinate)
	if err != nil {
		return false, fmt.Errorf("delete seat override: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	if removed == 0 {
		if _, err = tx.ExecContext(ctx, `INSERT INTO seat_overrides (room_id, coordinate, created_at) VALUES ($1, $2, $3)`, roomID, coordinate, time.Now().UTC()); err != nil {
			return false, fmt.Errorf("insert seat override: %w", err)
		}
	}
	if err = tx.Commit(); err != nil {
		return false, fmt.Errorf("commit toggle: %w", err)
	}
	return removed == 0, nil
}
