package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/sma-seating-api/internal/models"
)

const roomColumns = "id, code, name, rows, cols, bench_type, available, created_at, updated_at"

// RoomRepository manages persistence for exam rooms.
type RoomRepository struct {
	db *sqlx.DB
}

// NewRoomRepository constructs a new room repository.
func NewRoomRepository(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// List returns every room. Callers apply the allocator room order.
func (r *RoomRepository) List(ctx context.Context) ([]models.Room, error) {
	query := fmt.Sprintf("SELECT %s FROM rooms ORDER BY code", roomColumns)
	var rooms []models.Room
	if err := r.db.SelectContext(ctx, &rooms, query); err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

// ListByCodes returns the rooms whose code is in codes. Unknown codes are ignored.
func (r *RoomRepository) ListByCodes(ctx context.Context, codes []string) ([]models.Room, error) {
	query := fmt.Sprintf("SELECT %s FROM rooms WHERE code = ANY($1) ORDER BY code", roomColumns)
	var rooms []models.Room
	if err := r.db.SelectContext(ctx, &rooms, query, pq.Array(codes)); err != nil {
		return nil, fmt.Errorf("list rooms by code: %w", err)
	}
	return rooms, nil
}

// FindByID returns a room by ID.
func (r *RoomRepository) FindByID(ctx context.Context, id string) (*models.Room, error) {
	query := fmt.Sprintf("SELECT %s FROM rooms WHERE id = $1", roomColumns)
	var room models.Room
	if err := r.db.GetContext(ctx, &room, query, id); err != nil {
		return nil, err
	}
	return &room, nil
}

// ExistsByCode checks whether a room code is taken.
func (r *RoomRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var exists int
	if err := r.db.GetContext(ctx, &exists, `SELECT 1 FROM rooms WHERE code = $1 LIMIT 1`, code); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check room code: %w", err)
	}
	return true, nil
}

// Create inserts a room, assigning ID and timestamps.
func (r *RoomRepository) Create(ctx context.Context, room *models.Room) error {
	if room.ID == "" {
		room.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	room.CreatedAt = now
	room.UpdatedAt = now

	const query = `INSERT INTO rooms (id, code, name, rows, cols, bench_type, available, created_at, updated_at)
		VALUES (:id, :code, :name, :rows, :cols, :bench_type, :available, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, room); err != nil {
		return fmt.Errorf("create room: %w", err)
	}
	return nil
}

// SetAvailability flips the room-level availability flag.
func (r *RoomRepository) SetAvailability(ctx context.Context, id string, available bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE rooms SET available = $1, updated_at = $2 WHERE id = $3`, available, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update room availability: %w", err)
	}
	return requireAffected(res)
}

// Delete removes a room; its seat overrides cascade.
func (r *RoomRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete room: %w", err)
	}
	return requireAffected(res)
}

// requireAffected maps a statement that touched no row to sql.ErrNoRows.
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
