package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// SeatingLayout is a persisted allocation together with the inputs that produced it.
type SeatingLayout struct {
	ID                   string         `db:"id" json:"id"`
	RoomConfiguration    types.JSONText `db:"room_configuration" json:"roomConfiguration"`
	StudentConfiguration types.JSONText `db:"student_configuration" json:"studentConfiguration"`
	SeatAssignments      types.JSONText `db:"seat_assignments" json:"seatAssignments"`
	Unseated             types.JSONText `db:"unseated" json:"unseated"`
	TotalStudents        int            `db:"total_students" json:"totalStudents"`
	SeatedCount          int            `db:"seated_count" json:"seatedCount"`
	CreatedBy            *string        `db:"created_by" json:"createdBy,omitempty"`
	CreatedAt            time.Time      `db:"created_at" json:"createdAt"`
}

// SeatingLayoutSummary is the list view of a layout without its payload columns.
type SeatingLayoutSummary struct {
	ID            string    `db:"id" json:"id"`
	TotalStudents int       `db:"total_students" json:"totalStudents"`
	SeatedCount   int       `db:"seated_count" json:"seatedCount"`
	CreatedBy     *string   `db:"created_by" json:"createdBy,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}

// SeatingLayoutFilter pages through saved layouts, newest first.
type SeatingLayoutFilter struct {
	Page     int
	PageSize int
}
