package models

import "time"

// Room is an exam room: a grid of Rows x Cols benches, each seating BenchType students.
type Room struct {
	ID        string    `db:"id" json:"id"`
	Code      string    `db:"code" json:"code"`
	Name      string    `db:"name" json:"name"`
	Rows      int       `db:"rows" json:"rows"`
	Cols      int       `db:"cols" json:"cols"`
	BenchType int       `db:"bench_type" json:"benchType"`
	Available bool      `db:"available" json:"available"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// SeatOverride marks one seat of a room as manually disabled.
type SeatOverride struct {
	RoomID     string    `db:"room_id" json:"roomId"`
	Coordinate string    `db:"coordinate" json:"coordinate"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}
