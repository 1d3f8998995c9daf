package dto

import (
	"github.com/noah-isme/sma-seating-api/internal/models"
	"github.com/noah-isme/sma-seating-api/internal/seating"
)

// CreateRoomRequest registers a room in the catalog. Codes double as allocator room ids and may not contain ':'.
type CreateRoomRequest struct {
	Code      string `json:"code" validate:"required,max=64,excludesall=:"`
	Name      string `json:"name" validate:"max=128"`
	Rows      int    `json:"rows" validate:"required,min=1,max=100"`
	Cols      int    `json:"cols" validate:"required,min=1,max=100"`
	BenchType int    `json:"benchType" validate:"required,min=1,max=8"`
	Available *bool  `json:"available"`
}

// SetAvailabilityRequest toggles a whole room.
type SetAvailabilityRequest struct {
	Available *bool `json:"available" validate:"required"`
}

// SeatMapResponse is a room with its generated seat inventory.
type SeatMapResponse struct {
	Room     models.Room    `json:"room"`
	Seats    []seating.Seat `json:"seats"`
	Disabled []string       `json:"disabled"`
}

// ToggleSeatResponse reports the seat status after a toggle.
type ToggleSeatResponse struct {
	RoomID     string             `json:"roomId"`
	Coordinate string             `json:"coordinate"`
	Status     seating.SeatStatus `json:"status"`
}
