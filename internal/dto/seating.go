package dto

import (
	"time"

	"github.com/noah-isme/sma-seating-api/internal/seating"
)

// SeatInput describes one seat of a caller supplied room seat map.
type SeatInput struct {
	SeatNumber int                `json:"seatNumber" validate:"min=0"`
	Coordinate string             `json:"coordinate" validate:"required"`
	Status     seating.SeatStatus `json:"status" validate:"omitempty,oneof=available unavailable"`
}

// StudentInput is one roster entry; the class comes from the enclosing map key.
type StudentInput struct {
	StudentID string `json:"studentId" validate:"required"`
}

// AllocateRequest runs the allocator on fully caller supplied inputs.
type AllocateRequest struct {
	RoomSeats       map[string][]SeatInput    `json:"roomSeats" validate:"dive,keys,required,excludesall=:,endkeys,dive"`
	StudentsByClass map[string][]StudentInput `json:"studentsByClass" validate:"dive,keys,required,endkeys,dive"`
}

// ClassCount asks for a synthetic roster of StudentCount students named S1..Sn.
type ClassCount struct {
	ClassID      string `json:"classId" validate:"required"`
	StudentCount int    `json:"studentCount" validate:"min=0,max=5000"`
}

// PreviewRequest selects rooms and classes from the catalog. Empty RoomIDs selects every room.
// Classes, when present, replaces the enrolment roster for ClassIDs.
type PreviewRequest struct {
	RoomIDs       []string            `json:"roomIds" validate:"omitempty,dive,required"`
	ClassIDs      []string            `json:"classIds" validate:"omitempty,dive,required"`
	Classes       []ClassCount        `json:"classes" validate:"omitempty,dive"`
	DisabledSeats map[string][]string `json:"disabledSeats" validate:"omitempty,dive,keys,required,endkeys,dive,required"`
}

// SaveLayoutRequest runs a preview and persists the outcome.
type SaveLayoutRequest struct {
	PreviewRequest
}

// AllocationSummary aggregates counts over one allocation.
type AllocationSummary struct {
	Rooms          int            `json:"rooms"`
	TotalSeats     int            `json:"totalSeats"`
	AvailableSeats int            `json:"availableSeats"`
	TotalStudents  int            `json:"totalStudents"`
	SeatedCount    int            `json:"seatedCount"`
	UnseatedCount  int            `json:"unseatedCount"`
	SeatedByClass  map[string]int `json:"seatedByClass"`
}

// AllocationResponse is the allocator output returned to clients.
type AllocationResponse struct {
	Assignment seating.Assignment `json:"assignment"`
	Unseated   map[string]int     `json:"unseated"`
	Summary    AllocationSummary  `json:"summary"`
	Cached     bool               `json:"cached"`
}

// LayoutListQuery pages through saved layouts.
type LayoutListQuery struct {
	Page     int `form:"page" validate:"omitempty,min=1"`
	PageSize int `form:"page_size" validate:"omitempty,min=1,max=100"`
}

// SavedLayoutResponse is returned after a layout was stored.
type SavedLayoutResponse struct {
	ID         string             `json:"id"`
	CreatedAt  time.Time          `json:"createdAt"`
	Allocation AllocationResponse `json:"allocation"`
}
