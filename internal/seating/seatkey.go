package seating

import (
	"fmt"
	"strconv"
	"strings"
)

const seatKeyPrefix = "seat"

// SeatKey is the stable external address of a seat. Export and persistence collaborators
// split its text form on ":" and then "-", so the layout must not change.
type SeatKey struct {
	SeatNumber int
	RoomID     string
	Row        int
	Col        int
	Slot       int
}

// String renders "seat{seatNumber}:{roomId}:{row}-{col}-{slot}".
func (k SeatKey) String() string {
	return fmt.Sprintf("%s%d:%s:%d-%d-%d", seatKeyPrefix, k.SeatNumber, k.RoomID, k.Row, k.Col, k.Slot)
}

// BenchLabel renders the bench part of the key ("row-col").
func (k SeatKey) BenchLabel() string {
	return fmt.Sprintf("%d-%d", k.Row, k.Col)
}

// ParseSeatKey decodes the text form produced by SeatKey.String.
func ParseSeatKey(raw string) (SeatKey, error) {
	parts := strings.Split(raw, ":")
	if len(parts) != 3 {
		return SeatKey{}, fmt.Errorf("seat key %q: expected 3 sections, got %d", raw, len(parts))
	}
	if !strings.HasPrefix(parts[0], seatKeyPrefix) {
		return SeatKey{}, fmt.Errorf("seat key %q: missing %q prefix", raw, seatKeyPrefix)
	}
	number, err := strconv.Atoi(strings.TrimPrefix(parts[0], seatKeyPrefix))
	if err != nil {
		return SeatKey{}, fmt.Errorf("seat key %q: seat number: %w", raw, err)
	}
	if parts[1] == "" {
		return SeatKey{}, fmt.Errorf("seat key %q: empty room id", raw)
	}
	coord, err := ParseCoordinate(parts[2])
	if err != nil {
		return SeatKey{}, fmt.Errorf("seat key %q: %w", raw, err)
	}
	return SeatKey{SeatNumber: number, RoomID: parts[1], Row: coord.Row, Col: coord.Col, Slot: coord.Slot}, nil
}
