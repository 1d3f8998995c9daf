// Package seating implements the exam seat allocator: it spreads the students of several
// classes over the benches of a set of rooms so that a class never takes two seats on one bench
// and, within a room, each class keeps to its own bench slot whenever bench capacity allows.
//
// Allocate is a pure function of its inputs. It keeps no state between calls and never fails:
// degenerate input produces an empty but well-formed Result.
package seating

import (
	"fmt"
	"strconv"
	"strings"
)

// SeatStatus reports whether a seat may receive a student.
type SeatStatus string

const (
	SeatAvailable   SeatStatus = "available"
	SeatUnavailable SeatStatus = "unavailable"
)

// InvalidSlot marks a seat whose coordinate could not be decoded. Such seats never match a class.
const InvalidSlot = -1

// Coordinate locates a seat inside a room: the bench at Row/Col and the slot on that bench.
type Coordinate struct {
	Row  int `json:"row"`
	Col  int `json:"col"`
	Slot int `json:"slot"`
}

// String renders the coordinate as "row-col-slot".
func (c Coordinate) String() string {
	return fmt.Sprintf("%d-%d-%d", c.Row, c.Col, c.Slot)
}

// ParseCoordinate decodes the "row-col-slot" form.
func ParseCoordinate(raw string) (Coordinate, error) {
	parts := strings.Split(strings.TrimSpace(raw), "-")
	if len(parts) != 3 {
		return Coordinate{}, fmt.Errorf("coordinate %q: expected row-col-slot", raw)
	}
	values := make([]int, 3)
	for i, part := range parts {
		v, err := strconv.Atoi(part)
		if err != nil {
			return Coordinate{}, fmt.Errorf("coordinate %q: %w", raw, err)
		}
		if v < 0 {
			return Coordinate{}, fmt.Errorf("coordinate %q: negative component", raw)
		}
		values[i] = v
	}
	return Coordinate{Row: values[0], Col: values[1], Slot: values[2]}, nil
}

// Seat is one addressable position in a room.
type Seat struct {
	RoomID     string     `json:"roomId"`
	Row        int        `json:"row"`
	Col        int        `json:"col"`
	Slot       int        `json:"slot"`
	SeatNumber int        `json:"seatNumber"`
	Status     SeatStatus `json:"status"`
}

// SeatFromCoordinate builds a seat from its textual coordinate. A malformed coordinate does not
// fail: the seat keeps whatever bench position could be read and gets InvalidSlot.
func SeatFromCoordinate(roomID string, seatNumber int, coordinate string, status SeatStatus) Seat {
	seat := Seat{RoomID: roomID, SeatNumber: seatNumber, Status: status, Row: -1, Col: -1, Slot: InvalidSlot}
	if c, err := ParseCoordinate(coordinate); err == nil {
		seat.Row, seat.Col, seat.Slot = c.Row, c.Col, c.Slot
		return seat
	}
	parts := strings.Split(coordinate, "-")
	if len(parts) > 0 {
		if v, err := strconv.Atoi(parts[0]); err == nil {
			seat.Row = v
		}
	}
	if len(parts) > 1 {
		if v, err := strconv.Atoi(parts[1]); err == nil {
			seat.Col = v
		}
	}
	return seat
}

// Coordinate returns the seat position inside its room.
func (s Seat) Coordinate() Coordinate {
	return Coordinate{Row: s.Row, Col: s.Col, Slot: s.Slot}
}

// Available reports whether the seat can be assigned.
func (s Seat) Available() bool {
	return s.Status == SeatAvailable
}

// Key returns the externally visible identity of the seat.
func (s Seat) Key() SeatKey {
	return SeatKey{SeatNumber: s.SeatNumber, RoomID: s.RoomID, Row: s.Row, Col: s.Col, Slot: s.Slot}
}

func (s Seat) bench() benchKey {
	return benchKey{room: s.RoomID, row: s.Row, col: s.Col}
}

type benchKey struct {
	room string
	row  int
	col  int
}

// Student is one unit of demand. Only its identifiers matter to the allocator.
type Student struct {
	StudentID string `json:"studentId"`
	ClassID   string `json:"classId"`
}
