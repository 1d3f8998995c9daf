package seating

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRoomSeats(t *testing.T) {
	room := Room{ID: "R1", Rows: 2, Cols: 2, BenchType: 3, Available: true}
	seats := BuildRoomSeats(room, []Coordinate{{Row: 1, Col: 0, Slot: 2}})

	require.Len(t, seats, 12)
	assert.Equal(t, 12, room.Capacity())
	for i, s := range seats {
		assert.Equal(t, i, s.SeatNumber)
		assert.Equal(t, "R1", s.RoomID)
	}
	assert.Equal(t, Seat{RoomID: "R1", Row: 1, Col: 0, Slot: 2, SeatNumber: 8, Status: SeatUnavailable}, seats[8])
	assert.Equal(t, SeatAvailable, seats[7].Status)
}

func TestBuildRoomSeatsUnavailableRoom(t *testing.T) {
	seats := BuildRoomSeats(Room{ID: "R1", Rows: 1, Cols: 2, BenchType: 2}, nil)
	require.Len(t, seats, 4)
	for _, s := range seats {
		assert.Equal(t, SeatUnavailable, s.Status)
	}
}

func TestBuildInventoryMalformedGeometry(t *testing.T) {
	inventory := BuildInventory([]Room{
		{ID: "ok", Rows: 1, Cols: 1, BenchType: 2, Available: true},
		{ID: "rows", Rows: 0, Cols: 1, BenchType: 2, Available: true},
		{ID: "cols", Rows: 1, Cols: -3, BenchType: 2, Available: true},
		{ID: "bench", Rows: 1, Cols: 1, BenchType: 0, Available: true},
	}, map[string][]Coordinate{"ok": {{Row: 0, Col: 0, Slot: 1}}})

	assert.Len(t, inventory["ok"], 2)
	assert.Equal(t, SeatUnavailable, inventory["ok"][1].Status)
	for _, id := range []string{"rows", "cols", "bench"} {
		seats, ok := inventory[id]
		assert.True(t, ok, id)
		assert.Empty(t, seats, id)
	}
}

func TestRoomContains(t *testing.T) {
	room := Room{ID: "R", Rows: 2, Cols: 3, BenchType: 2}
	assert.True(t, room.Contains(Coordinate{Row: 1, Col: 2, Slot: 1}))
	assert.False(t, room.Contains(Coordinate{Row: 2, Col: 0, Slot: 0}))
	assert.False(t, room.Contains(Coordinate{Row: 0, Col: 0, Slot: 2}))
	assert.False(t, Room{ID: "bad"}.Contains(Coordinate{}))
}
