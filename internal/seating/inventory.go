package seating

// Room describes the geometry of one exam room: Rows x Cols benches of BenchType seats each.
type Room struct {
	ID        string `json:"roomId"`
	Rows      int    `json:"rows"`
	Cols      int    `json:"cols"`
	BenchType int    `json:"benchType"`
	Available bool   `json:"available"`
}

// Capacity is the number of seats the geometry provides, or 0 for malformed geometry.
func (r Room) Capacity() int {
	if !r.validGeometry() {
		return 0
	}
	return r.Rows * r.Cols * r.BenchType
}

// Contains reports whether the coordinate falls inside the room geometry.
func (r Room) Contains(c Coordinate) bool {
	return r.validGeometry() &&
		c.Row >= 0 && c.Row < r.Rows &&
		c.Col >= 0 && c.Col < r.Cols &&
		c.Slot >= 0 && c.Slot < r.BenchType
}

func (r Room) validGeometry() bool {
	return r.Rows > 0 && r.Cols > 0 && r.BenchType > 0
}

// BuildRoomSeats flattens one room into seats in row, column, slot order. Seat numbers are
// room-local and follow the same order. A seat is available only when the room is available and
// its coordinate is not listed in disabled. Malformed geometry yields no seats.
func BuildRoomSeats(room Room, disabled []Coordinate) []Seat {
	if !room.validGeometry() {
		return []Seat{}
	}
	off := make(map[Coordinate]struct{}, len(disabled))
	for _, c := range disabled {
		off[c] = struct{}{}
	}

	seats := make([]Seat, 0, room.Capacity())
	number := 0
	for row := 0; row < room.Rows; row++ {
		for col := 0; col < room.Cols; col++ {
			for slot := 0; slot < room.BenchType; slot++ {
				status := SeatAvailable
				if _, isOff := off[Coordinate{Row: row, Col: col, Slot: slot}]; isOff || !room.Available {
					status = SeatUnavailable
				}
				seats = append(seats, Seat{
					RoomID:     room.ID,
					Row:        row,
					Col:        col,
					Slot:       slot,
					SeatNumber: number,
					Status:     status,
				})
				number++
			}
		}
	}
	return seats
}

// BuildInventory builds the seat map for every room, keyed by room id.
func BuildInventory(rooms []Room, disabled map[string][]Coordinate) map[string][]Seat {
	inventory := make(map[string][]Seat, len(rooms))
	for _, room := range rooms {
		inventory[room.ID] = BuildRoomSeats(room, disabled[room.ID])
	}
	return inventory
}
