package seating

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roster(classID string, n int) []Student {
	students := make([]Student, n)
	for i := range students {
		students[i] = Student{StudentID: fmt.Sprintf("S%d", i+1), ClassID: classID}
	}
	return students
}

func singleRoom(room Room, disabled ...Coordinate) map[string][]Seat {
	return map[string][]Seat{room.ID: BuildRoomSeats(room, disabled)}
}

func TestAllocateTwoClassesOnWideBench(t *testing.T) {
	seats := singleRoom(Room{ID: "R", Rows: 1, Cols: 1, BenchType: 4, Available: true})
	classes := map[string][]Student{"C1": roster("C1", 2), "C2": roster("C2", 2)}

	result := Allocate(seats, classes)

	assert.Equal(t, Assignment{
		"seat0:R:0-0-0": {StudentID: "S1", ClassID: "C1"},
		"seat2:R:0-0-2": {StudentID: "S1", ClassID: "C2"},
	}, result.Assignment)
	assert.Equal(t, map[string]int{"C1": 1, "C2": 1}, result.Unseated)
}

func TestAllocateSingleClassTakesOneSeatPerBench(t *testing.T) {
	seats := singleRoom(Room{ID: "R", Rows: 1, Cols: 1, BenchType: 2, Available: true})

	result := Allocate(seats, map[string][]Student{"C1": roster("C1", 2)})

	assert.Equal(t, Assignment{"seat0:R:0-0-0": {StudentID: "S1", ClassID: "C1"}}, result.Assignment)
	assert.Equal(t, map[string]int{"C1": 1}, result.Unseated)
}

func TestAllocateSingleClassMovesToNextBench(t *testing.T) {
	seats := singleRoom(Room{ID: "R", Rows: 1, Cols: 2, BenchType: 2, Available: true})

	result := Allocate(seats, map[string][]Student{"C1": roster("C1", 2)})

	assert.Equal(t, Assignment{
		"seat0:R:0-0-0": {StudentID: "S1", ClassID: "C1"},
		"seat2:R:0-1-0": {StudentID: "S2", ClassID: "C1"},
	}, result.Assignment)
	assert.Empty(t, result.Unseated)
}

func TestAllocateRecomputesSlotInNextRoom(t *testing.T) {
	seats := map[string][]Seat{
		"R1": BuildRoomSeats(Room{ID: "R1", Rows: 1, Cols: 1, BenchType: 3, Available: true}, []Coordinate{{Row: 0, Col: 0, Slot: 2}}),
		"R2": BuildRoomSeats(Room{ID: "R2", Rows: 1, Cols: 1, BenchType: 2, Available: true}, nil),
	}
	classes := map[string][]Student{"C1": roster("C1", 3), "C2": roster("C2", 1)}

	result := Allocate(seats, classes)

	assert.Equal(t, Assignment{
		"seat0:R1:0-0-0": {StudentID: "S1", ClassID: "C1"},
		"seat0:R2:0-0-0": {StudentID: "S2", ClassID: "C1"},
		"seat1:R2:0-0-1": {StudentID: "S1", ClassID: "C2"},
	}, result.Assignment)
	assert.Equal(t, map[string]int{"C1": 1}, result.Unseated)
	for key, student := range result.Assignment {
		if student.ClassID == "C2" {
			parsed, err := ParseSeatKey(key)
			require.NoError(t, err)
			assert.Equal(t, "R2", parsed.RoomID)
		}
	}
}

func TestAllocateThreeClassesTakeDistinctSlots(t *testing.T) {
	seats := singleRoom(Room{ID: "R1", Rows: 1, Cols: 2, BenchType: 3, Available: true})
	classes := map[string][]Student{"A": roster("A", 2), "B": roster("B", 2), "C": roster("C", 2)}

	result := Allocate(seats, classes)

	assert.Equal(t, Assignment{
		"seat0:R1:0-0-0": {StudentID: "S1", ClassID: "A"},
		"seat1:R1:0-0-1": {StudentID: "S1", ClassID: "B"},
		"seat2:R1:0-0-2": {StudentID: "S1", ClassID: "C"},
		"seat3:R1:0-1-0": {StudentID: "S2", ClassID: "A"},
		"seat4:R1:0-1-1": {StudentID: "S2", ClassID: "B"},
		"seat5:R1:0-1-2": {StudentID: "S2", ClassID: "C"},
	}, result.Assignment)
	assert.Empty(t, result.Unseated)
}

func TestAllocateIgnoresExhaustedClassReservations(t *testing.T) {
	seats := singleRoom(Room{ID: "R", Rows: 1, Cols: 1, BenchType: 2, Available: true})
	classes := map[string][]Student{"A": roster("A", 1), "B": roster("B", 1), "C": roster("C", 1)}

	result := Allocate(seats, classes)

	// A is exhausted after the first seat, so B reclaims slot 0 and misses slot 1; C takes slot 1.
	assert.Equal(t, Assignment{
		"seat0:R:0-0-0": {StudentID: "S1", ClassID: "A"},
		"seat1:R:0-0-1": {StudentID: "S1", ClassID: "C"},
	}, result.Assignment)
	assert.Equal(t, map[string]int{"B": 1}, result.Unseated)
}

func TestAllocateClassPriorityIsNatural(t *testing.T) {
	seats := singleRoom(Room{ID: "R", Rows: 1, Cols: 1, BenchType: 1, Available: true})
	classes := map[string][]Student{"C10": roster("C10", 1), "C2": roster("C2", 1)}

	result := Allocate(seats, classes)

	assert.Equal(t, Assignment{"seat0:R:0-0-0": {StudentID: "S1", ClassID: "C2"}}, result.Assignment)
	assert.Equal(t, map[string]int{"C10": 1}, result.Unseated)
}

func TestAllocateSkipsUnavailableSeatsAndRooms(t *testing.T) {
	seats := map[string][]Seat{
		"R1": BuildRoomSeats(Room{ID: "R1", Rows: 2, Cols: 2, BenchType: 2, Available: false}, nil),
		"R2": BuildRoomSeats(Room{ID: "R2", Rows: 1, Cols: 2, BenchType: 2, Available: true}, []Coordinate{{Row: 0, Col: 0, Slot: 0}}),
	}

	result := Allocate(seats, map[string][]Student{"C1": roster("C1", 3)})

	assert.Equal(t, Assignment{"seat2:R2:0-1-0": {StudentID: "S1", ClassID: "C1"}}, result.Assignment)
	assert.Equal(t, map[string]int{"C1": 2}, result.Unseated)
}

func TestAllocateMalformedCoordinateNeverMatches(t *testing.T) {
	seats := map[string][]Seat{
		"R": {
			SeatFromCoordinate("R", 0, "0-0-x", SeatAvailable),
			SeatFromCoordinate("R", 1, "0-1-0", SeatAvailable),
		},
	}

	result := Allocate(seats, map[string][]Student{"C1": roster("C1", 2)})

	assert.Equal(t, Assignment{"seat1:R:0-1-0": {StudentID: "S1", ClassID: "C1"}}, result.Assignment)
	assert.Equal(t, map[string]int{"C1": 1}, result.Unseated)

	// A malformed seat ahead of a wide bench must not settle the classes' slots.
	seats = map[string][]Seat{
		"R": {
			SeatFromCoordinate("R", 0, "0-0-x", SeatAvailable),
			SeatFromCoordinate("R", 1, "0-0-0", SeatAvailable),
			SeatFromCoordinate("R", 2, "0-0-1", SeatAvailable),
			SeatFromCoordinate("R", 3, "0-0-2", SeatAvailable),
			SeatFromCoordinate("R", 4, "0-0-3", SeatAvailable),
		},
	}

	result = Allocate(seats, map[string][]Student{"C1": roster("C1", 1), "C2": roster("C2", 1)})

	assert.Equal(t, Assignment{
		"seat1:R:0-0-0": {StudentID: "S1", ClassID: "C1"},
		"seat3:R:0-0-2": {StudentID: "S1", ClassID: "C2"},
	}, result.Assignment)
	assert.Empty(t, result.Unseated)
}

func TestAllocateDuplicateSeatIsVisitedOnce(t *testing.T) {
	cases := []struct {
		name  string
		seats []Seat
	}{
		{
			name: "same seat number",
			seats: []Seat{
				SeatFromCoordinate("R", 0, "0-0-0", SeatAvailable),
				SeatFromCoordinate("R", 0, "0-0-0", SeatAvailable),
			},
		},
		{
			name: "different seat numbers",
			seats: []Seat{
				SeatFromCoordinate("R", 5, "0-0-0", SeatAvailable),
				SeatFromCoordinate("R", 0, "0-0-0", SeatAvailable),
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			classes := map[string][]Student{"A": roster("A", 1), "B": roster("B", 1)}

			result := Allocate(map[string][]Seat{"R": tc.seats}, classes)

			assert.Equal(t, Assignment{"seat0:R:0-0-0": {StudentID: "S1", ClassID: "A"}}, result.Assignment)
			assert.Equal(t, map[string]int{"B": 1}, result.Unseated)
			seated := result.SeatedByClass()
			for classID, students := range classes {
				assert.Equal(t, len(students), seated[classID]+result.Unseated[classID], "conservation for %s", classID)
			}
		})
	}
}

func TestAllocateDegenerateInputs(t *testing.T) {
	cases := []struct {
		name    string
		seats   map[string][]Seat
		classes map[string][]Student
		want    map[string]int
	}{
		{name: "nil inputs", want: map[string]int{}},
		{name: "no rooms", classes: map[string][]Student{"C1": roster("C1", 2)}, want: map[string]int{"C1": 2}},
		{name: "empty room", seats: map[string][]Seat{"R": {}}, classes: map[string][]Student{"C1": roster("C1", 1)}, want: map[string]int{"C1": 1}},
		{name: "malformed room", seats: singleRoom(Room{ID: "R", Rows: 0, Cols: 3, BenchType: 2, Available: true}), classes: map[string][]Student{"C1": roster("C1", 1)}, want: map[string]int{"C1": 1}},
		{name: "empty class", seats: singleRoom(Room{ID: "R", Rows: 1, Cols: 1, BenchType: 2, Available: true}), classes: map[string][]Student{"C1": nil}, want: map[string]int{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := Allocate(tc.seats, tc.classes)
			require.NotNil(t, result.Assignment)
			require.NotNil(t, result.Unseated)
			assert.Empty(t, result.Assignment)
			assert.Equal(t, tc.want, result.Unseated)
		})
	}
}

func TestAllocateFillsMissingClassID(t *testing.T) {
	seats := singleRoom(Room{ID: "R", Rows: 1, Cols: 1, BenchType: 1, Available: true})

	result := Allocate(seats, map[string][]Student{"C1": {{StudentID: "X"}}})

	assert.Equal(t, Student{StudentID: "X", ClassID: "C1"}, result.Assignment["seat0:R:0-0-0"])
}

func TestAllocateInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for run := 0; run < 50; run++ {
		seats, classes := randomInputs(rng)

		result := Allocate(seats, classes)
		again := Allocate(seats, classes)
		require.Equal(t, result, again, "allocation must be deterministic")

		seated := result.SeatedByClass()
		for classID, students := range classes {
			assert.Equal(t, len(students), seated[classID]+result.Unseated[classID], "conservation for %s", classID)
		}

		type classBench struct {
			class string
			room  string
			bench string
		}
		seen := make(map[classBench]bool)
		studentSeen := make(map[Student]bool)
		for key, student := range result.Assignment {
			parsed, err := ParseSeatKey(key)
			require.NoError(t, err)
			cb := classBench{class: student.ClassID, room: parsed.RoomID, bench: parsed.BenchLabel()}
			assert.False(t, seen[cb], "class %s seated twice on bench %s/%s", cb.class, cb.room, cb.bench)
			seen[cb] = true
			assert.False(t, studentSeen[student], "student %v seated twice", student)
			studentSeen[student] = true
		}

		// Students are consumed in roster order, so the seated ones form a prefix.
		for classID, students := range classes {
			for i, st := range students {
				assert.Equal(t, i < seated[classID], studentSeen[st], "roster prefix for %s", classID)
			}
		}
	}
}

func randomInputs(rng *rand.Rand) (map[string][]Seat, map[string][]Student) {
	seats := make(map[string][]Seat)
	for r := 0; r < 1+rng.Intn(3); r++ {
		room := Room{
			ID:        fmt.Sprintf("R%d", 100+r*7),
			Rows:      1 + rng.Intn(4),
			Cols:      1 + rng.Intn(4),
			BenchType: 1 + rng.Intn(4),
			Available: rng.Intn(6) > 0,
		}
		var disabled []Coordinate
		for i := 0; i < rng.Intn(4); i++ {
			disabled = append(disabled, Coordinate{Row: rng.Intn(room.Rows), Col: rng.Intn(room.Cols), Slot: rng.Intn(room.BenchType)})
		}
		seats[room.ID] = BuildRoomSeats(room, disabled)
	}
	classes := make(map[string][]Student)
	for c := 0; c < 1+rng.Intn(4); c++ {
		id := fmt.Sprintf("C%d", c+1)
		classes[id] = roster(id, rng.Intn(12))
	}
	return seats, classes
}
