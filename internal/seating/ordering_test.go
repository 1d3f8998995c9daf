package seating

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNaturalLess(t *testing.T) {
	cases := []struct {
		a, b string
		want bool
	}{
		{"C2", "C10", true},
		{"C10", "C2", false},
		{"C1", "C1", false},
		{"10A", "9B", false},
		{"A", "B", true},
		{"C", "C1", true},
		{"C02", "C2", true},
		{"C2", "C02", false},
		{"X99999999999999999999998", "X99999999999999999999999", true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NaturalLess(tc.a, tc.b), "%q < %q", tc.a, tc.b)
	}
}

func TestSortClassIDs(t *testing.T) {
	ids := []string{"C10", "C1", "B", "C2", "C02"}
	SortClassIDs(ids)
	assert.Equal(t, []string{"B", "C1", "C02", "C2", "C10"}, ids)
}

func TestCompareRoomIDs(t *testing.T) {
	assert.Negative(t, CompareRoomIDs("R2", "R10"))
	assert.Negative(t, CompareRoomIDs("Hall", "R1"), "rooms without digits sort as 0")
	assert.Negative(t, CompareRoomIDs("A1", "B1"), "lexical tie break")
	assert.Positive(t, CompareRoomIDs("Lab-3", "R-2"))
	assert.Zero(t, CompareRoomIDs("R7", "R7"))
}

func TestSortSeatsKeepsBenchesContiguous(t *testing.T) {
	seats := append(
		BuildRoomSeats(Room{ID: "R10", Rows: 1, Cols: 2, BenchType: 2, Available: true}, nil),
		BuildRoomSeats(Room{ID: "R2", Rows: 1, Cols: 2, BenchType: 2, Available: true}, nil)...,
	)
	// Reverse to make sure the input order does not matter.
	for i, j := 0, len(seats)-1; i < j; i, j = i+1, j-1 {
		seats[i], seats[j] = seats[j], seats[i]
	}

	SortSeats(seats)

	var got []string
	for _, s := range seats {
		got = append(got, s.Key().String())
	}
	assert.Equal(t, []string{
		"seat0:R2:0-0-0", "seat1:R2:0-0-1", "seat2:R2:0-1-0", "seat3:R2:0-1-1",
		"seat0:R10:0-0-0", "seat1:R10:0-0-1", "seat2:R10:0-1-0", "seat3:R10:0-1-1",
	}, got)
}
