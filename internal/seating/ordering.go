package seating

import (
	"sort"
	"strings"
)

// NaturalLess orders strings with embedded numbers by numeric value ("C2" < "C10").
// The comparison is byte based and independent of locale; strings that compare equal
// numerically ("C02" and "C2") fall back to plain byte order.
func NaturalLess(a, b string) bool {
	if c := naturalCompare(a, b); c != 0 {
		return c < 0
	}
	return a < b
}

// SortClassIDs sorts class ids in allocation priority order.
func SortClassIDs(ids []string) {
	sort.SliceStable(ids, func(i, j int) bool {
		return NaturalLess(ids[i], ids[j])
	})
}

// CompareRoomIDs orders rooms by the number formed from the digits embedded in the id
// (no digits counts as 0) and then lexically.
func CompareRoomIDs(a, b string) int {
	if c := compareDigitRuns(roomDigits(a), roomDigits(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// SortSeats puts seats in global allocation order: room, seat number, coordinate. With seat
// numbers laid out row, column, slot this keeps every room and every bench contiguous, and the
// slots of a bench ascending.
func SortSeats(seats []Seat) {
	sort.SliceStable(seats, func(i, j int) bool {
		return seatLess(seats[i], seats[j])
	})
}

func seatLess(a, b Seat) bool {
	if c := CompareRoomIDs(a.RoomID, b.RoomID); c != 0 {
		return c < 0
	}
	if a.SeatNumber != b.SeatNumber {
		return a.SeatNumber < b.SeatNumber
	}
	return a.Coordinate().String() < b.Coordinate().String()
}

func roomDigits(id string) string {
	var b strings.Builder
	for i := 0; i < len(id); i++ {
		if isDigit(id[i]) {
			b.WriteByte(id[i])
		}
	}
	return b.String()
}

func naturalCompare(a, b string) int {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if isDigit(a[i]) && isDigit(b[j]) {
			si := i
			for i < len(a) && isDigit(a[i]) {
				i++
			}
			sj := j
			for j < len(b) && isDigit(b[j]) {
				j++
			}
			if c := compareDigitRuns(a[si:i], b[sj:j]); c != 0 {
				return c
			}
			continue
		}
		if a[i] != b[j] {
			if a[i] < b[j] {
				return -1
			}
			return 1
		}
		i++
		j++
	}
	switch {
	case len(a)-i < len(b)-j:
		return -1
	case len(a)-i > len(b)-j:
		return 1
	}
	return 0
}

// compareDigitRuns compares two decimal digit strings by value without converting them, so
// arbitrarily long runs never overflow. Empty runs count as zero.
func compareDigitRuns(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
