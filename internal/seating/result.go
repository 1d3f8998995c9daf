package seating

import "sort"

// Assignment maps the text form of a SeatKey to the student seated there.
type Assignment map[string]Student

// Result is the outcome of one allocation run.
type Result struct {
	Assignment Assignment     `json:"assignment"`
	Unseated   map[string]int `json:"unseated"`
}

// SeatedByClass counts assigned seats per class.
func (r Result) SeatedByClass() map[string]int {
	counts := make(map[string]int)
	for _, student := range r.Assignment {
		counts[student.ClassID]++
	}
	return counts
}

// TotalUnseated sums unmet demand over all classes.
func (r Result) TotalUnseated() int {
	total := 0
	for _, n := range r.Unseated {
		total += n
	}
	return total
}

// Placement is one assignment entry with its decoded key.
type Placement struct {
	Key     SeatKey
	Student Student
}

// Placements decodes the assignment and returns it in global seat order. Keys that fail to parse
// are skipped.
func (a Assignment) Placements() []Placement {
	out := make([]Placement, 0, len(a))
	for raw, student := range a {
		key, err := ParseSeatKey(raw)
		if err != nil {
			continue
		}
		out = append(out, Placement{Key: key, Student: student})
	}
	sort.SliceStable(out, func(i, j int) bool {
		ki, kj := out[i].Key, out[j].Key
		return seatLess(
			Seat{RoomID: ki.RoomID, SeatNumber: ki.SeatNumber, Row: ki.Row, Col: ki.Col, Slot: ki.Slot},
			Seat{RoomID: kj.RoomID, SeatNumber: kj.SeatNumber, Row: kj.Row, Col: kj.Col, Slot: kj.Slot},
		)
	})
	return out
}
