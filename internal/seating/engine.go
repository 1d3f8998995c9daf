package seating

// classState is the per-class bookkeeping of one allocation run.
type classState struct {
	students []Student
	next     int
	// remaining counts students not yet seated.
	remaining int

	resident      bool
	room          string
	preferredSlot int

	hasBench  bool
	lastBench benchKey
}

// allocation holds everything one Allocate call mutates. It never outlives the call.
type allocation struct {
	seats      []Seat
	order      []string
	states     map[string]*classState
	assignment Assignment
}

// Allocate seats the students of every class into the given rooms.
//
// Seats are visited once, in global order; for each available seat the classes are tried in
// natural id order and the first class whose preferred slot matches takes the seat. A class never
// takes two consecutive seats on the same bench, and it re-resolves its preferred slot each time
// it enters a different room. Unavailable and malformed seats are skipped without touching any
// class state. Seats nobody matches stay empty; there is no second pass.
func Allocate(roomSeats map[string][]Seat, studentsByClass map[string][]Student) Result {
	run := newAllocation(roomSeats, studentsByClass)
	for i := range run.seats {
		run.fill(i)
	}
	return run.result()
}

func newAllocation(roomSeats map[string][]Seat, studentsByClass map[string][]Student) *allocation {
	total := 0
	for _, seats := range roomSeats {
		total += len(seats)
	}
	seats := make([]Seat, 0, total)
	for roomID, list := range roomSeats {
		for _, seat := range list {
			seat.RoomID = roomID
			seats = append(seats, seat)
		}
	}
	SortSeats(seats)
	seats = dropDuplicateSeats(seats)

	order := make([]string, 0, len(studentsByClass))
	states := make(map[string]*classState, len(studentsByClass))
	for classID, students := range studentsByClass {
		order = append(order, classID)
		roster := make([]Student, len(students))
		for i, st := range students {
			if st.ClassID == "" {
				st.ClassID = classID
			}
			roster[i] = st
		}
		states[classID] = &classState{students: roster, remaining: len(roster)}
	}
	SortClassIDs(order)

	return &allocation{
		seats:      seats,
		order:      order,
		states:     states,
		assignment: make(Assignment),
	}
}

// dropDuplicateSeats keeps the first seat, in global order, for each room and coordinate, so a
// physical seat is visited at most once. Malformed seats are left alone.
func dropDuplicateSeats(seats []Seat) []Seat {
	type identity struct {
		room  string
		coord Coordinate
	}
	seen := make(map[identity]struct{}, len(seats))
	out := seats[:0]
	for _, seat := range seats {
		if seat.Slot != InvalidSlot {
			id := identity{room: seat.RoomID, coord: seat.Coordinate()}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
		}
		out = append(out, seat)
	}
	return out
}

func (a *allocation) fill(index int) {
	seat := a.seats[index]
	if !seat.Available() || seat.Slot == InvalidSlot {
		return
	}
	bench := seat.bench()

	for _, classID := range a.order {
		st := a.states[classID]
		if st.remaining == 0 {
			continue
		}
		if st.hasBench && st.lastBench == bench {
			continue
		}
		if !st.resident || st.room != seat.RoomID {
			capacity := a.benchCapacity(index)
			st.preferredSlot = resolvePreferredSlot(classID, seat.RoomID, capacity, a.order, a.states)
			st.room = seat.RoomID
			st.resident = true
		}
		if st.preferredSlot != seat.Slot {
			continue
		}

		a.assignment[seat.Key().String()] = st.students[st.next]
		st.next++
		st.remaining--
		st.lastBench = bench
		st.hasBench = true
		return
	}
}

// benchCapacity scans forward from index while room and bench stay the same and returns the
// highest slot index seen plus one.
func (a *allocation) benchCapacity(index int) int {
	bench := a.seats[index].bench()
	highest := -1
	for k := index; k < len(a.seats); k++ {
		if a.seats[k].bench() != bench {
			break
		}
		if slot := a.seats[k].Slot; slot > highest {
			highest = slot
		}
	}
	return highest + 1
}

func (a *allocation) result() Result {
	unseated := make(map[string]int)
	for _, classID := range a.order {
		if remaining := a.states[classID].remaining; remaining > 0 {
			unseated[classID] = remaining
		}
	}
	return Result{Assignment: a.assignment, Unseated: unseated}
}
