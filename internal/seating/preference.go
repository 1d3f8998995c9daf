package seating

// resolvePreferredSlot picks the bench slot a class reserves for its stay in roomID.
//
// With exactly two classes and benches wider than two seats the classes take slots 0 and 2.
// Otherwise the class takes the lowest slot below capacity not held by another class that is
// resident in the room and still has students to seat. When every slot is held the class falls
// back to slot 0 and shares it.
func resolvePreferredSlot(classID, roomID string, capacity int, order []string, states map[string]*classState) int {
	if len(order) == 2 && capacity > 2 {
		if classID == order[0] {
			return 0
		}
		return 2
	}

	reserved := make(map[int]struct{}, len(order))
	for _, other := range order {
		if other == classID {
			continue
		}
		st := states[other]
		if st == nil || !st.resident || st.room != roomID || st.remaining == 0 {
			continue
		}
		reserved[st.preferredSlot] = struct{}{}
	}

	for slot := 0; slot < capacity; slot++ {
		if _, taken := reserved[slot]; !taken {
			return slot
		}
	}
	return 0
}
