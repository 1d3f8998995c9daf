package models

// RosterEntry is one actively enrolled student as seen by the seating allocator.
type RosterEntry struct {
	ClassName string `db:"class_name" json:"className"`
	NIS       string `db:"nis" json:"nis"`
	FullName  string `db:"full_name" json:"fullName"`
}
