// internal/models/location.go
// Location is a tagged variant: Room(id) has no side, Table(id, side) always
// has a side in {1,2}. Two Locations with the same table id and sides 1/2
// form a matched pair. The "Room 1" / "Table A1" capitalized strings are
// produced only by String, for serialization; no field stores them.

package models

import "fmt"

// Location identifies a single judging room or one side of a competition
// table.
type Location struct {
	Type LocationType
	ID   int // room number or table number, both 1-based
	Side int // 0 for rooms; 1 or 2 for tables
}

// NewRoom builds a judging-room location.
func NewRoom(id int) Location {
	return Location{Type: LocationRoom, ID: id}
}

// NewTableSide builds one side of a competition table.
func NewTableSide(tableID, side int) Location {
	if side != 1 && side != 2 {
		panic(fmt.Sprintf("invalid table side %d", side))
	}
	return Location{Type: LocationTable, ID: tableID, Side: side}
}

// IsTable reports whether this location has a paired opposite side.
func (l Location) IsTable() bool {
	return l.Type == LocationTable
}

// Opposite returns the partner Location at the same table, same time slot.
// Only valid for table locations.
func (l Location) Opposite() Location {
	if !l.IsTable() {
		panic("Opposite called on a non-table location")
	}
	other := 1
	if l.Side == 1 {
		other = 2
	}
	return Location{Type: LocationTable, ID: l.ID, Side: other}
}

// Key returns a value usable as a map key uniquely identifying this
// location (rooms and tables never collide because their (Type,ID) pairs
// live in disjoint namespaces by construction).
func (l Location) Key() string {
	return fmt.Sprintf("%s:%d:%d", l.Type, l.ID, l.Side)
}

func (l Location) String() string {
	if l.Type == LocationRoom {
		return fmt.Sprintf("Room %d", l.ID)
	}
	return fmt.Sprintf("Table %s%d", tableLetter(l.ID), l.Side)
}

// tableLetter renders a 1-based table id as A, B, C, ...
func tableLetter(id int) string {
	if id < 1 {
		return "?"
	}
	letters := ""
	n := id
	for n > 0 {
		n--
		letters = string(rune('A'+n%26)) + letters
		n /= 26
	}
	return letters
}
