// internal/models/round.go
// Closed enumerations for round and location kinds.

package models

// RoundType identifies one of the three fixed kinds of tournament rounds.
type RoundType string

const (
	Judging  RoundType = "Judging"
	Practice RoundType = "Practice"
	Table    RoundType = "Table"
)

// LocationType identifies the kind of physical place a round occupies.
type LocationType string

const (
	LocationRoom  LocationType = "Room"
	LocationTable LocationType = "Table"
)
