// internal/models/config.go
// Typed configuration records: a settings bag keyed by string invites
// typos and silent no-ops, so both structs below enumerate exactly the
// recognized options as fields, nothing more.
package models

import "fmt"

// RoundCounts is how many Bookings of each round type a single team must
// end up with.
type RoundCounts struct {
	Judging  int
	Practice int
	Table    int
}

// Total returns the sum of all per-type round counts (max_rounds in the
// reward calculator).
func (r RoundCounts) Total() int {
	return r.Judging + r.Practice + r.Table
}

// ScheduleConfig is the tournament's cardinalities: team/room/table counts
// and rounds required per team per round type.
type ScheduleConfig struct {
	NumTeams  int
	NumRooms  int
	NumTables int
	Rounds    RoundCounts
}

// Validate rejects cardinalities that can never produce a legal schedule.
func (c ScheduleConfig) Validate() error {
	if c.NumTeams < 2 {
		return fmt.Errorf("num_teams must be >= 2, got %d", c.NumTeams)
	}
	if c.NumRooms < 1 {
		return fmt.Errorf("num_rooms must be >= 1, got %d", c.NumRooms)
	}
	if c.NumTables < 1 {
		return fmt.Errorf("num_tables must be >= 1, got %d", c.NumTables)
	}
	if c.Rounds.Judging != 1 {
		return fmt.Errorf("rounds.judging must be exactly 1, got %d", c.Rounds.Judging)
	}
	if c.Rounds.Practice < 1 {
		return fmt.Errorf("rounds.practice must be >= 1, got %d", c.Rounds.Practice)
	}
	if c.Rounds.Table < 1 {
		return fmt.Errorf("rounds.table must be >= 1, got %d", c.Rounds.Table)
	}
	return nil
}

// TimeConfig is the five wall-clock anchors that bound each round type's
// window, plus (once built by internal/timegrid) the derived per-type
// slot lists.
type TimeConfig struct {
	JudgingStart  string
	PracticeStart string
	BreakStart    string // a.k.a. practice_stop
	TableStart    string
	TableStop     string

	// Derived, populated by internal/timegrid.Build.
	JudgingSlots  []TimeSlot
	PracticeSlots []TimeSlot
	TableSlots    []TimeSlot
}

// Validate checks the five anchors are well-formed "HH:MM" values, that
// practice_start is before break_start, and that table_start is before
// table_stop; no other ordering between anchors is checked.
// Zero divisors and other slot-calculation errors are surfaced by
// internal/timegrid.Build itself.
func (c TimeConfig) Validate() error {
	anchors := []struct {
		name  string
		value string
	}{
		{"judging_start", c.JudgingStart},
		{"practice_start", c.PracticeStart},
		{"break_start", c.BreakStart},
		{"table_start", c.TableStart},
		{"table_stop", c.TableStop},
	}
	parsed := make([]int, len(anchors))
	for i, a := range anchors {
		t, err := ParseClock(a.value)
		if err != nil {
			return fmt.Errorf("%s: %w", a.name, err)
		}
		parsed[i] = t.Hour()*60 + t.Minute()
	}
	if parsed[1] >= parsed[2] { // practice_start >= break_start
		return fmt.Errorf("practice_start must be before break_start")
	}
	if parsed[3] >= parsed[4] { // table_start >= table_stop
		return fmt.Errorf("table_start must be before table_stop")
	}
	return nil
}
