// internal/schedule/schedule.go
// Component 3: the Schedule model. Owns per-team booking lists and the
// (time_slot, location) -> team_id reverse lookup, and is the only code
// allowed to mutate a Booking — callers commit through Book and never
// touch a Team's Bookings slice directly, which is what keeps the
// per-team lists and the reverse lookup consistent by construction.
//
// Grounded on the teacher's repository layer (internal/repositories):
// Schedule plays the same "owns the data, exposes narrow verbs" role that
// MatchRepository plays there, just in-memory instead of backed by SQL.
package schedule

import (
	"fmt"

	"fllc-scheduler/internal/models"
)

// reverseKey identifies a single (time_slot, location) cell.
type reverseKey struct {
	slot models.TimeSlot
	loc  string // models.Location.Key()
}

// Schedule holds every team's bookings for one episode, plus the reverse
// lookup used to resolve opponent pairing and backtracking.
type Schedule struct {
	teams   map[int]*models.Team
	reverse map[reverseKey]int // team id, 0 meaning unoccupied/absent
}

// New creates an empty Schedule for the given team ids.
func New(teamIDs []int) *Schedule {
	s := &Schedule{
		teams:   make(map[int]*models.Team, len(teamIDs)),
		reverse: make(map[reverseKey]int),
	}
	for _, id := range teamIDs {
		s.teams[id] = models.NewTeam(id)
	}
	return s
}

// Team returns the team record for id, or nil if unknown.
func (s *Schedule) Team(id int) *models.Team {
	return s.teams[id]
}

// Teams returns every team record, in ascending id order.
func (s *Schedule) Teams() []*models.Team {
	ids := make([]int, 0, len(s.teams))
	for id := range s.teams {
		ids = append(ids, id)
	}
	sortInts(ids)
	out := make([]*models.Team, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.teams[id])
	}
	return out
}

// Book appends a Booking for teamID at (roundType, slot, loc), updates the
// reverse lookup, and — when loc has a side — probes the opposite side at
// the same slot; if that side is already occupied, sets OpponentID on both
// sides' most recent Booking at that cell.
func (s *Schedule) Book(teamID int, roundType models.RoundType, slot models.TimeSlot, loc models.Location) error {
	team, ok := s.teams[teamID]
	if !ok {
		return fmt.Errorf("unknown team id %d", teamID)
	}

	key := reverseKey{slot: slot, loc: loc.Key()}
	if existing, occupied := s.reverse[key]; occupied {
		return fmt.Errorf("cell (%s, %s) already booked to team %d", slot.Start, loc, existing)
	}

	booking := models.Booking{RoundType: roundType, Location: loc, TimeSlot: slot}
	team.Bookings = append(team.Bookings, booking)
	s.reverse[key] = teamID

	if loc.IsTable() {
		oppKey := reverseKey{slot: slot, loc: loc.Opposite().Key()}
		if oppTeamID, present := s.reverse[oppKey]; present && oppTeamID != teamID {
			s.setOpponent(teamID, slot, loc, oppTeamID)
			s.setOpponent(oppTeamID, slot, loc.Opposite(), teamID)
		}
	}

	return nil
}

// setOpponent records opponentID on the most recent booking of `of` at
// (slot, loc).
func (s *Schedule) setOpponent(of int, slot models.TimeSlot, loc models.Location, opponentID int) {
	team := s.teams[of]
	for i := len(team.Bookings) - 1; i >= 0; i-- {
		b := &team.Bookings[i]
		if b.TimeSlot == slot && b.Location == loc {
			b.OpponentID = opponentID
			return
		}
	}
}

// Unbook removes the single booking teamID holds at (slot, loc) — used
// only by the side-2 backtrack in internal/engine. It also clears the
// opponent link on the partner side, if one had been set, and frees the
// reverse-lookup cell.
func (s *Schedule) Unbook(teamID int, slot models.TimeSlot, loc models.Location) error {
	team, ok := s.teams[teamID]
	if !ok {
		return fmt.Errorf("unknown team id %d", teamID)
	}

	idx := -1
	for i, b := range team.Bookings {
		if b.TimeSlot == slot && b.Location == loc {
			idx = i
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("team %d has no booking at (%s, %s)", teamID, slot.Start, loc)
	}

	booking := team.Bookings[idx]
	team.Bookings = append(team.Bookings[:idx], team.Bookings[idx+1:]...)
	delete(s.reverse, reverseKey{slot: slot, loc: loc.Key()})

	if booking.HasOpponent() {
		s.clearOpponentLink(booking.OpponentID, slot, loc.Opposite())
	}

	return nil
}

func (s *Schedule) clearOpponentLink(of int, slot models.TimeSlot, loc models.Location) {
	team, ok := s.teams[of]
	if !ok {
		return
	}
	for i := range team.Bookings {
		b := &team.Bookings[i]
		if b.TimeSlot == slot && b.Location == loc {
			b.OpponentID = 0
			return
		}
	}
}

// TeamAt returns the team id booked into (slot, loc), or 0 if the cell is
// empty. This reverse lookup must stay consistent with the per-team lists
// at all times.
func (s *Schedule) TeamAt(slot models.TimeSlot, loc models.Location) int {
	return s.reverse[reverseKey{slot: slot, loc: loc.Key()}]
}

// TeamHasTimeConflict reports whether teamID already holds a booking
// overlapping slot.
func (s *Schedule) TeamHasTimeConflict(teamID int, slot models.TimeSlot) bool {
	team, ok := s.teams[teamID]
	if !ok {
		return false
	}
	return team.HasTimeConflict(slot)
}

// TeamIsFullyScheduled reports whether teamID already holds `required`
// bookings of roundType.
func (s *Schedule) TeamIsFullyScheduled(teamID int, roundType models.RoundType, required int) bool {
	team, ok := s.teams[teamID]
	if !ok {
		return false
	}
	return team.IsFullyScheduled(roundType, required)
}

func sortInts(xs []int) {
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j-1] > xs[j]; j-- {
			xs[j-1], xs[j] = xs[j], xs[j-1]
		}
	}
}
