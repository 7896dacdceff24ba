// internal/qlearning/qtable.go
// The Q-table: a mapping from (Slot, team_id) to a real-valued Q. Keyed by
// value (not by *engine.Slot pointer) so the same cell, regenerated fresh
// every episode, resolves to the same Q-table entry across the whole run
// — the Q-table is the one piece of state that persists across episodes.
package qlearning

import (
	"fllc-scheduler/internal/engine"
	"fllc-scheduler/internal/models"
)

// StateKey identifies a Slot for Q-table lookup purposes, independent of
// which episode's *engine.Slot instance produced it. Comparable (every
// field is itself comparable), so it is safe to use as a map key.
type StateKey struct {
	Start     string
	End       string
	RoundType models.RoundType
	Location  models.Location
}

func stateKeyFor(s *engine.Slot) StateKey {
	return StateKey{
		Start:     s.TimeSlot.Start,
		End:       s.TimeSlot.End,
		RoundType: s.RoundType,
		Location:  s.Location,
	}
}

// qTable maps StateKey -> team id -> Q value.
type qTable map[StateKey]map[int]float64

func newQTable() qTable {
	return make(qTable)
}

func (q qTable) get(key StateKey, team int, def float64) float64 {
	if byTeam, ok := q[key]; ok {
		if v, ok := byTeam[team]; ok {
			return v
		}
	}
	return def
}

func (q qTable) set(key StateKey, team int, v float64) {
	byTeam, ok := q[key]
	if !ok {
		byTeam = make(map[int]float64)
		q[key] = byTeam
	}
	byTeam[team] = v
}

// size returns the total number of (state, team) entries recorded.
func (q qTable) size() int {
	n := 0
	for _, byTeam := range q {
		n += len(byTeam)
	}
	return n
}

// Entry is one exported row of the final Q-table, used by
// internal/exporter to write q_table.csv.
type Entry struct {
	Slot   StateKey
	TeamID int
	QValue float64
}
