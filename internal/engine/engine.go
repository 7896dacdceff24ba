// internal/engine/engine.go
// Component 4: the static slot list, the per-episode dynamic availability
// pools, and action filtering by hard constraints. Grounded on the
// teacher's repository-container pattern (one owning struct wiring
// several narrowly-scoped collaborators) but the collaborators here are
// the schedule model and the two availability pools instead of SQL
// repositories.
package engine

import (
	"fmt"
	"math/rand"

	"fllc-scheduler/internal/models"
	"fllc-scheduler/internal/schedule"
)

// Slot is the identity of a single cell to fill: (time_slot, round_type,
// location). TeamID is 0 until the cell is assigned.
type Slot struct {
	TimeSlot  models.TimeSlot
	RoundType models.RoundType
	Location  models.Location
	TeamID    int
}

// Engine holds one episode's static slot list, its mutable queue of
// not-yet-filled non-Judging slots, the Practice/Table availability
// pools, and the Schedule those commits land in.
type Engine struct {
	cfg      models.ScheduleConfig
	static   []*Slot
	queue    []*Slot
	practice *pool
	table    *pool
	sched    *schedule.Schedule
}

// Build constructs one episode's state: the full static slot list (seeding
// Judging cells with team ids 1..NumTeams in order), fresh availability
// pools, and the non-Judging queue the controller drives from.
func Build(cfg models.ScheduleConfig, tc models.TimeConfig, sched *schedule.Schedule) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	static := make([]*Slot, 0)
	for _, ts := range tc.JudgingSlots {
		for room := 1; room <= cfg.NumRooms; room++ {
			static = append(static, &Slot{TimeSlot: ts, RoundType: models.Judging, Location: models.NewRoom(room)})
		}
	}
	for _, ts := range tc.PracticeSlots {
		for table := 1; table <= cfg.NumTables; table++ {
			for side := 1; side <= 2; side++ {
				static = append(static, &Slot{TimeSlot: ts, RoundType: models.Practice, Location: models.NewTableSide(table, side)})
			}
		}
	}
	for _, ts := range tc.TableSlots {
		for table := 1; table <= cfg.NumTables; table++ {
			for side := 1; side <= 2; side++ {
				static = append(static, &Slot{TimeSlot: ts, RoundType: models.Table, Location: models.NewTableSide(table, side)})
			}
		}
	}

	e := &Engine{
		cfg:      cfg,
		static:   static,
		practice: newPool(cfg.NumTeams, cfg.Rounds.Practice),
		table:    newPool(cfg.NumTeams, cfg.Rounds.Table),
		sched:    sched,
	}

	if err := e.seedJudging(); err != nil {
		return nil, err
	}

	for _, s := range static {
		if s.RoundType != models.Judging {
			e.queue = append(e.queue, s)
		}
	}

	return e, nil
}

// seedJudging assigns team_id = i to the i-th Judging slot for
// i = 1..NumTeams, committing each via Schedule.Book; Judging slots beyond
// NumTeams (when NumRooms doesn't divide NumTeams evenly) are left empty.
// The learner never sees Judging slots again after this.
func (e *Engine) seedJudging() error {
	i := 0
	for _, s := range e.static {
		if s.RoundType != models.Judging {
			continue
		}
		i++
		if i > e.cfg.NumTeams {
			break
		}
		if err := e.sched.Book(i, models.Judging, s.TimeSlot, s.Location); err != nil {
			return fmt.Errorf("seeding judging: %w", err)
		}
		s.TeamID = i
	}
	return nil
}

// Remaining reports how many non-Judging cells have not yet been popped.
func (e *Engine) Remaining() int {
	return len(e.queue)
}

// PoolsExhausted reports whether both the Practice and Table pools have
// no remaining team copies — the episode loop's second termination
// condition, alongside an empty queue.
func (e *Engine) PoolsExhausted() bool {
	return e.practice.Remaining() == 0 && e.table.Remaining() == 0
}

// PopFront removes and returns the first remaining slot, used by training
// and the optimal phase so both visit cells in the same deterministic order.
func (e *Engine) PopFront() (*Slot, bool) {
	if len(e.queue) == 0 {
		return nil, false
	}
	s := e.queue[0]
	e.queue = e.queue[1:]
	return s, true
}

// PopRandom removes and returns a uniformly random remaining slot, used by
// the benchmark phase to establish a no-learning baseline.
func (e *Engine) PopRandom(rng *rand.Rand) (*Slot, bool) {
	if len(e.queue) == 0 {
		return nil, false
	}
	idx := rng.Intn(len(e.queue))
	s := e.queue[idx]
	e.queue = append(e.queue[:idx], e.queue[idx+1:]...)
	return s, true
}

// PeekFront returns the slot that the next PopFront call would return,
// without removing it. Training uses this to resolve s' for the Q-update's
// max_{a'} Q[(s',a')] bootstrap term one step ahead of actually visiting it.
func (e *Engine) PeekFront() (*Slot, bool) {
	if len(e.queue) == 0 {
		return nil, false
	}
	return e.queue[0], true
}

// Actions computes the legal team ids for slot s: active in the relevant
// pool, not already fully scheduled for this round type, and free at this
// time slot.
func (e *Engine) Actions(s *Slot) []int {
	p := e.poolFor(s.RoundType)
	required := e.requiredFor(s.RoundType)

	eligible := make([]int, 0, len(p.order))
	for _, id := range p.ActiveIDs() {
		if e.sched.TeamIsFullyScheduled(id, s.RoundType, required) {
			continue
		}
		if e.sched.TeamHasTimeConflict(id, s.TimeSlot) {
			continue
		}
		eligible = append(eligible, id)
	}

	if s.Location.Side != 2 {
		return eligible
	}

	partnerLoc := s.Location.Opposite()
	partnerTeam := e.sched.TeamAt(s.TimeSlot, partnerLoc)
	if partnerTeam == 0 {
		// Side-1 partner not yet assigned: no legal action for s.
		return nil
	}

	if len(eligible) == 0 {
		// Dead end: backtrack the side-1 partner.
		_ = e.sched.Unbook(partnerTeam, s.TimeSlot, partnerLoc)
		p.Return(partnerTeam)
		for _, ps := range e.static {
			if ps.RoundType == s.RoundType && ps.TimeSlot == s.TimeSlot && ps.Location == partnerLoc {
				ps.TeamID = 0
				break
			}
		}
		return nil
	}

	return eligible
}

// Commit books teamID into slot s and decrements the corresponding pool.
func (e *Engine) Commit(s *Slot, teamID int) error {
	if err := e.sched.Book(teamID, s.RoundType, s.TimeSlot, s.Location); err != nil {
		return err
	}
	e.poolFor(s.RoundType).Take(teamID)
	s.TeamID = teamID
	return nil
}

// RequiredFor exposes the required-bookings count for a round type, used
// by internal/qlearning's completion-bonus denominator.
func (e *Engine) RequiredFor(rt models.RoundType) int {
	return e.requiredFor(rt)
}

// StaticSlots exposes the full static slot list, including the TeamID each
// cell ended up with (0 if never filled). internal/evaluator reads this
// directly rather than going through Schedule, since its opponent
// derivation is defined over static-list adjacency, not the booking-time
// side pairing.
func (e *Engine) StaticSlots() []*Slot {
	return e.static
}

func (e *Engine) poolFor(rt models.RoundType) *pool {
	if rt == models.Practice {
		return e.practice
	}
	return e.table
}

func (e *Engine) requiredFor(rt models.RoundType) int {
	if rt == models.Practice {
		return e.cfg.Rounds.Practice
	}
	return e.cfg.Rounds.Table
}
