package engine

import (
	"testing"

	"fllc-scheduler/internal/models"
	"fllc-scheduler/internal/schedule"
)

func mustSlot(t *testing.T, start, end string) models.TimeSlot {
	t.Helper()
	ts, err := models.NewTimeSlot(start, end)
	if err != nil {
		t.Fatalf("NewTimeSlot: %v", err)
	}
	return ts
}

// scenarioBConfig sets up 4 teams, 2 tables, one Practice and one Table
// round per team, judging given exactly one room but zero judging slots
// (so judging never gets in the way of the opponent-pairing assertions
// under test).
func scenarioBConfig(t *testing.T) (models.ScheduleConfig, models.TimeConfig) {
	t.Helper()
	sc := models.ScheduleConfig{
		NumTeams:  4,
		NumRooms:  1,
		NumTables: 2,
		Rounds:    models.RoundCounts{Judging: 1, Practice: 1, Table: 1},
	}
	tc := models.TimeConfig{
		PracticeSlots: []models.TimeSlot{mustSlot(t, "09:00", "09:30")},
		TableSlots:    []models.TimeSlot{mustSlot(t, "10:00", "10:30")},
	}
	return sc, tc
}

func TestBuildSeedsJudgingInOrder(t *testing.T) {
	sc, tc := scenarioBConfig(t)
	tc.JudgingSlots = []models.TimeSlot{mustSlot(t, "08:00", "08:15"), mustSlot(t, "08:15", "08:30")}
	sched := schedule.New([]int{1, 2, 3, 4})
	e, err := Build(sc, tc, sched)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := sched.TeamAt(tc.JudgingSlots[0], models.NewRoom(1)); got != 1 {
		t.Fatalf("expected team 1 seeded into first judging slot, got %d", got)
	}
	if got := e.Remaining(); got == 0 {
		t.Fatal("expected non-judging queue to be non-empty")
	}
}

func TestActionsFiltersFullyScheduledAndConflicting(t *testing.T) {
	sc, tc := scenarioBConfig(t)
	sched := schedule.New([]int{1, 2, 3, 4})
	e, err := Build(sc, tc, sched)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var practiceSlot *Slot
	for _, s := range e.queue {
		if s.RoundType == models.Practice && s.Location.Side == 1 {
			practiceSlot = s
			break
		}
	}
	if practiceSlot == nil {
		t.Fatal("expected a practice side-1 slot in queue")
	}

	actions := e.Actions(practiceSlot)
	if len(actions) != 4 {
		t.Fatalf("expected all 4 teams eligible before any bookings, got %v", actions)
	}

	if err := e.Commit(practiceSlot, 1); err != nil {
		t.Fatalf("commit: %v", err)
	}
	// team 1 now holds its one required Practice round; it must no longer
	// appear as an eligible action for another Practice slot.
	actionsAfter := e.Actions(practiceSlot)
	for _, a := range actionsAfter {
		if a == 1 {
			t.Fatal("fully-scheduled team must be filtered out of further actions")
		}
	}
}

// TestSide2Backtrack checks that a side-2 slot with no legal action
// unbooks its side-1 partner and returns its team to the pool, leaving
// both cells empty rather than leaving an inconsistent schedule.
func TestSide2Backtrack(t *testing.T) {
	sc := models.ScheduleConfig{
		NumTeams:  2,
		NumRooms:  1,
		NumTables: 1,
		Rounds:    models.RoundCounts{Judging: 1, Practice: 1, Table: 1},
	}
	overlapping := mustSlot(t, "09:00", "09:30")
	tc := models.TimeConfig{
		PracticeSlots: []models.TimeSlot{overlapping},
	}
	sched := schedule.New([]int{1, 2})
	e, err := Build(sc, tc, sched)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var side1, side2 *Slot
	for _, s := range e.queue {
		if s.Location.Side == 1 {
			side1 = s
		} else if s.Location.Side == 2 {
			side2 = s
		}
	}
	if side1 == nil || side2 == nil {
		t.Fatal("expected one side-1 and one side-2 practice slot")
	}

	// Book team 2 into an unrelated conflicting booking first, so that once
	// team 1 occupies side 1, team 2 is the only remaining candidate for
	// side 2 and is already time-conflicted there, forcing a dead end.
	if err := sched.Book(2, models.Table, overlapping, models.NewRoom(1)); err != nil {
		t.Fatalf("pre-booking team 2: %v", err)
	}

	if err := e.Commit(side1, 1); err != nil {
		t.Fatalf("commit side1: %v", err)
	}

	actions := e.Actions(side2)
	if len(actions) != 0 {
		t.Fatalf("expected no legal action at the dead-end side-2 slot, got %v", actions)
	}
	if got := sched.TeamAt(overlapping, side1.Location); got != 0 {
		t.Fatalf("expected side-1 partner unbooked after backtrack, got team %d", got)
	}
	if e.practice.counts[1] != 1 {
		t.Fatalf("expected team 1's practice copy returned to the pool, got count %d", e.practice.counts[1])
	}
	if side1.TeamID != 0 {
		t.Fatalf("expected side-1 static cell empty after backtrack, got team %d", side1.TeamID)
	}
}
