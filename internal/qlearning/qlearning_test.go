package qlearning

import (
	"math"
	"testing"

	"fllc-scheduler/internal/engine"
	"fllc-scheduler/internal/models"
	"fllc-scheduler/internal/reward"
	"fllc-scheduler/internal/schedule"
)

func tinyConfig(t *testing.T) (models.ScheduleConfig, models.TimeConfig) {
	t.Helper()
	mustSlot := func(start, end string) models.TimeSlot {
		ts, err := models.NewTimeSlot(start, end)
		if err != nil {
			t.Fatalf("NewTimeSlot: %v", err)
		}
		return ts
	}
	sc := models.ScheduleConfig{
		NumTeams:  4,
		NumRooms:  2,
		NumTables: 2,
		Rounds:    models.RoundCounts{Judging: 1, Practice: 1, Table: 1},
	}
	tc := models.TimeConfig{
		JudgingSlots:  []models.TimeSlot{mustSlot("08:00", "08:15"), mustSlot("08:15", "08:30")},
		PracticeSlots: []models.TimeSlot{mustSlot("09:00", "09:30")},
		TableSlots:    []models.TimeSlot{mustSlot("10:00", "10:30")},
	}
	return sc, tc
}

func uniformWeights() reward.Weights {
	return reward.Weights{TableConsistency: 1, OpponentVariety: 1, BackToBackPenalty: 1, BreakTime: 1}
}

// TestEpsilonDecayMonotonic checks that epsilon is non-increasing and
// bounded below by epsilon_end.
func TestEpsilonDecayMonotonic(t *testing.T) {
	sc, tc := tinyConfig(t)
	params := DefaultParams()
	params.EpsilonStart = 1.0
	params.EpsilonEnd = 0.05
	params.EpsilonDecay = 0.9
	params.Episodes = 50

	c := NewController(sc, tc, params, uniformWeights(), 0)

	prev := c.Epsilon()
	for i := 1; i <= params.Episodes; i++ {
		c.TrainEpisode(i)
		if c.Epsilon() > prev {
			t.Fatalf("epsilon must be non-increasing: episode %d went from %f to %f", i, prev, c.Epsilon())
		}
		if c.Epsilon() < params.EpsilonEnd-1e-9 {
			t.Fatalf("epsilon must never drop below epsilon_end: got %f", c.Epsilon())
		}
		prev = c.Epsilon()
	}

	expected := math.Max(params.EpsilonEnd, math.Pow(0.9, float64(params.Episodes)))
	if math.Abs(c.Epsilon()-expected) > 1e-9 {
		t.Fatalf("expected epsilon %f after %d episodes, got %f", expected, params.Episodes, c.Epsilon())
	}
}

func TestEpsilonDecayNoopWhenStartEqualsEnd(t *testing.T) {
	sc, tc := tinyConfig(t)
	params := DefaultParams()
	params.EpsilonStart = 0.3
	params.EpsilonEnd = 0.3
	params.EpsilonDecay = 0.5

	c := NewController(sc, tc, params, uniformWeights(), 1)
	c.TrainEpisode(1)
	if c.Epsilon() != 0.3 {
		t.Fatalf("expected epsilon to stay at 0.3 when start==end, got %f", c.Epsilon())
	}
}

func TestTrainEpisodeGrowsQTable(t *testing.T) {
	sc, tc := tinyConfig(t)
	c := NewController(sc, tc, DefaultParams(), uniformWeights(), 42)

	c.TrainEpisode(1)
	if c.QTableSize() == 0 {
		t.Fatal("expected at least one Q-table entry after a training episode")
	}
}

// TestCompletionDenominatorIsTeamCentric checks the completion-bonus
// denominator counts required team bookings, not grid cells: with 4 teams
// each needing 1 Practice + 1 Table booking, the denominator is 4*(1+1)=8
// regardless of how many rooms/tables the time grid happened to lay out.
func TestCompletionDenominatorIsTeamCentric(t *testing.T) {
	sc, tc := tinyConfig(t)
	teamIDs := make([]int, sc.NumTeams)
	for i := range teamIDs {
		teamIDs[i] = i + 1
	}
	eng, err := engine.Build(sc, tc, schedule.New(teamIDs))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	want := sc.NumTeams * (sc.Rounds.Practice + sc.Rounds.Table)
	if got := completionDenominator(sc, eng); got != want {
		t.Fatalf("completionDenominator() = %d, want %d", got, want)
	}
}

func TestCompletionDenominatorGuardsAgainstZero(t *testing.T) {
	sc := models.ScheduleConfig{}
	eng := &engine.Engine{}
	if got := completionDenominator(sc, eng); got != 1 {
		t.Fatalf("completionDenominator() = %d, want 1 (guarded floor)", got)
	}
}

func TestGenerateOptimalProducesFullSchedule(t *testing.T) {
	sc, tc := tinyConfig(t)
	c := NewController(sc, tc, DefaultParams(), uniformWeights(), 7)

	for i := 1; i <= 20; i++ {
		c.TrainEpisode(i)
	}

	sched, metrics := c.GenerateOptimal()
	if metrics.ExploreCount != 0 {
		t.Fatalf("optimal phase must be purely greedy, got %d explore steps", metrics.ExploreCount)
	}
	for _, team := range sched.Teams() {
		if got := team.CountByRound(models.Judging); got > 1 {
			t.Fatalf("team %d has %d judging bookings, want at most 1", team.ID, got)
		}
		if got := team.CountByRound(models.Practice); got != sc.Rounds.Practice {
			t.Fatalf("team %d has %d practice bookings, want %d", team.ID, got, sc.Rounds.Practice)
		}
		if got := team.CountByRound(models.Table); got != sc.Rounds.Table {
			t.Fatalf("team %d has %d table bookings, want %d", team.ID, got, sc.Rounds.Table)
		}
	}
}
