package timegrid

import (
	"testing"

	"fllc-scheduler/internal/models"
)

func defaultScenarioA(t *testing.T) (models.TimeConfig, models.ScheduleConfig) {
	t.Helper()
	tc := models.TimeConfig{
		JudgingStart:  "08:00",
		PracticeStart: "09:00",
		BreakStart:    "12:00",
		TableStart:    "13:30",
		TableStop:     "16:21",
	}
	sc := models.ScheduleConfig{
		NumTeams:  42,
		NumRooms:  7,
		NumTables: 4,
		Rounds:    models.RoundCounts{Judging: 1, Practice: 2, Table: 3},
	}
	return tc, sc
}

func TestBuildScenarioACounts(t *testing.T) {
	tc, sc := defaultScenarioA(t)
	built, err := Build(tc, sc)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if got := len(built.JudgingSlots); got != 6 {
		t.Fatalf("expected 6 judging slots (ceil(42/7)), got %d", got)
	}
	if got := len(built.PracticeSlots); got < 11 {
		t.Fatalf("expected at least 11 practice slots (ceil(84/8)), got %d", got)
	}
	if got := len(built.TableSlots); got < 16 {
		t.Fatalf("expected at least 16 table slots (ceil(126/8)), got %d", got)
	}

	lastEnd, _ := models.ParseClock(built.TableSlots[len(built.TableSlots)-1].End)
	stop, _ := models.ParseClock(tc.TableStop)
	if lastEnd.After(stop) {
		t.Fatalf("last table slot %s must not exceed table_stop %s", built.TableSlots[len(built.TableSlots)-1].End, tc.TableStop)
	}
}

func TestBuildRejectsZeroDivisor(t *testing.T) {
	tc, sc := defaultScenarioA(t)
	sc.NumRooms = 0
	if _, err := Build(tc, sc); err == nil {
		t.Fatal("expected configuration error for num_rooms=0")
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	tc, sc := defaultScenarioA(t)
	a, err := Build(tc, sc)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	b, err := Build(tc, sc)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(a.JudgingSlots) != len(b.JudgingSlots) || len(a.PracticeSlots) != len(b.PracticeSlots) || len(a.TableSlots) != len(b.TableSlots) {
		t.Fatal("rebuilding the time grid from identical config must produce identical slot counts")
	}
	for i := range a.PracticeSlots {
		if a.PracticeSlots[i] != b.PracticeSlots[i] {
			t.Fatalf("practice slot %d differs across identical builds", i)
		}
	}
}
