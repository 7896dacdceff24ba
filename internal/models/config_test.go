package models

import "testing"

func validScheduleConfig() ScheduleConfig {
	return ScheduleConfig{
		NumTeams:  8,
		NumRooms:  2,
		NumTables: 2,
		Rounds:    RoundCounts{Judging: 1, Practice: 2, Table: 3},
	}
}

func TestRoundCountsTotal(t *testing.T) {
	r := RoundCounts{Judging: 1, Practice: 2, Table: 3}
	if got := r.Total(); got != 6 {
		t.Errorf("Total() = %d, want 6", got)
	}
}

func TestScheduleConfigValidateOK(t *testing.T) {
	if err := validScheduleConfig().Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestScheduleConfigValidateRejectsTooFewTeams(t *testing.T) {
	c := validScheduleConfig()
	c.NumTeams = 1
	if err := c.Validate(); err == nil {
		t.Fatal("Validate() = nil, want error for num_teams < 2")
	}
}

func TestScheduleConfigValidateRejectsZeroRooms(t *testing.T) {
	c := validScheduleConfig()
	c.NumRooms = 0
	if err := c.Validate(); err == nil {
		t.Fatal("Validate() = nil, want error for num_rooms < 1")
	}
}

func TestScheduleConfigValidateRejectsNonSingleJudgingRound(t *testing.T) {
	c := validScheduleConfig()
	c.Rounds.Judging = 2
	if err := c.Validate(); err == nil {
		t.Fatal("Validate() = nil, want error for rounds.judging != 1")
	}
}

func validTimeConfig() TimeConfig {
	return TimeConfig{
		JudgingStart:  "08:00",
		PracticeStart: "09:00",
		BreakStart:    "10:00",
		TableStart:    "10:30",
		TableStop:     "14:00",
	}
}

func TestTimeConfigValidateOK(t *testing.T) {
	if err := validTimeConfig().Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestTimeConfigValidateRejectsMalformedClock(t *testing.T) {
	c := validTimeConfig()
	c.TableStop = "not-a-time"
	if err := c.Validate(); err == nil {
		t.Fatal("Validate() = nil, want error for malformed table_stop")
	}
}

func TestTimeConfigValidateRejectsPracticeAfterBreak(t *testing.T) {
	c := validTimeConfig()
	c.PracticeStart = "11:00" // after break_start
	if err := c.Validate(); err == nil {
		t.Fatal("Validate() = nil, want error when practice_start >= break_start")
	}
}

func TestTimeConfigValidateRejectsTableStartAfterStop(t *testing.T) {
	c := validTimeConfig()
	c.TableStart = "15:00"
	if err := c.Validate(); err == nil {
		t.Fatal("Validate() = nil, want error when table_start >= table_stop")
	}
}
