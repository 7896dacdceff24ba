package schedule

import (
	"testing"

	"fllc-scheduler/internal/models"
)

func mustSlot(t *testing.T, start, end string) models.TimeSlot {
	t.Helper()
	ts, err := models.NewTimeSlot(start, end)
	if err != nil {
		t.Fatalf("NewTimeSlot: %v", err)
	}
	return ts
}

// TestOpponentPairing checks that booking both sides of the same
// table/time sets reciprocal OpponentID links.
func TestOpponentPairing(t *testing.T) {
	s := New([]int{1, 2, 3, 4})
	slot := mustSlot(t, "13:30", "14:00")

	if err := s.Book(1, models.Table, slot, models.NewTableSide(1, 1)); err != nil {
		t.Fatalf("booking side 1: %v", err)
	}
	if err := s.Book(2, models.Table, slot, models.NewTableSide(1, 2)); err != nil {
		t.Fatalf("booking side 2: %v", err)
	}

	team1 := s.Team(1)
	team2 := s.Team(2)
	if len(team1.Bookings) != 1 || team1.Bookings[0].OpponentID != 2 {
		t.Fatalf("team 1 should record opponent 2, got %+v", team1.Bookings)
	}
	if len(team2.Bookings) != 1 || team2.Bookings[0].OpponentID != 1 {
		t.Fatalf("team 2 should record opponent 1, got %+v", team2.Bookings)
	}
}

func TestBookRejectsDoubleBookingSameCell(t *testing.T) {
	s := New([]int{1, 2})
	slot := mustSlot(t, "09:00", "09:30")
	loc := models.NewRoom(1)

	if err := s.Book(1, models.Judging, slot, loc); err != nil {
		t.Fatalf("first booking: %v", err)
	}
	if err := s.Book(2, models.Judging, slot, loc); err == nil {
		t.Fatal("expected error booking an already-occupied cell")
	}
}

func TestUnbookClearsReverseLookupAndOpponentLink(t *testing.T) {
	s := New([]int{1, 2})
	slot := mustSlot(t, "13:30", "14:00")
	side1 := models.NewTableSide(1, 1)
	side2 := models.NewTableSide(1, 2)

	if err := s.Book(1, models.Table, slot, side1); err != nil {
		t.Fatalf("book side1: %v", err)
	}
	if err := s.Book(2, models.Table, slot, side2); err != nil {
		t.Fatalf("book side2: %v", err)
	}

	if err := s.Unbook(1, slot, side1); err != nil {
		t.Fatalf("unbook: %v", err)
	}

	if s.TeamAt(slot, side1) != 0 {
		t.Fatal("reverse lookup must be cleared after unbook")
	}
	if len(s.Team(2).Bookings) != 1 || s.Team(2).Bookings[0].OpponentID != 0 {
		t.Fatal("partner's opponent link must be cleared after unbook")
	}
}

func TestTeamHasTimeConflict(t *testing.T) {
	s := New([]int{1})
	slot := mustSlot(t, "09:00", "09:30")
	if err := s.Book(1, models.Judging, slot, models.NewRoom(1)); err != nil {
		t.Fatalf("book: %v", err)
	}
	overlapping := mustSlot(t, "09:15", "09:45")
	if !s.TeamHasTimeConflict(1, overlapping) {
		t.Fatal("expected a time conflict for an overlapping interval")
	}
	adjacent := mustSlot(t, "09:30", "10:00")
	if s.TeamHasTimeConflict(1, adjacent) {
		t.Fatal("half-open adjacent intervals must not conflict")
	}
}
