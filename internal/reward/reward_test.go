package reward

import (
	"testing"

	"fllc-scheduler/internal/models"
)

func TestNormalizeGuardsZeroDivisor(t *testing.T) {
	if got := Normalize(5, 3, 3); got != 0 {
		t.Fatalf("Normalize(x,a,a) must be 0, got %f", got)
	}
}

// TestNormalizeIsNoOpAboveOne documents that table consistency deliberately
// calls Normalize(x, 0, 1) with x often >1, and that must NOT be clamped.
func TestNormalizeIsNoOpAboveOne(t *testing.T) {
	if got := Normalize(3.5, 0, 1); got != 3.5 {
		t.Fatalf("Normalize(x,0,1) must pass x through unclamped for x>1, got %f", got)
	}
}

func mustSlot(t *testing.T, start, end string) models.TimeSlot {
	t.Helper()
	ts, err := models.NewTimeSlot(start, end)
	if err != nil {
		t.Fatalf("NewTimeSlot: %v", err)
	}
	return ts
}

func TestTableConsistencyZeroWithSingleBooking(t *testing.T) {
	team := models.NewTeam(1)
	team.Bookings = append(team.Bookings, models.Booking{
		RoundType: models.Practice,
		Location:  models.NewTableSide(1, 1),
		TimeSlot:  mustSlot(t, "09:00", "09:30"),
	})
	w := Weights{TableConsistency: 1, OpponentVariety: 1, BackToBackPenalty: 1, BreakTime: 1}
	if got := tableConsistency(team, 6, w); got != 0 {
		t.Fatalf("expected zero TC with only one booking, got %f", got)
	}
}

func TestBackToBackScoresLowerThanSeparatedBookings(t *testing.T) {
	w := Weights{BackToBackPenalty: 1}
	current := mustSlot(t, "09:00", "09:30")

	adjacentTeam := models.NewTeam(1)
	adjacentTeam.Bookings = append(adjacentTeam.Bookings, models.Booking{TimeSlot: mustSlot(t, "09:30", "10:00")})

	separatedTeam := models.NewTeam(2)
	separatedTeam.Bookings = append(separatedTeam.Bookings, models.Booking{TimeSlot: mustSlot(t, "11:00", "11:30")})

	adjacentScore := backToBack(adjacentTeam, current, w)
	separatedScore := backToBack(separatedTeam, current, w)

	if adjacentScore >= separatedScore {
		t.Fatalf("an immediately back-to-back booking (%f) should score lower than a well-separated one (%f)", adjacentScore, separatedScore)
	}
}

func TestBreakTimeRewardsGaps(t *testing.T) {
	team := models.NewTeam(1)
	w := Weights{BreakTime: 1}

	farApart := mustSlot(t, "11:00", "11:30")
	team.Bookings = append(team.Bookings, models.Booking{TimeSlot: farApart})
	current := mustSlot(t, "09:00", "09:30")

	if got := breakTime(team, current, w); got <= 0 {
		t.Fatalf("a >=30 minute gap should score positive under BT, got %f", got)
	}
}
