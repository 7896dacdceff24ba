// internal/reward/reward.go
// Component 6: the four weighted soft-constraint rewards plus the
// completion multiplier. Two quirks are preserved deliberately rather than
// cleaned up: the table-consistency factor can exceed 1 before
// normalization, and normalize(x,0,1) is a no-op in that regime rather than
// a clamp. Both shape the learned policy and changing them would change
// training dynamics, not just tidy the math.
package reward

import (
	"fllc-scheduler/internal/models"
)

// Weights holds the four soft-constraint weights, already normalized to
// [0,1] (a RunConfig supplies them as percentages; TrainerService divides
// by 100 before they reach this package).
type Weights struct {
	TableConsistency  float64 // TC
	OpponentVariety   float64 // OV
	BackToBackPenalty float64 // BTB
	BreakTime         float64 // BT
}

// Normalize rescales x into [lo,hi]'s frame: 0 when the divisor collapses,
// otherwise the linear rescale. Deliberately NOT clamped to [0,1] —
// normalize(x,0,1) for x>1 returns a value >1, which is the behavior table
// consistency depends on.
func Normalize(x, lo, hi float64) float64 {
	if hi == lo {
		return 0
	}
	return (x - lo) / (hi - lo)
}

// Calculate computes the slot reward for team T, just booked into
// currentSlot, given maxRounds = the sum of all rounds_per_team. It does
// not apply the completion multiplier; callers (internal/qlearning) do
// that separately since completion depends on overall episode progress,
// not on this one team.
func Calculate(team *models.Team, currentSlot models.TimeSlot, maxRounds int, w Weights) float64 {
	return tableConsistency(team, maxRounds, w) +
		opponentVariety(team, maxRounds, w) +
		backToBack(team, currentSlot, w) +
		breakTime(team, currentSlot, w)
}

// ApplyCompletion multiplies a slot reward by (1 + completion), the final
// step that scales every reward up as the episode nears full booking.
func ApplyCompletion(r, completion float64) float64 {
	return r * (1 + completion)
}

func tableConsistency(team *models.Team, maxRounds int, w Weights) float64 {
	tables := team.Tables()
	if len(tables) <= 1 {
		return 0
	}
	unique := uniqueLocationCount(tables)
	u := float64(unique) / float64(len(tables))
	// u*maxRounds typically exceeds 1, and Normalize(x,0,1) is a no-op in
	// that regime — preserved verbatim rather than clamped.
	return Normalize(u*float64(maxRounds), 0, 1) * w.TableConsistency
}

func opponentVariety(team *models.Team, maxRounds int, w Weights) float64 {
	opps := team.Opponents()
	if len(opps) <= 1 {
		return 0
	}
	unique := uniqueIntCount(opps)
	frac := float64(unique) / float64(len(opps))
	return Normalize(frac*float64(maxRounds), 0, 1) * w.OpponentVariety
}

// fourGaps returns the four signed gaps (in minutes) between the current
// interval (s) and another interval (a), in the order the back-to-back and
// break-time rules reference them: (a_s-s_e, a_e-s_s, s_s-a_e, s_e-a_s).
func fourGaps(s, a models.TimeSlot) (aStartMinusSEnd, aEndMinusSStart, sStartMinusAEnd, sEndMinusAStart int) {
	sStart, _ := models.ParseClock(s.Start)
	sEnd, _ := models.ParseClock(s.End)
	aStart, _ := models.ParseClock(a.Start)
	aEnd, _ := models.ParseClock(a.End)

	aStartMinusSEnd = int(aStart.Sub(sEnd).Minutes())
	aEndMinusSStart = int(aEnd.Sub(sStart).Minutes())
	sStartMinusAEnd = int(sStart.Sub(aEnd).Minutes())
	sEndMinusAStart = int(sEnd.Sub(aStart).Minutes())
	return
}

func backToBack(team *models.Team, currentSlot models.TimeSlot, w Weights) float64 {
	total := 0.0
	for _, other := range team.OccupiedSlots() {
		if other == currentSlot {
			continue
		}
		g1, g2, g3, g4 := fourGaps(currentSlot, other)

		pairA := -1.0
		if g1 > 0 && g2 > 0 {
			pairA = 1.0
		}
		pairB := -1.0
		if g3 > 0 && g4 > 0 {
			pairB = 1.0
		}

		total += normalizeContribution(pairA) * w.BackToBackPenalty
		total += normalizeContribution(pairB) * w.BackToBackPenalty
	}
	return total
}

func breakTime(team *models.Team, currentSlot models.TimeSlot, w Weights) float64 {
	const minBreakMinutes = 30
	total := 0.0
	for _, other := range team.OccupiedSlots() {
		if other == currentSlot {
			continue
		}
		g1, g2, g3, g4 := fourGaps(currentSlot, other)

		contribution := -1.0
		if g1 >= minBreakMinutes || g2 >= minBreakMinutes || g3 >= minBreakMinutes || g4 >= minBreakMinutes {
			contribution = 1.0
		}

		total += normalizeContribution(contribution) * w.BreakTime
	}
	return total
}

// normalizeContribution rescales a +-1 contribution into [0,1] via
// (x-(-1))/2.
func normalizeContribution(x float64) float64 {
	return (x + 1) / 2
}

func uniqueLocationCount(locs []models.Location) int {
	seen := make(map[string]struct{}, len(locs))
	for _, l := range locs {
		seen[l.Key()] = struct{}{}
	}
	return len(seen)
}

func uniqueIntCount(xs []int) int {
	seen := make(map[int]struct{}, len(xs))
	for _, x := range xs {
		seen[x] = struct{}{}
	}
	return len(seen)
}
