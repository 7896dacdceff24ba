// internal/evaluator/evaluator.go
// Component 7: the post-hoc schedule scorer. Consumes the static slot list
// after a phase finishes (not the live Schedule/Engine state) so it can run
// identically against benchmark, per-episode, and optimal schedules alike.
//
// Grounded on the teacher's services layer shape (one exported Evaluate
// entry point, unexported helpers beneath it). The opponent derivation is
// defined over index-parity adjacency in the *static* slot list, not the
// side-pairing Schedule.Book already recorded, so it stays fragile to
// slot-ordering changes by design — consistent, not accidental.
package evaluator

import (
	"math"
	"sort"

	"fllc-scheduler/internal/engine"
	"fllc-scheduler/internal/models"
	"fllc-scheduler/internal/reward"
)

// TeamStats is one team's appearance, downtime, location and opponent
// profile for a finished schedule.
type TeamStats struct {
	TeamID          int
	Appearances     int
	Downtimes       []float64 // minutes, consecutive chronological gaps
	MinDowntime     float64
	MaxDowntime     float64
	MeanDowntime    float64
	UniqueLocations int
	Opponents       []int
	UniqueOpponents int
}

// Result is the full evaluation of one finished (or partially-finished)
// schedule.
type Result struct {
	Teams              []TeamStats
	UniqueLocations    int // L: distinct locations in the static slot list
	MinAppearances     int
	MaxAppearances      int
	AppearanceVariance float64
	Completion         float64 // fraction of required Practice+Table bookings made
	Score              float64
}

// occurrence pairs a static-list index with the slot found there, so the
// opponent derivation (which depends on global index parity) and the
// chronological ordering (which depends on start time) can both be computed
// from the same underlying data without losing either ordering.
type occurrence struct {
	index int
	slot  *engine.Slot
}

// Evaluate scores the schedule recorded in slots (as returned by
// engine.Engine.StaticSlots) for a tournament of numTeams teams.
// requiredNonJudging is the count of Practice+Table bookings the
// tournament calls for (numTeams times the per-team Practice+Table round
// counts) — the denominator completion is measured against. It is a
// caller-supplied team requirement rather than a count of grid cells,
// since the time grid can carry more physical cells than teams strictly
// need to fill (rounding up to fit a duration), and completion should
// read 1.0 once every required booking is made, not before.
func Evaluate(slots []*engine.Slot, numTeams int, requiredNonJudging int) Result {
	locationSet := make(map[string]struct{}, len(slots))
	nonJudgingFilled := 0
	byTeam := make(map[int][]occurrence, numTeams)

	for i, s := range slots {
		locationSet[s.Location.Key()] = struct{}{}
		if s.RoundType != models.Judging && s.TeamID != 0 {
			nonJudgingFilled++
		}
		if s.TeamID != 0 {
			byTeam[s.TeamID] = append(byTeam[s.TeamID], occurrence{index: i, slot: s})
		}
	}

	opponentAt := deriveOpponents(slots)

	teams := make([]TeamStats, 0, numTeams)
	for id := 1; id <= numTeams; id++ {
		teams = append(teams, buildTeamStats(id, byTeam[id], opponentAt))
	}

	completion := 0.0
	if requiredNonJudging > 0 {
		completion = float64(nonJudgingFilled) / float64(requiredNonJudging)
	}

	result := Result{
		Teams:           teams,
		UniqueLocations: len(locationSet),
		Completion:      completion,
	}
	result.MinAppearances, result.MaxAppearances, result.AppearanceVariance = appearanceStats(teams)
	result.Score = score(result, teams, numTeams)
	return result
}

// deriveOpponents computes, for every static-list index, the team id found
// at its "pair neighbor": index+1 when the index is even, index-1 when odd.
// Empty neighbors (TeamID==0) or out-of-range neighbors yield 0 (no
// opponent recorded).
func deriveOpponents(slots []*engine.Slot) []int {
	out := make([]int, len(slots))
	for i, s := range slots {
		if s.TeamID == 0 {
			continue
		}
		neighbor := i + 1
		if i%2 != 0 {
			neighbor = i - 1
		}
		if neighbor < 0 || neighbor >= len(slots) {
			continue
		}
		out[i] = slots[neighbor].TeamID
	}
	return out
}

func buildTeamStats(id int, occs []occurrence, opponentAt []int) TeamStats {
	ts := TeamStats{TeamID: id, Appearances: len(occs)}

	opponents := make([]int, 0, len(occs))
	locations := make(map[string]struct{}, len(occs))
	for _, o := range occs {
		locations[o.slot.Location.Key()] = struct{}{}
		if opp := opponentAt[o.index]; opp != 0 {
			opponents = append(opponents, opp)
		}
	}
	ts.Opponents = opponents
	ts.UniqueOpponents = uniqueCount(opponents)
	ts.UniqueLocations = len(locations)

	sorted := make([]occurrence, len(occs))
	copy(sorted, occs)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].slot.TimeSlot.Start < sorted[j].slot.TimeSlot.Start
	})

	downtimes := make([]float64, 0, len(sorted))
	for i := 1; i < len(sorted); i++ {
		prevEnd, _ := models.ParseClock(sorted[i-1].slot.TimeSlot.End)
		curStart, _ := models.ParseClock(sorted[i].slot.TimeSlot.Start)
		downtimes = append(downtimes, curStart.Sub(prevEnd).Minutes())
	}
	ts.Downtimes = downtimes
	ts.MinDowntime, ts.MaxDowntime, ts.MeanDowntime = minMaxMean(downtimes)

	return ts
}

func minMaxMean(xs []float64) (min, max, mean float64) {
	if len(xs) == 0 {
		return 0, 0, 0
	}
	min, max = xs[0], xs[0]
	sum := 0.0
	for _, x := range xs {
		if x < min {
			min = x
		}
		if x > max {
			max = x
		}
		sum += x
	}
	return min, max, sum / float64(len(xs))
}

func appearanceStats(teams []TeamStats) (min, max int, variance float64) {
	if len(teams) == 0 {
		return 0, 0, 0
	}
	min, max = teams[0].Appearances, teams[0].Appearances
	sum := 0.0
	for _, t := range teams {
		if t.Appearances < min {
			min = t.Appearances
		}
		if t.Appearances > max {
			max = t.Appearances
		}
		sum += float64(t.Appearances)
	}
	mean := sum / float64(len(teams))
	variance = 0
	for _, t := range teams {
		d := float64(t.Appearances) - mean
		variance += d * d
	}
	variance /= float64(len(teams))
	return min, max, variance
}

func score(r Result, teams []TeamStats, numTeams int) float64 {
	if len(teams) == 0 {
		return 0
	}

	avgDowntime, maxDowntime := 0.0, 0.0
	avgLocations, avgOpponents := 0.0, 0.0
	for _, t := range teams {
		avgDowntime += t.MeanDowntime
		avgLocations += float64(t.UniqueLocations)
		avgOpponents += float64(t.UniqueOpponents)
		if t.MaxDowntime > maxDowntime {
			maxDowntime = t.MaxDowntime
		}
	}
	n := float64(len(teams))
	avgDowntime /= n
	avgLocations /= n
	avgOpponents /= n

	downtime := reward.Normalize(avgDowntime, 0, maxDowntime)
	appearance := reward.Normalize(r.AppearanceVariance, 0, float64(r.MaxAppearances-r.MinAppearances))
	location := reward.Normalize(avgLocations, 0, float64(r.UniqueLocations))
	opponent := reward.Normalize(avgOpponents, 0, float64(numTeams))

	base := 0.25*(1-downtime) + 0.25*(1-appearance) + 0.25*location + 0.25*opponent
	completionC := math.Max(0, math.Min(1, r.Completion))
	return base * (0.5 + 0.5*completionC)
}

func uniqueCount(xs []int) int {
	seen := make(map[int]struct{}, len(xs))
	for _, x := range xs {
		seen[x] = struct{}{}
	}
	return len(seen)
}
