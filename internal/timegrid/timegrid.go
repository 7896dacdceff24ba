// internal/timegrid/timegrid.go
// Component 1: from wall-clock bounds and cardinalities, compute the
// per-round-type slot count, duration, and (start,end) list. Grounded on
// the schedule model's own conventions for error reporting (a
// configuration problem is a plain error, never a panic) — see
// internal/models/config.go.
package timegrid

import (
	"fmt"
	"math"
	"time"

	"fllc-scheduler/internal/models"
)

const judgingDurationMinutes = 45

// Build computes TimeConfig.JudgingSlots, PracticeSlots, and TableSlots on
// a copy of tc and returns the populated copy, or a configuration error if
// a divisor collapses to zero or a fitted duration would be non-positive.
func Build(tc models.TimeConfig, sc models.ScheduleConfig) (models.TimeConfig, error) {
	if err := tc.Validate(); err != nil {
		return tc, err
	}
	if err := sc.Validate(); err != nil {
		return tc, err
	}

	judgingCount := ceilDiv(sc.NumTeams, sc.NumRooms)
	if judgingCount <= 0 {
		return tc, fmt.Errorf("judging slot count collapsed to zero")
	}
	judgingSlots, err := fixedDurationSlots(tc.JudgingStart, judgingCount, judgingDurationMinutes)
	if err != nil {
		return tc, fmt.Errorf("judging slots: %w", err)
	}
	tc.JudgingSlots = judgingSlots

	practiceAvailable := minutesBetween(tc.PracticeStart, tc.BreakStart)
	practiceRequired := ceilDiv(sc.NumTeams*sc.Rounds.Practice, 2*sc.NumTables)
	practiceSlots, _, _, err := fitSlots(tc.PracticeStart, tc.BreakStart, practiceAvailable, practiceRequired)
	if err != nil {
		return tc, fmt.Errorf("practice slots: %w", err)
	}
	tc.PracticeSlots = practiceSlots

	tableAvailable := minutesBetween(tc.TableStart, tc.TableStop)
	tableRequired := ceilDiv(sc.NumTeams*sc.Rounds.Table, 2*sc.NumTables)
	tableSlots, _, _, err := fitSlots(tc.TableStart, tc.TableStop, tableAvailable, tableRequired)
	if err != nil {
		return tc, fmt.Errorf("table slots: %w", err)
	}
	tc.TableSlots = tableSlots

	return tc, nil
}

// fitSlots runs a fixed-point iteration: start from the floor-divided
// duration, and whenever the last slot would end after stopAnchor, grow
// the slot count by one and recompute a rounded duration, regenerating
// start times from scratch. Each iteration strictly increases
// requiredCount, so termination is guaranteed.
func fitSlots(startAnchor, stopAnchor string, availableMinutes, requiredCount int) ([]models.TimeSlot, int, int, error) {
	if requiredCount <= 0 {
		return nil, 0, 0, fmt.Errorf("required slot count collapsed to zero")
	}
	if availableMinutes <= 0 {
		return nil, 0, 0, fmt.Errorf("available window is non-positive (%d minutes)", availableMinutes)
	}

	stop, err := models.ParseClock(stopAnchor)
	if err != nil {
		return nil, 0, 0, err
	}

	duration := availableMinutes / requiredCount
	for {
		if duration <= 0 {
			return nil, 0, 0, fmt.Errorf("slot duration collapsed to zero (available=%d, required=%d)", availableMinutes, requiredCount)
		}

		slots, err := fixedDurationSlots(startAnchor, requiredCount, duration)
		if err != nil {
			return nil, 0, 0, err
		}

		lastEnd, _ := models.ParseClock(slots[len(slots)-1].End)
		if !lastEnd.After(stop) {
			return slots, requiredCount, duration, nil
		}

		requiredCount++
		duration = int(math.Round(float64(availableMinutes) / float64(requiredCount)))
	}
}

// fixedDurationSlots builds `count` consecutive TimeSlots of `duration`
// minutes each, starting at startAnchor.
func fixedDurationSlots(startAnchor string, count, duration int) ([]models.TimeSlot, error) {
	start, err := models.ParseClock(startAnchor)
	if err != nil {
		return nil, err
	}

	slots := make([]models.TimeSlot, 0, count)
	cursor := start
	for i := 0; i < count; i++ {
		end := cursor.Add(time.Duration(duration) * time.Minute)
		slots = append(slots, models.TimeSlot{
			Start: models.FormatClock(cursor),
			End:   models.FormatClock(end),
		})
		cursor = end
	}
	return slots, nil
}

func minutesBetween(start, end string) int {
	s, errS := models.ParseClock(start)
	e, errE := models.ParseClock(end)
	if errS != nil || errE != nil {
		return 0
	}
	return int(e.Sub(s).Minutes())
}

func ceilDiv(a, b int) int {
	if b == 0 {
		return 0
	}
	return (a + b - 1) / b
}
