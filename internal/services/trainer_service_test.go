package services

import (
	"testing"

	"fllc-scheduler/internal/fllconfig"
	"fllc-scheduler/internal/qlearning"
)

func testTrainer() *TrainerService {
	defaults := fllconfig.EngineDefaults{
		Alpha:         0.1,
		Gamma:         0.9,
		EpsilonStart:  1.0,
		EpsilonEnd:    0.05,
		EpsilonDecay:  0.995,
		Episodes:      500,
		BenchmarkRuns: 20,
	}
	return NewTrainerService(nil, nil, defaults, nil)
}

func TestApplyDefaultsFillsZeroFields(t *testing.T) {
	s := testTrainer()

	got := s.applyDefaults(qlearning.Params{})

	if got.Alpha != s.defaults.Alpha {
		t.Errorf("Alpha = %v, want %v", got.Alpha, s.defaults.Alpha)
	}
	if got.Gamma != s.defaults.Gamma {
		t.Errorf("Gamma = %v, want %v", got.Gamma, s.defaults.Gamma)
	}
	if got.EpsilonStart != s.defaults.EpsilonStart {
		t.Errorf("EpsilonStart = %v, want %v", got.EpsilonStart, s.defaults.EpsilonStart)
	}
	if got.EpsilonEnd != s.defaults.EpsilonEnd {
		t.Errorf("EpsilonEnd = %v, want %v", got.EpsilonEnd, s.defaults.EpsilonEnd)
	}
	if got.EpsilonDecay != s.defaults.EpsilonDecay {
		t.Errorf("EpsilonDecay = %v, want %v", got.EpsilonDecay, s.defaults.EpsilonDecay)
	}
	if got.Episodes != s.defaults.Episodes {
		t.Errorf("Episodes = %v, want %v", got.Episodes, s.defaults.Episodes)
	}
	if got.BenchmarkRuns != s.defaults.BenchmarkRuns {
		t.Errorf("BenchmarkRuns = %v, want %v", got.BenchmarkRuns, s.defaults.BenchmarkRuns)
	}
}

func TestApplyDefaultsPreservesCallerOverrides(t *testing.T) {
	s := testTrainer()

	override := qlearning.Params{
		Alpha:    0.5,
		Episodes: 42,
	}
	got := s.applyDefaults(override)

	if got.Alpha != 0.5 {
		t.Errorf("Alpha = %v, want caller override 0.5", got.Alpha)
	}
	if got.Episodes != 42 {
		t.Errorf("Episodes = %v, want caller override 42", got.Episodes)
	}
	// Untouched fields still fall back to the configured defaults.
	if got.Gamma != s.defaults.Gamma {
		t.Errorf("Gamma = %v, want default %v", got.Gamma, s.defaults.Gamma)
	}
}

func TestAcknowledgeKeepsHighWaterMark(t *testing.T) {
	s := testTrainer()

	s.Acknowledge("run-1", 3)
	s.Acknowledge("run-1", 7)
	s.Acknowledge("run-1", 5) // stale, should not regress

	if got := s.acked["run-1"]; got != 7 {
		t.Errorf("acked[run-1] = %d, want 7", got)
	}
}

func TestBroadcastWithoutBroadcasterIsNoop(t *testing.T) {
	s := testTrainer()

	// No broadcaster wired in; this must not panic.
	s.broadcast("run-1", msgRunCreated, eventPayload{"run_id": "run-1"})
}

type fakeBroadcaster struct {
	calls int
	last  string
}

func (f *fakeBroadcaster) BroadcastRunUpdate(runID string, updateType string, data interface{}) {
	f.calls++
	f.last = updateType
}

func TestSetBroadcasterIsUsedByBroadcast(t *testing.T) {
	s := testTrainer()
	fb := &fakeBroadcaster{}
	s.SetBroadcaster(fb)

	s.broadcast("run-1", msgPhaseStarted, eventPayload{"phase": "benchmark"})

	if fb.calls != 1 {
		t.Fatalf("broadcaster called %d times, want 1", fb.calls)
	}
	if fb.last != msgPhaseStarted {
		t.Errorf("last update type = %q, want %q", fb.last, msgPhaseStarted)
	}
}

func TestLastOfEmptySliceReturnsZeroValue(t *testing.T) {
	got := lastOf(nil)
	if got.Episode != 0 {
		t.Errorf("lastOf(nil).Episode = %d, want 0", got.Episode)
	}
}

func TestLastOfReturnsFinalElement(t *testing.T) {
	metrics := []qlearning.EpisodeMetrics{
		{Episode: 1},
		{Episode: 2},
		{Episode: 3},
	}
	got := lastOf(metrics)
	if got.Episode != 3 {
		t.Errorf("lastOf(metrics).Episode = %d, want 3", got.Episode)
	}
}
