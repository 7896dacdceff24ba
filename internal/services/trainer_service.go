// internal/services/trainer_service.go
// Run orchestration. Plays the same role the teacher's MatchService plays
// — owns collaborators, exposes phase-shaped verbs, persists through the
// repository layer, fires notifications — just driving an
// offline training loop on its own goroutine instead of handling one HTTP
// request at a time.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"fllc-scheduler/internal/evaluator"
	"fllc-scheduler/internal/exporter"
	"fllc-scheduler/internal/fllconfig"
	"fllc-scheduler/internal/models"
	"fllc-scheduler/internal/qlearning"
	"fllc-scheduler/internal/repositories"
	"fllc-scheduler/internal/timegrid"
	"fllc-scheduler/internal/utils"
)

// Message types broadcast over the websocket hub. Mirrored here (rather
// than imported) to keep services independent of internal/websocket — see
// Broadcaster's doc comment. Values must match internal/websocket's
// MessageXxx constants exactly.
const (
	msgRunCreated     = "run_created"
	msgRunStopped     = "run_stopped"
	msgRunFailed      = "run_failed"
	msgPhaseStarted   = "phase_started"
	msgPhaseComplete  = "phase_complete"
	msgRunCompleted   = "run_completed"
)

// TrainerService owns the lifecycle of a training run, fanned out to
// one goroutine per run so multiple runs can train concurrently without
// ever running two phases of the *same* run at once.
type TrainerService struct {
	repos    *repositories.Container
	cache    *CacheService
	defaults fllconfig.EngineDefaults
	logger   *log.Logger

	mu          sync.Mutex
	broadcaster Broadcaster
	acked       map[string]int // runID -> last episode the UI acknowledged
}

// NewTrainerService creates a new trainer service.
func NewTrainerService(repos *repositories.Container, cache *CacheService, defaults fllconfig.EngineDefaults, logger *log.Logger) *TrainerService {
	return &TrainerService{
		repos:    repos,
		cache:    cache,
		defaults: defaults,
		logger:   logger,
		acked:    make(map[string]int),
	}
}

// SetBroadcaster wires the websocket hub in after both it and the trainer
// have been constructed (server.New does this — see internal/server).
func (s *TrainerService) SetBroadcaster(b Broadcaster) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.broadcaster = b
}

func (s *TrainerService) broadcast(runID, eventType string, data interface{}) {
	s.mu.Lock()
	b := s.broadcaster
	s.mu.Unlock()
	if b != nil {
		b.BroadcastRunUpdate(runID, eventType, data)
	}
}

// Acknowledge records the UI's receipt of a phase-complete notification. A
// slow or absent acknowledgment must never corrupt state or stall
// training — internal/websocket.Hub already enforces that by dropping a
// client rather than blocking the broadcaster, so this is a best-effort
// bookkeeping hook (useful for a future "catch the UI up" feature), not a
// gate the training loop waits on.
func (s *TrainerService) Acknowledge(runID string, episode int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if episode > s.acked[runID] {
		s.acked[runID] = episode
	}
}

// applyDefaults fills unset Params fields from the configured engine
// defaults, so a caller can POST a RunConfig with only Schedule/Time set.
func (s *TrainerService) applyDefaults(p qlearning.Params) qlearning.Params {
	if p.Alpha == 0 {
		p.Alpha = s.defaults.Alpha
	}
	if p.Gamma == 0 {
		p.Gamma = s.defaults.Gamma
	}
	if p.EpsilonStart == 0 {
		p.EpsilonStart = s.defaults.EpsilonStart
	}
	if p.EpsilonEnd == 0 {
		p.EpsilonEnd = s.defaults.EpsilonEnd
	}
	if p.EpsilonDecay == 0 {
		p.EpsilonDecay = s.defaults.EpsilonDecay
	}
	if p.Episodes == 0 {
		p.Episodes = s.defaults.Episodes
	}
	if p.BenchmarkRuns == 0 {
		p.BenchmarkRuns = s.defaults.BenchmarkRuns
	}
	return p
}

// StartRun validates cfg, builds the derived TimeConfig, persists a
// pending Run row, and launches the training goroutine. It returns as
// soon as the row is created; training itself runs asynchronously.
func (s *TrainerService) StartRun(ctx context.Context, cfg RunConfig) (string, error) {
	cfg.Params = s.applyDefaults(cfg.Params)

	if err := cfg.Schedule.Validate(); err != nil {
		return "", fmt.Errorf("invalid schedule config: %w", err)
	}
	tc, err := timegrid.Build(cfg.Time.toTimeConfig(), cfg.Schedule)
	if err != nil {
		return "", fmt.Errorf("invalid time configuration: %w", err)
	}

	configJSON, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to marshal run config: %w", err)
	}

	runID := utils.GenerateUUID()
	run := &models.Run{
		ID:         runID,
		Name:       cfg.Name,
		ConfigJSON: configJSON,
		Status:     models.RunPending,
		CreatedAt:  time.Now(),
	}
	if err := s.repos.Run.Create(ctx, run); err != nil {
		return "", fmt.Errorf("failed to create run: %w", err)
	}

	s.broadcast(runID, msgRunCreated, eventPayload{"run_id": runID, "name": cfg.Name})

	go s.runTraining(runID, cfg, tc)

	return runID, nil
}

// eventPayload avoids importing gin (an HTTP-framework concern) into the service
// layer just for a literal map type.
type eventPayload = map[string]interface{}

// RunExists reports whether a run with id exists — backs
// middleware.RequireRunAccess.
func (s *TrainerService) RunExists(ctx context.Context, runID string) (bool, error) {
	return s.repos.Run.Exists(ctx, runID)
}

// GetRun returns a run's current status, scores, and latest cached
// metrics snapshot.
func (s *TrainerService) GetRun(ctx context.Context, runID string) (*RunSummary, error) {
	run, err := s.repos.Run.GetByID(ctx, runID)
	if err != nil {
		return nil, err
	}

	summary := &RunSummary{
		ID:             run.ID,
		Name:           run.Name,
		Status:         run.Status,
		CreatedAt:      run.CreatedAt,
		StartedAt:      run.StartedAt,
		CompletedAt:    run.CompletedAt,
		BenchmarkScore: run.BenchmarkScore,
		TrainingScore:  run.TrainingScore,
		OptimalScore:   run.OptimalScore,
	}

	var metrics qlearning.EpisodeMetrics
	if err := s.cache.GetRunMetrics(runID, &metrics); err == nil {
		summary.LatestMetrics = &metrics
	}

	return summary, nil
}

// StopRun sets the cooperative stop flag; the running goroutine honors it
// at the next phase or episode boundary, never mid-episode.
func (s *TrainerService) StopRun(ctx context.Context, runID string) error {
	exists, err := s.repos.Run.Exists(ctx, runID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return s.repos.Run.RequestStop(ctx, runID)
}

// ExportSchedule writes the given phase's most recently saved schedule as
// a CSV (Time,Round,Location,Team), for the download endpoints. Reads
// from the persisted ScheduleDocument — a download can be served long
// after the episode that produced it has left the controller's in-memory
// state — and hands the rows to internal/exporter, the same writer a live
// run's immediate export would use.
func (s *TrainerService) ExportSchedule(ctx context.Context, w io.Writer, runID, phase string) error {
	doc, err := s.repos.Schedule.GetLatest(ctx, runID, phase)
	if err != nil {
		return err
	}
	if doc == nil {
		return ErrNotFound
	}

	rows := make([]exporter.ScheduleRow, 0, len(doc.Slots))
	for _, slot := range doc.Slots {
		rows = append(rows, exporter.ScheduleRow{
			Time:     slot.Time,
			Round:    slot.Round,
			Location: slot.Location,
			Team:     slot.Team,
		})
	}
	return exporter.WriteSchedule(w, rows)
}

// ExportQTable writes the given phase's most recently saved Q-table as a
// CSV (Time,Round,Location,Team,Q-Value).
func (s *TrainerService) ExportQTable(ctx context.Context, w io.Writer, runID, phase string) error {
	doc, err := s.repos.Schedule.GetLatest(ctx, runID, phase)
	if err != nil {
		return err
	}
	if doc == nil {
		return ErrNotFound
	}

	rows := make([]exporter.QTableRow, 0, len(doc.QTable))
	for _, e := range doc.QTable {
		rows = append(rows, exporter.QTableRow{
			Time:     e.Time,
			Round:    e.Round,
			Location: e.Location,
			Team:     e.Team,
			QValue:   e.QValue,
		})
	}
	return exporter.WriteQTable(w, rows)
}

// runTraining is the goroutine body: benchmark, then Episodes training
// calls, then one optimal pass, checking the stop flag at every boundary.
// Never panics out to the caller — a misconfiguration or engine error
// marks the run failed and returns rather than crashing the process.
func (s *TrainerService) runTraining(runID string, cfg RunConfig, tc models.TimeConfig) {
	ctx := context.Background()

	defer func() {
		if r := recover(); r != nil {
			s.logger.Printf("run %s: panic recovered: %v", runID, r)
			s.fail(ctx, runID, fmt.Sprintf("internal error: %v", r))
		}
	}()

	if err := s.repos.Run.UpdateStatus(ctx, runID, models.RunRunning); err != nil {
		s.logger.Printf("run %s: failed to mark running: %v", runID, err)
	}

	weights := cfg.Weights
	weights.TableConsistency /= 100
	weights.OpponentVariety /= 100
	weights.BackToBackPenalty /= 100
	weights.BreakTime /= 100
	controller := qlearning.NewController(cfg.Schedule, tc, cfg.Params, weights, cfg.Seed)

	s.broadcast(runID, msgPhaseStarted, eventPayload{"phase": string(qlearning.PhaseBenchmark)})
	_, benchMetrics := controller.RunBenchmark()
	benchLast := lastOf(benchMetrics)
	benchScore := s.persistPhase(ctx, runID, controller, qlearning.PhaseBenchmark, benchLast, cfg.Schedule)
	s.cache.SetRunMetrics(runID, benchLast)
	s.broadcast(runID, msgPhaseComplete, benchLast)
	if s.stopped(ctx, runID) {
		return
	}

	s.broadcast(runID, msgPhaseStarted, eventPayload{"phase": string(qlearning.PhaseTraining)})
	var lastTrainMetrics qlearning.EpisodeMetrics
	for i := 1; i <= cfg.Params.Episodes; i++ {
		if s.stopped(ctx, runID) {
			return
		}
		_, m := controller.TrainEpisode(i)
		lastTrainMetrics = m
		s.cache.SetRunMetrics(runID, m)
		s.broadcast(runID, msgPhaseComplete, m)
	}
	trainScore := s.persistPhase(ctx, runID, controller, qlearning.PhaseTraining, lastTrainMetrics, cfg.Schedule)
	if s.stopped(ctx, runID) {
		return
	}

	s.broadcast(runID, msgPhaseStarted, eventPayload{"phase": string(qlearning.PhaseOptimal)})
	_, optMetrics := controller.GenerateOptimal()
	optScore := s.persistPhase(ctx, runID, controller, qlearning.PhaseOptimal, optMetrics, cfg.Schedule)
	s.cache.SetRunMetrics(runID, optMetrics)
	s.broadcast(runID, msgPhaseComplete, optMetrics)

	if err := s.repos.Run.UpdateScores(ctx, runID, benchScore, trainScore, optScore); err != nil {
		s.logger.Printf("run %s: failed to persist scores: %v", runID, err)
	}
	if err := s.repos.Run.UpdateStatus(ctx, runID, models.RunCompleted); err != nil {
		s.logger.Printf("run %s: failed to mark completed: %v", runID, err)
	}
	s.broadcast(runID, msgRunCompleted, eventPayload{"benchmark": benchScore, "training": trainScore, "optimal": optScore})
}

// persistPhase evaluates the controller's most recent episode, saves the
// schedule (and, for the optimal phase, the Q-table) to MongoDB, and
// returns the evaluator score.
func (s *TrainerService) persistPhase(ctx context.Context, runID string, controller *qlearning.Controller, phase qlearning.Phase, m qlearning.EpisodeMetrics, sc models.ScheduleConfig) float64 {
	slots := controller.LastStaticSlots()
	required := sc.NumTeams * (sc.Rounds.Practice + sc.Rounds.Table)
	result := evaluator.Evaluate(slots, sc.NumTeams, required)

	doc := repositories.ScheduleDocument{
		RunID:   runID,
		Phase:   string(phase),
		Episode: m.Episode,
		Score:   result.Score,
	}
	for _, slot := range slots {
		doc.Slots = append(doc.Slots, repositories.SlotDocument{
			Time:     slot.TimeSlot.Start,
			Round:    string(slot.RoundType),
			Location: slot.Location.String(),
			Team:     slot.TeamID,
		})
	}
	if phase == qlearning.PhaseOptimal {
		for _, e := range controller.Entries() {
			doc.QTable = append(doc.QTable, repositories.QEntryDocument{
				Time:     e.Slot.Start,
				Round:    string(e.Slot.RoundType),
				Location: e.Slot.Location.String(),
				Team:     e.TeamID,
				QValue:   e.QValue,
			})
		}
	}

	if err := s.repos.Schedule.Save(ctx, doc); err != nil {
		s.logger.Printf("run %s: failed to save %s schedule: %v", runID, phase, err)
	}

	return result.Score
}

func (s *TrainerService) stopped(ctx context.Context, runID string) bool {
	stop, err := s.repos.Run.StopRequested(ctx, runID)
	if err != nil {
		s.logger.Printf("run %s: failed to check stop flag: %v", runID, err)
		return false
	}
	if stop {
		if err := s.repos.Run.UpdateStatus(ctx, runID, models.RunStopped); err != nil {
			s.logger.Printf("run %s: failed to mark stopped: %v", runID, err)
		}
		s.broadcast(runID, msgRunStopped, eventPayload{"run_id": runID})
	}
	return stop
}

func (s *TrainerService) fail(ctx context.Context, runID, reason string) {
	if err := s.repos.Run.SetFailureReason(ctx, runID, reason); err != nil {
		s.logger.Printf("run %s: failed to record failure reason: %v", runID, err)
	}
	if err := s.repos.Run.UpdateStatus(ctx, runID, models.RunFailed); err != nil {
		s.logger.Printf("run %s: failed to mark failed: %v", runID, err)
	}
	s.broadcast(runID, msgRunFailed, eventPayload{"run_id": runID, "reason": reason})
}

func lastOf(metrics []qlearning.EpisodeMetrics) qlearning.EpisodeMetrics {
	if len(metrics) == 0 {
		return qlearning.EpisodeMetrics{}
	}
	return metrics[len(metrics)-1]
}
