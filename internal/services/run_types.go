// internal/services/run_types.go
// RunConfig is the typed wire-level request body for creating a run: a
// ScheduleConfig, the five TimeConfig anchors, the Q-learning Params, and
// the reward Weights, combined into one JSON-able struct so a caller never
// has to post a keyed-string settings bag.
package services

import (
	"time"

	"fllc-scheduler/internal/models"
	"fllc-scheduler/internal/qlearning"
	"fllc-scheduler/internal/reward"
)

// TimeAnchors carries the five wall-clock anchors TimeConfig needs before
// internal/timegrid derives its slot lists.
type TimeAnchors struct {
	JudgingStart  string `json:"judging_start"`
	PracticeStart string `json:"practice_start"`
	BreakStart    string `json:"break_start"`
	TableStart    string `json:"table_start"`
	TableStop     string `json:"table_stop"`
}

func (a TimeAnchors) toTimeConfig() models.TimeConfig {
	return models.TimeConfig{
		JudgingStart:  a.JudgingStart,
		PracticeStart: a.PracticeStart,
		BreakStart:    a.BreakStart,
		TableStart:    a.TableStart,
		TableStop:     a.TableStop,
	}
}

// RunConfig is the POST /api/v1/runs request body.
type RunConfig struct {
	Name     string                `json:"name" binding:"required"`
	Schedule models.ScheduleConfig `json:"schedule"`
	Time     TimeAnchors           `json:"time"`
	Params   qlearning.Params      `json:"params"`
	Weights  reward.Weights        `json:"weights"`
	Seed     int64                 `json:"seed"`
}

// RunSummary is what GET /api/v1/runs/:id returns: status, the latest
// cached metrics snapshot, and the per-phase evaluator scores once known.
type RunSummary struct {
	ID             string                   `json:"id"`
	Name           string                   `json:"name"`
	Status         models.RunStatus         `json:"status"`
	CreatedAt      time.Time                `json:"created_at"`
	StartedAt      *time.Time               `json:"started_at,omitempty"`
	CompletedAt    *time.Time               `json:"completed_at,omitempty"`
	BenchmarkScore float64                  `json:"benchmark_score"`
	TrainingScore  float64                  `json:"training_score"`
	OptimalScore   float64                  `json:"optimal_score"`
	LatestMetrics  *qlearning.EpisodeMetrics `json:"latest_metrics,omitempty"`
}

// Broadcaster is the narrow slice of websocket.Hub that TrainerService
// needs. Declaring it here instead of importing internal/websocket avoids
// a services<->websocket import cycle (Hub already holds a
// *services.Container); the concrete *websocket.Hub is wired in after both
// are constructed via SetBroadcaster.
type Broadcaster interface {
	BroadcastRunUpdate(runID string, updateType string, data interface{})
}
