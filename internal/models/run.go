// internal/models/run.go
// Run is the relational record a RunRepository (MySQL) persists: one row
// per training run, read by id and listable newest-first through
// RunRepository.List (no HTTP route lists runs). The run's actual
// configuration travels as an opaque JSON blob here (ConfigJSON) — models
// cannot import internal/services' RunConfig without an import cycle, and
// the repository layer never needs to look inside it, only round-trip it.
package models

import "time"

// RunStatus is the run's lifecycle state.
type RunStatus string

const (
	RunPending   RunStatus = "pending"
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunStopped   RunStatus = "stopped"
	RunFailed    RunStatus = "failed"
)

// Run is one training run's bookkeeping row.
type Run struct {
	ID             string
	Name           string
	ConfigJSON     []byte
	Status         RunStatus
	StopRequested  bool
	BenchmarkScore float64
	TrainingScore  float64
	OptimalScore   float64
	FailureReason  string
	CreatedAt      time.Time
	StartedAt      *time.Time
	CompletedAt    *time.Time
}
