// internal/repositories/run_repository.go
// Run data access layer (MySQL). Grounded on the teacher's
// tournament_repository.go: same Create/GetByID/Update/List shape, same
// "marshal the variable-shaped bits to a JSON column" trick the teacher
// uses for CustomFields, here used for the whole config snapshot.
package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"fllc-scheduler/internal/models"
)

// RunRepository handles run data access.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new run repository.
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a new run row.
func (r *RunRepository) Create(ctx context.Context, run *models.Run) error {
	query := `
		INSERT INTO runs (
			id, name, config, status, stop_requested,
			benchmark_score, training_score, optimal_score, failure_reason,
			created_at, started_at, completed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		run.ID,
		run.Name,
		run.ConfigJSON,
		run.Status,
		run.StopRequested,
		run.BenchmarkScore,
		run.TrainingScore,
		run.OptimalScore,
		run.FailureReason,
		run.CreatedAt,
		run.StartedAt,
		run.CompletedAt,
	)
	return err
}

// GetByID retrieves a run by id.
func (r *RunRepository) GetByID(ctx context.Context, id string) (*models.Run, error) {
	query := `
		SELECT id, name, config, status, stop_requested,
			benchmark_score, training_score, optimal_score, failure_reason,
			created_at, started_at, completed_at
		FROM runs WHERE id = ?
	`
	var run models.Run
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&run.ID,
		&run.Name,
		&run.ConfigJSON,
		&run.Status,
		&run.StopRequested,
		&run.BenchmarkScore,
		&run.TrainingScore,
		&run.OptimalScore,
		&run.FailureReason,
		&run.CreatedAt,
		&run.StartedAt,
		&run.CompletedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run not found")
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// Exists reports whether a run with id exists, without paying for a full
// row scan — backs middleware.RequireRunAccess.
func (r *RunRepository) Exists(ctx context.Context, id string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM runs WHERE id = ? LIMIT 1`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// UpdateStatus transitions a run's status, stamping started_at/completed_at
// as appropriate.
func (r *RunRepository) UpdateStatus(ctx context.Context, id string, status models.RunStatus) error {
	switch status {
	case models.RunRunning:
		_, err := r.db.ExecContext(ctx, `UPDATE runs SET status = ?, started_at = NOW() WHERE id = ?`, status, id)
		return err
	case models.RunCompleted, models.RunStopped, models.RunFailed:
		_, err := r.db.ExecContext(ctx, `UPDATE runs SET status = ?, completed_at = NOW() WHERE id = ?`, status, id)
		return err
	default:
		_, err := r.db.ExecContext(ctx, `UPDATE runs SET status = ? WHERE id = ?`, status, id)
		return err
	}
}

// SetFailureReason records why a run transitioned to failed.
func (r *RunRepository) SetFailureReason(ctx context.Context, id, reason string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE runs SET failure_reason = ? WHERE id = ?`, reason, id)
	return err
}

// UpdateScores records the evaluator's score for a completed phase.
func (r *RunRepository) UpdateScores(ctx context.Context, id string, benchmark, training, optimal float64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE runs SET benchmark_score = ?, training_score = ?, optimal_score = ? WHERE id = ?`,
		benchmark, training, optimal, id)
	return err
}

// RequestStop sets the cooperative stop flag TrainerService polls at
// phase/episode boundaries.
func (r *RunRepository) RequestStop(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE runs SET stop_requested = TRUE WHERE id = ?`, id)
	return err
}

// StopRequested reports the current value of the stop flag.
func (r *RunRepository) StopRequested(ctx context.Context, id string) (bool, error) {
	var stop bool
	err := r.db.QueryRowContext(ctx, `SELECT stop_requested FROM runs WHERE id = ?`, id).Scan(&stop)
	if err != nil {
		return false, err
	}
	return stop, nil
}

// List retrieves runs ordered newest-first, paginated.
func (r *RunRepository) List(ctx context.Context, limit, offset int) ([]*models.Run, error) {
	query := `
		SELECT id, name, config, status, stop_requested,
			benchmark_score, training_score, optimal_score, failure_reason,
			created_at, started_at, completed_at
		FROM runs ORDER BY created_at DESC LIMIT ? OFFSET ?
	`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]*models.Run, 0)
	for rows.Next() {
		var run models.Run
		if err := rows.Scan(
			&run.ID, &run.Name, &run.ConfigJSON, &run.Status, &run.StopRequested,
			&run.BenchmarkScore, &run.TrainingScore, &run.OptimalScore, &run.FailureReason,
			&run.CreatedAt, &run.StartedAt, &run.CompletedAt,
		); err != nil {
			return nil, err
		}
		runs = append(runs, &run)
	}
	return runs, nil
}
