// internal/repositories/container.go
// Repository container for dependency injection — same shape as the
// teacher's container.go, down to exposing the raw MySQL *sql.DB for
// transactional callers, just with two repositories instead of eight.
package repositories

import (
	"context"
	"database/sql"

	"fllc-scheduler/internal/database"
)

// Container holds all repository instances.
type Container struct {
	Run      *RunRepository
	Schedule *ScheduleRepository
	db       *sql.DB
}

// NewContainer creates a new repository container.
func NewContainer(conn *database.Connections) *Container {
	return &Container{
		Run:      NewRunRepository(conn.MySQL),
		Schedule: NewScheduleRepository(conn.MongoDB),
		db:       conn.MySQL,
	}
}

// BeginTx starts a new database transaction.
func (c *Container) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return c.db.BeginTx(ctx, nil)
}
