package ports

import (
	"context"

	"drones/internal/core/domain/model/kernel"
	"drones/internal/core/domain/model/run"
)

// RunRepository defines the persistence contract for the run log.
type RunRepository interface {
	// Add stores a closed run. Runs are written once and never updated.
	Add(ctx context.Context, r *run.Run) error

	// Get retrieves a run by its identifier.
	Get(ctx context.Context, id kernel.UUID) (*run.Run, error)

	// GetAll retrieves every run, newest first.
	GetAll(ctx context.Context) ([]*run.Run, error)
}
