package runrepo

import (
	"context"
	"errors"

	"drones/internal/core/domain/model/kernel"
	"drones/internal/core/domain/model/run"
	"drones/internal/pkg/errs"

	"gorm.io/gorm"
)

// ErrRunIsOpen is returned when a run that has not finished or failed is stored.
var ErrRunIsOpen = errors.New("only closed runs can be stored")

// GormRunRepository implements RunRepository using GORM.
type GormRunRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormRunRepository creates a new GORM run repository.
func NewGormRunRepository(db *gorm.DB, tracker aggregateTracker) *GormRunRepository {
	return &GormRunRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a closed run together with its drone costs.
func (r *GormRunRepository) Add(ctx context.Context, aggregate *run.Run) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if !aggregate.IsClosed() {
		return ErrRunIsOpen
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a run by ID.
func (r *GormRunRepository) Get(ctx context.Context, id kernel.UUID) (*run.Run, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto RunDTO
	if err := r.db.WithContext(ctx).Preload("DroneCosts").First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("run", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAll retrieves every run, the most recently finished first.
func (r *GormRunRepository) GetAll(ctx context.Context) ([]*run.Run, error) {
	var dtos []RunDTO
	if err := r.db.WithContext(ctx).
		Preload("DroneCosts").
		Order("finished_at DESC").
		Order("id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	runs := make([]*run.Run, 0, len(dtos))
	for _, dto := range dtos {
		rn, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		runs = append(runs, rn)
	}

	return runs, nil
}
