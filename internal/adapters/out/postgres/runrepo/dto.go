// Package runrepo maps the run log between the run aggregate and its two tables:
// one row per run and one row per drone that took part in it.
package runrepo

import (
	"slices"
	"time"

	"drones/internal/core/domain/model/kernel"
	"drones/internal/core/domain/model/run"

	"github.com/google/uuid"
)

// RunDTO is one solver run. Makespan and the time limit flag are derived from
// the drone costs but stored so the runs query can read them without a join.
type RunDTO struct {
	ID                uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Solver            string         `gorm:"type:varchar(64);not null"`
	Seed              int64          `gorm:"not null"`
	TimeLimit         int            `gorm:"type:int;not null"`
	OrderCount        int            `gorm:"type:int;not null"`
	Makespan          int            `gorm:"type:int;not null"`
	ExceededTimeLimit bool           `gorm:"not null"`
	Failure           string         `gorm:"type:text;not null;default:''"`
	StartedAt         time.Time      `gorm:"not null"`
	FinishedAt        time.Time      `gorm:"not null;index"`
	DroneCosts        []DroneCostDTO `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE"`
}

func (RunDTO) TableName() string {
	return "runs"
}

// DroneCostDTO is the accumulated cost of one drone in one run.
type DroneCostDTO struct {
	RunID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Drone string    `gorm:"type:varchar(255);primaryKey"`
	Cost  int       `gorm:"type:int;not null"`
}

func (DroneCostDTO) TableName() string {
	return "drone_costs"
}

func fromDomain(r *run.Run) RunDTO {
	runID := r.ID().Bytes()

	costs := r.DroneCosts()
	names := make([]string, 0, len(costs))
	for name := range costs {
		names = append(names, name)
	}
	slices.Sort(names)

	droneCosts := make([]DroneCostDTO, 0, len(names))
	for _, name := range names {
		droneCosts = append(droneCosts, DroneCostDTO{
			RunID: runID,
			Drone: name,
			Cost:  costs[name],
		})
	}

	return RunDTO{
		ID:                runID,
		Solver:            r.Solver(),
		Seed:              r.Seed(),
		TimeLimit:         r.TimeLimit(),
		OrderCount:        r.OrderCount(),
		Makespan:          r.Makespan(),
		ExceededTimeLimit: r.ExceededTimeLimit(),
		Failure:           r.Failure(),
		StartedAt:         r.StartedAt().UTC(),
		FinishedAt:        r.FinishedAt().UTC(),
		DroneCosts:        droneCosts,
	}
}

func toDomain(dto RunDTO) (*run.Run, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	costs := make(map[string]int, len(dto.DroneCosts))
	for _, dc := range dto.DroneCosts {
		costs[dc.Drone] = dc.Cost
	}

	return run.RestoreRun(
		id,
		dto.Solver,
		dto.Seed,
		dto.TimeLimit,
		dto.OrderCount,
		costs,
		dto.Failure,
		dto.StartedAt.UTC(),
		dto.FinishedAt.UTC(),
	)
}
