// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return read models shaped for their consumers, not aggregates.
package queries

import (
	"errors"
	"time"

	"drones/internal/core/domain/model/kernel"
	"drones/internal/pkg/errs"
	"drones/internal/pkg/guard"
)

var (
	ErrGetAllRunsQueryIsNotConstructed = errors.New(
		"GetAllRunsQuery must be created via NewGetAllRunsQuery constructor",
	)
)

// GetAllRunsQuery lists the run log, newest first.
//
// Example:
//
//	query, _ := NewGetAllRunsQuery(10)
//	runs, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to list runs: %w", err)
//	}
//
//	for _, r := range runs {
//	    fmt.Printf("%s %s cost %d\n", r.FinishedAt, r.Solver, r.Makespan)
//	}
type GetAllRunsQuery struct {
	limit int

	guard guard.ConstructorGuard
}

// NewGetAllRunsQuery creates the query. A zero limit returns every run.
func NewGetAllRunsQuery(limit int) (GetAllRunsQuery, error) {
	if limit < 0 {
		return GetAllRunsQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 0, "unbounded")
	}
	return GetAllRunsQuery{limit: limit, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetAllRunsQuery) Validate() error {
	return q.guard.Validate(ErrGetAllRunsQueryIsNotConstructed)
}

func (q GetAllRunsQuery) Limit() int {
	return q.limit
}

// GetAllRunsQueryResponse is one line of the run log. Failure is empty for
// runs that drained every order.
type GetAllRunsQueryResponse struct {
	ID                kernel.UUID    `json:"id"`
	Solver            string         `json:"solver"`
	Seed              int64          `json:"seed"`
	Makespan          int            `json:"makespan"`
	DroneCosts        map[string]int `json:"droneCosts"`
	OrderCount        int            `json:"orderCount"`
	TimeLimit         int            `json:"timeLimit"`
	ExceededTimeLimit bool           `json:"exceededTimeLimit"`
	Failure           string         `json:"failure,omitempty"`
	StartedAt         time.Time      `json:"startedAt"`
	FinishedAt        time.Time      `json:"finishedAt"`
}
