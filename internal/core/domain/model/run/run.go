// Package run provides the Run record: the outcome of one solver pass over a
// scenario. Runs are an outcome log only; a run can be listed, never resumed.
package run

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"strings"
	"time"

	"drones/internal/core/domain/model/kernel"
	"drones/internal/pkg/errs"
	"drones/internal/pkg/guard"
)

var (
	ErrRunIsNotConstructed = errors.New("Run must be created via NewRun or RestoreRun constructor")
	ErrRunIsAlreadyClosed  = errors.New("run is already closed")
)

type Run struct {
	id         kernel.UUID
	solver     string
	seed       int64
	timeLimit  int
	orderCount int

	droneCosts map[string]int
	makespan   int
	failure    string

	startedAt  time.Time
	finishedAt time.Time

	guard guard.ConstructorGuard
}

// NewRun opens a run that has started but not finished yet.
func NewRun(id kernel.UUID, solver string, seed int64, timeLimit, orderCount int, startedAt time.Time) (*Run, error) {
	r := &Run{
		seed:       seed,
		droneCosts: make(map[string]int),
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		r.setID(id),
		r.setSolver(solver),
		r.setTimeLimit(timeLimit),
		r.setOrderCount(orderCount),
		r.setStartedAt(startedAt),
	); err != nil {
		return nil, err
	}

	return r, nil
}

// RestoreRun rebuilds a closed run from storage.
func RestoreRun(
	id kernel.UUID,
	solver string,
	seed int64,
	timeLimit, orderCount int,
	droneCosts map[string]int,
	failure string,
	startedAt, finishedAt time.Time,
) (*Run, error) {
	r, err := NewRun(id, solver, seed, timeLimit, orderCount, startedAt)
	if err != nil {
		return nil, err
	}

	if failure != "" {
		err = r.Fail(errors.New(failure), droneCosts, finishedAt)
	} else {
		err = r.Finish(droneCosts, finishedAt)
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Run) Validate() error {
	if r == nil {
		return ErrRunIsNotConstructed
	}
	return r.guard.Validate(ErrRunIsNotConstructed)
}

// Finish closes the run with the accumulated cost of every drone. The makespan is
// the largest of them, zero for an idle or empty fleet.
func (r *Run) Finish(droneCosts map[string]int, finishedAt time.Time) error {
	if err := r.close(finishedAt); err != nil {
		return err
	}
	if err := r.setDroneCosts(droneCosts); err != nil {
		return err
	}
	r.finishedAt = finishedAt
	return nil
}

// Fail closes the run with the error that aborted the solver and the cost the
// drones had accumulated by then.
func (r *Run) Fail(cause error, droneCosts map[string]int, finishedAt time.Time) error {
	if cause == nil {
		return errs.NewValueIsRequiredError("cause")
	}
	if err := r.close(finishedAt); err != nil {
		return err
	}
	if err := r.setDroneCosts(droneCosts); err != nil {
		return err
	}

	r.failure = strings.ReplaceAll(cause.Error(), "\n", "; ")
	r.finishedAt = finishedAt
	return nil
}

func (r *Run) close(finishedAt time.Time) error {
	if r.IsClosed() {
		return fmt.Errorf("%w: %s", ErrRunIsAlreadyClosed, r.id)
	}
	if finishedAt.Before(r.startedAt) {
		return errs.NewValueIsInvalidErrorWithCause("finishedAt",
			fmt.Errorf("%s is before start %s", finishedAt.Format(time.RFC3339Nano), r.startedAt.Format(time.RFC3339Nano)))
	}
	return nil
}

func (r *Run) ID() kernel.UUID {
	return r.id
}

func (r *Run) Solver() string {
	return r.solver
}

func (r *Run) Seed() int64 {
	return r.seed
}

func (r *Run) TimeLimit() int {
	return r.timeLimit
}

func (r *Run) OrderCount() int {
	return r.orderCount
}

func (r *Run) DroneCosts() map[string]int {
	return maps.Clone(r.droneCosts)
}

// Makespan is the maximum accumulated cost across the fleet.
func (r *Run) Makespan() int {
	return r.makespan
}

// ExceededTimeLimit reports a finished run whose makespan went past the scenario
// time limit. The limit is reported here and enforced nowhere.
func (r *Run) ExceededTimeLimit() bool {
	return r.IsFinished() && r.makespan > r.timeLimit
}

func (r *Run) Failure() string {
	return r.failure
}

func (r *Run) IsClosed() bool {
	return !r.finishedAt.IsZero()
}

func (r *Run) IsFinished() bool {
	return r.IsClosed() && r.failure == ""
}

func (r *Run) IsFailed() bool {
	return r.failure != ""
}

func (r *Run) StartedAt() time.Time {
	return r.startedAt
}

func (r *Run) FinishedAt() time.Time {
	return r.finishedAt
}

func (r *Run) Duration() time.Duration {
	if !r.IsClosed() {
		return 0
	}
	return r.finishedAt.Sub(r.startedAt)
}

func (r *Run) setDroneCosts(droneCosts map[string]int) error {
	for name, cost := range droneCosts {
		if cost < 0 {
			return errs.NewValueIsInvalidErrorWithCause("drone cost", fmt.Errorf("%s has cost %d", name, cost))
		}
	}

	r.droneCosts = maps.Clone(droneCosts)
	if r.droneCosts == nil {
		r.droneCosts = make(map[string]int)
	}
	r.makespan = 0
	for _, cost := range r.droneCosts {
		r.makespan = max(r.makespan, cost)
	}
	return nil
}

func (r *Run) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	r.id = id
	return nil
}

func (r *Run) setSolver(solver string) error {
	if strings.TrimSpace(solver) == "" {
		return errs.NewValueIsRequiredError("solver")
	}
	r.solver = solver
	return nil
}

func (r *Run) setTimeLimit(timeLimit int) error {
	if timeLimit < 0 {
		return errs.NewValueIsOutOfRangeError("timeLimit", timeLimit, 0, math.MaxInt)
	}
	r.timeLimit = timeLimit
	return nil
}

func (r *Run) setOrderCount(orderCount int) error {
	if orderCount < 0 {
		return errs.NewValueIsOutOfRangeError("orderCount", orderCount, 0, math.MaxInt)
	}
	r.orderCount = orderCount
	return nil
}

func (r *Run) setStartedAt(startedAt time.Time) error {
	if startedAt.IsZero() {
		return errs.NewValueIsRequiredError("startedAt")
	}
	r.startedAt = startedAt
	return nil
}
