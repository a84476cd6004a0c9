// Package memory keeps the run log in process memory. It is used when no
// database is configured and gives the same contract as the postgres adapter:
// runs written inside a unit of work become visible on Commit only.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"drones/internal/core/domain/model/kernel"
	"drones/internal/core/domain/model/run"
	"drones/internal/pkg/errs"
)

// RunStore holds committed runs. It is safe for concurrent use.
type RunStore struct {
	mu   sync.RWMutex
	runs map[kernel.UUID]*run.Run
}

func NewRunStore() *RunStore {
	return &RunStore{runs: make(map[kernel.UUID]*run.Run)}
}

func (s *RunStore) get(id kernel.UUID) (*run.Run, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.runs[id]
	return r, ok
}

func (s *RunStore) all() []*run.Run {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]*run.Run, 0, len(s.runs))
	for _, r := range s.runs {
		runs = append(runs, r)
	}
	sortNewestFirst(runs)
	return runs
}

// commit writes staged runs all or nothing.
func (s *RunStore) commit(staged []*run.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range staged {
		if _, ok := s.runs[r.ID()]; ok {
			return errs.NewValueIsInvalidErrorWithCause("run", fmt.Errorf("%s is already stored", r.ID()))
		}
	}
	for _, r := range staged {
		s.runs[r.ID()] = r
	}
	return nil
}

func sortNewestFirst(runs []*run.Run) {
	slices.SortStableFunc(runs, func(a, b *run.Run) int {
		if c := b.FinishedAt().Compare(a.FinishedAt()); c != 0 {
			return c
		}
		return cmp.Compare(a.ID().String(), b.ID().String())
	})
}

// RunRepository reads committed runs and stages new ones in its unit of work.
type RunRepository struct {
	store *RunStore
	uow   *UnitOfWork
}

func (r *RunRepository) Add(_ context.Context, aggregate *run.Run) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if !aggregate.IsClosed() {
		return errs.NewValueIsInvalidErrorWithCause("run", fmt.Errorf("%s is still open", aggregate.ID()))
	}
	return r.uow.stage(aggregate)
}

func (r *RunRepository) Get(_ context.Context, id kernel.UUID) (*run.Run, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	if found, ok := r.uow.staged(id); ok {
		return found, nil
	}
	if found, ok := r.store.get(id); ok {
		return found, nil
	}
	return nil, errs.NewObjectNotFoundError("run", id.String())
}

func (r *RunRepository) GetAll(_ context.Context) ([]*run.Run, error) {
	runs := r.store.all()
	if pending := r.uow.pending(); len(pending) > 0 {
		runs = append(runs, pending...)
		sortNewestFirst(runs)
	}
	return runs, nil
}
