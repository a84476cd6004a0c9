package memory

import (
	"context"
	"errors"
	"slices"

	"drones/internal/core/domain/model/kernel"
	"drones/internal/core/domain/model/run"
	"drones/internal/core/ports"
	"drones/internal/pkg/errs"
)

// ErrNoTransaction mirrors gorm.ErrInvalidTransaction for the in-memory log.
var ErrNoTransaction = errors.New("no active transaction")

type UnitOfWorkFactory struct {
	store *RunStore
}

func NewUnitOfWorkFactory(store *RunStore) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store}
}

func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	return &UnitOfWork{store: f.store}
}

// UnitOfWork stages runs until Commit. Outside a transaction Add writes through.
type UnitOfWork struct {
	store  *RunStore
	active bool
	runs   []*run.Run
}

func (uow *UnitOfWork) Begin(_ context.Context) error {
	uow.active = true
	return nil
}

func (uow *UnitOfWork) Commit(_ context.Context) error {
	if !uow.active {
		return ErrNoTransaction
	}

	staged := uow.runs
	uow.active = false
	uow.runs = nil
	return uow.store.commit(staged)
}

func (uow *UnitOfWork) Rollback(_ context.Context) error {
	if !uow.active {
		return ErrNoTransaction
	}

	uow.active = false
	uow.runs = nil
	return nil
}

func (uow *UnitOfWork) RunRepository() ports.RunRepository {
	return &RunRepository{store: uow.store, uow: uow}
}

func (uow *UnitOfWork) stage(r *run.Run) error {
	if _, ok := uow.staged(r.ID()); ok {
		return errs.NewValueIsInvalidErrorWithCause("run", errors.New(r.ID().String()+" is already staged"))
	}
	if !uow.active {
		return uow.store.commit([]*run.Run{r})
	}

	uow.runs = append(uow.runs, r)
	return nil
}

func (uow *UnitOfWork) staged(id kernel.UUID) (*run.Run, bool) {
	i := slices.IndexFunc(uow.runs, func(r *run.Run) bool { return r.ID().IsEqual(id) })
	if i < 0 {
		return nil, false
	}
	return uow.runs[i], true
}

func (uow *UnitOfWork) pending() []*run.Run {
	return slices.Clone(uow.runs)
}
