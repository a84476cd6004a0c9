package services

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"drones/internal/core/domain/model/drone"
	"drones/internal/core/domain/model/order"
	"drones/internal/core/domain/simulation"
	"drones/internal/pkg/errs"
)

const (
	RandomSolverName = "random"
	GreedySolverName = "greedy"
)

var (
	// ErrNoSupplier is returned when no warehouse stocks a package an order needs.
	// It points at the scenario data, unlike warehouse.ErrOutOfStock.
	ErrNoSupplier = errors.New("no supplier")
	// ErrNoDrones is returned when orders are pending but the fleet is empty.
	ErrNoDrones = errors.New("no drones to dispatch")
	// ErrRandIsRequired is returned when a solver is built without a random source.
	ErrRandIsRequired = errs.NewValueIsRequiredError("rng")
)

// Solver drains the pending orders of a simulation.
type Solver interface {
	Name() string
	Solve(sim *simulation.Simulation) error
}

// NewSolver builds the solver registered under name.
func NewSolver(name string, rng *rand.Rand) (Solver, error) {
	if rng == nil {
		return nil, ErrRandIsRequired
	}

	switch strings.ToLower(strings.TrimSpace(name)) {
	case RandomSolverName:
		return &RandomSolver{rng: rng}, nil
	case GreedySolverName:
		return &GreedySolver{rng: rng}, nil
	default:
		return nil, errs.NewValueIsInvalidErrorWithCause("solver",
			fmt.Errorf("unknown solver %q, want %s or %s", name, RandomSolverName, GreedySolverName))
	}
}

// NewRand seeds the random source of a solver. The same seed always yields the
// same sequence of choices.
func NewRand(seed int64) *rand.Rand {
	s := uint64(seed)
	return rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))
}

// pick chooses the next order and drone uniformly at random.
func pick(sim *simulation.Simulation, rng *rand.Rand) (*order.Order, *drone.Drone, error) {
	orders := sim.PendingOrders()
	drones := sim.Drones()
	if len(drones) == 0 {
		return nil, nil, fmt.Errorf("%w: %d orders pending", ErrNoDrones, len(orders))
	}
	return orders[rng.IntN(len(orders))], drones[rng.IntN(len(drones))], nil
}

func noSupplier(o *order.Order, packageName string) error {
	return fmt.Errorf("%w: %s for order %s of %s", ErrNoSupplier, packageName, o.ID(), o.Customer().Name())
}
