package services

import (
	"fmt"
	"math/rand/v2"

	"drones/internal/core/domain/simulation"
)

// RandomSolver is the baseline solver. It flies the drone through the chosen
// warehouses and customer but neither retrieves packages nor completes orders,
// so inventories and customer cells end the run as they started.
type RandomSolver struct {
	rng *rand.Rand
}

func NewRandomSolver(rng *rand.Rand) (*RandomSolver, error) {
	if rng == nil {
		return nil, ErrRandIsRequired
	}
	return &RandomSolver{rng: rng}, nil
}

func (s *RandomSolver) Name() string {
	return RandomSolverName
}

func (s *RandomSolver) Solve(sim *simulation.Simulation) error {
	for sim.HasPendingOrders() {
		o, d, err := pick(sim, s.rng)
		if err != nil {
			return err
		}

		if err := sim.ClaimOrder(o); err != nil {
			return err
		}

		for _, p := range o.Packages() {
			suppliers := sim.WarehousesContaining(p)
			if len(suppliers) == 0 {
				return noSupplier(o, p.Name())
			}
			w := suppliers[s.rng.IntN(len(suppliers))]

			if err := sim.FlyDroneTo(d, w.Position()); err != nil {
				return fmt.Errorf("fly %s to %s: %w", d.Name(), w.Name(), err)
			}
			if err := sim.FlyDroneTo(d, o.Position()); err != nil {
				return fmt.Errorf("fly %s to %s: %w", d.Name(), o.Customer().Name(), err)
			}
		}
	}
	return nil
}
