package services

import (
	"fmt"
	"math"
	"math/rand/v2"

	"drones/internal/core/domain/model/drone"
	"drones/internal/core/domain/model/warehouse"
	"drones/internal/core/domain/simulation"
)

// GreedySolver picks the order and the drone at random and, for every package,
// the supplying warehouse closest to where the drone is at that moment.
type GreedySolver struct {
	rng *rand.Rand
}

func NewGreedySolver(rng *rand.Rand) (*GreedySolver, error) {
	if rng == nil {
		return nil, ErrRandIsRequired
	}
	return &GreedySolver{rng: rng}, nil
}

func (s *GreedySolver) Name() string {
	return GreedySolverName
}

func (s *GreedySolver) Solve(sim *simulation.Simulation) error {
	for sim.HasPendingOrders() {
		o, d, err := pick(sim, s.rng)
		if err != nil {
			return err
		}

		if err := sim.ClaimOrder(o); err != nil {
			return err
		}

		for _, p := range o.Packages() {
			w := Nearest(d, sim.WarehousesContaining(p))
			if w == nil {
				return noSupplier(o, p.Name())
			}

			if err := sim.FlyDroneTo(d, w.Position()); err != nil {
				return fmt.Errorf("fly %s to %s: %w", d.Name(), w.Name(), err)
			}
			if _, err := sim.RetrievePackage(w, p); err != nil {
				return err
			}
			if err := sim.FlyDroneTo(d, o.Position()); err != nil {
				return fmt.Errorf("fly %s to %s: %w", d.Name(), o.Customer().Name(), err)
			}
		}

		if err := sim.CompleteOrder(o); err != nil {
			return err
		}
	}
	return nil
}

// Nearest returns the warehouse with the smallest straight-line distance to the
// drone's real position. Ties go to the earliest candidate; nil when there is
// none.
func Nearest(d *drone.Drone, candidates []*warehouse.Warehouse) *warehouse.Warehouse {
	var (
		best     *warehouse.Warehouse
		bestDist = math.MaxFloat64
	)

	for _, w := range candidates {
		if dist := d.DistanceTo(w.Position()); dist < bestDist {
			bestDist = dist
			best = w
		}
	}

	return best
}
