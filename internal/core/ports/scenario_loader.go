// Package ports defines the contracts between the dispatch core and the adapters
// around it: where scenarios come from, where grid snapshots go, and where run
// outcomes are stored.
package ports

import (
	"context"

	"drones/internal/core/domain/model/drone"
	"drones/internal/core/domain/model/grid"
	"drones/internal/core/domain/model/order"
	"drones/internal/core/domain/model/warehouse"
)

// Scenario is everything a simulation starts from, already parsed into domain
// objects. Warehouses and orders keep the order of their source.
type Scenario struct {
	Grid       *grid.Grid
	Warehouses []*warehouse.Warehouse
	Orders     []*order.Order
	Drones     []*drone.Drone
	TimeLimit  int
}

// ScenarioLoader builds a fresh Scenario on every call. Simulations mutate
// warehouses, drones and the grid, so loaded values are never shared between runs.
type ScenarioLoader interface {
	Load(ctx context.Context) (Scenario, error)
}
