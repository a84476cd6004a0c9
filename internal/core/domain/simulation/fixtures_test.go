package simulation_test

import (
	"testing"

	"drones/internal/core/domain/model/customer"
	"drones/internal/core/domain/model/drone"
	"drones/internal/core/domain/model/grid"
	"drones/internal/core/domain/model/kernel"
	"drones/internal/core/domain/model/order"
	"drones/internal/core/domain/model/warehouse"
	"drones/internal/core/domain/simulation"

	"github.com/stretchr/testify/require"
)

func pos(t *testing.T, x, y kernel.Coordinate) kernel.Position {
	t.Helper()
	p, err := kernel.NewPosition(x, y)
	require.NoError(t, err)
	return p
}

func pkg(t *testing.T, name string) kernel.Package {
	t.Helper()
	p, err := kernel.NewPackage(name)
	require.NoError(t, err)
	return p
}

func createCustomer(t *testing.T, name string, at kernel.Position) *customer.Customer {
	t.Helper()
	c, err := customer.NewCustomer(name, at)
	require.NoError(t, err)
	return c
}

func createOrder(t *testing.T, c *customer.Customer, packages ...string) *order.Order {
	t.Helper()
	ps, err := kernel.NewPackages(packages...)
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), c, ps)
	require.NoError(t, err)
	return o
}

func createWarehouse(t *testing.T, name string, at kernel.Position, packages ...string) *warehouse.Warehouse {
	t.Helper()
	ps, err := kernel.NewPackages(packages...)
	require.NoError(t, err)
	w, err := warehouse.NewWarehouse(name, at, ps)
	require.NoError(t, err)
	return w
}

func createFleet(t *testing.T, n int) []*drone.Drone {
	t.Helper()
	fleet, err := drone.NewFleet(n, kernel.Origin)
	require.NoError(t, err)
	return fleet
}

func createGrid(t *testing.T, width, height int) *grid.Grid {
	t.Helper()
	g, err := grid.NewGrid(width, height)
	require.NoError(t, err)
	return g
}

func createSimulation(
	t *testing.T,
	g *grid.Grid,
	warehouses []*warehouse.Warehouse,
	orders []*order.Order,
	drones []*drone.Drone,
	opts ...simulation.Option,
) *simulation.Simulation {
	t.Helper()
	sim, err := simulation.NewSimulation(g, warehouses, orders, drones, 100, opts...)
	require.NoError(t, err)
	return sim
}
