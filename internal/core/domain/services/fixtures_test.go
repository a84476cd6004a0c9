package services_test

import (
	"math/rand/v2"
	"testing"

	"drones/internal/core/domain/model/customer"
	"drones/internal/core/domain/model/drone"
	"drones/internal/core/domain/model/grid"
	"drones/internal/core/domain/model/kernel"
	"drones/internal/core/domain/model/order"
	"drones/internal/core/domain/model/warehouse"
	"drones/internal/core/domain/services"
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

func newRand(seed uint64) *rand.Rand {
	return services.NewRand(int64(seed))
}

func createWarehouse(t *testing.T, name string, at kernel.Position, counts map[string]int) *warehouse.Warehouse {
	t.Helper()
	stock := make(map[kernel.Package]int, len(counts))
	for n, c := range counts {
		stock[pkg(t, n)] = c
	}
	w, err := warehouse.NewWarehouseWithCounts(name, at, stock)
	require.NoError(t, err)
	return w
}

func createOrder(t *testing.T, name string, at kernel.Position, packages ...string) *order.Order {
	t.Helper()
	c, err := customer.NewCustomer(name, at)
	require.NoError(t, err)
	ps, err := kernel.NewPackages(packages...)
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), c, ps)
	require.NoError(t, err)
	return o
}

type scenario struct {
	grid       *grid.Grid
	warehouses []*warehouse.Warehouse
	orders     []*order.Order
	drones     []*drone.Drone
	sim        *simulation.Simulation
}

func newScenario(
	t *testing.T,
	width, height, drones int,
	warehouses []*warehouse.Warehouse,
	orders []*order.Order,
) *scenario {
	t.Helper()
	g, err := grid.NewGrid(width, height)
	require.NoError(t, err)
	fleet, err := drone.NewFleet(drones, kernel.Origin)
	require.NoError(t, err)
	sim, err := simulation.NewSimulation(g, warehouses, orders, fleet, 100)
	require.NoError(t, err)
	return &scenario{grid: g, warehouses: warehouses, orders: orders, drones: fleet, sim: sim}
}

// bobScenario is a 3x3 grid with warehouse W at the origin holding two Box, one
// drone at the origin and Bob at (2,2) ordering one Box.
func bobScenario(t *testing.T) *scenario {
	t.Helper()
	w := createWarehouse(t, "W", kernel.Origin, map[string]int{"Box": 2})
	o := createOrder(t, "Bob", pos(t, 2, 2), "Box")
	return newScenario(t, 3, 3, 1, []*warehouse.Warehouse{w}, []*order.Order{o})
}
