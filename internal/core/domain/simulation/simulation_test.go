package simulation_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"drones/internal/core/domain/model/drone"
	"drones/internal/core/domain/model/grid"
	"drones/internal/core/domain/model/kernel"
	"drones/internal/core/domain/model/order"
	"drones/internal/core/domain/model/warehouse"
	"drones/internal/core/domain/simulation"
	"drones/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type observerMock struct {
	mock.Mock
}

func (m *observerMock) DroneFlew(d *drone.Drone, from, to kernel.Position, cost int) {
	m.Called(d, from, to, cost)
}

func (m *observerMock) OrderClaimed(o *order.Order) {
	m.Called(o)
}

func (m *observerMock) PackageRetrieved(w *warehouse.Warehouse, p kernel.Package) {
	m.Called(w, p)
}

func (m *observerMock) OrderCompleted(o *order.Order) {
	m.Called(o)
}

func TestNewSimulation(t *testing.T) {
	t.Run("should place every entity once", func(t *testing.T) {
		// Given
		g := createGrid(t, 4, 4)
		w := createWarehouse(t, "W", pos(t, 3, 0), "Box")
		alicePos := pos(t, 1, 2)
		alice := createCustomer(t, "Alice", alicePos)
		bob := createCustomer(t, "Bob", pos(t, 3, 3))
		orders := []*order.Order{
			createOrder(t, alice, "Box"),
			createOrder(t, bob, "Box"),
			createOrder(t, alice, "Box"),
		}
		fleet := createFleet(t, 2)

		// When
		sim, err := simulation.NewSimulation(g, []*warehouse.Warehouse{w}, orders, fleet, 25)

		// Then
		require.NoError(t, err)
		assert.Equal(t, []*warehouse.Warehouse{w}, g.WarehousesAt(pos(t, 3, 0)))
		assert.Len(t, g.CustomersAt(alicePos), 1)
		assert.Len(t, g.CustomersAt(pos(t, 3, 3)), 1)
		assert.Equal(t, fleet, g.DronesAt(kernel.Origin))
		assert.Zero(t, sim.Cost())
		for _, d := range fleet {
			cost, err := sim.DroneCost(d)
			require.NoError(t, err)
			assert.Zero(t, cost)
		}
		assert.Equal(t, 25, sim.TimeLimit())
		assert.Equal(t, orders, sim.PendingOrders())
		assert.True(t, sim.HasPendingOrders())
	})

	t.Run("customers with the same name are placed once", func(t *testing.T) {
		g := createGrid(t, 3, 3)
		at := pos(t, 1, 1)
		orders := []*order.Order{
			createOrder(t, createCustomer(t, "Alice", at), "Box"),
			createOrder(t, createCustomer(t, "Alice", at), "Box"),
		}

		createSimulation(t, g, nil, orders, nil)

		assert.Len(t, g.CustomersAt(at), 1)
	})

	t.Run("should reject a missing grid", func(t *testing.T) {
		_, err := simulation.NewSimulation(nil, nil, nil, nil, 0)
		require.ErrorIs(t, err, simulation.ErrGridIsRequired)
	})

	t.Run("should reject a negative time limit", func(t *testing.T) {
		_, err := simulation.NewSimulation(createGrid(t, 1, 1), nil, nil, nil, -1)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should reject entities outside the grid", func(t *testing.T) {
		g := createGrid(t, 2, 2)
		w := createWarehouse(t, "W", pos(t, 5, 0), "Box")

		_, err := simulation.NewSimulation(g, []*warehouse.Warehouse{w}, nil, nil, 0)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should reject a drone listed twice", func(t *testing.T) {
		fleet := createFleet(t, 1)

		_, err := simulation.NewSimulation(createGrid(t, 2, 2), nil, nil, []*drone.Drone{fleet[0], fleet[0]}, 0)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should leave the grid untouched when placement fails", func(t *testing.T) {
		// Given
		g := createGrid(t, 2, 2)
		w := createWarehouse(t, "W", pos(t, 1, 0), "Box")
		alice := createCustomer(t, "Alice", pos(t, 1, 1))
		orders := []*order.Order{createOrder(t, alice, "Box")}
		fleet := createFleet(t, 2)

		// When
		_, err := simulation.NewSimulation(g, []*warehouse.Warehouse{w}, orders,
			[]*drone.Drone{fleet[0], fleet[1], fleet[0]}, 0)

		// Then
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Empty(t, g.WarehousesAt(w.Position()))
		assert.False(t, g.IsCustomerPlaced(alice))
		assert.Empty(t, g.DronesAt(kernel.Origin))

		_, err = simulation.NewSimulation(g, []*warehouse.Warehouse{w}, orders, fleet, 0)
		require.NoError(t, err)
	})

	t.Run("should keep customers it did not place when placement fails", func(t *testing.T) {
		g := createGrid(t, 2, 2)
		alice := createCustomer(t, "Alice", pos(t, 1, 1))
		require.NoError(t, g.PlaceCustomer(alice, alice.Position()))
		bob := createCustomer(t, "Bob", pos(t, 0, 1))
		fleet := createFleet(t, 1)

		_, err := simulation.NewSimulation(g, nil,
			[]*order.Order{createOrder(t, alice, "Box"), createOrder(t, bob, "Box")},
			[]*drone.Drone{fleet[0], fleet[0]}, 0)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.True(t, g.IsCustomerPlaced(alice))
		assert.False(t, g.IsCustomerPlaced(bob))
	})
}

func TestSimulation_FlyDroneTo(t *testing.T) {
	t.Run("should move the drone on the grid and charge the flight", func(t *testing.T) {
		// Given
		g := createGrid(t, 3, 3)
		fleet := createFleet(t, 1)
		sim := createSimulation(t, g, nil, nil, fleet)
		d := fleet[0]
		target := pos(t, 2, 2)

		// When
		err := sim.FlyDroneTo(d, target)

		// Then
		require.NoError(t, err)
		assert.Empty(t, g.DronesAt(kernel.Origin))
		assert.Equal(t, []*drone.Drone{d}, g.DronesAt(target))
		cost, err := sim.DroneCost(d)
		require.NoError(t, err)
		assert.Equal(t, 3, cost)
		assert.Equal(t, 3, sim.Cost())
	})

	t.Run("cost grows by the ceiling of every flight and never decreases", func(t *testing.T) {
		g := createGrid(t, 10, 10)
		fleet := createFleet(t, 1)
		sim := createSimulation(t, g, nil, nil, fleet)
		d := fleet[0]
		rng := rand.New(rand.NewPCG(1, 2))

		for range 100 {
			before, err := sim.DroneCost(d)
			require.NoError(t, err)
			from := d.Position()
			target := pos(t, kernel.Coordinate(rng.IntN(10)), kernel.Coordinate(rng.IntN(10)))

			require.NoError(t, sim.FlyDroneTo(d, target))

			after, err := sim.DroneCost(d)
			require.NoError(t, err)
			assert.Equal(t, before+int(math.Ceil(from.DistanceTo(target))), after)
			assert.GreaterOrEqual(t, after, before)
			assert.Equal(t, []*drone.Drone{d}, g.DronesAt(target))
		}
	})

	t.Run("cost is the maximum over the fleet", func(t *testing.T) {
		g := createGrid(t, 10, 10)
		fleet := createFleet(t, 3)
		sim := createSimulation(t, g, nil, nil, fleet)

		require.NoError(t, sim.FlyDroneTo(fleet[0], pos(t, 3, 0)))
		require.NoError(t, sim.FlyDroneTo(fleet[1], pos(t, 0, 7)))
		require.NoError(t, sim.FlyDroneTo(fleet[0], pos(t, 3, 1)))

		assert.Equal(t, 7, sim.Cost())
		assert.Equal(t, map[string]int{"Drone0": 4, "Drone1": 7, "Drone2": 0}, sim.DroneCosts())
	})

	t.Run("an empty fleet costs nothing", func(t *testing.T) {
		sim := createSimulation(t, createGrid(t, 1, 1), nil, nil, nil)
		assert.Zero(t, sim.Cost())
	})

	t.Run("should reject a target outside the grid without side effects", func(t *testing.T) {
		g := createGrid(t, 3, 3)
		fleet := createFleet(t, 1)
		sim := createSimulation(t, g, nil, nil, fleet)

		err := sim.FlyDroneTo(fleet[0], pos(t, 3, 3))

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		assert.Equal(t, fleet, g.DronesAt(kernel.Origin))
		assert.Equal(t, kernel.Origin, fleet[0].Position())
		assert.Zero(t, sim.Cost())
	})

	t.Run("should reject a drone outside the fleet", func(t *testing.T) {
		sim := createSimulation(t, createGrid(t, 3, 3), nil, nil, createFleet(t, 1))
		stranger, err := drone.NewDrone("Stranger", kernel.Origin)
		require.NoError(t, err)

		err = sim.FlyDroneTo(stranger, pos(t, 1, 1))
		require.ErrorIs(t, err, errs.ErrObjectNotFound)

		_, err = sim.DroneCost(stranger)
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}

func TestSimulation_WarehousesContaining(t *testing.T) {
	g := createGrid(t, 5, 5)
	north := createWarehouse(t, "North", pos(t, 0, 4), "Box", "Crate")
	south := createWarehouse(t, "South", pos(t, 4, 0), "Crate")
	east := createWarehouse(t, "East", pos(t, 4, 4), "Box")
	sim := createSimulation(t, g, []*warehouse.Warehouse{north, south, east}, nil, nil)

	t.Run("should keep load order", func(t *testing.T) {
		assert.Equal(t, []*warehouse.Warehouse{north, east}, sim.WarehousesContaining(pkg(t, "Box")))
		assert.Equal(t, []*warehouse.Warehouse{north, south}, sim.WarehousesContaining(pkg(t, "Crate")))
		assert.Empty(t, sim.WarehousesContaining(pkg(t, "Barrel")))
	})

	t.Run("exhausted warehouses drop out", func(t *testing.T) {
		_, err := sim.RetrievePackage(north, pkg(t, "Box"))
		require.NoError(t, err)

		assert.Equal(t, []*warehouse.Warehouse{east}, sim.WarehousesContaining(pkg(t, "Box")))
	})
}

func TestSimulation_RetrievePackage(t *testing.T) {
	g := createGrid(t, 2, 2)
	w := createWarehouse(t, "W", kernel.Origin, "Box")
	sim := createSimulation(t, g, []*warehouse.Warehouse{w}, nil, nil)

	got, err := sim.RetrievePackage(w, pkg(t, "Box"))
	require.NoError(t, err)
	assert.Equal(t, "Box", got.Name())

	_, err = sim.RetrievePackage(w, pkg(t, "Box"))
	require.ErrorIs(t, err, warehouse.ErrOutOfStock)

	_, err = sim.RetrievePackage(createWarehouse(t, "Other", kernel.Origin, "Box"), pkg(t, "Box"))
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestSimulation_CompleteOrder(t *testing.T) {
	t.Run("customer leaves the grid with their last order", func(t *testing.T) {
		// Given
		g := createGrid(t, 3, 3)
		at := pos(t, 1, 1)
		alice := createCustomer(t, "Alice", at)
		first := createOrder(t, alice, "Box")
		second := createOrder(t, alice, "Box")
		sim := createSimulation(t, g, nil, []*order.Order{first, second}, nil)

		// When the first order is delivered
		require.NoError(t, sim.ClaimOrder(first))
		require.NoError(t, sim.CompleteOrder(first))

		// Then Alice waits for the second one
		assert.True(t, g.IsCustomerPlaced(alice))

		// When the second order is delivered
		require.NoError(t, sim.ClaimOrder(second))
		require.NoError(t, sim.CompleteOrder(second))

		// Then Alice is gone
		assert.False(t, g.IsCustomerPlaced(alice))
		assert.Empty(t, g.CustomersAt(at))
		assert.Equal(t, 2, sim.CompletedOrders())
	})

	t.Run("customer leaves when the only other order is claimed but not delivered", func(t *testing.T) {
		g := createGrid(t, 3, 3)
		alice := createCustomer(t, "Alice", pos(t, 2, 0))
		first := createOrder(t, alice, "Box")
		second := createOrder(t, alice, "Box")
		sim := createSimulation(t, g, nil, []*order.Order{first, second}, nil)

		require.NoError(t, sim.ClaimOrder(first))
		require.NoError(t, sim.ClaimOrder(second))
		require.NoError(t, sim.CompleteOrder(first))

		// no pending order targets Alice any more
		assert.False(t, g.IsCustomerPlaced(alice))
		require.NoError(t, sim.CompleteOrder(second))
	})

	t.Run("other customers in the same cell stay", func(t *testing.T) {
		g := createGrid(t, 3, 3)
		at := pos(t, 2, 2)
		alice := createCustomer(t, "Alice", at)
		bob := createCustomer(t, "Bob", at)
		forAlice := createOrder(t, alice, "Box")
		sim := createSimulation(t, g, nil, []*order.Order{forAlice, createOrder(t, bob, "Box")}, nil)

		require.NoError(t, sim.ClaimOrder(forAlice))
		require.NoError(t, sim.CompleteOrder(forAlice))

		placed := g.CustomersAt(at)
		require.Len(t, placed, 1)
		assert.Equal(t, "Bob", placed[0].Name())
	})

	t.Run("should not complete an unclaimed order", func(t *testing.T) {
		g := createGrid(t, 3, 3)
		o := createOrder(t, createCustomer(t, "Alice", kernel.Origin), "Box")
		sim := createSimulation(t, g, nil, []*order.Order{o}, nil)

		err := sim.CompleteOrder(o)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.True(t, g.IsCustomerPlaced(o.Customer()))
		status, err := sim.OrderStatus(o)
		require.NoError(t, err)
		assert.Equal(t, order.Pending, status)
	})
}

func TestSimulation_ClaimOrder(t *testing.T) {
	g := createGrid(t, 3, 3)
	o := createOrder(t, createCustomer(t, "Alice", kernel.Origin), "Box")
	sim := createSimulation(t, g, nil, []*order.Order{o}, nil)

	require.NoError(t, sim.ClaimOrder(o))
	assert.False(t, sim.HasPendingOrders())
	assert.Empty(t, sim.PendingOrders())

	err := sim.ClaimOrder(o)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestSimulation_Observers(t *testing.T) {
	t.Run("should be notified after each mutation in order", func(t *testing.T) {
		// Given
		g := createGrid(t, 3, 3)
		w := createWarehouse(t, "W", pos(t, 1, 0), "Box")
		o := createOrder(t, createCustomer(t, "Bob", pos(t, 2, 2)), "Box")
		fleet := createFleet(t, 1)
		obs := &observerMock{}
		sim := createSimulation(t, g, []*warehouse.Warehouse{w}, []*order.Order{o}, fleet, simulation.WithObserver(obs))

		box := pkg(t, "Box")
		mock.InOrder(
			obs.On("OrderClaimed", o).Return().Once(),
			obs.On("DroneFlew", fleet[0], kernel.Origin, pos(t, 1, 0), 1).Return().Once(),
			obs.On("PackageRetrieved", w, box).Return().Once(),
			obs.On("OrderCompleted", o).Return().Once(),
		)

		// When
		require.NoError(t, sim.ClaimOrder(o))
		require.NoError(t, sim.FlyDroneTo(fleet[0], pos(t, 1, 0)))
		_, err := sim.RetrievePackage(w, box)
		require.NoError(t, err)
		require.NoError(t, sim.CompleteOrder(o))

		// Then
		obs.AssertExpectations(t)
	})

	t.Run("failed mutations are not reported", func(t *testing.T) {
		obs := &observerMock{}
		fleet := createFleet(t, 1)
		sim := createSimulation(t, createGrid(t, 2, 2), nil, nil, fleet, simulation.WithObserver(obs))

		require.Error(t, sim.FlyDroneTo(fleet[0], pos(t, 9, 9)))

		obs.AssertNotCalled(t, "DroneFlew", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("nop observer can be embedded", func(t *testing.T) {
		var obs simulation.Observer = simulation.NopObserver{}
		fleet := createFleet(t, 1)
		sim := createSimulation(t, createGrid(t, 2, 2), nil, nil, fleet, simulation.WithObserver(obs))

		require.NoError(t, sim.FlyDroneTo(fleet[0], pos(t, 1, 1)))
	})
}

func TestSimulation_Snapshot(t *testing.T) {
	g := createGrid(t, 2, 2)
	fleet := createFleet(t, 1)
	sim := createSimulation(t, g, nil, nil, fleet)

	before := sim.Snapshot()
	require.NoError(t, sim.FlyDroneTo(fleet[0], pos(t, 1, 1)))
	after := sim.Snapshot()

	assert.Equal(t, "..D ...\n... ...\n", before.Render())
	assert.Equal(t, "... ...\n... ..D\n", after.Render())
	assert.IsType(t, grid.Snapshot{}, after)
}
