package simulation

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"drones/internal/core/domain/model/drone"
	"drones/internal/core/domain/model/grid"
	"drones/internal/core/domain/model/kernel"
	"drones/internal/core/domain/model/order"
	"drones/internal/core/domain/model/warehouse"
	"drones/internal/pkg/errs"
)

var ErrGridIsRequired = errs.NewValueIsRequiredError("grid")

// Option configures a Simulation.
type Option func(*Simulation)

// WithObserver registers observers notified after every mutation, in
// registration order.
func WithObserver(o ...Observer) Option {
	return func(s *Simulation) {
		s.observers = append(s.observers, o...)
	}
}

// Simulation owns the order pool and the per-drone cost ledger. The grid is
// shared with the caller but only the simulation places or unplaces entities.
type Simulation struct {
	grid       *grid.Grid
	warehouses []*warehouse.Warehouse
	orders     *OrderManager
	drones     []*drone.Drone
	costs      map[*drone.Drone]int
	timeLimit  int
	observers  observers
}

// NewSimulation places every warehouse at its position, every order customer at
// theirs (once, however many orders reference them) and every drone at its
// current cell. All drone costs start at zero.
//
// The time limit is carried as data and enforced by nobody.
func NewSimulation(
	g *grid.Grid,
	warehouses []*warehouse.Warehouse,
	orders []*order.Order,
	drones []*drone.Drone,
	timeLimit int,
	opts ...Option,
) (*Simulation, error) {
	if g == nil {
		return nil, ErrGridIsRequired
	}
	if timeLimit < 0 {
		return nil, errs.NewValueIsOutOfRangeError("timeLimit", timeLimit, 0, math.MaxInt)
	}

	pool, err := NewOrderManager(orders)
	if err != nil {
		return nil, err
	}

	s := &Simulation{
		grid:       g,
		warehouses: slices.Clone(warehouses),
		orders:     pool,
		drones:     slices.Clone(drones),
		costs:      make(map[*drone.Drone]int, len(drones)),
		timeLimit:  timeLimit,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.placeAll(); err != nil {
		return nil, err
	}

	return s, nil
}

// placeAll puts every entity on the grid. On error everything it placed is
// taken off again, so the grid is left as it was found.
func (s *Simulation) placeAll() (err error) {
	var undo []func() error
	defer func() {
		if err == nil {
			return
		}
		for _, unplace := range slices.Backward(undo) {
			_ = unplace()
		}
	}()

	for _, w := range s.warehouses {
		if err := s.grid.PlaceWarehouse(w, w.Position()); err != nil {
			return fmt.Errorf("place warehouse: %w", err)
		}
		undo = append(undo, func() error { return s.grid.UnplaceWarehouse(w) })
	}

	for _, o := range s.orders.Orders() {
		c := o.Customer()
		if slices.ContainsFunc(s.grid.CustomersAt(c.Position()), c.IsEqual) {
			continue
		}
		if err := s.grid.PlaceCustomer(c, c.Position()); err != nil {
			return fmt.Errorf("place customer: %w", err)
		}
		undo = append(undo, func() error { return s.grid.UnplaceCustomer(c) })
	}

	for _, d := range s.drones {
		if _, dup := s.costs[d]; dup {
			return errs.NewValueIsInvalidErrorWithCause("drones",
				fmt.Errorf("%s is listed twice", d.Name()))
		}
		if err := s.grid.PlaceDrone(d, d.Position()); err != nil {
			return fmt.Errorf("place drone: %w", err)
		}
		undo = append(undo, func() error { return s.grid.UnplaceDrone(d) })
		s.costs[d] = 0
	}

	return nil
}

// FlyDroneTo is the only way to move a drone. It unplaces the drone, flies it,
// adds the flight cost to its total and places it at its new rounded cell. The
// target is checked first, so a rejected flight changes nothing.
func (s *Simulation) FlyDroneTo(d *drone.Drone, target kernel.Position) error {
	if err := s.ownDrone(d); err != nil {
		return err
	}
	if !s.grid.Contains(target) {
		return errs.NewValueIsOutOfRangeErrorWithCause("target", target, kernel.Origin,
			fmt.Sprintf("POS [%d,%d]", s.grid.Width()-1, s.grid.Height()-1),
			errors.New("outside the grid"))
	}

	from := d.Position()
	if err := s.grid.UnplaceDrone(d); err != nil {
		return err
	}

	cost := d.FlyTo(target)
	s.costs[d] += cost

	if err := s.grid.PlaceDrone(d, d.Position()); err != nil {
		return err
	}

	s.observers.droneFlew(d, from, d.Position(), cost)
	return nil
}

// WarehousesContaining scans the warehouses in load order and keeps those that
// stock p. The result order is stable for a fixed warehouse list.
func (s *Simulation) WarehousesContaining(p kernel.Package) []*warehouse.Warehouse {
	var found []*warehouse.Warehouse
	for _, w := range s.warehouses {
		if w.Contains(p) {
			found = append(found, w)
		}
	}
	return found
}

// RetrievePackage takes one unit of p out of w. It fails with
// warehouse.ErrOutOfStock when w does not stock p.
func (s *Simulation) RetrievePackage(w *warehouse.Warehouse, p kernel.Package) (kernel.Package, error) {
	if err := w.Validate(); err != nil {
		return kernel.Package{}, err
	}
	if !slices.Contains(s.warehouses, w) {
		return kernel.Package{}, errs.NewObjectNotFoundError("warehouse", w.Name())
	}

	got, err := w.Retrieve(p)
	if err != nil {
		return kernel.Package{}, err
	}

	s.observers.packageRetrieved(w, got)
	return got, nil
}

func (s *Simulation) ClaimOrder(o *order.Order) error {
	if err := s.orders.Claim(o); err != nil {
		return err
	}
	s.observers.orderClaimed(o)
	return nil
}

// CompleteOrder records the delivery of a claimed order. When no pending order
// targets the same customer any more, the customer leaves the grid.
func (s *Simulation) CompleteOrder(o *order.Order) error {
	if err := s.orders.Complete(o); err != nil {
		return err
	}

	c := o.Customer()
	if !s.orders.HasCustomer(c) {
		for _, placed := range s.grid.CustomersAt(c.Position()) {
			if placed.IsEqual(c) {
				if err := s.grid.UnplaceCustomer(placed); err != nil {
					return err
				}
				break
			}
		}
	}

	s.observers.orderCompleted(o)
	return nil
}

// Cost is the makespan: the largest accumulated cost across the fleet, zero
// when no drone has flown or there are no drones.
func (s *Simulation) Cost() int {
	cost := 0
	for _, c := range s.costs {
		cost = max(cost, c)
	}
	return cost
}

// DroneCost returns the accumulated cost of one drone of the fleet.
func (s *Simulation) DroneCost(d *drone.Drone) (int, error) {
	if err := s.ownDrone(d); err != nil {
		return 0, err
	}
	return s.costs[d], nil
}

// DroneCosts returns the accumulated cost per drone name.
func (s *Simulation) DroneCosts() map[string]int {
	out := make(map[string]int, len(s.costs))
	for d, c := range s.costs {
		out[d.Name()] = c
	}
	return out
}

func (s *Simulation) HasPendingOrders() bool {
	return !s.orders.IsEmpty()
}

// PendingOrders returns the orders not claimed yet, in arrival order.
func (s *Simulation) PendingOrders() []*order.Order {
	return s.orders.Orders()
}

func (s *Simulation) OrderStatus(o *order.Order) (order.Status, error) {
	return s.orders.Status(o)
}

func (s *Simulation) CompletedOrders() int {
	return s.orders.Count(order.Completed)
}

func (s *Simulation) Drones() []*drone.Drone {
	return slices.Clone(s.drones)
}

func (s *Simulation) Warehouses() []*warehouse.Warehouse {
	return slices.Clone(s.warehouses)
}

func (s *Simulation) TimeLimit() int {
	return s.timeLimit
}

// Snapshot copies the current grid occupancy for readers on other goroutines.
func (s *Simulation) Snapshot() grid.Snapshot {
	return s.grid.Snapshot()
}

func (s *Simulation) ownDrone(d *drone.Drone) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if _, ok := s.costs[d]; !ok {
		return errs.NewObjectNotFoundError("drone", d.Name())
	}
	return nil
}
