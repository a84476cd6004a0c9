package grid

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"slices"

	"drones/internal/core/domain/model/customer"
	"drones/internal/core/domain/model/drone"
	"drones/internal/core/domain/model/kernel"
	"drones/internal/core/domain/model/warehouse"
	"drones/internal/pkg/errs"
)

// ErrAlreadyPlaced is returned when placing an entity that occupies a cell already.
// Placing twice without unplacing is a logic error of the caller.
var ErrAlreadyPlaced = errors.New("entity is already placed")

// occupant is what a cell can hold: a constructed, named entity compared by identity.
type occupant interface {
	comparable
	Name() string
	Validate() error
}

type cell struct {
	warehouses []*warehouse.Warehouse
	customers  []*customer.Customer
	drones     []*drone.Drone
}

// Grid is the spatial index. It is not safe for concurrent use; the simulation
// is its single mutator and hands out snapshots to readers.
type Grid struct {
	width  int
	height int
	cells  []cell

	warehouses map[*warehouse.Warehouse]kernel.Position
	customers  map[*customer.Customer]kernel.Position
	drones     map[*drone.Drone]kernel.Position
}

// NewGrid creates an empty grid. Both dimensions must be positive.
func NewGrid(width, height int) (*Grid, error) {
	var errList []error
	if width <= 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("width", width, 1, math.MaxInt))
	}
	if height <= 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("height", height, 1, math.MaxInt))
	}
	if err := errors.Join(errList...); err != nil {
		return nil, err
	}

	return &Grid{
		width:      width,
		height:     height,
		cells:      make([]cell, width*height),
		warehouses: make(map[*warehouse.Warehouse]kernel.Position),
		customers:  make(map[*customer.Customer]kernel.Position),
		drones:     make(map[*drone.Drone]kernel.Position),
	}, nil
}

func (g *Grid) Width() int {
	return g.width
}

func (g *Grid) Height() int {
	return g.height
}

// Contains reports whether pos lies inside the grid.
func (g *Grid) Contains(pos kernel.Position) bool {
	return int(pos.X()) < g.width && int(pos.Y()) < g.height
}

func (g *Grid) PlaceWarehouse(w *warehouse.Warehouse, pos kernel.Position) error {
	return place(g, g.warehouses, func(cl *cell) *[]*warehouse.Warehouse { return &cl.warehouses }, w, "warehouse", pos)
}

func (g *Grid) PlaceCustomer(c *customer.Customer, pos kernel.Position) error {
	return place(g, g.customers, func(cl *cell) *[]*customer.Customer { return &cl.customers }, c, "customer", pos)
}

func (g *Grid) PlaceDrone(d *drone.Drone, pos kernel.Position) error {
	return place(g, g.drones, func(cl *cell) *[]*drone.Drone { return &cl.drones }, d, "drone", pos)
}

func (g *Grid) UnplaceWarehouse(w *warehouse.Warehouse) error {
	return unplace(g, g.warehouses, func(cl *cell) *[]*warehouse.Warehouse { return &cl.warehouses }, w, "warehouse")
}

func (g *Grid) UnplaceCustomer(c *customer.Customer) error {
	return unplace(g, g.customers, func(cl *cell) *[]*customer.Customer { return &cl.customers }, c, "customer")
}

func (g *Grid) UnplaceDrone(d *drone.Drone) error {
	return unplace(g, g.drones, func(cl *cell) *[]*drone.Drone { return &cl.drones }, d, "drone")
}

// WarehousesAt returns the warehouses at pos in placement order. Out-of-bounds
// positions hold nothing.
func (g *Grid) WarehousesAt(pos kernel.Position) []*warehouse.Warehouse {
	if c := g.cellAt(pos); c != nil {
		return slices.Clone(c.warehouses)
	}
	return nil
}

// CustomersAt returns the customers at pos in placement order.
func (g *Grid) CustomersAt(pos kernel.Position) []*customer.Customer {
	if c := g.cellAt(pos); c != nil {
		return slices.Clone(c.customers)
	}
	return nil
}

// DronesAt returns the drones at pos in placement order.
func (g *Grid) DronesAt(pos kernel.Position) []*drone.Drone {
	if c := g.cellAt(pos); c != nil {
		return slices.Clone(c.drones)
	}
	return nil
}

func (g *Grid) WarehousePosition(w *warehouse.Warehouse) (kernel.Position, error) {
	return positionOf(g.warehouses, w, "warehouse")
}

func (g *Grid) CustomerPosition(c *customer.Customer) (kernel.Position, error) {
	return positionOf(g.customers, c, "customer")
}

func (g *Grid) DronePosition(d *drone.Drone) (kernel.Position, error) {
	return positionOf(g.drones, d, "drone")
}

func (g *Grid) IsCustomerPlaced(c *customer.Customer) bool {
	_, ok := g.customers[c]
	return ok
}

// Cells yields every position of the grid in row-major order: y outer, x inner.
// The sequence is finite and can be ranged over any number of times.
func (g *Grid) Cells() iter.Seq[kernel.Position] {
	return func(yield func(kernel.Position) bool) {
		for y := range g.height {
			for x := range g.width {
				if !yield(g.positionAt(x, y)) {
					return
				}
			}
		}
	}
}

func (g *Grid) index(pos kernel.Position) int {
	return int(pos.Y())*g.width + int(pos.X())
}

func (g *Grid) cellAt(pos kernel.Position) *cell {
	if !g.Contains(pos) {
		return nil
	}
	return &g.cells[g.index(pos)]
}

// positionAt builds a position from in-range loop indices.
func (g *Grid) positionAt(x, y int) kernel.Position {
	pos, _ := kernel.NewPosition(kernel.Coordinate(x), kernel.Coordinate(y))
	return pos
}

func (g *Grid) checkBounds(pos kernel.Position) error {
	if int(pos.X()) >= g.width {
		return errs.NewValueIsOutOfRangeError("x", pos.X(), 0, g.width-1)
	}
	if int(pos.Y()) >= g.height {
		return errs.NewValueIsOutOfRangeError("y", pos.Y(), 0, g.height-1)
	}
	return nil
}

func place[T occupant](
	g *Grid,
	table map[T]kernel.Position,
	bucket func(*cell) *[]T,
	entity T,
	kind string,
	pos kernel.Position,
) error {
	if err := entity.Validate(); err != nil {
		return err
	}
	if err := g.checkBounds(pos); err != nil {
		return err
	}
	if current, ok := table[entity]; ok {
		return fmt.Errorf("%w: %s %s at %s", ErrAlreadyPlaced, kind, entity.Name(), current)
	}

	b := bucket(&g.cells[g.index(pos)])
	*b = append(*b, entity)
	table[entity] = pos
	return nil
}

func unplace[T occupant](
	g *Grid,
	table map[T]kernel.Position,
	bucket func(*cell) *[]T,
	entity T,
	kind string,
) error {
	pos, err := positionOf(table, entity, kind)
	if err != nil {
		return err
	}

	b := bucket(&g.cells[g.index(pos)])
	if i := slices.Index(*b, entity); i >= 0 {
		*b = slices.Delete(*b, i, i+1)
	}
	delete(table, entity)
	return nil
}

func positionOf[T occupant](table map[T]kernel.Position, entity T, kind string) (kernel.Position, error) {
	if err := entity.Validate(); err != nil {
		return kernel.Position{}, err
	}
	pos, ok := table[entity]
	if !ok {
		return kernel.Position{}, errs.NewObjectNotFoundError(kind, entity.Name())
	}
	return pos, nil
}
