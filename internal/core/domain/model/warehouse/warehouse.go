package warehouse

import (
	"errors"
	"fmt"
	"maps"
	"strings"

	"drones/internal/core/domain/model/kernel"
	"drones/internal/pkg/errs"
	"drones/internal/pkg/guard"
)

var (
	// ErrOutOfStock is returned when retrieving a package the warehouse does not hold.
	ErrOutOfStock = errors.New("out of stock")
	// ErrNameIsRequired is returned when attempting to create a warehouse without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrWarehouseIsNotConstructed is returned when using an improperly initialized Warehouse.
	ErrWarehouseIsNotConstructed = errors.New("Warehouse must be created via NewWarehouse constructor")
)

// Warehouse is a named depot at a fixed cell holding a stock of packages.
//
// Example:
//
//	box, _ := kernel.NewPackage("Box")
//	w, _ := warehouse.NewWarehouse("W", kernel.Origin, []kernel.Package{box, box})
//	w.Count(box)      // 2
//	_, _ = w.Retrieve(box)
//	w.Count(box)      // 1
type Warehouse struct {
	name      string
	position  kernel.Position
	inventory map[kernel.Package]int
	guard     guard.ConstructorGuard
}

// NewWarehouse builds the inventory by counting identical packages.
func NewWarehouse(name string, position kernel.Position, packages []kernel.Package) (*Warehouse, error) {
	w := &Warehouse{
		position:  position,
		inventory: make(map[kernel.Package]int),
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		w.setName(name),
		w.stock(packages),
	); err != nil {
		return nil, err
	}

	return w, nil
}

// NewWarehouseWithCounts builds a warehouse from (package, count) pairs, the shape
// the warehouse files use. Counts must be non-negative; zero counts are skipped.
func NewWarehouseWithCounts(name string, position kernel.Position, counts map[kernel.Package]int) (*Warehouse, error) {
	packages := make([]kernel.Package, 0, len(counts))
	for p, n := range counts {
		if n < 0 {
			return nil, errs.NewValueIsInvalidErrorWithCause("count",
				fmt.Errorf("%d units of %s", n, p.Name()))
		}
		for range n {
			packages = append(packages, p)
		}
	}
	return NewWarehouse(name, position, packages)
}

func (w *Warehouse) Validate() error {
	if w == nil {
		return ErrWarehouseIsNotConstructed
	}
	return w.guard.Validate(ErrWarehouseIsNotConstructed)
}

func (w *Warehouse) Name() string {
	return w.name
}

func (w *Warehouse) Position() kernel.Position {
	return w.position
}

// Retrieve takes one unit of p out of stock. It fails with ErrOutOfStock when the
// package was never held or is exhausted.
func (w *Warehouse) Retrieve(p kernel.Package) (kernel.Package, error) {
	count, ok := w.inventory[p]
	if !ok {
		return kernel.Package{}, fmt.Errorf("%w: %s at warehouse %s", ErrOutOfStock, p.Name(), w.name)
	}

	if count == 1 {
		delete(w.inventory, p)
	} else {
		w.inventory[p] = count - 1
	}
	return p, nil
}

// Contains reports whether at least one unit of p is in stock.
func (w *Warehouse) Contains(p kernel.Package) bool {
	_, ok := w.inventory[p]
	return ok
}

// Count returns the units of p in stock.
func (w *Warehouse) Count(p kernel.Package) int {
	return w.inventory[p]
}

// Inventory returns a copy of the stock.
func (w *Warehouse) Inventory() map[kernel.Package]int {
	return maps.Clone(w.inventory)
}

func (w *Warehouse) String() string {
	parts := make([]string, 0, len(w.inventory))
	for p, n := range w.inventory {
		parts = append(parts, fmt.Sprintf("%s:%d", p.Name(), n))
	}
	return fmt.Sprintf("WAREHOUSE [%s : {%s}]", w.name, strings.Join(parts, ", "))
}

func (w *Warehouse) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameIsRequired
	}
	w.name = name
	return nil
}

func (w *Warehouse) stock(packages []kernel.Package) error {
	for _, p := range packages {
		if err := p.Validate(); err != nil {
			return err
		}
		w.inventory[p]++
	}
	return nil
}
