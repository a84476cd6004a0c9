package order

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"drones/internal/core/domain/model/customer"
	"drones/internal/core/domain/model/kernel"
	"drones/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// the NewOrder factory method.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrPackagesAreRequired is returned when an order asks for nothing.
	ErrPackagesAreRequired = errs.NewValueIsRequiredError("packages")
)

// Order is a customer's request for one or more packages, possibly stocked by
// different warehouses.
//
// Order follows these invariants:
//   - Must have a valid unique identifier
//   - Must target a constructed customer
//   - Must request at least one package; the request order is kept as given
//   - Is immutable once created
type Order struct {
	id       kernel.UUID
	customer *customer.Customer
	packages []kernel.Package

	isConstructed bool
}

// NewOrder creates a new Order instance with validation.
//
// Example:
//
//	bob, _ := customer.NewCustomer("Bob", pos)
//	box, _ := kernel.NewPackage("Box")
//	o, err := order.NewOrder(kernel.NewUUID(), bob, []kernel.Package{box})
func NewOrder(id kernel.UUID, c *customer.Customer, packages []kernel.Package) (*Order, error) {
	o := &Order{
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomer(c),
		o.setPackages(packages),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order instance was properly constructed through NewOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

// IsEqual compares two orders by their unique identifiers. Two orders of the
// same customer for the same packages are still different orders.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// Customer returns the delivery destination.
func (o *Order) Customer() *customer.Customer {
	return o.customer
}

// Position is shorthand for the customer's cell.
func (o *Order) Position() kernel.Position {
	return o.customer.Position()
}

// Packages returns a copy of the requested packages in request order.
func (o *Order) Packages() []kernel.Package {
	return slices.Clone(o.packages)
}

func (o *Order) String() string {
	names := make([]string, len(o.packages))
	for i, p := range o.packages {
		names[i] = p.Name()
	}
	return fmt.Sprintf("ORDER [%s : %s]", o.customer.Name(), strings.Join(names, ", "))
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomer(c *customer.Customer) error {
	if err := c.Validate(); err != nil {
		return err
	}
	o.customer = c
	return nil
}

func (o *Order) setPackages(packages []kernel.Package) error {
	if len(packages) == 0 {
		return ErrPackagesAreRequired
	}
	for _, p := range packages {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	o.packages = slices.Clone(packages)
	return nil
}
