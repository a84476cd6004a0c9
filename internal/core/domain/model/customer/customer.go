// Package customer provides the Customer entity: a named delivery destination at a
// fixed cell. Several orders may share one customer.
package customer

import (
	"errors"
	"strings"

	"drones/internal/core/domain/model/kernel"
	"drones/internal/pkg/errs"
	"drones/internal/pkg/guard"
)

var (
	ErrNameIsRequired           = errs.NewValueIsRequiredError("name")
	ErrCustomerIsNotConstructed = errors.New("Customer must be created via NewCustomer constructor")
)

type Customer struct {
	name     string
	position kernel.Position
	guard    guard.ConstructorGuard
}

func NewCustomer(name string, position kernel.Position) (*Customer, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrNameIsRequired
	}
	return &Customer{
		name:     name,
		position: position,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c *Customer) Validate() error {
	if c == nil {
		return ErrCustomerIsNotConstructed
	}
	return c.guard.Validate(ErrCustomerIsNotConstructed)
}

func (c *Customer) Name() string {
	return c.name
}

func (c *Customer) Position() kernel.Position {
	return c.position
}

// IsEqual identifies customers by name, the key the order files use.
func (c *Customer) IsEqual(other *Customer) bool {
	if c == nil || other == nil {
		return false
	}
	return c.name == other.name
}

func (c *Customer) String() string {
	return "CUSTOMER " + c.name
}
