package simulation

import (
	"fmt"
	"slices"

	"drones/internal/core/domain/model/customer"
	"drones/internal/core/domain/model/kernel"
	"drones/internal/core/domain/model/order"
	"drones/internal/pkg/errs"
)

// OrderManager is the pool of pending orders. It keeps arrival order and the
// lifecycle status of every order it was created with.
type OrderManager struct {
	pending  []*order.Order
	statuses map[kernel.UUID]order.Status
}

// NewOrderManager creates a pool holding orders in the given order. Every order
// starts Pending; the same order may not appear twice.
func NewOrderManager(orders []*order.Order) (*OrderManager, error) {
	m := &OrderManager{
		pending:  make([]*order.Order, 0, len(orders)),
		statuses: make(map[kernel.UUID]order.Status, len(orders)),
	}

	for _, o := range orders {
		if err := o.Validate(); err != nil {
			return nil, err
		}
		if _, seen := m.statuses[o.ID()]; seen {
			return nil, errs.NewValueIsInvalidErrorWithCause("orders",
				fmt.Errorf("order %s is listed twice", o.ID()))
		}
		m.pending = append(m.pending, o)
		m.statuses[o.ID()] = order.Pending
	}

	return m, nil
}

// Claim removes a pending order from the pool. Claiming an order that is not
// pending, including a second claim, fails with errs.ErrObjectNotFound.
func (m *OrderManager) Claim(o *order.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}

	i := slices.IndexFunc(m.pending, o.IsEqual)
	if i < 0 {
		return errs.NewObjectNotFoundErrorWithCause("order", o.ID(),
			fmt.Errorf("%s is not pending", m.statuses[o.ID()]))
	}

	next, err := m.statuses[o.ID()].Claim()
	if err != nil {
		return err
	}

	m.pending = slices.Delete(m.pending, i, i+1)
	m.statuses[o.ID()] = next
	return nil
}

// Complete records the delivery of a claimed order.
func (m *OrderManager) Complete(o *order.Order) error {
	status, err := m.Status(o)
	if err != nil {
		return err
	}

	next, err := status.Complete()
	if err != nil {
		return err
	}

	m.statuses[o.ID()] = next
	return nil
}

// Status returns the lifecycle status of an order known to the pool.
func (m *OrderManager) Status(o *order.Order) (order.Status, error) {
	if err := o.Validate(); err != nil {
		return order.Unknown, err
	}
	status, ok := m.statuses[o.ID()]
	if !ok {
		return order.Unknown, errs.NewObjectNotFoundError("order", o.ID())
	}
	return status, nil
}

// HasCustomer reports whether a pending order still targets c.
func (m *OrderManager) HasCustomer(c *customer.Customer) bool {
	return slices.ContainsFunc(m.pending, func(o *order.Order) bool {
		return o.Customer().IsEqual(c)
	})
}

// Contains reports whether o is still pending.
func (m *OrderManager) Contains(o *order.Order) bool {
	if o == nil {
		return false
	}
	return slices.ContainsFunc(m.pending, o.IsEqual)
}

// Orders returns the pending orders in arrival order.
func (m *OrderManager) Orders() []*order.Order {
	return slices.Clone(m.pending)
}

func (m *OrderManager) Len() int {
	return len(m.pending)
}

// IsEmpty is the loop condition of every solver.
func (m *OrderManager) IsEmpty() bool {
	return len(m.pending) == 0
}

// Count returns how many known orders are in the given status.
func (m *OrderManager) Count(status order.Status) int {
	n := 0
	for _, s := range m.statuses {
		if s == status {
			n++
		}
	}
	return n
}
