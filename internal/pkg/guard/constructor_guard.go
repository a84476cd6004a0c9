// Package guard lets entities tell a constructed value from a zero value.
//
// Entities embed a ConstructorGuard and call Validate from their own Validate method.
// A Drone, Warehouse or Order declared as `var d drone.Drone` carries a zero guard and
// fails validation, so the simulation never operates on half-initialised domain objects.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is set only by NewConstructorGuard.
//
//	type Warehouse struct {
//	    name  string
//	    guard guard.ConstructorGuard
//	}
//
//	func (w *Warehouse) Validate() error {
//	    return w.guard.Validate(ErrWarehouseIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard marks the enclosing value as built by its constructor.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil)
// if the guard is a zero value.
func (g ConstructorGuard) Validate(validationError error) error {
	if g.isConstructed {
		return nil
	}
	if validationError == nil {
		return ErrDefaultConstructorGuard
	}
	return validationError
}
