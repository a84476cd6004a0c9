package drone

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"drones/internal/core/domain/model/kernel"
	"drones/internal/pkg/errs"
	"drones/internal/pkg/guard"
)

// Domain errors for drone operations.
var (
	// ErrNameIsRequired is returned when attempting to create a drone without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrDroneIsNotConstructed is returned when using an improperly initialized Drone.
	ErrDroneIsNotConstructed = errors.New("Drone must be created via NewDrone or RestoreDrone constructor")
)

// Drone is a delivery drone flying between warehouses and customers.
//
// Key responsibilities:
//   - Holding the drone identity (name)
//   - Tracking its real-valued position between flights
//   - Pricing and performing single flights
//
// The drone does not know about the grid. Callers that move a drone are
// responsible for keeping its grid placement in step; the simulation does this
// in FlyDroneTo.
//
// Example usage:
//
//	d, err := drone.NewDrone("Drone0", kernel.Origin)
//	if err != nil {
//	    return err
//	}
//	cost := d.FlyTo(target) // ceil(distance), position is now target
type Drone struct {
	// name identifies the drone; the renderer uses its first character as the glyph
	name string
	// x and y are the real-valued position
	x float64
	y float64
	// guard ensures the drone was properly constructed
	guard guard.ConstructorGuard
}

// NewDrone creates a drone parked at start.
//
// Parameters:
//   - name: Human-readable identity (must be non-empty)
//   - start: Initial cell
//
// Returns:
//   - *Drone: A drone ready to fly
//   - error: ErrNameIsRequired when the name is blank
func NewDrone(name string, start kernel.Position) (*Drone, error) {
	d := &Drone{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		d.setName(name),
		d.setPosition(float64(start.X()), float64(start.Y())),
	); err != nil {
		return nil, err
	}

	return d, nil
}

// RestoreDrone reconstructs a drone at an arbitrary real-valued position, e.g. one
// captured mid-air by a snapshot. Coordinates must be non-negative.
func RestoreDrone(name string, x, y float64) (*Drone, error) {
	d := &Drone{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		d.setName(name),
		d.setPosition(x, y),
	); err != nil {
		return nil, err
	}

	return d, nil
}

// NewFleet creates count drones named Drone0..Drone{count-1}, all parked at origin.
// A count of zero yields an empty fleet.
func NewFleet(count int, origin kernel.Position) ([]*Drone, error) {
	if count < 0 {
		return nil, errs.NewValueIsOutOfRangeError("drones", count, 0, math.MaxInt)
	}

	fleet := make([]*Drone, 0, count)
	for i := range count {
		d, err := NewDrone(fmt.Sprintf("Drone%d", i), origin)
		if err != nil {
			return nil, err
		}
		fleet = append(fleet, d)
	}
	return fleet, nil
}

// Validate checks that the drone was built by one of its constructors.
//
// Returns:
//   - error: ErrDroneIsNotConstructed for nil or zero-value drones
func (d *Drone) Validate() error {
	if d == nil {
		return ErrDroneIsNotConstructed
	}
	return d.guard.Validate(ErrDroneIsNotConstructed)
}

// Name returns the drone identity.
func (d *Drone) Name() string {
	return d.name
}

// IsEqual compares drones by name.
func (d *Drone) IsEqual(other *Drone) bool {
	if other == nil {
		return false
	}
	return d.name == other.name
}

// Position returns the grid cell of the drone: each axis of the real position
// rounded to the nearest integer, halves away from zero (2.5 -> 3).
func (d *Drone) Position() kernel.Position {
	pos, err := kernel.NewPosition(
		kernel.Coordinate(math.Round(d.x)),
		kernel.Coordinate(math.Round(d.y)),
	)
	if err != nil {
		// setPosition keeps both axes non-negative
		return kernel.Origin
	}
	return pos
}

// DistanceTo is the exact straight-line distance from the real position to target.
func (d *Drone) DistanceTo(target kernel.Position) float64 {
	dx := d.x - float64(target.X())
	dy := d.y - float64(target.Y())
	return math.Sqrt(dx*dx + dy*dy)
}

// CostTo is the integral cost of flying to target: the distance rounded up.
func (d *Drone) CostTo(target kernel.Position) int {
	return int(math.Ceil(d.DistanceTo(target)))
}

// FlyTo prices the flight from the current real position, then moves the drone.
//
// Parameters:
//   - target: Destination cell
//
// Returns:
//   - int: ceil(distance) of this single flight; 0 when already there
//
// The drone's grid placement is not touched here.
func (d *Drone) FlyTo(target kernel.Position) int {
	cost := d.CostTo(target)
	d.x = float64(target.X())
	d.y = float64(target.Y())
	return cost
}

func (d *Drone) String() string {
	return fmt.Sprintf("DRONE %s", d.name)
}

func (d *Drone) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameIsRequired
	}
	d.name = name
	return nil
}

func (d *Drone) setPosition(x, y float64) error {
	if x < 0 || math.IsNaN(x) {
		return errs.NewValueIsOutOfRangeError("x", x, 0, math.Inf(1))
	}
	if y < 0 || math.IsNaN(y) {
		return errs.NewValueIsOutOfRangeError("y", y, 0, math.Inf(1))
	}
	d.x = x
	d.y = y
	return nil
}
