package kernel

import (
	"errors"
	"fmt"
	"math"

	"drones/internal/pkg/errs"
)

// Coordinate is one axis of a grid cell.
type Coordinate int

// Origin is the cell every drone takes off from.
var Origin = Position{}

// Position is a cell on the dispatch grid. The zero value is the origin.
type Position struct {
	x Coordinate
	y Coordinate
}

// NewPosition builds a position with non-negative coordinates. Upper bounds
// depend on the grid and are checked there.
func NewPosition(x, y Coordinate) (Position, error) {
	pos := Position{}
	if err := errors.Join(pos.setX(x), pos.setY(y)); err != nil {
		return Position{}, err
	}
	return pos, nil
}

func (p Position) X() Coordinate {
	return p.x
}

func (p Position) Y() Coordinate {
	return p.y
}

// DistanceTo is the straight-line distance between two cells.
func (p Position) DistanceTo(other Position) float64 {
	dx := float64(p.x - other.x)
	dy := float64(p.y - other.y)
	return math.Sqrt(dx*dx + dy*dy)
}

func (p Position) IsEqual(other Position) bool {
	return p == other
}

func (p Position) String() string {
	return fmt.Sprintf("POS [%d,%d]", p.x, p.y)
}

func (p *Position) setX(x Coordinate) error {
	if x < 0 {
		return errs.NewValueIsOutOfRangeError("x", x, 0, math.MaxInt)
	}
	p.x = x
	return nil
}

func (p *Position) setY(y Coordinate) error {
	if y < 0 {
		return errs.NewValueIsOutOfRangeError("y", y, 0, math.MaxInt)
	}
	p.y = y
	return nil
}
