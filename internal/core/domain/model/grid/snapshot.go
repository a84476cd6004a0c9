package grid

import (
	"fmt"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// CellView is the read-only occupancy of one cell: the names of its occupants in
// placement order.
type CellView struct {
	X          int
	Y          int
	Warehouses []string
	Customers  []string
	Drones     []string
}

// IsEmpty reports whether nothing occupies the cell.
func (c CellView) IsEmpty() bool {
	return len(c.Warehouses) == 0 && len(c.Customers) == 0 && len(c.Drones) == 0
}

// Summary is the occupant count notation C{customers}W{warehouses}D{drones}.
func (c CellView) Summary() string {
	return fmt.Sprintf("C%dW%dD%d", len(c.Customers), len(c.Warehouses), len(c.Drones))
}

// Glyphs renders the cell as three characters: the first letter of the first
// warehouse, customer and drone, with '.' for a missing kind.
func (c CellView) Glyphs() string {
	return string([]rune{glyph(c.Warehouses), glyph(c.Customers), glyph(c.Drones)})
}

func (c CellView) clone() CellView {
	return CellView{
		X:          c.X,
		Y:          c.Y,
		Warehouses: slices.Clone(c.Warehouses),
		Customers:  slices.Clone(c.Customers),
		Drones:     slices.Clone(c.Drones),
	}
}

func glyph(names []string) rune {
	if len(names) == 0 {
		return '.'
	}
	r, _ := utf8.DecodeRuneInString(names[0])
	return unicode.ToUpper(r)
}

// Snapshot is an immutable copy of the grid occupancy. It shares no memory with
// the grid it was taken from and can be read from any goroutine.
type Snapshot struct {
	width  int
	height int
	cells  []CellView
}

// Snapshot copies the current occupancy, row-major.
func (g *Grid) Snapshot() Snapshot {
	cells := make([]CellView, 0, len(g.cells))
	for pos := range g.Cells() {
		c := g.cells[g.index(pos)]
		cells = append(cells, CellView{
			X:          int(pos.X()),
			Y:          int(pos.Y()),
			Warehouses: names(c.warehouses),
			Customers:  names(c.customers),
			Drones:     names(c.drones),
		})
	}
	return Snapshot{width: g.width, height: g.height, cells: cells}
}

func names[T occupant](entities []T) []string {
	out := make([]string, len(entities))
	for i, e := range entities {
		out[i] = e.Name()
	}
	return out
}

func (s Snapshot) Width() int {
	return s.width
}

func (s Snapshot) Height() int {
	return s.height
}

// IsZero reports whether the snapshot was never taken from a grid.
func (s Snapshot) IsZero() bool {
	return s.width == 0 && s.height == 0
}

// Cells returns the cell views in row-major order.
func (s Snapshot) Cells() []CellView {
	out := make([]CellView, len(s.cells))
	for i, c := range s.cells {
		out[i] = c.clone()
	}
	return out
}

// At returns the view of cell (x, y) and false when it lies outside the snapshot.
func (s Snapshot) At(x, y int) (CellView, bool) {
	if x < 0 || y < 0 || x >= s.width || y >= s.height {
		return CellView{}, false
	}
	return s.cells[y*s.width+x].clone(), true
}

// Render draws the grid as text, one line per row.
func (s Snapshot) Render() string {
	return s.draw(CellView.Glyphs)
}

// Summary prints the occupant counts of every cell, one line per row.
func (s Snapshot) Summary() string {
	return s.draw(CellView.Summary)
}

func (s Snapshot) draw(format func(CellView) string) string {
	var b strings.Builder
	for y := range s.height {
		row := s.cells[y*s.width : (y+1)*s.width]
		for x, c := range row {
			if x > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(format(c))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
