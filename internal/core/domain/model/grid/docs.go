// Package grid provides the spatial index of the dispatch area.
//
// A Grid is a width × height array of cells stored row-major. Each cell keeps
// three typed collections, one per occupant kind (warehouses, customers, drones),
// in insertion order. A side table per kind maps every placed entity to its cell,
// so unplacing never scans the grid.
//
// Invariants:
//   - An entity is placed in at most one cell at a time
//   - The side tables and the cell contents always agree
//   - Only in-bounds positions are accepted
//
// The grid does not move entities by itself. Callers unplace and place again;
// the simulation package does this when a drone flies.
//
// Snapshot produces an immutable copy of the occupancy that is safe to hand to
// another goroutine, e.g. a renderer.
package grid
