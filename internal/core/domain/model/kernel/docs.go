// Package kernel holds the value objects shared by every aggregate of the dispatch
// simulator.
//
// The package includes:
//   - Position: an immutable integer cell coordinate with Euclidean distance
//   - Package: a deliverable good identified solely by its name
//   - UUID: identity for orders and simulation runs
//
// All three are comparable values: two Positions with the same coordinates, or two
// Packages with the same name, are interchangeable and may be used as map keys.
package kernel
