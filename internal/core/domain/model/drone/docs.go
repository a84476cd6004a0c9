// Package drone provides the Drone aggregate of the dispatch simulator.
//
// A drone keeps a real-valued position that only ever changes through FlyTo, and
// reports a rounded integer Position that the grid and renderers use. Flights are
// instantaneous: FlyTo returns the integral cost of the hop and moves the drone.
//
// Key business rules:
//   - A drone must have a non-empty name
//   - Flight cost is the Euclidean distance rounded up to the next integer
//   - The reported position rounds each axis half away from zero
//   - Fleets are named Drone0..DroneN-1 and take off from a common cell
package drone
