// Package simulation provides the dispatch engine: the Simulation orchestrator and
// the OrderManager pool it owns.
//
// A Simulation binds a grid, the warehouses, the pending orders and the drone
// fleet together and exposes the only sanctioned mutations:
//   - FlyDroneTo moves a drone, keeping its grid cell and its accumulated cost in step
//   - RetrievePackage takes one unit out of a warehouse
//   - ClaimOrder removes an order from the pending pool
//   - CompleteOrder records a delivery and releases the customer cell once idle
//
// Solvers drive a Simulation through these methods and never touch the grid.
//
// The engine is single threaded: every call completes before the next begins and
// none of them block. Readers on other goroutines get immutable grid snapshots,
// either pulled with Snapshot or pushed by an Observer.
package simulation
