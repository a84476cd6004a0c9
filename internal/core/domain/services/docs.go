// Package services provides the dispatch solvers: domain services that drain a
// simulation's order pool by binding drones to orders and warehouses to packages.
//
// The package includes:
//   - RandomSolver: picks order, drone and warehouse uniformly at random
//   - GreedySolver: picks order and drone at random, then the warehouse nearest to the drone
//
// Both share one loop: while orders are pending, claim one, and for every package
// fly to a supplying warehouse and then to the customer. Only the greedy solver
// takes the package out of stock and marks the order complete; the random solver
// leaves inventory and the customer cells untouched.
//
// Every iteration claims exactly one order and orders are never re-added, so a
// solver always terminates. A package nobody stocks stops the run with
// ErrNoSupplier instead of being skipped.
package services
