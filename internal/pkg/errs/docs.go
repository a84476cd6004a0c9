// Package errs provides the shared error types of the dispatch simulator.
//
// Every type follows the same shape:
//   - a sentinel error variable (e.g. ErrObjectNotFound) usable with errors.Is
//   - a struct carrying the offending parameter and, optionally, a cause
//   - New…Error and New…ErrorWithCause constructors
//   - Unwrap returning the sentinel
//
// ObjectNotFoundError doubles as the "unknown entity" class of the domain: the grid,
// the order pool and the cost ledger all report lookups of things they do not hold
// through it.
package errs
