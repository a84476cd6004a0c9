// Package order provides the Order entity and the Status state machine that
// tracks an order through the pending pool.
//
// The package includes:
//   - Order: an immutable request of one customer for an ordered list of packages
//   - Status: the lifecycle state kept by the order pool for every order it has seen
//
// Key business rules:
//   - Orders must have a valid identifier, a constructed customer and at least one package
//   - Orders are never mutated after creation; the pool removes them, it does not edit them
//   - Order status follows a defined workflow: Pending -> Claimed -> Completed
//   - An order can be claimed once and completed once
package order
