// Package warehouse provides the Warehouse aggregate and its package inventory.
//
// The inventory is a multiset: a mapping from Package to the number of units still
// in stock. Only positive counts are stored; retrieving the last unit removes the
// entry, so "absent" and "exhausted" are the same state and Contains stays a single
// map lookup.
package warehouse
