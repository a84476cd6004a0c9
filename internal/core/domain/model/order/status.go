package order

import (
	"fmt"

	"drones/internal/pkg/errs"
)

// Status represents the lifecycle state of an order inside the pending pool.
//
// State transitions:
//
//	Pending ──> Claimed ──> Completed
//
// Status is a value object: transitions return a new Status and never
// modify the receiver.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the status of an order waiting in the pool for a drone.
	Pending

	// Claimed indicates a solver has committed a drone to the order and
	// removed it from the pool.
	Claimed

	// Completed indicates every package of the order has been delivered.
	// This is a final state with no further transitions allowed.
	Completed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "Unknown",
		Pending:   "Pending",
		Claimed:   "Claimed",
		Completed: "Completed",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:   "Pending",
		Claimed:   "Claimed",
		Completed: "Completed",
	}
}

// Validate checks if the Status value is valid.
//
// Valid statuses are: Pending, Claimed, Completed.
// Unknown (0) and any other values are invalid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
//
// This method implements the fmt.Stringer interface and is safe
// to call on any Status value, including invalid ones.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// Claim transitions the status to Claimed.
//
// Valid transitions:
//   - Pending -> Claimed
//
// Invalid transitions:
//   - Claimed -> Claimed (double claim)
//   - Completed -> Claimed
//   - Unknown -> Claimed
func (s Status) Claim() (Status, error) {
	if s != Pending {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to claim", s.String()),
		)
	}

	return Claimed, nil
}

// Complete transitions the status to Completed.
//
// Valid transitions:
//   - Claimed -> Completed
//
// Invalid transitions:
//   - Pending -> Completed (must be claimed first)
//   - Completed -> Completed (already completed)
//   - Unknown -> Completed
func (s Status) Complete() (Status, error) {
	if s != Claimed {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to complete", s.String()),
		)
	}

	return Completed, nil
}
