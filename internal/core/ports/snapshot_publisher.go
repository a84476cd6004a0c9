package ports

import (
	"drones/internal/core/domain/model/grid"
)

// SnapshotPublisher hands grid snapshots to renderers. Publish must never block:
// a slow, absent or crashed renderer is the publisher's problem, not the caller's.
type SnapshotPublisher interface {
	Publish(snapshot grid.Snapshot)
}
