// Package renderer holds the collaborators that show the grid: a hub that
// fans snapshots out to subscribers, and an ASCII terminal renderer.
//
// The simulation never waits for a renderer. The hub keeps only the latest
// snapshot per subscriber, so a slow reader skips frames instead of stalling
// the solver, and a missing reader costs nothing.
package renderer

import (
	"sync"

	"drones/internal/core/domain/model/grid"
	"drones/internal/core/ports"
)

// Hub is a SnapshotPublisher that remembers the latest snapshot and forwards
// it to every subscriber. It is safe for concurrent use.
type Hub struct {
	mu     sync.RWMutex
	latest grid.Snapshot
	subs   map[int]chan grid.Snapshot
	nextID int
}

var _ ports.SnapshotPublisher = (*Hub)(nil)

func NewHub() *Hub {
	return &Hub{subs: make(map[int]chan grid.Snapshot)}
}

// Publish stores s and offers it to subscribers without blocking. A subscriber
// that has not read the previous snapshot gets it replaced by s.
func (h *Hub) Publish(s grid.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.latest = s
	for _, ch := range h.subs {
		offer(ch, s)
	}
}

// Latest returns the most recent snapshot; the zero Snapshot before any publish.
func (h *Hub) Latest() grid.Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.latest
}

// Subscribe returns a channel carrying snapshots and a cancel func that
// closes it. The latest snapshot, if any, is delivered first.
func (h *Hub) Subscribe() (<-chan grid.Snapshot, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	ch := make(chan grid.Snapshot, 1)
	if !h.latest.IsZero() {
		ch <- h.latest
	}
	h.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs, id)
			close(ch)
		})
	}
}

// Subscribers reports how many subscriptions are open.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// offer replaces a pending snapshot rather than wait for the reader. Callers
// hold the hub lock, so nothing else sends on ch concurrently.
func offer(ch chan grid.Snapshot, s grid.Snapshot) {
	select {
	case ch <- s:
		return
	default:
	}

	select {
	case <-ch:
	default:
	}
	ch <- s
}
