package renderer

import (
	"fmt"
	"io"
	"sync"

	"drones/internal/core/domain/model/grid"
)

// latestSource is where the terminal polls its frames from.
type latestSource interface {
	Latest() grid.Snapshot
}

// Terminal draws the grid as ASCII, one row per line and one three-glyph
// group per cell (W, C, D for the first warehouse, customer and drone).
// It redraws only when the snapshot changed since the last frame.
type Terminal struct {
	source latestSource
	out    io.Writer

	mu   sync.Mutex
	last string
}

func NewTerminal(source latestSource, out io.Writer) *Terminal {
	return &Terminal{source: source, out: out}
}

// Draw writes the current frame. It reports whether anything was written.
func (t *Terminal) Draw() (bool, error) {
	snap := t.source.Latest()
	if snap.IsZero() {
		return false, nil
	}

	frame := snap.Render()

	t.mu.Lock()
	defer t.mu.Unlock()
	if frame == t.last {
		return false, nil
	}

	if _, err := fmt.Fprintf(t.out, "\n%s", frame); err != nil {
		return false, err
	}
	t.last = frame
	return true, nil
}
