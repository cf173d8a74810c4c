package engine

import "time"

// cursor is the mutable per-binding state: where a stepped list is, how many
// accelerated ticks have accumulated, and any staged hold.
type cursor struct {
	step     int
	incTicks int
	decTicks int

	staged   bool
	deferred float64
	stagedAt time.Time
}

// cursorTable keeps cursors outside the bindings so they can be reset
// without rebuilding zones.
type cursorTable map[int]*cursor

func (t cursorTable) get(id int) *cursor {
	c, ok := t[id]
	if !ok {
		c = &cursor{}
		t[id] = c
	}
	return c
}

func (t cursorTable) drop(id int) {
	delete(t, id)
}
