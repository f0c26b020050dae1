package capture

import (
	"sync"

	"github.com/McoreD/XerahS-Claude/selection"
)

// Cell is a single-assignment completion slot. The first Complete wins;
// every later attempt is a no-op. It is the only piece of state shared
// between racing overlay surfaces, and the only one that must be safe under
// concurrent completion attempts.
type Cell struct {
	once    sync.Once
	done    chan struct{}
	outcome selection.Outcome
}

// NewCell returns an unwritten cell.
func NewCell() *Cell {
	return &Cell{done: make(chan struct{})}
}

// Complete attempts to write the outcome. It returns true for the winning
// writer and false for every subsequent one. Losing is an expected result
// of multi-surface racing, not an error.
func (c *Cell) Complete(o selection.Outcome) bool {
	won := false
	c.once.Do(func() {
		c.outcome = o
		won = true
		close(c.done)
	})
	return won
}

// Done is closed once the cell has been written.
func (c *Cell) Done() <-chan struct{} {
	return c.done
}

// Outcome returns the winning outcome. Only valid after Done is closed.
func (c *Cell) Outcome() selection.Outcome {
	return c.outcome
}
