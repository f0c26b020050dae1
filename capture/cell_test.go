package capture

import (
	"sync"
	"testing"

	"github.com/McoreD/XerahS-Claude/geom"
	"github.com/McoreD/XerahS-Claude/selection"
)

func TestCellFirstWriterWins(t *testing.T) {
	c := NewCell()
	first := selection.Outcome{Region: geom.Rect{X: 1, Y: 2, Width: 3, Height: 4}}
	second := selection.Outcome{Cancelled: true}

	if !c.Complete(first) {
		t.Fatal("first Complete should win")
	}
	if c.Complete(second) {
		t.Fatal("second Complete must be a no-op")
	}

	<-c.Done()
	if got := c.Outcome(); got != first {
		t.Errorf("Outcome = %+v, want the first write %+v", got, first)
	}
}

func TestCellConcurrentCompletion(t *testing.T) {
	// The slot must hold single-writer-wins even if surfaces were driven by
	// independent threads.
	c := NewCell()
	const writers = 32

	var wg sync.WaitGroup
	wins := make(chan int, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			if c.Complete(selection.Outcome{Region: geom.Rect{X: id, Width: 10, Height: 10}}) {
				wins <- id
			}
		}(i)
	}
	wg.Wait()
	close(wins)

	var winners []int
	for id := range wins {
		winners = append(winners, id)
	}
	if len(winners) != 1 {
		t.Fatalf("expected exactly one winning writer, got %d", len(winners))
	}
	if got := c.Outcome().Region.X; got != winners[0] {
		t.Errorf("outcome belongs to writer %d, but winner was %d", got, winners[0])
	}

	select {
	case <-c.Done():
	default:
		t.Error("Done must be closed after completion")
	}
}
