// Package hittest resolves which top-level window sits under a physical
// screen point.
package hittest

import (
	"github.com/McoreD/XerahS-Claude/geom"
	"github.com/McoreD/XerahS-Claude/winlist"
)

// Tester hit-tests physical points against the current desktop. Every call
// re-enumerates windows: position, visibility and stacking all change
// between pointer-move events, so a cache would serve stale answers.
type Tester struct {
	dir winlist.Directory
}

// NewTester creates a hit-tester over dir.
func NewTester(dir winlist.Directory) *Tester {
	return &Tester{dir: dir}
}

// WindowAt returns the topmost eligible window whose visual bounds contain
// p. Visual bounds exclude drop shadow and invisible resize borders, so a
// snapped selection matches what the user perceives as the window edge.
// Enumeration failure degrades to "no window here"; ties on ZOrder resolve
// to the first enumerated match.
func (t *Tester) WindowAt(p geom.Point) (winlist.WindowInfo, bool) {
	windows, err := t.dir.VisibleWindows()
	if err != nil {
		return winlist.WindowInfo{}, false
	}

	var best winlist.WindowInfo
	found := false
	for _, w := range windows {
		if w.Minimized || w.Title == "" || !w.VisualBounds.Contains(p) {
			continue
		}
		if !found || w.ZOrder < best.ZOrder {
			best = w
			found = true
		}
	}
	return best, found
}
