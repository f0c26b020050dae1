// Package monitor enumerates attached displays with their physical bounds
// and DPI scale factors.
package monitor

import "github.com/McoreD/XerahS-Claude/geom"

// Info is an immutable snapshot of one monitor.
type Info struct {
	// Bounds is the monitor's extent in physical virtual-screen pixels.
	Bounds geom.Rect
	// Scale is the logical-to-physical pixel ratio (1.0 = 96 DPI).
	Scale float64
	// Primary marks the primary display.
	Primary bool
}

// Directory enumerates monitors. Order is stable for a given desktop
// configuration but carries no other meaning.
type Directory interface {
	All() ([]Info, error)
}

// SystemDirectory queries the native display configuration on every call.
type SystemDirectory struct{}

// NewSystemDirectory returns the platform monitor directory.
func NewSystemDirectory() *SystemDirectory { return &SystemDirectory{} }

// All returns a fresh snapshot of all active monitors.
func (d *SystemDirectory) All() ([]Info, error) {
	return enumerate()
}
