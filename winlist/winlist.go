// Package winlist enumerates visible top-level windows with their bounds
// and stacking order.
package winlist

import "github.com/McoreD/XerahS-Claude/geom"

// WindowInfo is an immutable snapshot of one top-level window, recomputed
// on every enumeration.
type WindowInfo struct {
	// Handle is the opaque native window handle.
	Handle uintptr
	// Title may be empty or truncated; windows with empty titles are
	// filtered out of enumeration results.
	Title string
	// Class is the native window class name.
	Class string
	// Bounds is the outer window rectangle including invisible resize
	// borders and drop shadow, in physical pixels.
	Bounds geom.Rect
	// VisualBounds is the frame-trimmed on-screen extent. Snap hit-testing
	// uses these; they fall back to Bounds when the frame query fails.
	VisualBounds geom.Rect
	// Minimized reports whether the window is iconic.
	Minimized bool
	// ZOrder is the front-to-back rank; 0 is topmost.
	ZOrder int
}

// Directory enumerates currently visible, capture-eligible top-level
// windows in ascending z-order. Consumers must not rely on the ordering and
// should scan by ZOrder explicitly.
type Directory interface {
	VisibleWindows() ([]WindowInfo, error)
}

// SystemDirectory enumerates native windows on every call; there is no
// caching because window state changes between pointer-move events.
type SystemDirectory struct{}

// NewSystemDirectory returns the platform window directory.
func NewSystemDirectory() *SystemDirectory { return &SystemDirectory{} }

// VisibleWindows returns a fresh snapshot of eligible top-level windows.
func (d *SystemDirectory) VisibleWindows() ([]WindowInfo, error) {
	return enumerate()
}
