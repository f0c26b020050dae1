// Package coords converts between per-monitor logical coordinates and the
// unified physical virtual-screen space.
package coords

import (
	"math"

	"github.com/McoreD/XerahS-Claude/geom"
	"github.com/McoreD/XerahS-Claude/monitor"
)

// LogicalPoint is a coordinate local to one monitor's scaled space.
// Fractional values are meaningful because scale factors rarely divide
// evenly.
type LogicalPoint struct {
	X float64
	Y float64
}

// Translator resolves monitors for physical points and applies per-monitor
// affine maps between logical and physical pixels. The monitor list is a
// cached snapshot: it only changes on Refresh, never implicitly on read.
// Callers refresh explicitly before starting a capture.
type Translator struct {
	dir      monitor.Directory
	monitors []monitor.Info
}

// NewTranslator creates a translator over dir with an empty cache. Call
// Refresh before first use.
func NewTranslator(dir monitor.Directory) *Translator {
	return &Translator{dir: dir}
}

// Refresh re-queries the monitor directory, replacing the cached snapshot.
func (t *Translator) Refresh() error {
	monitors, err := t.dir.All()
	if err != nil {
		t.monitors = nil
		return err
	}
	t.monitors = monitors
	return nil
}

// Monitors returns the cached snapshot.
func (t *Translator) Monitors() []monitor.Info {
	return t.monitors
}

// MonitorAt returns the monitor whose physical bounds contain p.
func (t *Translator) MonitorAt(p geom.Point) (monitor.Info, bool) {
	for _, m := range t.monitors {
		if m.Bounds.Contains(p) {
			return m, true
		}
	}
	return monitor.Info{}, false
}

// NearestMonitor returns the monitor whose bounds center is closest to p
// (squared Euclidean distance, first match wins on ties). It only reports
// false when the cache holds zero monitors.
func (t *Translator) NearestMonitor(p geom.Point) (monitor.Info, bool) {
	if len(t.monitors) == 0 {
		return monitor.Info{}, false
	}
	best := t.monitors[0]
	bestDist := geom.DistSq(p, best.Bounds.Center())
	for _, m := range t.monitors[1:] {
		if d := geom.DistSq(p, m.Bounds.Center()); d < bestDist {
			best = m
			bestDist = d
		}
	}
	return best, true
}

// ScaleFactorAt returns the scale factor of the monitor containing p, or
// 1.0 when no monitor contains it.
func (t *Translator) ScaleFactorAt(p geom.Point) float64 {
	if m, ok := t.MonitorAt(p); ok {
		return m.Scale
	}
	return 1.0
}

// ToPhysical maps a point in m's logical space to physical virtual-screen
// pixels. The conversion is always tied to one specific monitor: each
// monitor has its own scale factor and origin.
func (t *Translator) ToPhysical(local LogicalPoint, m monitor.Info) geom.Point {
	return geom.Point{
		X: m.Bounds.X + int(math.Round(local.X*m.Scale)),
		Y: m.Bounds.Y + int(math.Round(local.Y*m.Scale)),
	}
}

// ToLogical is the inverse of ToPhysical for the same monitor.
func (t *Translator) ToLogical(p geom.Point, m monitor.Info) LogicalPoint {
	return LogicalPoint{
		X: float64(p.X-m.Bounds.X) / m.Scale,
		Y: float64(p.Y-m.Bounds.Y) / m.Scale,
	}
}

// VirtualScreenBounds returns the union of all cached monitor bounds, or an
// empty rectangle when the cache holds zero monitors.
func (t *Translator) VirtualScreenBounds() geom.Rect {
	var union geom.Rect
	for _, m := range t.monitors {
		union = union.Union(m.Bounds)
	}
	return union
}
