package coords

import (
	"fmt"
	"math"
	"testing"

	"github.com/McoreD/XerahS-Claude/geom"
	"github.com/McoreD/XerahS-Claude/monitor"
)

type fakeDirectory struct {
	monitors []monitor.Info
	err      error
}

func (d *fakeDirectory) All() ([]monitor.Info, error) {
	return d.monitors, d.err
}

func dualMonitorSetup() *Translator {
	// Primary 1920x1080 at 100%, secondary 2560x1440 at 150% to its right,
	// offset upward the way mixed-DPI desktops usually are.
	t := NewTranslator(&fakeDirectory{monitors: []monitor.Info{
		{Bounds: geom.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}, Scale: 1.0, Primary: true},
		{Bounds: geom.Rect{X: 1920, Y: -200, Width: 2560, Height: 1440}, Scale: 1.5},
	}})
	if err := t.Refresh(); err != nil {
		panic(err)
	}
	return t
}

func TestMonitorAt(t *testing.T) {
	tr := dualMonitorSetup()

	m, ok := tr.MonitorAt(geom.Point{X: 100, Y: 100})
	if !ok || !m.Primary {
		t.Fatalf("expected primary monitor at (100,100), got %+v ok=%v", m, ok)
	}

	m, ok = tr.MonitorAt(geom.Point{X: 2000, Y: 0})
	if !ok || m.Scale != 1.5 {
		t.Fatalf("expected secondary monitor at (2000,0), got %+v ok=%v", m, ok)
	}

	if _, ok := tr.MonitorAt(geom.Point{X: -5, Y: -5}); ok {
		t.Fatal("no monitor should contain (-5,-5)")
	}
}

func TestNearestMonitor(t *testing.T) {
	tr := dualMonitorSetup()

	// Far left of everything: the primary's center is closer.
	m, ok := tr.NearestMonitor(geom.Point{X: -1000, Y: 500})
	if !ok || !m.Primary {
		t.Fatalf("expected primary as nearest, got %+v ok=%v", m, ok)
	}

	// Far right: the secondary wins.
	m, ok = tr.NearestMonitor(geom.Point{X: 6000, Y: 500})
	if !ok || m.Scale != 1.5 {
		t.Fatalf("expected secondary as nearest, got %+v ok=%v", m, ok)
	}
}

func TestNearestMonitorTieBreak(t *testing.T) {
	// Two monitors whose centers are equidistant from the probe point:
	// enumeration order decides.
	tr := NewTranslator(&fakeDirectory{monitors: []monitor.Info{
		{Bounds: geom.Rect{X: -100, Y: 0, Width: 100, Height: 100}, Scale: 1.0},
		{Bounds: geom.Rect{X: 0, Y: 0, Width: 100, Height: 100}, Scale: 2.0},
	}})
	if err := tr.Refresh(); err != nil {
		t.Fatal(err)
	}
	m, ok := tr.NearestMonitor(geom.Point{X: 0, Y: 50})
	if !ok || m.Scale != 1.0 {
		t.Fatalf("tie should resolve to first enumerated monitor, got %+v", m)
	}
}

func TestZeroMonitors(t *testing.T) {
	tr := NewTranslator(&fakeDirectory{})
	if err := tr.Refresh(); err != nil {
		t.Fatal(err)
	}
	if _, ok := tr.NearestMonitor(geom.Point{}); ok {
		t.Error("NearestMonitor should report false with zero monitors")
	}
	if b := tr.VirtualScreenBounds(); !b.Empty() {
		t.Errorf("VirtualScreenBounds should be empty, got %+v", b)
	}
	if s := tr.ScaleFactorAt(geom.Point{}); s != 1.0 {
		t.Errorf("ScaleFactorAt fallback = %v, want 1.0", s)
	}
}

func TestRefreshError(t *testing.T) {
	dir := &fakeDirectory{monitors: []monitor.Info{
		{Bounds: geom.Rect{Width: 100, Height: 100}, Scale: 1.0},
	}}
	tr := NewTranslator(dir)
	if err := tr.Refresh(); err != nil {
		t.Fatal(err)
	}
	dir.err = fmt.Errorf("display service unavailable")
	if err := tr.Refresh(); err == nil {
		t.Fatal("Refresh should surface directory errors")
	}
	if len(tr.Monitors()) != 0 {
		t.Error("a failed refresh should leave an empty cache, not a stale one")
	}
}

func TestVirtualScreenBounds(t *testing.T) {
	tr := dualMonitorSetup()
	want := geom.Rect{X: 0, Y: -200, Width: 4480, Height: 1440}
	if got := tr.VirtualScreenBounds(); got != want {
		t.Errorf("VirtualScreenBounds = %+v, want %+v", got, want)
	}
}

func TestPhysicalLogicalRoundTrip(t *testing.T) {
	tr := dualMonitorSetup()
	m := tr.Monitors()[1] // 150% scale

	points := []LogicalPoint{
		{0, 0}, {1, 1}, {100.5, 33.25}, {1706, 959}, {0.333, 0.667},
	}
	for _, p := range points {
		phys := tr.ToPhysical(p, m)
		back := tr.ToLogical(phys, m)
		again := tr.ToPhysical(back, m)
		if phys != again {
			t.Errorf("round trip unstable for %+v: %+v -> %+v -> %+v", p, phys, back, again)
		}
	}
}

func TestToPhysicalUsesMonitorContext(t *testing.T) {
	tr := dualMonitorSetup()
	primary := tr.Monitors()[0]
	secondary := tr.Monitors()[1]

	local := LogicalPoint{X: 100, Y: 100}
	if got := tr.ToPhysical(local, primary); got != (geom.Point{X: 100, Y: 100}) {
		t.Errorf("primary ToPhysical = %+v", got)
	}
	if got := tr.ToPhysical(local, secondary); got != (geom.Point{X: 1920 + 150, Y: -200 + 150}) {
		t.Errorf("secondary ToPhysical = %+v", got)
	}
}

func TestToLogicalInverse(t *testing.T) {
	tr := dualMonitorSetup()
	m := tr.Monitors()[1]
	lp := tr.ToLogical(geom.Point{X: 2100, Y: 100}, m)
	if math.Abs(lp.X-120) > 1e-9 || math.Abs(lp.Y-200) > 1e-9 {
		t.Errorf("ToLogical = %+v, want {120 200}", lp)
	}
}
