package capture

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/McoreD/XerahS-Claude/coords"
	"github.com/McoreD/XerahS-Claude/geom"
	"github.com/McoreD/XerahS-Claude/monitor"
	"github.com/McoreD/XerahS-Claude/selection"
)

type fakeMonitorDirectory struct {
	monitors []monitor.Info
	err      error
}

func (d *fakeMonitorDirectory) All() ([]monitor.Info, error) {
	return d.monitors, d.err
}

type fakeSurface struct {
	shown   atomic.Int32
	closed  atomic.Int32
	showErr error
}

func (s *fakeSurface) Show() error { s.shown.Add(1); return s.showErr }
func (s *fakeSurface) Close()      { s.closed.Add(1) }

// harness collects the sessions and surfaces the orchestrator creates so
// tests can drive input directly, without any native overlay.
type harness struct {
	mu       sync.Mutex
	sessions []*selection.Session
	surfaces []*fakeSurface
}

func (h *harness) factory(m monitor.Info, sess *selection.Session) (Surface, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessions = append(h.sessions, sess)
	s := &fakeSurface{}
	h.surfaces = append(h.surfaces, s)
	return s, nil
}

func threeMonitors() []monitor.Info {
	return []monitor.Info{
		{Bounds: geom.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}, Scale: 1.0, Primary: true},
		{Bounds: geom.Rect{X: 1920, Y: 0, Width: 1920, Height: 1080}, Scale: 1.25},
		{Bounds: geom.Rect{X: -2560, Y: 0, Width: 2560, Height: 1440}, Scale: 1.5},
	}
}

func newOrchestratorHarness(monitors []monitor.Info) (*Orchestrator, *harness) {
	h := &harness{}
	tr := coords.NewTranslator(&fakeMonitorDirectory{monitors: monitors})
	o := NewOrchestrator(tr, nil, selection.DefaultConfig(), h.factory)
	return o, h
}

// runCapture starts Capture in the background and waits until every surface
// has been created and shown.
func runCapture(t *testing.T, o *Orchestrator, h *harness, want int) chan struct {
	rect geom.Rect
	ok   bool
	err  error
} {
	t.Helper()
	res := make(chan struct {
		rect geom.Rect
		ok   bool
		err  error
	}, 1)
	go func() {
		r, ok, err := o.Capture(context.Background())
		res <- struct {
			rect geom.Rect
			ok   bool
			err  error
		}{r, ok, err}
	}()

	deadline := time.Now().Add(2 * time.Second)
	for {
		h.mu.Lock()
		ready := len(h.surfaces) == want
		if ready {
			for _, s := range h.surfaces {
				if s.shown.Load() == 0 {
					ready = false
				}
			}
		}
		h.mu.Unlock()
		if ready {
			return res
		}
		if time.Now().After(deadline) {
			t.Fatal("surfaces were not created/shown in time")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestCaptureSelectionWins(t *testing.T) {
	o, h := newOrchestratorHarness(threeMonitors())
	res := runCapture(t, o, h, 3)

	// Surface 2 selects first, then surface 0 cancels: the selection landed
	// first, so it is the overall result.
	h.sessions[2].Handle(selection.ButtonDown{Button: selection.ButtonPrimary, Point: geom.Point{X: -2000, Y: 100}})
	h.sessions[2].Handle(selection.ButtonUp{Button: selection.ButtonPrimary, Point: geom.Point{X: -1000, Y: 600}})
	h.sessions[0].Handle(selection.KeyDown{Key: selection.KeyCancel})

	r := <-res
	if r.err != nil {
		t.Fatal(r.err)
	}
	if !r.ok {
		t.Fatal("expected a selected region")
	}
	want := geom.Rect{X: -2000, Y: 100, Width: 1000, Height: 500}
	if r.rect != want {
		t.Errorf("rect = %+v, want %+v", r.rect, want)
	}

	for i, s := range h.surfaces {
		if got := s.closed.Load(); got != 1 {
			t.Errorf("surface %d closed %d times, want exactly once", i, got)
		}
	}
}

func TestCaptureCancellation(t *testing.T) {
	o, h := newOrchestratorHarness(threeMonitors())
	res := runCapture(t, o, h, 3)

	h.sessions[1].Handle(selection.ButtonDown{Button: selection.ButtonSecondary, Point: geom.Point{X: 2000, Y: 100}})

	r := <-res
	if r.err != nil || r.ok {
		t.Fatalf("cancellation should return ok=false, err=nil; got ok=%v err=%v", r.ok, r.err)
	}
	for i, s := range h.surfaces {
		if got := s.closed.Load(); got != 1 {
			t.Errorf("surface %d closed %d times, want exactly once", i, got)
		}
	}
}

func TestCaptureRaceProducesOneResult(t *testing.T) {
	o, h := newOrchestratorHarness(threeMonitors())
	res := runCapture(t, o, h, 3)

	// All three surfaces fire concurrently; exactly one outcome must land
	// and the call must return without a second result or a panic.
	var wg sync.WaitGroup
	for i, sess := range h.sessions {
		wg.Add(1)
		go func(i int, sess *selection.Session) {
			defer wg.Done()
			if i%2 == 0 {
				sess.Handle(selection.KeyDown{Key: selection.KeyCancel})
			} else {
				sess.Handle(selection.ButtonDown{Button: selection.ButtonPrimary, Point: geom.Point{X: 0, Y: 0}})
				sess.Handle(selection.ButtonUp{Button: selection.ButtonPrimary, Point: geom.Point{X: 100, Y: 100}})
			}
		}(i, sess)
	}
	wg.Wait()

	r := <-res
	if r.err != nil {
		t.Fatal(r.err)
	}
	for i, s := range h.surfaces {
		if got := s.closed.Load(); got != 1 {
			t.Errorf("surface %d closed %d times, want exactly once", i, got)
		}
	}
}

func TestCaptureZeroMonitors(t *testing.T) {
	o, h := newOrchestratorHarness(nil)
	rect, ok, err := o.Capture(context.Background())
	if err != nil || ok {
		t.Fatalf("zero monitors should cancel immediately: rect=%+v ok=%v err=%v", rect, ok, err)
	}
	if len(h.surfaces) != 0 {
		t.Errorf("no surface may be created with zero monitors, got %d", len(h.surfaces))
	}
}

func TestCaptureEnumerationFailureIsCancellation(t *testing.T) {
	h := &harness{}
	tr := coords.NewTranslator(&fakeMonitorDirectory{err: fmt.Errorf("display service down")})
	o := NewOrchestrator(tr, nil, selection.DefaultConfig(), h.factory)

	_, ok, err := o.Capture(context.Background())
	if err != nil || ok {
		t.Fatalf("enumeration failure is handled like an empty directory: ok=%v err=%v", ok, err)
	}
}

func TestCaptureSurfaceCreationFailureTearsDown(t *testing.T) {
	created := []*fakeSurface{}
	factory := func(m monitor.Info, sess *selection.Session) (Surface, error) {
		if len(created) == 2 {
			return nil, fmt.Errorf("window class registration failed")
		}
		s := &fakeSurface{}
		created = append(created, s)
		return s, nil
	}
	tr := coords.NewTranslator(&fakeMonitorDirectory{monitors: threeMonitors()})
	o := NewOrchestrator(tr, nil, selection.DefaultConfig(), factory)

	_, ok, err := o.Capture(context.Background())
	if err == nil || ok {
		t.Fatal("creation failure should propagate as an error")
	}
	for i, s := range created {
		if got := s.closed.Load(); got != 1 {
			t.Errorf("surface %d closed %d times, want exactly once", i, got)
		}
	}
}

func TestCaptureContextCancel(t *testing.T) {
	o, h := newOrchestratorHarness(threeMonitors())
	ctx, cancel := context.WithCancel(context.Background())

	res := make(chan error, 1)
	go func() {
		_, _, err := o.Capture(ctx)
		res <- err
	}()

	deadline := time.Now().Add(2 * time.Second)
	for {
		h.mu.Lock()
		n := len(h.surfaces)
		h.mu.Unlock()
		if n == 3 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("surfaces not created in time")
		}
		time.Sleep(time.Millisecond)
	}

	cancel()
	if err := <-res; err != context.Canceled {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	for i, s := range h.surfaces {
		if got := s.closed.Load(); got != 1 {
			t.Errorf("surface %d closed %d times, want exactly once", i, got)
		}
	}
}
