// Package capture races one overlay surface per monitor to a single region
// selection or cancellation, then tears every surface down.
package capture

import (
	"context"
	"log"

	"github.com/McoreD/XerahS-Claude/coords"
	"github.com/McoreD/XerahS-Claude/geom"
	"github.com/McoreD/XerahS-Claude/monitor"
	"github.com/McoreD/XerahS-Claude/selection"
)

// Surface is one per-monitor overlay. The orchestrator only shows and
// closes surfaces; input forwarding and drawing live behind the
// implementation.
type Surface interface {
	Show() error
	Close()
}

// SurfaceFactory builds the overlay surface for one monitor around its
// selection session.
type SurfaceFactory func(m monitor.Info, sess *selection.Session) (Surface, error)

// Orchestrator owns one capture operation at a time. The translator and
// hit-tester are shared across all per-monitor surfaces.
type Orchestrator struct {
	translator *coords.Translator
	tester     selection.HitTester
	cfg        selection.Config
	factory    SurfaceFactory
}

// NewOrchestrator wires the shared collaborators. tester may be nil when
// cfg disables window snapping.
func NewOrchestrator(translator *coords.Translator, tester selection.HitTester, cfg selection.Config, factory SurfaceFactory) *Orchestrator {
	return &Orchestrator{translator: translator, tester: tester, cfg: cfg, factory: factory}
}

// Capture runs one interactive selection across all monitors. It returns
// the selected rectangle with ok=true, or ok=false when the user cancelled
// or no monitor is available. The caller's goroutine blocks until the first
// surface emits a terminal event, the context is cancelled, or setup fails.
// Every created surface is closed before Capture returns, on all paths.
func (o *Orchestrator) Capture(ctx context.Context) (geom.Rect, bool, error) {
	// Monitors can attach, detach or rescale between captures; the cache is
	// only trusted for the duration of one operation.
	if err := o.translator.Refresh(); err != nil {
		// An unenumerable display set is handled like an empty one: nothing
		// to show, nothing to select.
		log.Printf("capture: monitor enumeration failed, treating as no displays: %v", err)
		return geom.Rect{}, false, nil
	}
	monitors := o.translator.Monitors()
	if len(monitors) == 0 {
		return geom.Rect{}, false, nil
	}

	cell := NewCell()

	surfaces := make([]Surface, 0, len(monitors))
	defer func() {
		for _, s := range surfaces {
			s.Close()
		}
	}()

	for _, m := range monitors {
		sess := selection.NewSession(o.cfg, o.tester, func(out selection.Outcome) {
			// First terminal event across all surfaces wins; the rest are
			// dropped silently.
			cell.Complete(out)
		})
		surf, err := o.factory(m, sess)
		if err != nil {
			return geom.Rect{}, false, err
		}
		surfaces = append(surfaces, surf)
	}

	for _, s := range surfaces {
		if err := s.Show(); err != nil {
			return geom.Rect{}, false, err
		}
	}

	select {
	case <-ctx.Done():
		return geom.Rect{}, false, ctx.Err()
	case <-cell.Done():
	}

	out := cell.Outcome()
	if out.Cancelled {
		return geom.Rect{}, false, nil
	}
	return out.Region, true, nil
}
