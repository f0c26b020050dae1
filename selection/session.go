// Package selection implements the per-surface interactive selection state
// machine: hover with window snapping, drag, and exactly one terminal
// outcome (a selected region or a cancellation) per session.
package selection

import (
	"github.com/McoreD/XerahS-Claude/geom"
	"github.com/McoreD/XerahS-Claude/winlist"
)

// State is the session's current phase.
type State int

const (
	// Hovering tracks the pointer and the window underneath it.
	Hovering State = iota
	// Dragging spans a raw rectangle from the drag start to the pointer.
	Dragging
	// Selected is terminal: a region was confirmed.
	Selected
	// Cancelled is terminal: the user abandoned the capture.
	Cancelled
)

func (s State) String() string {
	switch s {
	case Hovering:
		return "Hovering"
	case Dragging:
		return "Dragging"
	case Selected:
		return "Selected"
	case Cancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// Button identifies a pointer button.
type Button int

const (
	// ButtonPrimary confirms (snap or drag).
	ButtonPrimary Button = iota
	// ButtonSecondary cancels.
	ButtonSecondary
)

// Key identifies a keyboard input the session reacts to.
type Key int

// KeyCancel is the cancel key (Escape on the native surface).
const KeyCancel Key = iota

// Event is a single input delivered to a session. Events are processed to
// completion, one at a time.
type Event interface{ isEvent() }

// PointerMove reports the pointer at a physical virtual-screen position.
type PointerMove struct{ Point geom.Point }

// ButtonDown reports a pointer button press at a physical position.
type ButtonDown struct {
	Button Button
	Point  geom.Point
}

// ButtonUp reports a pointer button release at a physical position.
type ButtonUp struct {
	Button Button
	Point  geom.Point
}

// KeyDown reports a key press.
type KeyDown struct{ Key Key }

func (PointerMove) isEvent() {}
func (ButtonDown) isEvent()  {}
func (ButtonUp) isEvent()    {}
func (KeyDown) isEvent()     {}

// Outcome is a session's single terminal event.
type Outcome struct {
	// Region is the normalized selected rectangle; undefined when
	// Cancelled is true.
	Region    geom.Rect
	Cancelled bool
}

// Config tunes session behavior. The thresholds are deliberately
// configurable: they plausibly need tuning per display density.
type Config struct {
	// EnableWindowSnapping turns hover-window detection on. When false the
	// session never hit-tests and only drag selection is available.
	EnableWindowSnapping bool
	// MinDragSize is the strict lower bound, in physical pixels, that both
	// the width and height of a drag must exceed to count as a selection.
	// Smaller releases are treated as accidental micro-drags and reset to
	// Hovering.
	MinDragSize int
	// DimOpacity is the overlay dim level in [0,1]. Cosmetic only; the
	// state machine never reads it.
	DimOpacity float64
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		EnableWindowSnapping: true,
		MinDragSize:          3,
		DimOpacity:           0.4,
	}
}

// HitTester resolves the topmost window under a physical point.
// *hittest.Tester satisfies this.
type HitTester interface {
	WindowAt(p geom.Point) (winlist.WindowInfo, bool)
}

// Session is the live selection record for one overlay surface. It is not
// safe for concurrent use: the surface delivers events one at a time from
// its input context.
type Session struct {
	cfg    Config
	tester HitTester
	emit   func(Outcome)

	state      State
	dragStart  geom.Point
	cursor     geom.Point
	rect       geom.Rect
	hovered    winlist.WindowInfo
	hasHovered bool
}

// NewSession creates a session in the Hovering state. emit is invoked
// exactly once, with the session's terminal outcome. tester may be nil when
// cfg.EnableWindowSnapping is false.
func NewSession(cfg Config, tester HitTester, emit func(Outcome)) *Session {
	return &Session{cfg: cfg, tester: tester, emit: emit, state: Hovering}
}

// State returns the current phase.
func (s *Session) State() State { return s.state }

// Rect returns the current selection rectangle. During a drag it may be
// non-normalized (spanned from two arbitrary corners) for live rendering.
func (s *Session) Rect() geom.Rect { return s.rect }

// Cursor returns the last observed pointer position.
func (s *Session) Cursor() geom.Point { return s.cursor }

// HoveredWindow returns the window under the pointer, if any. The value is
// a lookup result refreshed on every pointer move, never a held reference.
func (s *Session) HoveredWindow() (winlist.WindowInfo, bool) {
	return s.hovered, s.hasHovered
}

// Handle processes one input event. Events arriving after a terminal state
// are ignored.
func (s *Session) Handle(ev Event) {
	switch s.state {
	case Hovering:
		s.handleHovering(ev)
	case Dragging:
		s.handleDragging(ev)
	case Selected, Cancelled:
		// Terminal: this surface no longer participates.
	}
}

func (s *Session) handleHovering(ev Event) {
	switch e := ev.(type) {
	case PointerMove:
		s.cursor = e.Point
		s.refreshHover()
	case ButtonDown:
		switch e.Button {
		case ButtonPrimary:
			s.cursor = e.Point
			s.refreshHover()
			if s.hasHovered {
				// Snap: the hovered window's visual bounds become the
				// selection immediately, no drag required.
				s.rect = s.hovered.VisualBounds.Normalize()
				s.finish(Outcome{Region: s.rect})
				return
			}
			s.state = Dragging
			s.dragStart = e.Point
			s.rect = geom.Rect{X: e.Point.X, Y: e.Point.Y}
		case ButtonSecondary:
			s.finish(Outcome{Cancelled: true})
		}
	case KeyDown:
		if e.Key == KeyCancel {
			s.finish(Outcome{Cancelled: true})
		}
	}
}

func (s *Session) handleDragging(ev Event) {
	switch e := ev.(type) {
	case PointerMove:
		s.cursor = e.Point
		s.rect = geom.RectFromCorners(s.dragStart, e.Point)
	case ButtonUp:
		if e.Button != ButtonPrimary {
			return
		}
		s.cursor = e.Point
		r := geom.RectFromCorners(s.dragStart, e.Point).Normalize()
		if r.Width > s.cfg.MinDragSize && r.Height > s.cfg.MinDragSize {
			s.rect = r
			s.finish(Outcome{Region: r})
			return
		}
		// Micro-drag: not an error, just not a selection. Reset so the user
		// can retry on the same surface.
		s.rect = geom.Rect{}
		s.state = Hovering
		s.refreshHover()
	case ButtonDown:
		if e.Button == ButtonSecondary {
			s.finish(Outcome{Cancelled: true})
		}
	case KeyDown:
		if e.Key == KeyCancel {
			s.finish(Outcome{Cancelled: true})
		}
	}
}

// refreshHover recomputes the hovered window from the current cursor. The
// result is discarded and recomputed on the next move, so the session never
// holds a stale window snapshot.
func (s *Session) refreshHover() {
	if !s.cfg.EnableWindowSnapping || s.tester == nil {
		s.hasHovered = false
		s.hovered = winlist.WindowInfo{}
		return
	}
	s.hovered, s.hasHovered = s.tester.WindowAt(s.cursor)
}

func (s *Session) finish(o Outcome) {
	if o.Cancelled {
		s.state = Cancelled
	} else {
		s.state = Selected
	}
	if s.emit != nil {
		s.emit(o)
	}
}
