//go:build windows

package overlay

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"sync"
	"syscall"
	"time"
	"unsafe"

	"github.com/lxn/win"

	"github.com/McoreD/XerahS-Claude/capture"
	"github.com/McoreD/XerahS-Claude/coords"
	"github.com/McoreD/XerahS-Claude/geom"
	"github.com/McoreD/XerahS-Claude/hittest"
	"github.com/McoreD/XerahS-Claude/monitor"
	"github.com/McoreD/XerahS-Claude/selection"
	"github.com/McoreD/XerahS-Claude/winlist"
)

// surfaces maps live overlay windows to their state. Mutated only on the UI
// thread; the wndproc runs there too.
var (
	surfacesMu sync.Mutex
	surfaces   = map[win.HWND]*winSurface{}
	wndProcPtr uintptr
	wndProcOne sync.Once
)

type windowsSelector struct {
	cfg        selection.Config
	translator *coords.Translator
	tester     *hittest.Tester
}

func newPlatformSelector(cfg selection.Config) Selector {
	return &windowsSelector{
		cfg:        cfg,
		translator: coords.NewTranslator(monitor.NewSystemDirectory()),
		tester:     hittest.NewTester(winlist.NewSystemDirectory()),
	}
}

// Select runs one capture operation. All window creation, input dispatch
// and destruction happen on a dedicated locked OS thread; the orchestrator
// suspends this goroutine until the first surface produces a terminal
// event.
func (s *windowsSelector) Select(ctx context.Context) (geom.Rect, bool, error) {
	ui := startUILoop()
	defer ui.stop()

	// Unique class name per operation so a crashed previous run cannot
	// leave a conflicting registration behind.
	classNameStr := fmt.Sprintf("XerahSOverlay_%d", time.Now().UnixNano())
	className, _ := syscall.UTF16PtrFromString(classNameStr)

	var atom win.ATOM
	ui.do(func() {
		wndProcOne.Do(func() { wndProcPtr = syscall.NewCallback(overlayWndProc) })
		wndClass := win.WNDCLASSEX{
			CbSize:        uint32(unsafe.Sizeof(win.WNDCLASSEX{})),
			Style:         win.CS_HREDRAW | win.CS_VREDRAW,
			LpfnWndProc:   wndProcPtr,
			HInstance:     win.GetModuleHandle(nil),
			HCursor:       win.LoadCursor(0, win.MAKEINTRESOURCE(win.IDC_CROSS)),
			HbrBackground: win.HBRUSH(win.GetStockObject(win.BLACK_BRUSH)),
			LpszClassName: className,
		}
		atom = win.RegisterClassEx(&wndClass)
	})
	if atom == 0 {
		return geom.Rect{}, false, fmt.Errorf("failed to register overlay window class")
	}
	defer ui.do(func() { win.UnregisterClass(className) })

	factory := func(m monitor.Info, sess *selection.Session) (capture.Surface, error) {
		return &winSurface{ui: ui, className: className, mon: m, sess: sess, cfg: s.cfg}, nil
	}

	orch := capture.NewOrchestrator(s.translator, s.tester, s.cfg, factory)
	return orch.Capture(ctx)
}

// winSurface is one fullscreen overlay window covering a single monitor.
type winSurface struct {
	ui        *uiLoop
	className *uint16
	mon       monitor.Info
	sess      *selection.Session
	cfg       selection.Config
	hwnd      win.HWND
}

func (s *winSurface) Show() error {
	var err error
	s.ui.do(func() {
		b := s.mon.Bounds
		s.hwnd = win.CreateWindowEx(
			win.WS_EX_TOPMOST|win.WS_EX_LAYERED|win.WS_EX_TOOLWINDOW,
			s.className,
			nil,
			win.WS_POPUP,
			int32(b.X), int32(b.Y), int32(b.Width), int32(b.Height),
			0, 0, win.GetModuleHandle(nil), nil,
		)
		if s.hwnd == 0 {
			err = fmt.Errorf("failed to create overlay window for monitor at (%d,%d)", b.X, b.Y)
			return
		}

		// Uniform dim over the whole monitor; the selection chrome is drawn
		// in WM_PAINT on top of it.
		alpha := byte(s.cfg.DimOpacity * 255)
		setLayeredWindowAttributes(s.hwnd, 0, alpha, lwaAlpha)

		surfacesMu.Lock()
		surfaces[s.hwnd] = s
		surfacesMu.Unlock()

		win.ShowWindow(s.hwnd, win.SW_SHOW)
		win.SetForegroundWindow(s.hwnd)
		win.SetFocus(s.hwnd)
		win.UpdateWindow(s.hwnd)
	})
	return err
}

func (s *winSurface) Close() {
	s.ui.do(func() {
		if s.hwnd == 0 {
			return
		}
		surfacesMu.Lock()
		delete(surfaces, s.hwnd)
		surfacesMu.Unlock()
		win.DestroyWindow(s.hwnd)
		s.hwnd = 0
	})
}

// physicalPoint converts client mouse coordinates to the unified physical
// space. The process is per-monitor-DPI aware, so client coordinates are
// already physical pixels relative to the monitor origin. During a mouse
// capture the coordinates may fall outside the window; the arithmetic still
// holds.
func (s *winSurface) physicalPoint(lParam uintptr) geom.Point {
	return geom.Point{
		X: s.mon.Bounds.X + int(win.GET_X_LPARAM(lParam)),
		Y: s.mon.Bounds.Y + int(win.GET_Y_LPARAM(lParam)),
	}
}

func overlayWndProc(hwnd win.HWND, msg uint32, wParam, lParam uintptr) uintptr {
	surfacesMu.Lock()
	s := surfaces[hwnd]
	surfacesMu.Unlock()
	if s == nil {
		return win.DefWindowProc(hwnd, msg, wParam, lParam)
	}

	switch msg {
	case win.WM_MOUSEMOVE:
		// Keyboard focus follows the pointer across surfaces so Escape
		// cancels from whichever monitor the user is on.
		if win.GetFocus() != hwnd {
			win.SetFocus(hwnd)
		}
		s.sess.Handle(selection.PointerMove{Point: s.physicalPoint(lParam)})
		win.InvalidateRect(hwnd, nil, true)
		return 0

	case win.WM_LBUTTONDOWN:
		win.SetCapture(hwnd)
		s.sess.Handle(selection.ButtonDown{Button: selection.ButtonPrimary, Point: s.physicalPoint(lParam)})
		win.InvalidateRect(hwnd, nil, true)
		return 0

	case win.WM_LBUTTONUP:
		win.ReleaseCapture()
		s.sess.Handle(selection.ButtonUp{Button: selection.ButtonPrimary, Point: s.physicalPoint(lParam)})
		return 0

	case win.WM_RBUTTONDOWN:
		s.sess.Handle(selection.ButtonDown{Button: selection.ButtonSecondary, Point: s.physicalPoint(lParam)})
		return 0

	case win.WM_KEYDOWN:
		if wParam == win.VK_ESCAPE {
			s.sess.Handle(selection.KeyDown{Key: selection.KeyCancel})
		}
		return 0

	case win.WM_PAINT:
		var ps win.PAINTSTRUCT
		hdc := win.BeginPaint(hwnd, &ps)
		s.paint(hdc)
		win.EndPaint(hwnd, &ps)
		return 0

	case win.WM_NCHITTEST:
		// Force all points to client area so the window receives mouse events.
		return uintptr(win.HTCLIENT)
	}

	return win.DefWindowProc(hwnd, msg, wParam, lParam)
}

// paint draws the minimal selection chrome: the live drag rectangle, or the
// hovered window's visual bounds while hovering.
func (s *winSurface) paint(hdc win.HDC) {
	var outline geom.Rect
	switch s.sess.State() {
	case selection.Dragging:
		outline = s.sess.Rect().Normalize()
	case selection.Hovering:
		w, ok := s.sess.HoveredWindow()
		if !ok {
			return
		}
		outline = w.VisualBounds
	default:
		return
	}
	if outline.Empty() {
		return
	}

	// lxn/win has no CreatePen wrapper; call gdi32 directly.
	redPen, _, _ := procCreatePen.Call(0 /* PS_SOLID */, 2, 0x0000FF)
	oldPen := win.SelectObject(hdc, win.HGDIOBJ(redPen))
	oldBrush := win.SelectObject(hdc, win.GetStockObject(win.NULL_BRUSH))

	// Client coordinates are physical pixels offset by the monitor origin.
	left := outline.X - s.mon.Bounds.X
	top := outline.Y - s.mon.Bounds.Y
	procRectangle.Call(uintptr(hdc),
		uintptr(left), uintptr(top),
		uintptr(left+outline.Width), uintptr(top+outline.Height))

	win.SelectObject(hdc, oldBrush)
	win.SelectObject(hdc, oldPen)
	win.DeleteObject(win.HGDIOBJ(redPen))
}

var (
	gdi32         = syscall.NewLazyDLL("gdi32.dll")
	procCreatePen = gdi32.NewProc("CreatePen")
	procRectangle = gdi32.NewProc("Rectangle")

	user32                         = syscall.NewLazyDLL("user32.dll")
	procSetLayeredWindowAttributes = user32.NewProc("SetLayeredWindowAttributes")
)

// lwaAlpha is the LWA_ALPHA flag for SetLayeredWindowAttributes; lxn/win
// does not export this API, so it is bound directly like the gdi32 procs
// above.
const lwaAlpha = 0x2

func setLayeredWindowAttributes(hwnd win.HWND, key win.COLORREF, alpha byte, flags uint32) bool {
	ret, _, _ := procSetLayeredWindowAttributes.Call(
		uintptr(hwnd), uintptr(key), uintptr(alpha), uintptr(flags))
	return ret != 0
}

// uiLoop owns the locked OS thread that creates the overlay windows and
// pumps their messages. Tasks submitted with do run on that thread between
// messages.
type uiLoop struct {
	tasks chan func()
	quit  chan struct{}
	done  chan struct{}
}

func startUILoop() *uiLoop {
	l := &uiLoop{
		tasks: make(chan func()),
		quit:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	go l.run()
	return l
}

func (l *uiLoop) run() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(l.done)

	var msg win.MSG
	for {
		select {
		case f := <-l.tasks:
			f()
			continue
		case <-l.quit:
			return
		default:
		}
		if win.PeekMessage(&msg, 0, 0, 0, win.PM_REMOVE) {
			win.TranslateMessage(&msg)
			win.DispatchMessage(&msg)
			continue
		}
		// Idle: nothing queued, no pending messages.
		time.Sleep(time.Millisecond)
	}
}

// do runs f on the UI thread and waits for it to finish. Calling do from
// the UI thread itself would deadlock; nothing in this package does.
func (l *uiLoop) do(f func()) {
	doneCh := make(chan struct{})
	select {
	case l.tasks <- func() { f(); close(doneCh) }:
		<-doneCh
	case <-l.done:
		log.Printf("overlay: UI loop stopped, dropping task")
	}
}

func (l *uiLoop) stop() {
	close(l.quit)
	<-l.done
}
