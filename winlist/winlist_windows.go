//go:build windows

package winlist

import (
	"fmt"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/McoreD/XerahS-Claude/geom"
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")
	dwmapi = windows.NewLazySystemDLL("dwmapi.dll")

	procEnumWindows           = user32.NewProc("EnumWindows")
	procIsWindowVisible       = user32.NewProc("IsWindowVisible")
	procIsIconic              = user32.NewProc("IsIconic")
	procGetWindowLongW        = user32.NewProc("GetWindowLongW")
	procGetWindowTextW        = user32.NewProc("GetWindowTextW")
	procGetWindowTextLengthW  = user32.NewProc("GetWindowTextLengthW")
	procGetClassNameW         = user32.NewProc("GetClassNameW")
	procGetWindowRect         = user32.NewProc("GetWindowRect")
	procDwmGetWindowAttribute = dwmapi.NewProc("DwmGetWindowAttribute")
)

const (
	gwlStyle   = ^uintptr(15) // GWL_STYLE = -16
	gwlExStyle = ^uintptr(19) // GWL_EXSTYLE = -20

	wsVisible      = 0x10000000
	wsExToolWindow = 0x00000080

	dwmwaExtendedFrameBounds = 9
)

type winRect struct {
	Left, Top, Right, Bottom int32
}

func (r winRect) toGeom() geom.Rect {
	return geom.Rect{
		X:      int(r.Left),
		Y:      int(r.Top),
		Width:  int(r.Right - r.Left),
		Height: int(r.Bottom - r.Top),
	}
}

// enumerate walks top-level windows front to back. EnumWindows visits in
// z-order, so the visit index doubles as the ZOrder rank.
func enumerate() ([]WindowInfo, error) {
	list := make([]WindowInfo, 0, 32)

	cb := syscall.NewCallback(func(hwnd, lparam uintptr) uintptr {
		if ret, _, _ := procIsWindowVisible.Call(hwnd); ret == 0 {
			return 1
		}
		iconic, _, _ := procIsIconic.Call(hwnd)
		if iconic != 0 {
			return 1
		}

		style, _, _ := procGetWindowLongW.Call(hwnd, gwlStyle)
		if style&wsVisible == 0 {
			return 1
		}
		exStyle, _, _ := procGetWindowLongW.Call(hwnd, gwlExStyle)
		if exStyle&wsExToolWindow != 0 {
			return 1
		}

		// Titleless windows are internal/helper surfaces, not capture targets.
		title := windowTitle(hwnd)
		if title == "" {
			return 1
		}

		var rect winRect
		procGetWindowRect.Call(hwnd, uintptr(unsafe.Pointer(&rect)))
		bounds := rect.toGeom()

		list = append(list, WindowInfo{
			Handle:       hwnd,
			Title:        title,
			Class:        className(hwnd),
			Bounds:       bounds,
			VisualBounds: visualBounds(hwnd, bounds),
			ZOrder:       len(list),
		})
		return 1
	})

	ret, _, _ := procEnumWindows.Call(cb, 0)
	if ret == 0 && len(list) == 0 {
		return nil, fmt.Errorf("EnumWindows failed")
	}
	return list, nil
}

// visualBounds trims invisible resize borders and drop shadow via the DWM
// extended frame bounds. Falls back to the outer bounds when the query
// fails (older systems, non-composited windows).
func visualBounds(hwnd uintptr, outer geom.Rect) geom.Rect {
	if procDwmGetWindowAttribute.Find() != nil {
		return outer
	}
	var rect winRect
	hr, _, _ := procDwmGetWindowAttribute.Call(
		hwnd,
		dwmwaExtendedFrameBounds,
		uintptr(unsafe.Pointer(&rect)),
		unsafe.Sizeof(rect),
	)
	if hr != 0 { // non-zero HRESULT = failure
		return outer
	}
	return rect.toGeom()
}

func windowTitle(hwnd uintptr) string {
	length, _, _ := procGetWindowTextLengthW.Call(hwnd)
	if length == 0 {
		return ""
	}
	buf := make([]uint16, length+1)
	procGetWindowTextW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), length+1)
	return syscall.UTF16ToString(buf)
}

func className(hwnd uintptr) string {
	buf := make([]uint16, 256)
	procGetClassNameW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	return syscall.UTF16ToString(buf)
}
