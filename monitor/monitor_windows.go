//go:build windows

package monitor

import (
	"fmt"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/McoreD/XerahS-Claude/geom"
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")
	shcore = windows.NewLazySystemDLL("shcore.dll")

	procEnumDisplayMonitors       = user32.NewProc("EnumDisplayMonitors")
	procGetMonitorInfoW           = user32.NewProc("GetMonitorInfoW")
	procSetProcessDpiAwarenessCtx = user32.NewProc("SetProcessDpiAwarenessContext")
	procGetDpiForMonitor          = shcore.NewProc("GetDpiForMonitor")
)

const monitorinfofPrimary = 1

type winRect struct {
	Left, Top, Right, Bottom int32
}

type monitorInfoExW struct {
	Size    uint32
	Monitor winRect
	Work    winRect
	Flags   uint32
	Device  [32]uint16
}

// EnablePerMonitorDPI opts the process into per-monitor DPI awareness V2 so
// window and cursor coordinates arrive in physical pixels. Call once at
// startup, before any window is created.
func EnablePerMonitorDPI() error {
	if procSetProcessDpiAwarenessCtx.Find() != nil {
		return fmt.Errorf("SetProcessDpiAwarenessContext not available")
	}
	// DPI_AWARENESS_CONTEXT_PER_MONITOR_AWARE_V2 is (HANDLE)(-4)
	ret, _, _ := procSetProcessDpiAwarenessCtx.Call(^uintptr(3))
	if ret == 0 {
		return fmt.Errorf("SetProcessDpiAwarenessContext failed")
	}
	return nil
}

func enumerate() ([]Info, error) {
	var monitors []Info

	cb := syscall.NewCallback(func(hMonitor, hdc, lprc, lparam uintptr) uintptr {
		var mi monitorInfoExW
		mi.Size = uint32(unsafe.Sizeof(mi))
		ret, _, _ := procGetMonitorInfoW.Call(hMonitor, uintptr(unsafe.Pointer(&mi)))
		if ret != 0 {
			monitors = append(monitors, Info{
				Bounds: geom.Rect{
					X:      int(mi.Monitor.Left),
					Y:      int(mi.Monitor.Top),
					Width:  int(mi.Monitor.Right - mi.Monitor.Left),
					Height: int(mi.Monitor.Bottom - mi.Monitor.Top),
				},
				Scale:   scaleForMonitor(hMonitor),
				Primary: mi.Flags&monitorinfofPrimary != 0,
			})
		}
		return 1
	})

	ret, _, _ := procEnumDisplayMonitors.Call(0, 0, cb, 0)
	if ret == 0 {
		return nil, fmt.Errorf("EnumDisplayMonitors failed")
	}
	return monitors, nil
}

// scaleForMonitor queries the effective DPI and converts it to a scale
// factor. Falls back to 1.0 on systems without shcore (pre Win 8.1).
func scaleForMonitor(hMonitor uintptr) float64 {
	if procGetDpiForMonitor.Find() != nil {
		return 1.0
	}
	var dx, dy uint32
	// MDT_EFFECTIVE_DPI = 0
	ret, _, _ := procGetDpiForMonitor.Call(hMonitor, 0,
		uintptr(unsafe.Pointer(&dx)), uintptr(unsafe.Pointer(&dy)))
	if ret != 0 || dx == 0 {
		return 1.0
	}
	return float64(dx) / 96.0
}
