// Package tray runs the system tray icon and menu for the resident app.
package tray

import (
	"log"

	"github.com/getlantern/systray"
)

// Handlers are invoked from the tray menu. OnCapture runs on a tray
// goroutine each time the user picks Capture Region; OnQuit runs once
// when the user picks Quit, before the tray loop exits.
type Handlers struct {
	OnCapture func()
	OnQuit    func()
}

// Run starts the tray event loop. It blocks until Quit is chosen and
// must be called from the main goroutine on platforms that require it.
func Run(h Handlers) {
	systray.Run(func() { onReady(h) }, func() {
		if h.OnQuit != nil {
			h.OnQuit()
		}
	})
}

// Quit asks the tray loop to exit, which unblocks Run.
func Quit() {
	systray.Quit()
}

// SetTooltip updates the hover text, used to surface capture status.
func SetTooltip(text string) {
	systray.SetTooltip(text)
}

func onReady(h Handlers) {
	if icon := getIcon(); len(icon) > 0 {
		systray.SetIcon(icon)
	}
	systray.SetTitle("XerahS")
	systray.SetTooltip("XerahS region capture")

	mCapture := systray.AddMenuItem("Capture Region", "Select a screen region to capture")
	mQuit := systray.AddMenuItem("Quit", "Quit the application")

	go func() {
		for {
			select {
			case <-mCapture.ClickedCh:
				if h.OnCapture != nil {
					h.OnCapture()
				}
			case <-mQuit.ClickedCh:
				log.Printf("tray: quit requested")
				systray.Quit()
				return
			}
		}
	}()
}
