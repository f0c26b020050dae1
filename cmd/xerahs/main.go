// Command xerahs is the resident region-capture tool. It sits in the
// system tray, owns the single-instance endpoint, and runs an interactive
// multi-monitor region selection on the configured hotkey.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/McoreD/XerahS-Claude/clipboard"
	"github.com/McoreD/XerahS-Claude/config"
	"github.com/McoreD/XerahS-Claude/hotkey"
	"github.com/McoreD/XerahS-Claude/logutil"
	"github.com/McoreD/XerahS-Claude/monitor"
	"github.com/McoreD/XerahS-Claude/overlay"
	"github.com/McoreD/XerahS-Claude/screenshot"
	"github.com/McoreD/XerahS-Claude/selection"
	"github.com/McoreD/XerahS-Claude/singleinstance"
	"github.com/McoreD/XerahS-Claude/tray"
)

type app struct {
	cfg      *config.Config
	selector overlay.Selector
	// capturing guards against re-entrant selection while an overlay is
	// already up.
	capturing atomic.Bool
}

func main() {
	// DPI awareness must be set before any window or metric query.
	if err := monitor.EnablePerMonitorDPI(); err != nil {
		log.Printf("DPI awareness not available: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logutil.Setup(cfg.EnableFileLogging)

	if err := clipboard.Init(); err != nil {
		log.Printf("Clipboard unavailable: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Claim the single-instance endpoint. A bind failure means a resident
	// already exists.
	srv := singleinstance.NewServer()
	if err := srv.Start(ctx); err != nil {
		tray.ShowMessage("XerahS", "Another instance is already running.")
		os.Exit(1)
	}
	defer srv.Close()

	a := &app{
		cfg: cfg,
		selector: overlay.NewSelector(selection.Config{
			EnableWindowSnapping: cfg.EnableWindowSnapping,
			MinDragSize:          cfg.MinDragSize,
			DimOpacity:           cfg.DimOpacity,
		}),
	}

	go a.serveDelegated(ctx, srv)

	hotkey.Listen(cfg.Hotkey, func() {
		go a.captureAndStore(ctx)
	})
	log.Printf("xerahs resident started, hotkey %s", cfg.Hotkey)

	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-ch:
			tray.Quit()
		case <-ctx.Done():
		}
	}()

	// Blocks until Quit is chosen from the menu.
	tray.Run(tray.Handlers{
		OnCapture: func() { go a.captureAndStore(ctx) },
		OnQuit:    cancel,
	})
}

// captureAndStore runs one interactive selection and routes the result to
// the clipboard and the output directory per configuration.
func (a *app) captureAndStore(ctx context.Context) {
	res, err := a.capture(ctx)
	if err != nil {
		log.Printf("capture failed: %v", err)
		return
	}
	if res.Cancelled {
		log.Printf("capture cancelled")
		return
	}

	if a.cfg.CopyToClipboard && len(res.PNG) > 0 {
		if err := clipboard.WriteImage(res.PNG); err != nil {
			log.Printf("clipboard write failed: %v", err)
		}
	}
	if a.cfg.OutputDir != "" {
		name := fmt.Sprintf("region_%s.png", time.Now().Format("20060102_150405"))
		path := filepath.Join(a.cfg.OutputDir, name)
		if err := os.WriteFile(path, res.PNG, 0644); err != nil {
			log.Printf("save failed: %v", err)
		} else {
			log.Printf("saved %s", path)
		}
	}
}

// capture runs one interactive selection and grabs the selected pixels.
// Concurrent triggers while an overlay is up are dropped.
func (a *app) capture(ctx context.Context) (singleinstance.Result, error) {
	if !a.capturing.CompareAndSwap(false, true) {
		log.Printf("capture already in progress, ignoring trigger")
		return singleinstance.Result{Cancelled: true}, nil
	}
	defer a.capturing.Store(false)
	tray.SetTooltip("XerahS: selecting region...")
	defer tray.SetTooltip("XerahS region capture")

	region, ok, err := a.selector.Select(ctx)
	if err != nil {
		return singleinstance.Result{}, err
	}
	if !ok {
		return singleinstance.Result{Cancelled: true}, nil
	}
	log.Printf("region selected: %+v", region)

	png, err := screenshot.CaptureRegionPNG(region)
	if err != nil {
		return singleinstance.Result{}, err
	}
	return singleinstance.Result{Region: region, PNG: png}, nil
}

// serveDelegated answers capture requests from one-shot invocations.
func (a *app) serveDelegated(ctx context.Context, srv singleinstance.Server) {
	for {
		conn, err := srv.Next(ctx)
		if err != nil {
			return
		}
		go func(conn singleinstance.Conn) {
			defer conn.Close()
			res, err := a.capture(ctx)
			if err != nil {
				_ = conn.RespondError(err.Error())
				return
			}
			if err := conn.RespondResult(res); err != nil {
				log.Printf("delegated response failed: %v", err)
			}
		}(conn)
	}
}
