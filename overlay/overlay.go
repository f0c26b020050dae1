// Package overlay provides the native per-monitor selection surfaces and a
// synchronous Selector facade over the capture orchestrator.
package overlay

import (
	"context"

	"github.com/McoreD/XerahS-Claude/geom"
	"github.com/McoreD/XerahS-Claude/selection"
)

// Selector runs one interactive region selection. The call blocks the
// calling goroutine until the user selects or cancels. ok=false with a nil
// error means the selection was cancelled (or no display is available).
type Selector interface {
	Select(ctx context.Context) (geom.Rect, bool, error)
}

// NewSelector returns the platform implementation (Windows in this
// project). On other platforms Select always fails.
func NewSelector(cfg selection.Config) Selector {
	return newPlatformSelector(cfg)
}
