//go:build !windows

package overlay

import (
	"context"
	"fmt"

	"github.com/McoreD/XerahS-Claude/geom"
	"github.com/McoreD/XerahS-Claude/selection"
)

type stubSelector struct{}

func newPlatformSelector(cfg selection.Config) Selector {
	return stubSelector{}
}

func (stubSelector) Select(ctx context.Context) (geom.Rect, bool, error) {
	return geom.Rect{}, false, fmt.Errorf("interactive region selection not implemented for this platform")
}
