// Package screenshot grabs screen pixels for a captured region.
package screenshot

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/kbinani/screenshot"

	"github.com/McoreD/XerahS-Claude/geom"
)

// Capture captures the entire virtual screen across all active displays.
func Capture() (*image.RGBA, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return nil, fmt.Errorf("no active displays found")
	}
	union := screenshot.GetDisplayBounds(0)
	for i := 1; i < n; i++ {
		union = union.Union(screenshot.GetDisplayBounds(i))
	}
	return screenshot.CaptureRect(union)
}

// CaptureRegion captures a region of the virtual screen. The rectangle must
// be normalized and non-degenerate, in physical pixels.
func CaptureRegion(region geom.Rect) (*image.RGBA, error) {
	if region.Width <= 0 || region.Height <= 0 {
		return nil, fmt.Errorf("invalid region dimensions: width=%d, height=%d", region.Width, region.Height)
	}
	bounds := image.Rect(region.X, region.Y, region.X+region.Width, region.Y+region.Height)
	img, err := screenshot.CaptureRect(bounds)
	if err != nil {
		return nil, fmt.Errorf("failed to capture region: %v", err)
	}
	return img, nil
}

// CaptureRegionPNG captures a region and encodes it as PNG bytes.
func CaptureRegionPNG(region geom.Rect) ([]byte, error) {
	img, err := CaptureRegion(region)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image as PNG: %v", err)
	}
	return buf.Bytes(), nil
}
