// Package clipboard copies captured images and text to the system
// clipboard.
package clipboard

import (
	"golang.design/x/clipboard"
)

// Init must be called once before any Write. It fails when no clipboard is
// available in the current environment.
func Init() error {
	return clipboard.Init()
}

// WriteImage places PNG-encoded image bytes on the clipboard.
func WriteImage(pngData []byte) error {
	clipboard.Write(clipboard.FmtImage, pngData)
	return nil
}

// WriteText places plain text on the clipboard.
func WriteText(text string) error {
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}
