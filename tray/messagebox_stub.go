//go:build !windows

package tray

import "log"

// ShowMessage logs the message on platforms without a native message box.
func ShowMessage(title, message string) {
	log.Printf("%s: %s", title, message)
}
