//go:build !windows

package monitor

import "fmt"

// EnablePerMonitorDPI is a stub for non-Windows platforms.
func EnablePerMonitorDPI() error {
	return fmt.Errorf("per-monitor DPI awareness not implemented for this platform")
}

func enumerate() ([]Info, error) {
	return nil, fmt.Errorf("monitor enumeration not implemented for this platform")
}
