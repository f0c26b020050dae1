//go:build !windows

package winlist

import "fmt"

func enumerate() ([]WindowInfo, error) {
	return nil, fmt.Errorf("window enumeration not implemented for this platform")
}
