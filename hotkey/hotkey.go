// Package hotkey registers a global key combination that triggers a
// capture in the resident app.
package hotkey

import (
	"log"
	"strings"
	"sync"

	gohook "github.com/robotn/gohook"
)

// Listen watches for the configured combination (e.g. "Ctrl+Alt+S") and
// invokes callback each time every key of the combination is held down.
// The callback runs on the hook goroutine; it should hand off to its own
// scheduling context quickly.
func Listen(hotkeyConfig string, callback func()) {
	keys := parseHotkey(hotkeyConfig)

	type keyState struct {
		name     string
		rawcodes []uint16
		pressed  bool
	}

	var keyStates []keyState
	for _, keyName := range keys {
		rawcodes := keyNameToRawcodes(keyName)
		if len(rawcodes) == 0 {
			log.Printf("hotkey: cannot map key %q, combination %q may not work", keyName, hotkeyConfig)
			continue
		}
		keyStates = append(keyStates, keyState{name: keyName, rawcodes: rawcodes})
	}
	if len(keyStates) == 0 {
		log.Printf("hotkey: no valid keys in configuration %q", hotkeyConfig)
		return
	}
	log.Printf("hotkey: listener configured for %s", hotkeyConfig)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("hotkey: panic in hook goroutine: %v", r)
			}
		}()

		var mu sync.Mutex
		evChan := gohook.Start()
		if evChan == nil {
			log.Printf("hotkey: gohook.Start() returned nil channel")
			return
		}

		matches := func(ev gohook.Event, ks *keyState) bool {
			for _, rc := range ks.rawcodes {
				if ev.Rawcode == rc {
					return true
				}
			}
			return false
		}

		for ev := range evChan {
			switch ev.Kind {
			case gohook.KeyDown, gohook.KeyHold:
				mu.Lock()
				for i := range keyStates {
					if matches(ev, &keyStates[i]) {
						keyStates[i].pressed = true
					}
				}
				allPressed := true
				for i := range keyStates {
					if !keyStates[i].pressed {
						allPressed = false
						break
					}
				}
				if allPressed {
					for i := range keyStates {
						keyStates[i].pressed = false
					}
					mu.Unlock()
					log.Printf("hotkey: %s detected", hotkeyConfig)
					if callback != nil {
						callback()
					}
				} else {
					mu.Unlock()
				}
			case gohook.KeyUp:
				mu.Lock()
				for i := range keyStates {
					if matches(ev, &keyStates[i]) {
						keyStates[i].pressed = false
					}
				}
				mu.Unlock()
			}
		}
		log.Printf("hotkey: event channel closed")
	}()
}

// parseHotkey splits a combination like "Ctrl+Alt+s" into normalized key
// names.
func parseHotkey(hotkeyConfig string) []string {
	parts := strings.Split(strings.ToLower(hotkeyConfig), "+")
	var keys []string
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		switch part {
		case "win", "cmd", "super":
			keys = append(keys, "cmd")
		default:
			keys = append(keys, part)
		}
	}
	return keys
}

// keyNameToRawcodes maps a key name to its virtual-key rawcodes, both
// left/right variants for modifiers.
func keyNameToRawcodes(keyName string) []uint16 {
	keyName = strings.ToLower(strings.TrimSpace(keyName))

	switch keyName {
	case "ctrl":
		return []uint16{162, 163} // VK_LCONTROL, VK_RCONTROL
	case "alt":
		return []uint16{164, 165} // VK_LMENU, VK_RMENU
	case "shift":
		return []uint16{160, 161} // VK_LSHIFT, VK_RSHIFT
	case "cmd":
		return []uint16{91, 92} // VK_LWIN, VK_RWIN
	case "space":
		return []uint16{32}
	case "printscreen", "prtsc":
		return []uint16{44}
	}

	if len(keyName) == 1 {
		c := keyName[0]
		switch {
		case c >= 'a' && c <= 'z':
			return []uint16{uint16(c - 'a' + 65)} // VK_A..VK_Z
		case c >= '0' && c <= '9':
			return []uint16{uint16(c - '0' + 48)} // VK_0..VK_9
		}
	}

	// Function keys F1-F24 map to VK 0x70..0x87.
	if strings.HasPrefix(keyName, "f") {
		n := 0
		for _, r := range keyName[1:] {
			if r < '0' || r > '9' {
				return nil
			}
			n = n*10 + int(r-'0')
		}
		if n >= 1 && n <= 24 {
			return []uint16{uint16(111 + n)}
		}
	}

	return nil
}
