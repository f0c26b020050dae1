package config

import (
	"os"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"ENABLE_WINDOW_SNAPPING", "MIN_DRAG_SIZE", "DIM_OPACITY", "HOTKEY", "ENABLE_FILE_LOGGING", "COPY_TO_CLIPBOARD"} {
		os.Unsetenv(key)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}

	if !cfg.EnableWindowSnapping {
		t.Error("window snapping should default to enabled")
	}
	if cfg.MinDragSize != 3 {
		t.Errorf("MinDragSize default = %d, want 3", cfg.MinDragSize)
	}
	if cfg.DimOpacity != 0.4 {
		t.Errorf("DimOpacity default = %v, want 0.4", cfg.DimOpacity)
	}
	if cfg.Hotkey != "Ctrl+Alt+S" {
		t.Errorf("Hotkey default = %q, want Ctrl+Alt+S", cfg.Hotkey)
	}
	if !cfg.CopyToClipboard {
		t.Error("clipboard copy should default to enabled")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	os.Setenv("ENABLE_WINDOW_SNAPPING", "false")
	os.Setenv("MIN_DRAG_SIZE", "10")
	os.Setenv("DIM_OPACITY", "0.25")
	os.Setenv("HOTKEY", "Ctrl+Shift+X")
	os.Setenv("ENABLE_FILE_LOGGING", "true")
	defer func() {
		os.Unsetenv("ENABLE_WINDOW_SNAPPING")
		os.Unsetenv("MIN_DRAG_SIZE")
		os.Unsetenv("DIM_OPACITY")
		os.Unsetenv("HOTKEY")
		os.Unsetenv("ENABLE_FILE_LOGGING")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.EnableWindowSnapping {
		t.Error("expected window snapping disabled")
	}
	if cfg.MinDragSize != 10 {
		t.Errorf("MinDragSize = %d, want 10", cfg.MinDragSize)
	}
	if cfg.DimOpacity != 0.25 {
		t.Errorf("DimOpacity = %v, want 0.25", cfg.DimOpacity)
	}
	if cfg.Hotkey != "Ctrl+Shift+X" {
		t.Errorf("Hotkey = %q, want Ctrl+Shift+X", cfg.Hotkey)
	}
	if !cfg.EnableFileLogging {
		t.Error("expected file logging enabled")
	}
}

func TestLoadClampsValues(t *testing.T) {
	os.Setenv("DIM_OPACITY", "1.7")
	os.Setenv("MIN_DRAG_SIZE", "-2")
	defer func() {
		os.Unsetenv("DIM_OPACITY")
		os.Unsetenv("MIN_DRAG_SIZE")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.DimOpacity != 1.0 {
		t.Errorf("DimOpacity should clamp to 1.0, got %v", cfg.DimOpacity)
	}
	if cfg.MinDragSize != 0 {
		t.Errorf("MinDragSize should clamp to 0, got %d", cfg.MinDragSize)
	}
}
