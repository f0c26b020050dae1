// Package config loads tool settings from a .env file and the environment.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all user-tunable settings.
type Config struct {
	// EnableWindowSnapping turns hover-window detection on in the selector.
	EnableWindowSnapping bool
	// MinDragSize is the drag-size threshold in physical pixels; drags with
	// width or height at or below it are discarded as accidental.
	MinDragSize int
	// DimOpacity is the overlay dim level in [0,1].
	DimOpacity float64
	// Hotkey triggers a capture in the resident app.
	Hotkey string
	// EnableFileLogging writes the debug log to a rotating file.
	EnableFileLogging bool
	// OutputDir is where captured PNGs are saved. Empty means the current
	// directory.
	OutputDir string
	// CopyToClipboard places the captured PNG on the clipboard.
	CopyToClipboard bool
}

// Load reads a .env file from the current directory or the executable's
// directory (first found wins), then resolves settings from the environment
// with defaults.
func Load() (*Config, error) {
	envPaths := []string{".env"}
	if execPath, err := os.Executable(); err == nil {
		envPaths = append(envPaths, filepath.Join(filepath.Dir(execPath), ".env"))
	}
	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err == nil {
			godotenv.Load(envPath)
			break
		}
	}

	cfg := &Config{
		EnableWindowSnapping: getEnvBool("ENABLE_WINDOW_SNAPPING", true),
		MinDragSize:          getEnvInt("MIN_DRAG_SIZE", 3),
		DimOpacity:           getEnvFloat("DIM_OPACITY", 0.4),
		Hotkey:               getEnvWithDefault("HOTKEY", "Ctrl+Alt+S"),
		EnableFileLogging:    getEnvBool("ENABLE_FILE_LOGGING", false),
		OutputDir:            os.Getenv("OUTPUT_DIR"),
		CopyToClipboard:      getEnvBool("COPY_TO_CLIPBOARD", true),
	}

	if cfg.MinDragSize < 0 {
		cfg.MinDragSize = 0
	}
	if cfg.DimOpacity < 0 {
		cfg.DimOpacity = 0
	}
	if cfg.DimOpacity > 1 {
		cfg.DimOpacity = 1
	}

	return cfg, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := strings.ToLower(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
