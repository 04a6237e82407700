package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// DefaultDataDir returns the directory used for local sink state (the pebble
// frame store). NEXMARK_DATA_DIR wins, then XDG_DATA_HOME, then the
// per-OS user data location, then ./data when no home directory is known.
func DefaultDataDir() string {
	if dir := os.Getenv("NEXMARK_DATA_DIR"); dir != "" {
		return dir
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "nexmark")
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "./data"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Nexmark")
	case "windows":
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			return filepath.Join(local, "Nexmark")
		}
		return filepath.Join(home, "AppData", "Local", "Nexmark")
	}
	return filepath.Join(home, ".local", "share", "nexmark")
}
