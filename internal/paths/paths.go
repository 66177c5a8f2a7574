// Package paths provides path resolution utilities.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// AppName names the per-user config and state directories.
const AppName = "zecora"

// ExpandHome replaces a leading "~" or "~/" with the user's home directory.
// Paths naming another user's home ("~bob/x") are returned unchanged.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// ConfigDir returns the user config directory, ~/.config/zecora unless
// XDG_CONFIG_HOME is set. Returns "" when no home directory is known.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", AppName)
}

// StateDir returns the user state directory, ~/.local/state/zecora unless
// XDG_STATE_HOME is set. Returns "" when no home directory is known.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", AppName)
}

// PlacesPath returns the default saved-places database path.
func PlacesPath() string {
	dir := StateDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "places.db")
}
