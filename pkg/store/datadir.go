package store

import (
	"os"
	"path/filepath"
	"runtime"
)

// DefaultDataDir returns the data directory for prism. PRISM_DIR wins
// outright; otherwise the OS-appropriate default applies:
//
//   - macOS:   ~/Library/Application Support/prism
//   - Linux:   $XDG_DATA_HOME/prism (fallback ~/.local/share/prism)
//   - Windows: %LOCALAPPDATA%\prism (fallback %APPDATA%\prism)
func DefaultDataDir() string {
	if dir := os.Getenv("PRISM_DIR"); dir != "" {
		return dir
	}
	return defaultDataDirForOS(runtime.GOOS)
}

func defaultDataDirForOS(goos string) string {
	home, _ := os.UserHomeDir()

	switch goos {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "prism")
	case "windows":
		if dir := os.Getenv("LOCALAPPDATA"); dir != "" {
			return filepath.Join(dir, "prism")
		}
		if dir := os.Getenv("APPDATA"); dir != "" {
			return filepath.Join(dir, "prism")
		}
		return filepath.Join(home, "prism")
	default: // linux, freebsd, etc.
		if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
			return filepath.Join(dir, "prism")
		}
		return filepath.Join(home, ".local", "share", "prism")
	}
}
