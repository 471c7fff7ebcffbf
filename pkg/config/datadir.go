package config

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "raidlog"

// DefaultDataDir returns the OS-appropriate directory for saved progress.
//
//   - macOS:   ~/Library/Application Support/raidlog
//   - Linux:   $XDG_DATA_HOME/raidlog (fallback ~/.local/share/raidlog)
//   - Windows: %LOCALAPPDATA%\raidlog (fallback %APPDATA%\raidlog)
func DefaultDataDir() string {
	home, _ := os.UserHomeDir()
	return dataDirFor(runtime.GOOS, home, os.Getenv)
}

func dataDirFor(goos, home string, getenv func(string) string) string {
	var candidates []string
	var fallback string

	switch goos {
	case "darwin":
		fallback = filepath.Join(home, "Library", "Application Support")
	case "windows":
		candidates = []string{"LOCALAPPDATA", "APPDATA"}
		fallback = home
	default: // linux, freebsd, etc.
		candidates = []string{"XDG_DATA_HOME"}
		fallback = filepath.Join(home, ".local", "share")
	}

	for _, name := range candidates {
		if dir := getenv(name); dir != "" {
			return filepath.Join(dir, appName)
		}
	}
	return filepath.Join(fallback, appName)
}
