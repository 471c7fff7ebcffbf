package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func envMap(vars map[string]string) func(string) string {
	return func(name string) string { return vars[name] }
}

func TestDataDirFor(t *testing.T) {
	home := filepath.Join("/home", "raider")

	tests := []struct {
		name string
		goos string
		env  map[string]string
		want string
	}{
		{
			name: "macOS ignores XDG",
			goos: "darwin",
			env:  map[string]string{"XDG_DATA_HOME": "/xdg"},
			want: filepath.Join(home, "Library", "Application Support", "raidlog"),
		},
		{
			name: "linux default",
			goos: "linux",
			want: filepath.Join(home, ".local", "share", "raidlog"),
		},
		{
			name: "linux XDG_DATA_HOME",
			goos: "linux",
			env:  map[string]string{"XDG_DATA_HOME": "/custom/data"},
			want: filepath.Join("/custom/data", "raidlog"),
		},
		{
			name: "windows LOCALAPPDATA wins",
			goos: "windows",
			env:  map[string]string{"LOCALAPPDATA": `C:\Local`, "APPDATA": `C:\Roaming`},
			want: filepath.Join(`C:\Local`, "raidlog"),
		},
		{
			name: "windows APPDATA fallback",
			goos: "windows",
			env:  map[string]string{"APPDATA": `C:\Roaming`},
			want: filepath.Join(`C:\Roaming`, "raidlog"),
		},
		{
			name: "windows home fallback",
			goos: "windows",
			want: filepath.Join(home, "raidlog"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dataDirFor(tt.goos, home, envMap(tt.env)))
		})
	}
}
