// Package xdg resolves XDG Base Directory paths for moa-admin.
//
// Config holds non-secret settings (config.json). State holds the encrypted
// file keyring used when no OS credential store is reachable.
package xdg

import (
	"os"
	"path/filepath"
)

// AppName is the directory name used under every XDG base.
const AppName = "moa-admin"

// ConfigDir returns $XDG_CONFIG_HOME/moa-admin, falling back to ~/.config/moa-admin.
// The directory is created with 0700 if missing.
func ConfigDir() (string, error) {
	return resolve("XDG_CONFIG_HOME", ".config")
}

// StateDir returns $XDG_STATE_HOME/moa-admin, falling back to ~/.local/state/moa-admin.
// The directory is created with 0700 if missing.
func StateDir() (string, error) {
	return resolve("XDG_STATE_HOME", ".local", "state")
}

func resolve(envVar string, homeFallback ...string) (string, error) {
	base := os.Getenv(envVar)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(append([]string{home}, homeFallback...)...)
	}
	dir := filepath.Join(base, AppName)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}
