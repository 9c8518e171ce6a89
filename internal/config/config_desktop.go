//go:build !darwin

// File: internal/config/config_desktop.go
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

const appDirName = "fmclip"

// defaultDataDir returns the data directory on Linux and Windows.
func defaultDataDir() (string, error) {
	if runtime.GOOS == "windows" {
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			return filepath.Join(local, "fmclip"), nil
		}
	}

	if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
		return filepath.Join(xdgDataHome, "fmclip"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if runtime.GOOS == "windows" {
		return filepath.Join(homeDir, "AppData", "Local", "fmclip"), nil
	}
	return filepath.Join(homeDir, ".local", "share", "fmclip"), nil
}
