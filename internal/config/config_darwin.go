//go:build darwin

package config

import (
	"os"
	"path/filepath"
)

const appDirName = "com.berrythewa.fmclip"

func defaultDataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, "Library", "Application Support", appDirName, "data"), nil
}
