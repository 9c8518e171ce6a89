// File: internal/config/platform.go

package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// PlatformDefaults holds platform-specific default values
type PlatformDefaults struct {
	// DocumentsDir holds the default export file.
	DocumentsDir string
	// ClipboardBackend is what "auto" resolves to.
	ClipboardBackend string
}

// GetPlatformDefaults returns platform-optimized default values
func GetPlatformDefaults() PlatformDefaults {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	docs := filepath.Join(home, "Documents")

	switch runtime.GOOS {
	case "windows", "darwin":
		return PlatformDefaults{
			DocumentsDir:     docs,
			ClipboardBackend: BackendNative,
		}
	default:
		if xdg := os.Getenv("XDG_DOCUMENTS_DIR"); xdg != "" {
			docs = xdg
		}
		backend := BackendX11
		if os.Getenv("WAYLAND_DISPLAY") != "" {
			backend = BackendWayland
		}
		return PlatformDefaults{
			DocumentsDir:     docs,
			ClipboardBackend: backend,
		}
	}
}

// ApplyPlatformDefaults fills values the config file left empty.
func ApplyPlatformDefaults(cfg *Config) {
	defaults := GetPlatformDefaults()
	defaultFile := filepath.Join(defaults.DocumentsDir, DefaultFileName)

	if cfg.Clipboard.Backend == "" {
		cfg.Clipboard.Backend = BackendAuto
	}
	if cfg.Defaults.ExportPath == "" {
		cfg.Defaults.ExportPath = defaultFile
	}
	if cfg.Defaults.ImportPath == "" {
		cfg.Defaults.ImportPath = defaultFile
	}
	cfg.Defaults.ExportPath = ExpandHome(cfg.Defaults.ExportPath)
	cfg.Defaults.ImportPath = ExpandHome(cfg.Defaults.ImportPath)
}

// ResolveBackend turns "auto" into the backend for this machine.
func ResolveBackend(backend string) string {
	if backend == "" || backend == BackendAuto {
		return GetPlatformDefaults().ClipboardBackend
	}
	return backend
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !hasHomePrefix(path) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

func hasHomePrefix(path string) bool {
	return len(path) > 1 && path[0] == '~' && (path[1] == '/' || path[1] == filepath.Separator)
}
