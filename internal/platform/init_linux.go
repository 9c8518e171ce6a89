//go:build linux
// +build linux

package platform

import (
	"os"

	"github.com/berrythewa/fmclip/internal/config"
)

func init() {
	RegisterClipboardFactory(config.BackendX11, NewX11Clipboard)
	RegisterClipboardFactory(config.BackendWayland, NewWaylandClipboard)
}

// nativeBackend picks the display server's backend.
func nativeBackend() string {
	if os.Getenv("WAYLAND_DISPLAY") != "" {
		return config.BackendWayland
	}
	return config.BackendX11
}
