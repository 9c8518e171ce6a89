//go:build windows
// +build windows

package platform

import "github.com/berrythewa/fmclip/internal/config"

func init() {
	RegisterClipboardFactory(config.BackendNative, NewWindowsClipboard)
}

func nativeBackend() string { return config.BackendNative }
