//go:build darwin
// +build darwin

package platform

import "github.com/berrythewa/fmclip/internal/config"

func init() {
	RegisterClipboardFactory(config.BackendNative, NewDarwinClipboard)
}

func nativeBackend() string { return config.BackendNative }
