//go:build !linux && !darwin && !windows
// +build !linux,!darwin,!windows

package platform

import "github.com/berrythewa/fmclip/internal/config"

func nativeBackend() string { return config.BackendText }
