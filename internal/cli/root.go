// Package cli is the entry point of the fmclip command.
package cli

import (
	cmdpkg "github.com/berrythewa/fmclip/internal/cli/cmd"
)

// Version information - set by main
var (
	Version   = "dev"
	BuildTime = "unknown"
	Commit    = "none"
)

// SetVersionInfo records build information shown by "fmclip version".
func SetVersionInfo(version, buildTime, commit string) {
	Version, BuildTime, Commit = version, buildTime, commit
	cmdpkg.SetVersionInfo(version, buildTime, commit)
}

// Execute runs the command line.
func Execute() {
	cmdpkg.Execute()
}
