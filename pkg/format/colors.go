package format

import (
	"io"
	"os"

	"golang.org/x/term"
)

// ANSI color codes
const (
	Reset = "\033[0m"
	Bold  = "\033[1m"
	Dim   = "\033[2m"

	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	Gray    = "\033[37m"

	BrightBlue = "\033[94m"
	BrightCyan = "\033[96m"
)

// ColorizeIf applies color only if useColors is true
func ColorizeIf(text, color string, useColors bool) string {
	if !useColors || text == "" {
		return text
	}
	return color + text + Reset
}

// BoldIf applies bold only if useColors is true
func BoldIf(text string, useColors bool) string {
	return ColorizeIf(text, Bold, useColors)
}

// DimIf applies dim only if useColors is true
func DimIf(text string, useColors bool) string {
	return ColorizeIf(text, Dim, useColors)
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// ColorsFor reports whether output to w should be colored. NO_COLOR and
// TERM=dumb turn colors off.
func ColorsFor(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return IsTerminal(w)
}
