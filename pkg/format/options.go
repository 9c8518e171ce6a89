package format

import (
	"io"

	"github.com/berrythewa/fmclip/internal/types"
)

// Options controls formatting behavior
type Options struct {
	UseColors    bool
	MaxWidth     int  // Max content width (0 = no limit)
	MaxLines     int  // Max preview lines (0 = no limit)
	ShowMetadata bool // Show host, fingerprint and payload state
	Compact      bool // Use compact single-line format
}

// DefaultOptions returns sensible defaults
func DefaultOptions() Options {
	return Options{
		UseColors:    true,
		MaxWidth:     100,
		MaxLines:     10,
		ShowMetadata: true,
	}
}

// CompactOptions returns options for compact single-line display
func CompactOptions() Options {
	opts := DefaultOptions()
	opts.Compact = true
	opts.ShowMetadata = false
	opts.MaxLines = 1
	return opts
}

// For returns DefaultOptions with colors enabled only when w is a terminal.
func For(w io.Writer) Options {
	opts := DefaultOptions()
	opts.UseColors = ColorsFor(w)
	return opts
}

// DirectionArrows maps transfer directions to the arrow shown in listings.
var DirectionArrows = map[types.Direction]string{
	types.DirectionExport: "→",
	types.DirectionImport: "←",
}

// DirectionColors maps transfer directions to colors
var DirectionColors = map[types.Direction]string{
	types.DirectionExport: Cyan,
	types.DirectionImport: Magenta,
}
