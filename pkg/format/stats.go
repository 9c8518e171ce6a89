package format

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/berrythewa/fmclip/internal/types"
)

// Stats summarizes transfer history.
type Stats struct {
	Total       int
	TotalSize   int64
	Oldest      time.Time
	Newest      time.Time
	ByTag       map[string]int
	ByDirection map[types.Direction]int
}

// ComputeStats aggregates records.
func ComputeStats(records []*types.TransferRecord) Stats {
	s := Stats{ByTag: map[string]int{}, ByDirection: map[types.Direction]int{}}
	for _, r := range records {
		s.Total++
		s.TotalSize += int64(r.Size)
		s.ByTag[r.Tag]++
		s.ByDirection[r.Direction]++
		if s.Oldest.IsZero() || r.Time.Before(s.Oldest) {
			s.Oldest = r.Time
		}
		if r.Time.After(s.Newest) {
			s.Newest = r.Time
		}
	}
	return s
}

// FormatStats formats history statistics for display
func FormatStats(s Stats, opts Options) string {
	parts := []string{ColorizeIf("Transfer Statistics", BrightBlue, opts.UseColors), ""}

	parts = append(parts, formatStatLine("Total entries", fmt.Sprintf("%d", s.Total), opts))
	parts = append(parts, formatStatLine("Total size", FormatSize(s.TotalSize), opts))
	if s.Total == 0 {
		return strings.Join(parts, "\n")
	}
	parts = append(parts, formatStatLine("Oldest entry", FormatRelativeTime(s.Oldest), opts))
	parts = append(parts, formatStatLine("Newest entry", FormatRelativeTime(s.Newest), opts))

	parts = append(parts, "", formatSubHeader("By direction", opts))
	for _, d := range []types.Direction{types.DirectionExport, types.DirectionImport} {
		line := fmt.Sprintf("  %s %s: %d", DirectionArrows[d], d, s.ByDirection[d])
		parts = append(parts, ColorizeIf(line, DirectionColors[d], opts.UseColors))
	}

	tags := make([]string, 0, len(s.ByTag))
	for tag := range s.ByTag {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	parts = append(parts, "", formatSubHeader("By type", opts))
	for _, tag := range tags {
		parts = append(parts, fmt.Sprintf("  %s: %d", tag, s.ByTag[tag]))
	}

	return strings.Join(parts, "\n")
}

// formatStatLine formats a statistics line with label and value
func formatStatLine(label, value string, opts Options) string {
	if opts.UseColors {
		return fmt.Sprintf("  %s%s:%s %s", BrightCyan, label, Reset, value)
	}
	return fmt.Sprintf("  %s: %s", label, value)
}

// formatSubHeader formats a section subheader
func formatSubHeader(title string, opts Options) string {
	return ColorizeIf(title, BrightBlue, opts.UseColors)
}
