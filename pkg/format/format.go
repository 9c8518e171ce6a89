package format

import (
	"fmt"
	"strings"

	"github.com/berrythewa/fmclip/internal/snippet"
	"github.com/berrythewa/fmclip/internal/types"
	"github.com/berrythewa/fmclip/pkg/utils"
)

// Formatter renders history records, the type table and status lines.
type Formatter struct {
	options  Options
	previews func(*types.TransferRecord) []byte
}

// New creates a new formatter with the given options
func New(opts Options) *Formatter {
	return &Formatter{
		options: opts,
	}
}

// WithPreviews makes FormatRecord add a one-line XML preview under each
// record. payload returns nil for records without a snapshot.
func (f *Formatter) WithPreviews(payload func(*types.TransferRecord) []byte) *Formatter {
	f.previews = payload
	return f
}

// FormatRecord formats a single history record.
func (f *Formatter) FormatRecord(rec *types.TransferRecord) string {
	if rec == nil {
		return ColorizeIf("No record", Gray, f.options.UseColors)
	}

	header := f.formatHeader(rec)
	if f.options.Compact {
		return header + " " + DimIf(TruncateText(rec.Path, 50), f.options.UseColors)
	}

	parts := []string{header, DimIf("Path: "+rec.Path, f.options.UseColors)}
	parts = append(parts, DimIf(fmt.Sprintf("Time: %s (%s)", rec.Time.Local().Format("2006-01-02 15:04:05"),
		FormatRelativeTime(rec.Time)), f.options.UseColors))

	if f.options.ShowMetadata {
		parts = append(parts, f.formatMetadata(rec))
	}
	if f.previews != nil {
		if data := f.previews(rec); len(data) > 0 {
			parts = append(parts, DimIf("XML: ", f.options.UseColors)+FormatXMLPreview(data, f.previewWidth()))
		}
	}
	return strings.Join(parts, "\n")
}

// FormatRecordList formats history records, newest first as given.
func (f *Formatter) FormatRecordList(records []*types.TransferRecord) string {
	if len(records) == 0 {
		return ColorizeIf("No transfer history", Gray, f.options.UseColors)
	}

	parts := []string{f.formatListHeader(len(records)), ""}
	for i, rec := range records {
		index := DimIf(fmt.Sprintf("[%d]", i+1), f.options.UseColors)
		if f.options.Compact {
			parts = append(parts, index+" "+f.FormatRecord(rec))
			continue
		}
		parts = append(parts, index, f.FormatRecord(rec))
		if i < len(records)-1 {
			parts = append(parts, CreateSeparator(f.options))
		}
	}
	return strings.Join(parts, "\n")
}

// FormatTypes renders the type registry as a table in registry order.
func (f *Formatter) FormatTypes(all []snippet.ContentType, selected snippet.ContentType) string {
	lines := []string{BoldIf(fmt.Sprintf("  %-3s %-4s  %-16s %s", "#", "TAG", "KEY", "LABEL"), f.options.UseColors)}
	for _, ct := range all {
		marker := " "
		if ct.Tag == selected.Tag {
			marker = "*"
		}
		line := fmt.Sprintf("%s %-3d %-4s  %-16s %s", marker, ct.Ordinal, ct.Tag, ct.Key, ct.Label)
		if marker == "*" {
			line = ColorizeIf(line, Green, f.options.UseColors)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// FormatOutcome describes a classification result.
func (f *Formatter) FormatOutcome(out snippet.Outcome) string {
	if out.OK() {
		return fmt.Sprintf("%s %s (%s)", ColorizeIf("✓", Green, f.options.UseColors), out.Type.Label, out.Type.Tag)
	}
	detail := out.Kind.String()
	switch {
	case out.Err != nil:
		detail += ": " + out.Err.Error()
	case out.Kind != snippet.Detected:
		detail += fmt.Sprintf(": %q", out.Value)
	}
	return ColorizeIf("✗ "+detail, Red, f.options.UseColors)
}

// Success formats a status line for a completed operation.
func (f *Formatter) Success(msg string) string {
	return ColorizeIf("✓", Green, f.options.UseColors) + " " + msg
}

// Failure formats a status line for a failed operation.
func (f *Formatter) Failure(msg string) string {
	return ColorizeIf("✗ "+msg, Red, f.options.UseColors)
}

func (f *Formatter) formatHeader(rec *types.TransferRecord) string {
	arrow := DirectionArrows[rec.Direction]
	dir := fmt.Sprintf("%s %-6s", arrow, rec.Direction)
	if color, ok := DirectionColors[rec.Direction]; ok {
		dir = ColorizeIf(dir, color, f.options.UseColors)
	}

	id := rec.ID
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("%s %s %s %s", DimIf(id, f.options.UseColors), dir,
		BoldIf(rec.Tag, f.options.UseColors), rec.Label)
}

func (f *Formatter) formatMetadata(rec *types.TransferRecord) string {
	parts := []string{fmt.Sprintf("Size: %s", FormatSize(int64(rec.Size)))}
	if rec.Fingerprint != "" {
		parts = append(parts, "Fingerprint: "+utils.ShortFingerprint(rec.Fingerprint))
	}
	if rec.Host != "" {
		parts = append(parts, "Host: "+rec.Host)
	}
	if rec.Pretty {
		parts = append(parts, "Pretty-printed")
	}
	if rec.HasPayload() {
		parts = append(parts, "Payload kept")
	}
	return DimIf(strings.Join(parts, " • "), f.options.UseColors)
}

func (f *Formatter) formatListHeader(count int) string {
	title := fmt.Sprintf("Transfer History (%d entries)", count)
	return ColorizeIf(title, BrightBlue, f.options.UseColors)
}

func (f *Formatter) previewWidth() int {
	if f.options.MaxWidth > 10 {
		return f.options.MaxWidth - 5
	}
	return 80
}
