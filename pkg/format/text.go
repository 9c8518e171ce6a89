package format

import (
	"strings"
)

// FormatXML prepares a definition payload for display.
func FormatXML(data []byte, opts Options) string {
	if len(data) == 0 {
		return ""
	}

	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	if opts.MaxLines > 0 {
		text = TruncateLines(text, opts.MaxLines)
	}
	if opts.MaxWidth > 0 {
		lines := strings.Split(text, "\n")
		for i, line := range lines {
			lines[i] = TruncateText(line, opts.MaxWidth)
		}
		text = strings.Join(lines, "\n")
	}
	return text
}

// FormatXMLPreview collapses a payload onto one line.
func FormatXMLPreview(data []byte, maxLen int) string {
	preview := strings.Join(strings.Fields(string(data)), " ")
	return TruncateText(preview, maxLen)
}
