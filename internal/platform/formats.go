package platform

import (
	"bytes"
	"encoding/binary"
	"strings"

	"github.com/berrythewa/fmclip/internal/snippet"
)

// formatPrefix is how the host tool names its clipboard formats outside
// macOS, e.g. "Mac-XMSC".
const formatPrefix = "Mac-"

// FormatName returns the named clipboard format (Windows) or selection
// target (X11, Wayland) for tag.
func FormatName(tag string) string {
	return formatPrefix + tag
}

// TagFromFormat extracts the four-character tag from a format name.
func TagFromFormat(name string) (string, bool) {
	if !strings.HasPrefix(name, formatPrefix) {
		return "", false
	}
	tag := strings.TrimPrefix(name, formatPrefix)
	if len(tag) != 4 {
		return "", false
	}
	return tag, true
}

// pickTag chooses which offered format to read. Formats carrying a known tag
// win over unknown host-tool formats; other formats are ignored. It returns
// the index into offered and the tag, or -1.
func pickTag(offered []string, toTag func(string) (string, bool)) (int, string) {
	fallback, fallbackTag := -1, ""
	for i, name := range offered {
		tag, ok := toTag(name)
		if !ok {
			continue
		}
		if _, known := snippet.LookupByTag(tag); known {
			return i, tag
		}
		if fallback < 0 {
			fallback, fallbackTag = i, tag
		}
	}
	return fallback, fallbackTag
}

// pickFormat applies pickTag to format names.
func pickFormat(offered []string) (int, string) {
	return pickTag(offered, TagFromFormat)
}

// Data under a "Mac-XXXX" format on Windows starts with its length as a
// little-endian uint32.
const frameHeader = 4

// frame prepends the length header.
func frame(data []byte) []byte {
	out := make([]byte, frameHeader+len(data))
	binary.LittleEndian.PutUint32(out, uint32(len(data)))
	copy(out[frameHeader:], data)
	return out
}

// unframe strips the length header when present and drops the NUL padding
// the allocator may leave behind.
func unframe(data []byte) []byte {
	if len(data) >= frameHeader {
		n := binary.LittleEndian.Uint32(data)
		if int64(n) <= int64(len(data)-frameHeader) {
			data = data[frameHeader : frameHeader+int(n)]
		}
	}
	return bytes.TrimRight(data, "\x00")
}
