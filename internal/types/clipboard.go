package types

import (
	"bytes"
	"time"
)

// ClipboardContent is a typed clipboard payload. Tag is the host tool's
// four-character type code; an empty Tag means the clipboard held nothing the
// host tool put there.
type ClipboardContent struct {
	Tag     string    `json:"tag"`
	Data    []byte    `json:"data"`
	Created time.Time `json:"created"`
}

// NewClipboardContent stamps a payload with the current time.
func NewClipboardContent(tag string, data []byte) *ClipboardContent {
	return &ClipboardContent{
		Tag:     tag,
		Data:    data,
		Created: time.Now(),
	}
}

// Empty reports whether there is nothing exportable.
func (c *ClipboardContent) Empty() bool {
	return c == nil || c.Tag == "" || len(c.Data) == 0
}

// Text returns the payload as a string.
func (c *ClipboardContent) Text() string {
	if c == nil {
		return ""
	}
	return string(c.Data)
}

// Equal compares two ClipboardContent instances for equality
func (c1 *ClipboardContent) Equal(c2 *ClipboardContent) bool {
	if c1 == nil || c2 == nil {
		return c1 == c2
	}
	return c1.Tag == c2.Tag && bytes.Equal(c1.Data, c2.Data)
}
