// Package snippet knows the clipboard definition kinds of the host database tool
// and how to tell them apart from the XML they carry.
package snippet

import (
	"strconv"
	"strings"
)

// ContentType is one kind of definition the host tool puts on the clipboard.
type ContentType struct {
	// Tag is the host tool's clipboard type code. It is opaque: the platform
	// layer maps it to a native clipboard identifier.
	Tag string `json:"tag" yaml:"tag"`
	// Key is a short stable name used on the command line.
	Key string `json:"key" yaml:"key"`
	// Label is the display name.
	Label string `json:"label" yaml:"label"`
	// Ordinal is the position in the registry display order.
	Ordinal int `json:"ordinal" yaml:"ordinal"`
}

// IsZero reports whether t is the zero ContentType.
func (t ContentType) IsZero() bool {
	return t.Tag == ""
}

func (t ContentType) String() string {
	return t.Label
}

// Registry order is persisted by older preference files and shown in pickers.
// Append new kinds at the end.
var registry = []ContentType{
	{Tag: "XMTB", Key: "table", Label: "Table", Ordinal: 0},
	{Tag: "XMFD", Key: "field", Label: "Field", Ordinal: 1},
	{Tag: "XMSC", Key: "script", Label: "Script", Ordinal: 2},
	{Tag: "XMSS", Key: "script-step", Label: "Script Step", Ordinal: 3},
	{Tag: "XMLO", Key: "layout", Label: "Layout", Ordinal: 4},
	{Tag: "XML2", Key: "layout-v12", Label: "Layout (v12+)", Ordinal: 5},
	{Tag: "XMFN", Key: "custom-function", Label: "Custom Function", Ordinal: 6},
	{Tag: "XMVL", Key: "value-list", Label: "Value List", Ordinal: 7},
	{Tag: "XMTH", Key: "theme", Label: "Theme", Ordinal: 8},
	{Tag: "XMT2", Key: "theme-v2024", Label: "Theme (v2024+)", Ordinal: 9},
}

// Well-known entries, indexed by ordinal.
var (
	Table          = registry[0]
	Field          = registry[1]
	Script         = registry[2]
	ScriptStep     = registry[3]
	Layout         = registry[4]
	LayoutV12      = registry[5]
	CustomFunction = registry[6]
	ValueList      = registry[7]
	Theme          = registry[8]
	ThemeV2024     = registry[9]
)

// Default is the type selected when nothing else is known.
var Default = Table

// Len returns the number of registered types.
func Len() int {
	return len(registry)
}

// All returns the registered types in display order.
func All() []ContentType {
	out := make([]ContentType, len(registry))
	copy(out, registry)
	return out
}

// Labels returns the display labels in registry order.
func Labels() []string {
	labels := make([]string, len(registry))
	for i, t := range registry {
		labels[i] = t.Label
	}
	return labels
}

// LookupByTag finds the type with the given clipboard tag.
func LookupByTag(tag string) (ContentType, bool) {
	for _, t := range registry {
		if t.Tag == tag {
			return t, true
		}
	}
	return ContentType{}, false
}

// LookupByOrdinal returns the type at position i.
func LookupByOrdinal(i int) (ContentType, bool) {
	if i < 0 || i >= len(registry) {
		return ContentType{}, false
	}
	return registry[i], true
}

// LookupByKey finds the type with the given short name.
func LookupByKey(key string) (ContentType, bool) {
	for _, t := range registry {
		if t.Key == key {
			return t, true
		}
	}
	return ContentType{}, false
}

// LookupByLabel finds the type with the given display label.
func LookupByLabel(label string) (ContentType, bool) {
	for _, t := range registry {
		if t.Label == label {
			return t, true
		}
	}
	return ContentType{}, false
}

// Resolve accepts a key, a tag or a decimal ordinal, in that order.
func Resolve(s string) (ContentType, bool) {
	s = strings.TrimSpace(s)
	if t, ok := LookupByKey(strings.ToLower(s)); ok {
		return t, true
	}
	if t, ok := LookupByTag(strings.ToUpper(s)); ok {
		return t, true
	}
	if i, err := strconv.Atoi(s); err == nil {
		return LookupByOrdinal(i)
	}
	return ContentType{}, false
}

// Keys returns the short names in registry order.
func Keys() []string {
	keys := make([]string, len(registry))
	for i, t := range registry {
		keys[i] = t.Key
	}
	return keys
}
