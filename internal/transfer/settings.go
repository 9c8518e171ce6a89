package transfer

import (
	"github.com/berrythewa/fmclip/internal/snippet"
)

// Settings is a snapshot of the preferences an operation reads.
type Settings struct {
	ExportPath               string
	ImportPath               string
	UseSamePathForImport     bool
	OpenFileAfterExport      bool
	PrettyPrintXML           bool
	AutoDetectType           bool
	PreferModernLayoutFormat bool
	PreferModernThemeFormat  bool
	ManualType               snippet.ContentType
	LastCustomSavePath       string
}

// DetectOptions derives classifier options.
func (s Settings) DetectOptions() snippet.Options {
	return snippet.Options{
		AutoDetect:               s.AutoDetectType,
		PreferModernLayoutFormat: s.PreferModernLayoutFormat,
		PreferModernThemeFormat:  s.PreferModernThemeFormat,
		Selected:                 s.ManualType,
	}
}

// EffectiveImportPath is the file the default import reads.
func (s Settings) EffectiveImportPath() string {
	if s.UseSamePathForImport {
		return s.ExportPath
	}
	return s.ImportPath
}

// SaveAsStart is where the save-as prompt opens.
func (s Settings) SaveAsStart() string {
	if s.LastCustomSavePath != "" {
		return s.LastCustomSavePath
	}
	return s.ExportPath
}
