package theme

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// CustomTheme extends the default Fyne theme
type CustomTheme struct {
	fyne.Theme
}

// NewCustomTheme creates a new custom theme
func NewCustomTheme() *CustomTheme {
	return &CustomTheme{
		Theme: theme.DefaultTheme(),
	}
}

// Icon names used by the window.
const (
	IconExport   fyne.ThemeIconName = "fmclipExport"
	IconImport   fyne.ThemeIconName = "fmclipImport"
	IconChoose   fyne.ThemeIconName = "fmclipChoose"
	IconRestore  fyne.ThemeIconName = "fmclipRestore"
	IconSettings fyne.ThemeIconName = "fmclipSettings"
)

// Icon returns a custom icon for the given name
func (t *CustomTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	switch name {
	case IconExport:
		return theme.DocumentSaveIcon()
	case IconImport:
		return theme.ContentPasteIcon()
	case IconChoose:
		return theme.FolderOpenIcon()
	case IconRestore:
		return theme.HistoryIcon()
	case IconSettings:
		return theme.SettingsIcon()
	default:
		return t.Theme.Icon(name)
	}
}

// Color returns a custom color for the given name
func (t *CustomTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary:
		return color.NRGBA{R: 0, G: 120, B: 212, A: 255}
	case theme.ColorNameSuccess:
		return color.NRGBA{R: 46, G: 160, B: 67, A: 255}
	default:
		return t.Theme.Color(name, variant)
	}
}

// Size returns a custom size for the given name
func (t *CustomTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 6
	case theme.SizeNameScrollBar:
		return 8
	default:
		return t.Theme.Size(name)
	}
}
