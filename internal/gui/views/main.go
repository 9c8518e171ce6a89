package views

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	fmtheme "github.com/berrythewa/fmclip/internal/gui/theme"
	"github.com/berrythewa/fmclip/internal/snippet"
	"github.com/berrythewa/fmclip/internal/types"
)

var icons = fmtheme.NewCustomTheme()

// Options mirror the checkbox preferences.
type Options struct {
	AutoDetectType           bool
	PrettyPrintXML           bool
	OpenFileAfterExport      bool
	UseSamePathForImport     bool
	PreferModernLayoutFormat bool
	PreferModernThemeFormat  bool
}

// Handlers connect the view to the application. Nil handlers disable their
// control.
type Handlers struct {
	Export           func()
	ExportAs         func()
	Import           func()
	ImportFrom       func()
	ChooseExportPath func()
	ChooseImportPath func()
	SelectType       func(ct snippet.ContentType)
	SetOption        func(key string, value bool)
	Restore          func(rec *types.TransferRecord)
}

// Option keys passed to Handlers.SetOption.
const (
	OptionAutoDetectType           = "autoDetectType"
	OptionPrettyPrintXML           = "prettyPrintXml"
	OptionOpenFileAfterExport      = "openFileAfterExport"
	OptionUseSamePathForImport     = "useSamePathForImport"
	OptionPreferModernLayoutFormat = "preferModernLayoutFormat"
	OptionPreferModernThemeFormat  = "preferModernThemeFormat"
)

// MainView represents the main application view
type MainView struct {
	handlers Handlers

	status      *widget.Label
	typeSelect  *widget.Select
	exportPath  *widget.Label
	importPath  *widget.Label
	importRow   *fyne.Container
	checks      map[string]*widget.Check
	historyList *widget.List
	content     fyne.CanvasObject

	history  []*types.TransferRecord
	updating bool
}

// NewMainView creates a new main view
func NewMainView(h Handlers) *MainView {
	v := &MainView{handlers: h, checks: map[string]*widget.Check{}}
	v.createUI()
	return v
}

// Content returns the root object to put in a window.
func (v *MainView) Content() fyne.CanvasObject {
	return v.content
}

func (v *MainView) createUI() {
	v.status = widget.NewLabel("Ready")
	v.status.Wrapping = fyne.TextWrapWord

	v.typeSelect = widget.NewSelect(snippet.Labels(), func(label string) {
		if v.updating || v.handlers.SelectType == nil {
			return
		}
		if ct, ok := snippet.LookupByLabel(label); ok {
			v.handlers.SelectType(ct)
		}
	})

	v.exportPath = widget.NewLabel("")
	v.exportPath.Truncation = fyne.TextTruncateEllipsis
	v.importPath = widget.NewLabel("")
	v.importPath.Truncation = fyne.TextTruncateEllipsis

	exportRow := container.NewBorder(nil, nil, widget.NewLabel("Export to"),
		v.button("", fmtheme.IconChoose, v.handlers.ChooseExportPath), v.exportPath)
	v.importRow = container.NewBorder(nil, nil, widget.NewLabel("Import from"),
		v.button("", fmtheme.IconChoose, v.handlers.ChooseImportPath), v.importPath)

	actions := container.NewGridWithColumns(2,
		v.button("Export", fmtheme.IconExport, v.handlers.Export),
		v.button("Import", fmtheme.IconImport, v.handlers.Import),
		v.button("Export As…", fmtheme.IconExport, v.handlers.ExportAs),
		v.button("Import From…", fmtheme.IconImport, v.handlers.ImportFrom),
	)

	options := container.NewVBox(
		v.check("Detect type automatically", OptionAutoDetectType),
		v.check("Pretty-print XML", OptionPrettyPrintXML),
		v.check("Open file after export", OptionOpenFileAfterExport),
		v.check("Import from the export file", OptionUseSamePathForImport),
		v.check("Use the v12+ layout format", OptionPreferModernLayoutFormat),
		v.check("Use the v2024+ theme format", OptionPreferModernThemeFormat),
	)

	v.createHistoryList()

	main := container.NewVBox(
		widget.NewForm(widget.NewFormItem("Type", v.typeSelect)),
		exportRow,
		v.importRow,
		actions,
		widget.NewSeparator(),
		options,
	)

	tabs := container.NewAppTabs(
		container.NewTabItemWithIcon("Transfer", theme.DocumentIcon(), main),
		container.NewTabItemWithIcon("History", theme.HistoryIcon(), v.historyList),
	)

	v.content = container.NewBorder(nil, v.status, nil, nil, tabs)
}

func (v *MainView) button(label string, icon fyne.ThemeIconName, tapped func()) *widget.Button {
	b := widget.NewButtonWithIcon(label, icons.Icon(icon), tapped)
	if tapped == nil {
		b.Disable()
	}
	return b
}

func (v *MainView) check(label, key string) *widget.Check {
	c := widget.NewCheck(label, nil)
	c.OnChanged = func(on bool) {
		if v.updating || v.handlers.SetOption == nil {
			return
		}
		v.handlers.SetOption(key, on)
		if key == OptionUseSamePathForImport {
			v.showImportRow(!on)
		}
	}
	v.checks[key] = c
	return c
}

func (v *MainView) createHistoryList() {
	v.historyList = widget.NewList(
		func() int { return len(v.history) },
		func() fyne.CanvasObject {
			return container.NewHBox(
				widget.NewIcon(theme.DocumentIcon()),
				widget.NewLabel("Template"),
				widget.NewLabel(""), // Timestamp
			)
		},
		func(id widget.ListItemID, item fyne.CanvasObject) {
			rec := v.history[id]
			box := item.(*fyne.Container)
			icon := box.Objects[0].(*widget.Icon)
			label := box.Objects[1].(*widget.Label)
			timestamp := box.Objects[2].(*widget.Label)

			if rec.Direction == types.DirectionImport {
				icon.SetResource(theme.ContentPasteIcon())
			} else {
				icon.SetResource(theme.DocumentSaveIcon())
			}
			label.SetText(fmt.Sprintf("%s  %s", rec.Label, rec.Path))
			timestamp.SetText(rec.Time.Local().Format("Jan 2 15:04"))
		},
	)

	v.historyList.OnSelected = func(id widget.ListItemID) {
		defer v.historyList.UnselectAll()
		if id < 0 || id >= len(v.history) || v.handlers.Restore == nil {
			return
		}
		v.handlers.Restore(v.history[id])
	}
}

// SetStatus shows the outcome of the last operation.
func (v *MainView) SetStatus(msg string, failed bool) {
	v.status.Importance = widget.MediumImportance
	if failed {
		v.status.Importance = widget.DangerImportance
	}
	v.status.SetText(msg)
}

// Status returns the current status line.
func (v *MainView) Status() string {
	return v.status.Text
}

// SelectType shows ct in the picker without reporting it back.
func (v *MainView) SelectType(ct snippet.ContentType) {
	v.updating = true
	defer func() { v.updating = false }()
	v.typeSelect.SetSelectedIndex(ct.Ordinal)
}

// SelectedType returns the type shown in the picker.
func (v *MainView) SelectedType() (snippet.ContentType, bool) {
	return snippet.LookupByOrdinal(v.typeSelect.SelectedIndex())
}

// SetPaths shows the export and import files.
func (v *MainView) SetPaths(exportPath, importPath string) {
	v.exportPath.SetText(exportPath)
	v.importPath.SetText(importPath)
}

// SetOptions shows the checkbox preferences without reporting them back.
func (v *MainView) SetOptions(o Options) {
	v.updating = true
	defer func() { v.updating = false }()

	v.checks[OptionAutoDetectType].SetChecked(o.AutoDetectType)
	v.checks[OptionPrettyPrintXML].SetChecked(o.PrettyPrintXML)
	v.checks[OptionOpenFileAfterExport].SetChecked(o.OpenFileAfterExport)
	v.checks[OptionUseSamePathForImport].SetChecked(o.UseSamePathForImport)
	v.checks[OptionPreferModernLayoutFormat].SetChecked(o.PreferModernLayoutFormat)
	v.checks[OptionPreferModernThemeFormat].SetChecked(o.PreferModernThemeFormat)
	v.showImportRow(!o.UseSamePathForImport)
}

// Option reports a checkbox state.
func (v *MainView) Option(key string) bool {
	c, ok := v.checks[key]
	return ok && c.Checked
}

func (v *MainView) showImportRow(show bool) {
	if show {
		v.importRow.Show()
	} else {
		v.importRow.Hide()
	}
}

// UpdateHistory replaces the history list.
func (v *MainView) UpdateHistory(records []*types.TransferRecord) {
	v.history = records
	v.historyList.Refresh()
}
