// Package gui is the fmclip desktop window.
package gui

import (
	"context"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"go.uber.org/zap"

	"github.com/berrythewa/fmclip/internal/clipboard"
	"github.com/berrythewa/fmclip/internal/config"
	fmtheme "github.com/berrythewa/fmclip/internal/gui/theme"
	"github.com/berrythewa/fmclip/internal/gui/views"
	"github.com/berrythewa/fmclip/internal/snippet"
	"github.com/berrythewa/fmclip/internal/storage"
	"github.com/berrythewa/fmclip/internal/transfer"
	"github.com/berrythewa/fmclip/internal/types"
)

// AppID identifies the application to fyne.
const AppID = "com.berrythewa.fmclip"

const historyShown = 50

// App represents the main GUI application
type App struct {
	fyneApp    fyne.App
	mainWindow fyne.Window
	ctx        context.Context
	cancel     context.CancelFunc
	logger     *zap.Logger

	session  *clipboard.Session
	mainView *views.MainView
}

// NewApp creates the window and opens the session behind it.
func NewApp(cfg *config.Config, logger *zap.Logger) (*App, error) {
	return newApp(app.NewWithID(AppID), cfg, logger, clipboard.Options{})
}

func newApp(fyneApp fyne.App, cfg *config.Config, logger *zap.Logger, opts clipboard.Options) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())

	fyneApp.Settings().SetTheme(fmtheme.NewCustomTheme())
	a := &App{
		fyneApp:    fyneApp,
		mainWindow: fyneApp.NewWindow("fmclip"),
		ctx:        ctx,
		cancel:     cancel,
		logger:     logger.Named("gui"),
	}

	opts.Prompter = &dialogPrompter{window: a.mainWindow, logger: a.logger}
	opts.OnSelect = a.onSelect
	session, err := clipboard.Open(cfg, logger, opts)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to open session: %w", err)
	}
	a.session = session

	a.mainView = views.NewMainView(views.Handlers{
		Export:           a.export,
		ExportAs:         a.exportAs,
		Import:           a.importDefault,
		ImportFrom:       a.importFrom,
		ChooseExportPath: func() { a.session.Broker.ChooseExportPath(a.pathChosen) },
		ChooseImportPath: func() { a.session.Broker.ChooseImportPath(a.pathChosen) },
		SelectType:       a.selectType,
		SetOption:        a.setOption,
		Restore:          a.restore,
	})

	a.setupMainWindow()
	if settings, err := a.session.Preferences().Settings(); err == nil {
		a.mainView.SelectType(settings.ManualType)
	}
	a.refresh()
	return a, nil
}

// Run opens the window and blocks until it is closed.
func Run(cfg *config.Config, logger *zap.Logger) error {
	a, err := NewApp(cfg, logger)
	if err != nil {
		return err
	}
	a.mainWindow.ShowAndRun()
	return a.Shutdown()
}

// Shutdown releases the session.
func (a *App) Shutdown() error {
	a.cancel()
	return a.session.Close()
}

func (a *App) setupMainWindow() {
	a.mainWindow.Resize(fyne.NewSize(520, 480))
	a.mainWindow.SetContent(a.mainView.Content())
	a.mainWindow.SetMaster()
}

// refresh loads options, paths and history into the view. The type picker
// is left alone; operations move it through onSelect.
func (a *App) refresh() {
	settings, err := a.session.Preferences().Settings()
	if err != nil {
		a.fail(err)
		return
	}

	a.mainView.SetOptions(views.Options{
		AutoDetectType:           settings.AutoDetectType,
		PrettyPrintXML:           settings.PrettyPrintXML,
		OpenFileAfterExport:      settings.OpenFileAfterExport,
		UseSamePathForImport:     settings.UseSamePathForImport,
		PreferModernLayoutFormat: settings.PreferModernLayoutFormat,
		PreferModernThemeFormat:  settings.PreferModernThemeFormat,
	})
	a.mainView.SetPaths(settings.ExportPath, settings.ImportPath)

	records, err := a.session.History().List(types.HistoryFilter{Limit: historyShown})
	if err != nil {
		a.logger.Warn("Failed to load history", zap.Error(err))
		return
	}
	a.mainView.UpdateHistory(records)
}

func (a *App) onSelect(ct snippet.ContentType) {
	a.mainView.SelectType(ct)
}

func (a *App) done(res *transfer.Result, err error) {
	switch {
	case err != nil:
		a.fail(err)
	case res == nil:
		a.mainView.SetStatus("Cancelled.", false)
	default:
		a.mainView.SetStatus(res.Message, false)
	}
	a.refresh()
}

func (a *App) fail(err error) {
	a.logger.Debug("Operation failed", zap.String("kind", transfer.KindOf(err).String()), zap.Error(err))
	a.mainView.SetStatus(err.Error(), true)
}

func (a *App) export() {
	a.done(a.session.Broker.ExportDefault(a.ctx))
}

func (a *App) exportAs() {
	a.session.Broker.ExportAs(a.ctx, a.done)
}

func (a *App) importDefault() {
	a.done(a.session.Broker.ImportDefault(a.ctx))
}

func (a *App) importFrom() {
	a.session.Broker.ImportFrom(a.ctx, a.done)
}

func (a *App) pathChosen(path string, err error) {
	if err != nil {
		a.fail(err)
		return
	}
	if path != "" {
		a.mainView.SetStatus("Path set to "+path, false)
	}
	a.refresh()
}

func (a *App) selectType(ct snippet.ContentType) {
	if err := a.session.Broker.SelectManualType(ct); err != nil {
		a.fail(err)
	}
}

func (a *App) setOption(key string, value bool) {
	if err := a.session.Preferences().SetBool(key, value); err != nil {
		a.fail(err)
		return
	}
	if key == storage.KeyUseSamePathForImport {
		a.refresh()
	}
}

func (a *App) restore(rec *types.TransferRecord) {
	if !rec.HasPayload() {
		a.mainView.SetStatus("No XML was kept for this entry.", true)
		return
	}
	data, err := a.session.History().Payload(rec)
	if err != nil {
		a.fail(err)
		return
	}
	a.done(a.session.Broker.Restore(a.ctx, rec, data))
}
