package gui

import (
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"go.uber.org/zap"
)

// dialogPrompter shows fyne file dialogs. The dialogs are asynchronous; done
// runs on the event goroutine once the user answers.
type dialogPrompter struct {
	window fyne.Window
	logger *zap.Logger
}

var xmlFilter = storage.NewExtensionFileFilter([]string{".xml"})

func (p *dialogPrompter) PromptSavePath(initial string, done func(string)) {
	d := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
		if err != nil || w == nil {
			p.dialogError(err)
			done("")
			return
		}
		path := w.URI().Path()
		w.Close()
		done(path)
	}, p.window)

	p.startIn(d, initial)
	if initial != "" {
		d.SetFileName(filepath.Base(initial))
	}
	d.SetFilter(xmlFilter)
	d.Show()
}

func (p *dialogPrompter) PromptOpenPath(initial string, done func(string)) {
	d := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
		if err != nil || r == nil {
			p.dialogError(err)
			done("")
			return
		}
		path := r.URI().Path()
		r.Close()
		done(path)
	}, p.window)

	p.startIn(d, initial)
	d.SetFilter(xmlFilter)
	d.Show()
}

// startIn opens the dialog in the directory of path when it exists.
func (p *dialogPrompter) startIn(d *dialog.FileDialog, path string) {
	if path == "" {
		return
	}
	dir := filepath.Dir(path)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return
	}
	lister, err := storage.ListerForURI(storage.NewFileURI(dir))
	if err != nil {
		p.logger.Debug("Cannot open dialog location", zap.String("dir", dir), zap.Error(err))
		return
	}
	d.SetLocation(lister)
}

func (p *dialogPrompter) dialogError(err error) {
	if err != nil {
		p.logger.Warn("File dialog failed", zap.Error(err))
		dialog.ShowError(err, p.window)
	}
}
