package transfer

import (
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/pkg/browser"

	"github.com/berrythewa/fmclip/pkg/utils"
)

// OSFiles implements Files on the local filesystem.
type OSFiles struct{}

// ReadTextFile reads path as UTF-8 text.
func (OSFiles) ReadTextFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", errNotUTF8
	}
	return string(data), nil
}

// WriteTextFile writes data to path, replacing any existing file. Missing
// parent directories are created.
func (OSFiles) WriteTextFile(path string, data []byte, atomic bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if atomic {
		// leftovers of an interrupted earlier write
		_ = utils.RemoveAllTempFiles(filepath.Dir(path))
		return utils.WriteFileAtomic(path, data, 0644)
	}
	return os.WriteFile(path, data, 0644)
}

// BrowserOpener opens files with the desktop's default handler.
type BrowserOpener struct{}

// Open implements Opener.
func (BrowserOpener) Open(path string) error {
	return browser.OpenFile(path)
}
