package transfer

import (
	"context"
	"errors"
	"os"

	"github.com/berrythewa/fmclip/internal/snippet"
	"github.com/berrythewa/fmclip/internal/types"
)

type memClipboard struct {
	content  *types.ClipboardContent
	readErr  error
	writeErr error
	writes   int
}

func (c *memClipboard) ReadTyped(ctx context.Context) (*types.ClipboardContent, error) {
	if c.readErr != nil {
		return nil, c.readErr
	}
	return c.content, nil
}

func (c *memClipboard) WriteTyped(ctx context.Context, content *types.ClipboardContent) error {
	if c.writeErr != nil {
		return c.writeErr
	}
	c.writes++
	c.content = content
	return nil
}

type memPrefs struct {
	s Settings
}

func newMemPrefs() *memPrefs {
	return &memPrefs{s: Settings{
		ExportPath:               "/docs/clipboard.xml",
		ImportPath:               "/docs/other.xml",
		UseSamePathForImport:     true,
		OpenFileAfterExport:      true,
		PrettyPrintXML:           true,
		AutoDetectType:           true,
		PreferModernLayoutFormat: true,
		PreferModernThemeFormat:  true,
		ManualType:               snippet.Table,
	}}
}

func (p *memPrefs) Settings() (Settings, error)           { return p.s, nil }
func (p *memPrefs) SetExportPath(path string) error         { p.s.ExportPath = path; return nil }
func (p *memPrefs) SetImportPath(path string) error         { p.s.ImportPath = path; return nil }
func (p *memPrefs) SetLastCustomSavePath(path string) error { p.s.LastCustomSavePath = path; return nil }
func (p *memPrefs) SetManualType(ct snippet.ContentType) error {
	p.s.ManualType = ct
	return nil
}

type memFiles struct {
	files    map[string]string
	writeErr error
}

func newMemFiles() *memFiles {
	return &memFiles{files: map[string]string{}}
}

func (f *memFiles) ReadTextFile(path string) (string, error) {
	text, ok := f.files[path]
	if !ok {
		return "", os.ErrNotExist
	}
	return text, nil
}

func (f *memFiles) WriteTextFile(path string, data []byte, atomic bool) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.files[path] = string(data)
	return nil
}

// scriptedPrompter answers every prompt with answer and remembers the
// initial path it was shown.
type scriptedPrompter struct {
	answer  string
	initial string
	calls   int
}

func (p *scriptedPrompter) PromptSavePath(initial string, done func(string)) {
	p.calls++
	p.initial = initial
	done(p.answer)
}

func (p *scriptedPrompter) PromptOpenPath(initial string, done func(string)) {
	p.calls++
	p.initial = initial
	done(p.answer)
}

type recordingOpener struct {
	opened []string
	err    error
}

func (o *recordingOpener) Open(path string) error {
	o.opened = append(o.opened, path)
	return o.err
}

type memRecorder struct {
	records []*types.TransferRecord
	data    [][]byte
	err     error
}

func (r *memRecorder) Record(rec *types.TransferRecord, data []byte) error {
	if r.err != nil {
		return r.err
	}
	r.records = append(r.records, rec)
	r.data = append(r.data, data)
	return nil
}

var errBoom = errors.New("boom")
