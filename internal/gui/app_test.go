package gui

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/berrythewa/fmclip/internal/clipboard"
	"github.com/berrythewa/fmclip/internal/config"
	"github.com/berrythewa/fmclip/internal/gui/views"
	"github.com/berrythewa/fmclip/internal/snippet"
	"github.com/berrythewa/fmclip/internal/types"
)

const fieldXML = `<fmxmlsnippet type="FMObjectList"><Field name="f"/></fmxmlsnippet>`

type memClipboard struct {
	content *types.ClipboardContent
}

func (m *memClipboard) Name() string { return "mem" }

func (m *memClipboard) ReadTyped(ctx context.Context) (*types.ClipboardContent, error) {
	if m.content == nil {
		return types.NewClipboardContent("", nil), nil
	}
	return m.content, nil
}

func (m *memClipboard) WriteTyped(ctx context.Context, c *types.ClipboardContent) error {
	m.content = c
	return nil
}

func (m *memClipboard) Close() error { return nil }

type noOpener struct{}

func (noOpener) Open(string) error { return nil }

func newTestApp(t *testing.T, clip *memClipboard) (*App, *config.Config) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Storage.DBPath = filepath.Join(dir, "fmclip.db")
	cfg.Defaults.ExportPath = filepath.Join(dir, "clipboard.xml")
	cfg.Defaults.ImportPath = cfg.Defaults.ExportPath

	a, err := newApp(test.NewApp(), cfg, zap.NewNop(), clipboard.Options{Clipboard: clip, Opener: noOpener{}})
	require.NoError(t, err)
	t.Cleanup(func() { a.Shutdown() })
	return a, cfg
}

func TestAppExport(t *testing.T) {
	clip := &memClipboard{content: types.NewClipboardContent("XMFD", []byte(fieldXML))}
	a, cfg := newTestApp(t, clip)

	a.export()
	assert.Contains(t, a.mainView.Status(), "Field")

	data, err := os.ReadFile(cfg.Defaults.ExportPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<Field")

	n, err := a.session.History().Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestAppExportEmptyClipboard(t *testing.T) {
	a, _ := newTestApp(t, &memClipboard{})

	a.export()
	assert.NotEqual(t, "Ready", a.mainView.Status())

	n, err := a.session.History().Count()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestAppImport(t *testing.T) {
	clip := &memClipboard{}
	a, cfg := newTestApp(t, clip)
	require.NoError(t, os.WriteFile(cfg.Defaults.ExportPath, []byte(fieldXML), 0o644))

	a.importDefault()
	require.NotNil(t, clip.content)
	assert.Equal(t, "XMFD", clip.content.Tag)
	assert.Contains(t, a.mainView.Status(), "Field")
}

func TestAppPreferences(t *testing.T) {
	a, _ := newTestApp(t, &memClipboard{})

	a.setOption(views.OptionPrettyPrintXML, false)
	on, err := a.session.Preferences().Bool(views.OptionPrettyPrintXML)
	require.NoError(t, err)
	assert.False(t, on)

	a.selectType(snippet.CustomFunction)
	ct, err := a.session.Preferences().ManualType()
	require.NoError(t, err)
	assert.Equal(t, snippet.CustomFunction, ct)
}

func TestAppRestoreWithoutPayload(t *testing.T) {
	a, _ := newTestApp(t, &memClipboard{})

	a.restore(&types.TransferRecord{ID: "x", Tag: "XMFD"})
	assert.Equal(t, "No XML was kept for this entry.", a.mainView.Status())
}

func TestAppPickerFollowsDetectedType(t *testing.T) {
	clip := &memClipboard{}
	a, cfg := newTestApp(t, clip)

	ct, ok := a.mainView.SelectedType()
	require.True(t, ok)
	assert.Equal(t, snippet.Table, ct, "starts on the stored selection")

	require.NoError(t, os.WriteFile(cfg.Defaults.ExportPath, []byte(fieldXML), 0o644))
	a.importDefault()

	ct, ok = a.mainView.SelectedType()
	require.True(t, ok)
	assert.Equal(t, snippet.Field, ct)

	clip.content = types.NewClipboardContent("XMSC", []byte(`<fmxmlsnippet type="FMObjectList"><Script name="s"/></fmxmlsnippet>`))
	a.export()

	ct, ok = a.mainView.SelectedType()
	require.True(t, ok)
	assert.Equal(t, snippet.Script, ct)
}
