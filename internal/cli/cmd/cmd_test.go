package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berrythewa/fmclip/internal/config"
	"github.com/berrythewa/fmclip/internal/platform"
	"github.com/berrythewa/fmclip/internal/types"
)

const (
	scriptXML = `<?xml version="1.0" encoding="UTF-8"?><fmxmlsnippet type="FMObjectList"><Script name="a"/></fmxmlsnippet>`
	fieldXML  = `<?xml version="1.0" encoding="UTF-8"?><fmxmlsnippet type="FMObjectList"><Field name="b"/></fmxmlsnippet>`
)

type testClipboard struct {
	content *types.ClipboardContent
}

func (c *testClipboard) Name() string { return "test" }

func (c *testClipboard) ReadTyped(ctx context.Context) (*types.ClipboardContent, error) {
	return c.content, nil
}

func (c *testClipboard) WriteTyped(ctx context.Context, content *types.ClipboardContent) error {
	c.content = content
	return nil
}

func (c *testClipboard) Close() error { return nil }

var clip = &testClipboard{}

func init() {
	platform.RegisterClipboardFactory("test", func(platform.Options) (platform.Clipboard, error) {
		return clip, nil
	})
}

// isolate points every path at a temporary directory and returns the export
// file.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(config.EnvConfigDir, filepath.Join(dir, "config"))
	t.Setenv(config.EnvDataDir, filepath.Join(dir, "data"))
	t.Setenv(config.EnvConfigFile, "")
	t.Setenv(config.EnvClipboardBackend, "test")
	t.Setenv("NO_COLOR", "1")

	exportPath := filepath.Join(dir, "out", "clipboard.xml")
	t.Setenv(config.EnvExportPath, exportPath)
	t.Setenv(config.EnvImportPath, exportPath)

	clip.content = nil
	t.Cleanup(func() {
		cfg, zapLogger = nil, nil
	})
	return exportPath
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCommandTree(t *testing.T) {
	root := NewRootCmd()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"export", "import", "detect", "types", "prefs", "paths", "history", "config", "gui", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestExportCommand(t *testing.T) {
	exportPath := isolate(t)
	clip.content = types.NewClipboardContent("XMSC", []byte(scriptXML))

	out, err := run(t, "", "export", "--raw", "--no-open")
	require.NoError(t, err)
	assert.Contains(t, out, "Script definition saved to "+exportPath)

	data, err := os.ReadFile(exportPath)
	require.NoError(t, err)
	assert.Equal(t, scriptXML, string(data))

	out, err = run(t, "", "history", "list", "--compact")
	require.NoError(t, err)
	assert.Contains(t, out, "export XMSC Script")
}

func TestExportEmptyClipboard(t *testing.T) {
	isolate(t)

	_, err := run(t, "", "export", "--no-open")
	assert.Error(t, err)
}

func TestExportAsPrompt(t *testing.T) {
	isolate(t)
	clip.content = types.NewClipboardContent("XMSC", []byte(scriptXML))
	target := filepath.Join(t.TempDir(), "picked.xml")

	out, err := run(t, target+"\n", "export", "--as", "--no-open")
	require.NoError(t, err)
	assert.Contains(t, out, "saved to "+target)
	assert.FileExists(t, target)

	out, err = run(t, "", "export", "--as", "--no-open")
	require.NoError(t, err)
	assert.Contains(t, out, "Cancelled.")
}

func TestImportCommand(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "field.xml")
	require.NoError(t, os.WriteFile(path, []byte(fieldXML), 0644))

	out, err := run(t, "", "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Field definition copied to the clipboard.")
	require.NotNil(t, clip.content)
	assert.Equal(t, "XMFD", clip.content.Tag)
	assert.Equal(t, fieldXML, clip.content.Text())

	_, err = run(t, "", "import", "--type", "script", path)
	require.NoError(t, err)
	assert.Equal(t, "XMSC", clip.content.Tag)

	_, err = run(t, "", "import", "--type", "widget", path)
	assert.Error(t, err)
}

func TestImportDefaultPathRoundTrip(t *testing.T) {
	isolate(t)
	clip.content = types.NewClipboardContent("XMFD", []byte(fieldXML))

	_, err := run(t, "", "export", "--no-open")
	require.NoError(t, err)

	clip.content = nil
	_, err = run(t, "", "import")
	require.NoError(t, err)
	require.NotNil(t, clip.content)
	assert.Equal(t, "XMFD", clip.content.Tag)
}

func TestDetectCommand(t *testing.T) {
	isolate(t)

	out, err := run(t, fieldXML, "detect", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "Field (XMFD)")

	_, err = run(t, "<fmxmlsnippet type=\"Nope\"/>", "detect", "-")
	assert.Error(t, err)
}

func TestTypesAndPrefs(t *testing.T) {
	isolate(t)

	out, err := run(t, "", "types")
	require.NoError(t, err)
	assert.Contains(t, out, "XMTB")
	assert.Contains(t, out, "Theme (v2024+)")

	_, err = run(t, "", "prefs", "set", "prettyPrintXml", "false")
	require.NoError(t, err)
	out, err = run(t, "", "prefs", "get", "prettyPrintXml")
	require.NoError(t, err)
	assert.Equal(t, "false\n", out)

	out, err = run(t, "", "prefs", "select", "value-list")
	require.NoError(t, err)
	assert.Contains(t, out, "XMVL")

	out, err = run(t, "", "prefs", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "lastManualType")
	assert.Contains(t, out, "XMVL")

	_, err = run(t, "", "prefs", "reset", "--all")
	require.NoError(t, err)
	out, err = run(t, "", "prefs", "get", "prettyPrintXml")
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)

	_, err = run(t, "", "prefs", "set", "nope", "1")
	assert.Error(t, err)
}

func TestPathsCommand(t *testing.T) {
	exportPath := isolate(t)

	out, err := run(t, "", "paths")
	require.NoError(t, err)
	assert.Contains(t, out, "Export: "+exportPath)
	assert.Contains(t, out, "(same as export)")

	other := filepath.Join(t.TempDir(), "other.xml")
	_, err = run(t, "", "paths", "export", other)
	require.NoError(t, err)

	out, err = run(t, "", "paths")
	require.NoError(t, err)
	assert.Contains(t, out, "Export: "+other)
}

func TestBoolOverride(t *testing.T) {
	c := newExportCmd()
	assert.Nil(t, boolOverride(c, "pretty", "raw"))

	require.NoError(t, c.Flags().Set("raw", "true"))
	v := boolOverride(c, "pretty", "raw")
	require.NotNil(t, v)
	assert.False(t, *v)

	assert.Nil(t, boolOverride(newTypesCmd(), "pretty", "raw"))
}

func TestTerminalPrompter(t *testing.T) {
	ask := func(input, initial string) string {
		p := newTerminalPrompter(strings.NewReader(input), &bytes.Buffer{}, nil)
		var got string
		p.PromptSavePath(initial, func(path string) { got = path })
		return got
	}

	assert.Equal(t, "/tmp/a.xml", ask("\n", "/tmp/a.xml"))
	assert.Equal(t, "/tmp/b.xml", ask("  /tmp/b.xml \n", "/tmp/a.xml"))
	assert.Equal(t, "/tmp/c.xml", ask("/tmp/c.xml", ""), "answer without newline")
	assert.Equal(t, "", ask("", "/tmp/a.xml"), "end of input cancels")
}

func TestConfigValidate(t *testing.T) {
	isolate(t)

	good := filepath.Join(t.TempDir(), "good.yaml")
	require.NoError(t, config.DefaultConfig().Save(good))
	out, err := run(t, "", "config", "validate", good)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("clipboard:\n  backend: fax\n"), 0644))
	_, err = run(t, "", "config", "validate", bad)
	assert.Error(t, err)
}

func TestConfigInit(t *testing.T) {
	isolate(t)

	out, err := run(t, "", "config", "init")
	require.NoError(t, err, "the file written on first load may be replaced")
	assert.Contains(t, out, "Configuration written to")

	_, err = run(t, "", "config", "init")
	assert.ErrorContains(t, err, "already exists")

	_, err = run(t, "", "config", "init", "--force")
	assert.NoError(t, err)
}

func TestConfigShowAndPath(t *testing.T) {
	isolate(t)

	out, err := run(t, "", "config", "show", "--defaults")
	require.NoError(t, err)
	assert.Contains(t, out, "export_path:")
	assert.Contains(t, out, "manual_type: XMTB")

	out, err = run(t, "", "config", "show", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"backend": "test"`)

	_, err = run(t, "", "config", "show", "--format", "toml")
	assert.Error(t, err)

	out, err = run(t, "", "config", "path")
	require.NoError(t, err)
	assert.Contains(t, out, "config.yaml")
	assert.Contains(t, out, "database")
}
