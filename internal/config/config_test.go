// File: internal/config/config_test.go

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// isolate points every config and data path into a temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(EnvConfigDir, filepath.Join(dir, "config"))
	t.Setenv(EnvDataDir, filepath.Join(dir, "data"))
	t.Setenv(EnvConfigFile, "")
	for _, key := range []string{EnvLogLevel, EnvClipboardBackend, EnvExportPath, EnvImportPath} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	return dir
}

func TestLoadCreatesDefault(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	configFile := filepath.Join(dir, "config", "config.yaml")
	assert.FileExists(t, configFile)
	assert.Equal(t, configFile, cfg.Path)
	assert.Equal(t, filepath.Join(dir, "data", "fmclip.db"), cfg.DBPath())
	assert.DirExists(t, filepath.Join(dir, "data", "logs"))

	defaults := DefaultConfig()
	assert.Equal(t, defaults.Defaults, cfg.Defaults)
	assert.Equal(t, defaults.History, cfg.History)
	assert.Equal(t, "XMTB", cfg.Defaults.ManualType)
	assert.Equal(t, DefaultFileName, filepath.Base(cfg.Defaults.ExportPath))
	assert.Equal(t, 2*time.Second, cfg.Clipboard.Timeout)
	assert.NoError(t, cfg.Validate())
}

func TestLoadExisting(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")

	content := `
log:
  level: debug
clipboard:
  backend: text
  timeout: 500ms
defaults:
  pretty_print_xml: false
  export_path: /tmp/out.xml
history:
  keep_items: 5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format, "unset keys keep defaults")
	assert.Equal(t, BackendText, cfg.Clipboard.Backend)
	assert.Equal(t, 500*time.Millisecond, cfg.Clipboard.Timeout)
	assert.False(t, cfg.Defaults.PrettyPrintXML)
	assert.True(t, cfg.Defaults.AutoDetectType)
	assert.Equal(t, "/tmp/out.xml", cfg.Defaults.ExportPath)
	assert.Equal(t, 5, cfg.History.KeepItems)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("invalid yaml"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Log.Level = "warn"
	cfg.Defaults.ManualType = "XMSC"
	require.NoError(t, cfg.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var loaded Config
	require.NoError(t, yaml.Unmarshal(data, &loaded))
	assert.Equal(t, *cfg, loaded)
	assert.Contains(t, string(data), "timeout: 2s")
}

func TestEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvClipboardBackend, "wayland")
	t.Setenv(EnvExportPath, "/srv/export.xml")
	t.Setenv(EnvImportPath, "/srv/import.xml")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, BackendWayland, cfg.Clipboard.Backend)
	assert.Equal(t, "/srv/export.xml", cfg.Defaults.ExportPath)
	assert.Equal(t, "/srv/import.xml", cfg.Defaults.ImportPath)
}

func TestDotEnvFile(t *testing.T) {
	dir := isolate(t)
	configDir := filepath.Join(dir, "config")
	require.NoError(t, os.MkdirAll(configDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, ".env"),
		[]byte("FMCLIP_LOG_LEVEL=debug\nFMCLIP_CLIPBOARD_BACKEND=text\n"), 0644))

	t.Run("fills unset variables", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, BackendText, cfg.Clipboard.Backend)
	})

	t.Run("real environment wins", func(t *testing.T) {
		t.Setenv(EnvLogLevel, "warn")
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "warn", cfg.Log.Level)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, false},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, false},
		{"bad backend", func(c *Config) { c.Clipboard.Backend = "pigeon" }, false},
		{"zero timeout", func(c *Config) { c.Clipboard.Timeout = 0 }, false},
		{"negative keep", func(c *Config) { c.History.KeepItems = -1 }, false},
		{"unknown manual type", func(c *Config) { c.Defaults.ManualType = "XMXX" }, false},
		{"upper-case level", func(c *Config) { c.Log.Level = "DEBUG" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "Documents", "a.xml"), ExpandHome("~/Documents/a.xml"))
	assert.Equal(t, "/abs/a.xml", ExpandHome("/abs/a.xml"))
	assert.Equal(t, "~user/a.xml", ExpandHome("~user/a.xml"))
}

func TestResolveBackend(t *testing.T) {
	assert.Equal(t, BackendText, ResolveBackend(BackendText))
	assert.NotEqual(t, BackendAuto, ResolveBackend(BackendAuto))
	assert.NotEmpty(t, ResolveBackend(""))
}
