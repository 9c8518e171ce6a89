// File: internal/config/config.go

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/berrythewa/fmclip/internal/snippet"
)

// Environment variables recognised on top of the config file.
const (
	EnvConfigFile       = "FMCLIP_CONFIG"
	EnvConfigDir        = "FMCLIP_CONFIG_DIR"
	EnvDataDir          = "FMCLIP_DATA_DIR"
	EnvLogLevel         = "FMCLIP_LOG_LEVEL"
	EnvClipboardBackend = "FMCLIP_CLIPBOARD_BACKEND"
	EnvExportPath       = "FMCLIP_EXPORT_PATH"
	EnvImportPath       = "FMCLIP_IMPORT_PATH"
)

// Clipboard backends.
const (
	BackendAuto    = "auto"
	BackendNative  = "native"
	BackendX11     = "x11"
	BackendWayland = "wayland"
	BackendText    = "text"
)

// DefaultFileName is the file used for exports and imports until the user
// picks another one.
const DefaultFileName = "clipboard.xml"

// ConfigPaths holds all relevant paths for the application
type ConfigPaths struct {
	BaseDir    string // Directory holding config.yaml and .env
	ConfigFile string // Path to the config file
	EnvFile    string // Optional dotenv file
	DataDir    string // Directory for application data
	DBFile     string // Path to database file
	LogDir     string // Directory for log files
}

// Config holds all application configuration
type Config struct {
	Log       LogConfig       `json:"log" yaml:"log"`
	Storage   StorageConfig   `json:"storage" yaml:"storage"`
	Clipboard ClipboardConfig `json:"clipboard" yaml:"clipboard"`
	Defaults  Defaults        `json:"defaults" yaml:"defaults"`
	History   HistoryConfig   `json:"history" yaml:"history"`

	// Resolved at load time, never persisted.
	SystemPaths ConfigPaths `json:"-" yaml:"-"`
	Path        string      `json:"-" yaml:"-"`
	// Created is set when Load wrote a fresh default file.
	Created bool `json:"-" yaml:"-"`
}

// LogConfig holds logging-related configuration
type LogConfig struct {
	Level             string `json:"level" yaml:"level"`
	Format            string `json:"format" yaml:"format"` // "json" or "console"
	EnableFileLogging bool   `json:"enable_file_logging" yaml:"enable_file_logging"`
}

// StorageConfig holds storage-related configuration
type StorageConfig struct {
	// DBPath defaults to <data dir>/fmclip.db when empty.
	DBPath string `json:"db_path" yaml:"db_path"`
}

// ClipboardConfig selects and tunes the clipboard backend.
type ClipboardConfig struct {
	Backend string        `json:"backend" yaml:"backend"`
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// Defaults are the registered preference defaults. Values the user changes
// at runtime live in the preference store, not here.
type Defaults struct {
	ExportPath               string `json:"export_path" yaml:"export_path"`
	ImportPath               string `json:"import_path" yaml:"import_path"`
	UseSamePathForImport     bool   `json:"use_same_path_for_import" yaml:"use_same_path_for_import"`
	OpenFileAfterExport      bool   `json:"open_file_after_export" yaml:"open_file_after_export"`
	PrettyPrintXML           bool   `json:"pretty_print_xml" yaml:"pretty_print_xml"`
	AutoDetectType           bool   `json:"auto_detect_type" yaml:"auto_detect_type"`
	PreferModernLayoutFormat bool   `json:"prefer_modern_layout_format" yaml:"prefer_modern_layout_format"`
	PreferModernThemeFormat  bool   `json:"prefer_modern_theme_format" yaml:"prefer_modern_theme_format"`
	ManualType               string `json:"manual_type" yaml:"manual_type"`
}

// HistoryConfig controls the transfer history.
type HistoryConfig struct {
	KeepItems    int  `json:"keep_items" yaml:"keep_items"`
	StorePayload bool `json:"store_payload" yaml:"store_payload"`
}

// GetConfigPaths returns the platform-specific configuration paths and makes
// sure the directories exist.
func GetConfigPaths() (*ConfigPaths, error) {
	baseDir := os.Getenv(EnvConfigDir)
	if baseDir == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, err
		}
		baseDir = filepath.Join(configDir, appDirName)
	}

	dataDir := os.Getenv(EnvDataDir)
	if dataDir == "" {
		var err error
		dataDir, err = defaultDataDir()
		if err != nil {
			return nil, err
		}
	}

	paths := &ConfigPaths{
		BaseDir:    baseDir,
		ConfigFile: filepath.Join(baseDir, "config.yaml"),
		EnvFile:    filepath.Join(baseDir, ".env"),
		DataDir:    dataDir,
		DBFile:     filepath.Join(dataDir, "fmclip.db"),
		LogDir:     filepath.Join(dataDir, "logs"),
	}

	for _, dir := range []string{paths.BaseDir, paths.DataDir, paths.LogDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	return paths, nil
}

// DefaultConfig returns a new Config with default values
func DefaultConfig() *Config {
	defaults := GetPlatformDefaults()
	defaultFile := filepath.Join(defaults.DocumentsDir, DefaultFileName)

	return &Config{
		Log: LogConfig{
			Level:             "info",
			Format:            "console",
			EnableFileLogging: false,
		},
		Clipboard: ClipboardConfig{
			Backend: BackendAuto,
			Timeout: 2 * time.Second,
		},
		Defaults: Defaults{
			ExportPath:               defaultFile,
			ImportPath:               defaultFile,
			UseSamePathForImport:     true,
			OpenFileAfterExport:      true,
			PrettyPrintXML:           true,
			AutoDetectType:           true,
			PreferModernLayoutFormat: true,
			PreferModernThemeFormat:  true,
			ManualType:               snippet.Default.Tag,
		},
		History: HistoryConfig{
			KeepItems:    100,
			StorePayload: true,
		},
	}
}

// Load loads the configuration from the specified file or creates default if not exists
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = os.Getenv(EnvConfigFile)
	}

	paths, err := GetConfigPaths()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config paths: %w", err)
	}
	if configPath == "" {
		configPath = paths.ConfigFile
	}

	if err := loadEnvFile(filepath.Join(filepath.Dir(configPath), ".env")); err != nil {
		return nil, err
	}
	// .env may have moved the directories
	if paths, err = GetConfigPaths(); err != nil {
		return nil, fmt.Errorf("failed to resolve config paths: %w", err)
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(configPath)
	switch {
	case os.IsNotExist(err):
		if err := cfg.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		cfg.Created = true
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.Path = configPath
	cfg.SystemPaths = *paths

	overrideFromEnv(cfg)
	ApplyPlatformDefaults(cfg)

	return cfg, nil
}

// Save saves the configuration to the specified file
func (c *Config) Save(configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks values that would otherwise fail later at runtime.
func (c *Config) Validate() error {
	var problems []string

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		problems = append(problems, fmt.Sprintf("log.format %q is not one of json, console", c.Log.Format))
	}
	switch c.Clipboard.Backend {
	case BackendAuto, BackendNative, BackendX11, BackendWayland, BackendText:
	default:
		problems = append(problems, fmt.Sprintf("clipboard.backend %q is not one of auto, native, x11, wayland, text", c.Clipboard.Backend))
	}
	if c.Clipboard.Timeout <= 0 {
		problems = append(problems, "clipboard.timeout must be positive")
	}
	if c.History.KeepItems < 0 {
		problems = append(problems, "history.keep_items must not be negative")
	}
	if _, ok := snippet.LookupByTag(c.Defaults.ManualType); !ok {
		problems = append(problems, fmt.Sprintf("defaults.manual_type %q is not a known type tag", c.Defaults.ManualType))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration:\n  %s", strings.Join(problems, "\n  "))
	}
	return nil
}

// DBPath returns the effective database location.
func (c *Config) DBPath() string {
	if c.Storage.DBPath != "" {
		return c.Storage.DBPath
	}
	return c.SystemPaths.DBFile
}

// GetActiveConfigPath returns the path to the default config file
func GetActiveConfigPath() (string, error) {
	if path := os.Getenv(EnvConfigFile); path != "" {
		return path, nil
	}
	paths, err := GetConfigPaths()
	if err != nil {
		return "", err
	}
	return paths.ConfigFile, nil
}

// loadEnvFile reads KEY=VALUE pairs from path without overriding variables
// already set in the environment. A missing file is not an error.
func loadEnvFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// overrideFromEnv overrides configuration values from environment variables
func overrideFromEnv(config *Config) {
	if val := os.Getenv(EnvLogLevel); val != "" {
		config.Log.Level = val
	}
	if val := os.Getenv(EnvClipboardBackend); val != "" {
		config.Clipboard.Backend = val
	}
	if val := os.Getenv(EnvExportPath); val != "" {
		config.Defaults.ExportPath = val
	}
	if val := os.Getenv(EnvImportPath); val != "" {
		config.Defaults.ImportPath = val
	}
}
