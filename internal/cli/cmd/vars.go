package cmd

import (
	"go.uber.org/zap"

	"github.com/berrythewa/fmclip/internal/config"
)

// Shared variables across all commands
var (
	cfg       *config.Config
	zapLogger *zap.Logger

	cfgFile string
	verbose bool
	quiet   bool
	noColor bool
	backend string
)

// SetConfig sets the configuration for commands
func SetConfig(c *config.Config) {
	cfg = c
}

// GetConfig returns the loaded configuration.
func GetConfig() *config.Config {
	return cfg
}

// SetZapLogger sets the logger for commands
func SetZapLogger(log *zap.Logger) {
	zapLogger = log
}

// GetZapLogger returns the command logger, never nil.
func GetZapLogger() *zap.Logger {
	if zapLogger == nil {
		return zap.NewNop()
	}
	return zapLogger
}
