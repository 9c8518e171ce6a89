package common

import (
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/berrythewa/fmclip/internal/config"
)

// LogFileName is the name of the log file inside the log directory.
const LogFileName = "fmclip.log"

// LoggerOptions adjust the configured level from the command line.
type LoggerOptions struct {
	Verbose bool // force debug
	Quiet   bool // force warn
}

// NewLogger creates a new logger instance
func NewLogger(cfg *config.Config, opts LoggerOptions) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(cfg.Log.Level))); err != nil {
		level = zapcore.InfoLevel
	}
	switch {
	case opts.Verbose:
		level = zapcore.DebugLevel
	case opts.Quiet:
		level = zapcore.WarnLevel
	}

	encoding := cfg.Log.Format
	if encoding != "json" {
		encoding = "console"
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if encoding == "console" {
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	outputs := []string{"stderr"}
	if cfg.Log.EnableFileLogging && cfg.SystemPaths.LogDir != "" {
		outputs = append(outputs, filepath.Join(cfg.SystemPaths.LogDir, LogFileName))
	}

	zc := zap.Config{
		Level:       zap.NewAtomicLevelAt(level),
		Development: false,
		Sampling: &zap.SamplingConfig{
			Initial:    100,
			Thereafter: 100,
		},
		Encoding:          encoding,
		EncoderConfig:     encoderConfig,
		OutputPaths:       outputs,
		ErrorOutputPaths:  []string{"stderr"},
		DisableStacktrace: level > zapcore.DebugLevel,
	}

	return zc.Build()
}

// OrNop returns logger, or a no-op logger when it is nil.
func OrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
