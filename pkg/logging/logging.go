// Package logging builds the zap loggers used by the CLI and the HTTP server.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ssargent/omniconv/pkg/config"
)

// NewLoggerConfig returns the zap config for cfg. Logs go to stderr so that
// command output on stdout stays clean.
func NewLoggerConfig(cfg config.Logging) (zap.Config, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return zap.Config{}, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	encodeLevel := zapcore.CapitalColorLevelEncoder
	switch cfg.Format {
	case "", "console":
		cfg.Format = "console"
	case "json":
		encodeLevel = zapcore.LowercaseLevelEncoder
	default:
		return zap.Config{}, fmt.Errorf("invalid log format %q", cfg.Format)
	}

	return zap.Config{
		Level:    zap.NewAtomicLevelAt(level),
		Encoding: cfg.Format,
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "ts",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			FunctionKey:    zapcore.OmitKey,
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    encodeLevel,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		DisableStacktrace: true,
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
	}, nil
}

// NewLogger builds a logger from cfg
func NewLogger(cfg config.Logging) (*zap.Logger, error) {
	zcfg, err := NewLoggerConfig(cfg)
	if err != nil {
		return nil, err
	}
	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger.Named("omniconv"), nil
}
