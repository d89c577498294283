// Package logging builds the module's *zap.Logger from configuration (or a
// Nop logger). Other packages (internal/requestid, cmd/gochemmatch) also
// import go.uber.org/zap directly for its Logger and Field types.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config carries the parameters a caller needs to build a logger, populated
// from internal/config's Config.Log section.
type Config struct {
	// Level is one of "debug", "info", "warn", "error". Unknown or empty
	// values fall back to "info".
	Level string
	// Format is "console" (human-readable, for a terminal) or "json"
	// (structured, for log aggregation). Unknown or empty values fall back
	// to "json".
	Format string
	// OutputPaths are zap sink URLs/paths ("stdout", "stderr", a file path).
	// Empty defaults to ["stdout"].
	OutputPaths []string
}

func parseLevel(s string) zapcore.Level {
	switch s {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// New builds a *zap.Logger from cfg, applying the module's defaults for any
// unset field.
func New(cfg Config) (*zap.Logger, error) {
	outputs := cfg.OutputPaths
	if len(outputs) == 0 {
		outputs = []string{"stdout"}
	}

	var encCfg zapcore.EncoderConfig
	encoding := cfg.Format
	switch cfg.Format {
	case "console":
		encCfg = zap.NewDevelopmentEncoderConfig()
	default:
		encoding = "json"
		encCfg = zap.NewProductionEncoderConfig()
	}
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	zapCfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(parseLevel(cfg.Level)),
		Development:      cfg.Format == "console",
		Encoding:         encoding,
		EncoderConfig:    encCfg,
		OutputPaths:      outputs,
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: building zap logger: %w", err)
	}
	return logger, nil
}

// Nop returns a logger that discards everything, for tests and library
// callers that have not opted into logging.
func Nop() *zap.Logger {
	return zap.NewNop()
}
