package logger

import (
	"pv-bknd/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger struct {
	*zap.Logger
}

// New creates a zap logger configured by environment.
func New(cfg *config.Config) *Logger {
	l, err := build(cfg.Environment, cfg.LogLevel, false)
	if err != nil {
		panic(err)
	}
	return &Logger{l}
}

// NewCLI creates a console logger writing to stderr so command output on
// stdout stays machine-readable.
func NewCLI(verbose bool) *Logger {
	level := "warn"
	if verbose {
		level = "debug"
	}
	l, err := build("development", level, true)
	if err != nil {
		panic(err)
	}
	return &Logger{l}
}

func build(environment, level string, stderrOnly bool) (*zap.Logger, error) {
	var zapCfg zap.Config

	if environment == "production" {
		zapCfg = zap.NewProductionConfig()
		zapCfg.EncoderConfig.TimeKey = "timestamp"
		zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.TimeKey = "timestamp"
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, err
		}
		zapCfg.Level = lvl
	}
	if stderrOnly {
		zapCfg.OutputPaths = []string{"stderr"}
		zapCfg.DisableStacktrace = true
	}

	return zapCfg.Build()
}

// Sync flushes any buffered log entries
func (l *Logger) Sync() {
	_ = l.Logger.Sync() // ignore sync errors (often harmless in dev)
}
