// Package logging turns progress events into structured zap log lines.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/handiism/audiograb/internal/progress"
)

// Config selects the encoder and level of the CLI logger.
type Config struct {
	// Verbose enables debug output, which carries LevelVerbose events.
	Verbose bool

	// JSON switches from the console encoder to JSON lines.
	JSON bool

	// OutputPaths defaults to stderr.
	OutputPaths []string
}

// New builds a zap logger for the command line.
func New(cfg Config) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Verbose {
		level = zapcore.DebugLevel
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.Sampling = nil
	zapCfg.DisableCaller = true
	zapCfg.DisableStacktrace = true
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapCfg.OutputPaths = []string{"stderr"}
	if len(cfg.OutputPaths) > 0 {
		zapCfg.OutputPaths = cfg.OutputPaths
	}

	if !cfg.JSON {
		zapCfg.Encoding = "console"
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	}

	l, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build zap logger: %w", err)
	}
	return l, nil
}

// Bridge returns a progress.Func writing every event to l.
//
// Verbose events are logged at debug level and success events at info
// level with status=success.
func Bridge(l *zap.Logger) progress.Func {
	return func(e progress.Event) {
		fields := make([]zap.Field, 0, 4)
		if e.JobID != "" {
			fields = append(fields, zap.String("job_id", e.JobID))
		}
		if e.URL != "" {
			fields = append(fields, zap.String("url", e.URL))
		}
		if e.Err != nil {
			fields = append(fields, zap.Error(e.Err))
		}

		switch e.Level {
		case progress.LevelVerbose:
			l.Debug(e.Message, fields...)
		case progress.LevelWarning:
			l.Warn(e.Message, fields...)
		case progress.LevelError:
			l.Error(e.Message, fields...)
		case progress.LevelSuccess:
			l.Info(e.Message, append(fields, zap.String("status", "success"))...)
		default:
			l.Info(e.Message, fields...)
		}
	}
}
