// ABOUTME: Logger implementation backed by go.uber.org/zap
// ABOUTME: Production JSON encoder with fields passed as zap.Any pairs

package zap

import (
	"io"
	"sort"

	"digests-a11y/infrastructure/logger"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config selects the zap level and output
type Config struct {
	Level  string
	Output logger.Output
}

// Logger implements interfaces.Logger using zap
type Logger struct {
	z *zap.Logger
}

// New creates a zap-backed logger
func New(cfg Config) *Logger {
	return NewWithWriter(cfg, cfg.Output.Writer())
}

// NewWithWriter creates a logger writing to w, ignoring cfg.Output
func NewWithWriter(cfg Config, w io.Writer) *Logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.AddSync(w),
		level(logger.ParseLevel(cfg.Level)),
	)
	return &Logger{z: zap.New(core)}
}

// Zap exposes the underlying logger, e.g. for zap.ReplaceGlobals
func (l *Logger) Zap() *zap.Logger {
	return l.z
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, fields map[string]interface{}) {
	l.z.Debug(msg, toFields(fields)...)
}

// Info logs an info message
func (l *Logger) Info(msg string, fields map[string]interface{}) {
	l.z.Info(msg, toFields(fields)...)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, fields map[string]interface{}) {
	l.z.Warn(msg, toFields(fields)...)
}

// Error logs an error message
func (l *Logger) Error(msg string, fields map[string]interface{}) {
	l.z.Error(msg, toFields(fields)...)
}

// Sync flushes buffered log entries
func (l *Logger) Sync() error {
	return l.z.Sync()
}

func toFields(fields map[string]interface{}) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		if err, ok := fields[k].(error); ok {
			out = append(out, zap.NamedError(k, err))
			continue
		}
		out = append(out, zap.Any(k, fields[k]))
	}
	return out
}

func level(lvl logger.Level) zapcore.Level {
	switch lvl {
	case logger.LevelDebug:
		return zapcore.DebugLevel
	case logger.LevelWarn:
		return zapcore.WarnLevel
	case logger.LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
