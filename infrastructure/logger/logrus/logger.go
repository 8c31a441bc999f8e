// ABOUTME: Logger implementation backed by sirupsen/logrus
// ABOUTME: Emits JSON or text lines with structured fields to stdout or a rotated file

package logrus

import (
	"io"

	"digests-a11y/infrastructure/logger"

	"github.com/sirupsen/logrus"
)

// Config selects the logrus formatter, level and output
type Config struct {
	Level  string
	Format string // "json" or "text"
	Output logger.Output
}

// Logger implements interfaces.Logger using logrus
type Logger struct {
	entry *logrus.Logger
}

// New creates a logrus-backed logger
func New(cfg Config) *Logger {
	return NewWithWriter(cfg, cfg.Output.Writer())
}

// NewWithWriter creates a logger writing to w, ignoring cfg.Output
func NewWithWriter(cfg Config, w io.Writer) *Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(level(logger.ParseLevel(cfg.Level)))

	if cfg.Format == "text" {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})
	} else {
		l.SetFormatter(&logrus.JSONFormatter{})
	}
	return &Logger{entry: l}
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, fields map[string]interface{}) {
	l.entry.WithFields(logrus.Fields(fields)).Debug(msg)
}

// Info logs an info message
func (l *Logger) Info(msg string, fields map[string]interface{}) {
	l.entry.WithFields(logrus.Fields(fields)).Info(msg)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, fields map[string]interface{}) {
	l.entry.WithFields(logrus.Fields(fields)).Warn(msg)
}

// Error logs an error message
func (l *Logger) Error(msg string, fields map[string]interface{}) {
	l.entry.WithFields(logrus.Fields(fields)).Error(msg)
}

func level(lvl logger.Level) logrus.Level {
	switch lvl {
	case logger.LevelDebug:
		return logrus.DebugLevel
	case logger.LevelWarn:
		return logrus.WarnLevel
	case logger.LevelError:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}
