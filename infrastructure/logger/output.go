// ABOUTME: Shared log output settings for the logger backends
// ABOUTME: Writes to stdout or to a size-rotated file managed by lumberjack

package logger

import (
	"io"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Output describes where log lines go
type Output struct {
	// File enables rotated file output when non-empty
	File string

	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// DefaultOutput logs to stdout with the rotation limits used for file output
func DefaultOutput() Output {
	return Output{
		MaxSizeMB:  500,
		MaxBackups: 3,
		MaxAgeDays: 28,
		Compress:   true,
	}
}

// Writer returns stdout, or a rotating file writer when File is set
func (o Output) Writer() io.Writer {
	if o.File == "" {
		return os.Stdout
	}
	return &lumberjack.Logger{
		Filename:   o.File,
		MaxSize:    o.MaxSizeMB, // megabytes
		MaxBackups: o.MaxBackups,
		MaxAge:     o.MaxAgeDays, // days
		Compress:   o.Compress,
	}
}

// Level is a backend-neutral log level name
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// ParseLevel maps a config string to a Level, defaulting to info
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}
