// Package logging configures the zerolog logger shared across campuscore.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogLevel represents the log level.
type LogLevel string

const (
	// DebugLevel is for debug messages.
	DebugLevel LogLevel = "debug"
	// InfoLevel is for informational messages.
	InfoLevel LogLevel = "info"
	// WarnLevel is for warning messages.
	WarnLevel LogLevel = "warn"
	// ErrorLevel is for error messages.
	ErrorLevel LogLevel = "error"
)

// Config represents logger configuration.
type Config struct {
	// Level is the log level.
	Level LogLevel
	// Pretty enables human-readable console output.
	Pretty bool
	// Output is the output writer (defaults to os.Stdout).
	Output io.Writer
}

// New builds a configured zerolog logger.
func New(config Config) zerolog.Logger {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	zerolog.TimeFieldFormat = time.RFC3339

	var level zerolog.Level
	switch config.Level {
	case DebugLevel:
		level = zerolog.DebugLevel
	case WarnLevel:
		level = zerolog.WarnLevel
	case ErrorLevel:
		level = zerolog.ErrorLevel
	default:
		level = zerolog.InfoLevel
	}

	writer := config.Output
	if config.Pretty {
		writer = zerolog.ConsoleWriter{Out: config.Output, TimeFormat: time.RFC3339}
	}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

// FromEnv builds a logger configured from CAMPUSCORE_LOG_LEVEL and
// CAMPUSCORE_LOG_PRETTY, falling back to info-level JSON output.
func FromEnv() zerolog.Logger {
	return New(Config{
		Level:  LogLevel(os.Getenv("CAMPUSCORE_LOG_LEVEL")),
		Pretty: os.Getenv("CAMPUSCORE_LOG_PRETTY") == "true",
	})
}

// SetGlobal installs the logger as the zerolog package-level default.
func SetGlobal(logger zerolog.Logger) {
	log.Logger = logger
}
