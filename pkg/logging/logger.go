// Package logging provides structured logging configuration using zerolog.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogLevel represents the logging level.
type LogLevel string

const (
	// LevelDebug logs debug messages and above.
	LevelDebug LogLevel = "debug"

	// LevelInfo logs info messages and above.
	LevelInfo LogLevel = "info"

	// LevelWarn logs warning messages and above.
	LevelWarn LogLevel = "warn"

	// LevelError logs error messages only.
	LevelError LogLevel = "error"
)

// Config holds logger configuration.
type Config struct {
	// Level is the minimum log level to output.
	Level LogLevel

	// Pretty enables human-readable console output (default: false for JSON).
	Pretty bool

	// Output is the writer to output logs to (default: os.Stderr).
	Output io.Writer
}

// DefaultConfig returns a default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  LevelInfo,
		Pretty: false,
		Output: os.Stderr,
	}
}

// Setup configures the global zerolog logger.
func Setup(cfg Config) zerolog.Logger {
	// Set global log level
	level := parseLevel(cfg.Level)
	zerolog.SetGlobalLevel(level)

	// Configure output
	var output io.Writer = cfg.Output
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: cfg.Output}
	}

	// Create logger with timestamp
	logger := zerolog.New(output).With().Timestamp().Logger()

	// Set as global logger
	log.Logger = logger

	return logger
}

// parseLevel converts LogLevel to zerolog.Level.
func parseLevel(level LogLevel) zerolog.Level {
	switch strings.ToLower(string(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// NewLogger creates a new logger scoped to the given component name. Every
// core package (coordinator, fetch worker, ratelimit, enrich, intake,
// indicator decoder) tags its diagnostics this way so log lines can be
// filtered by the part of the pipeline that emitted them.
func NewLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// Log Level Guidelines:
//
// Debug: Detailed information for debugging
//   - Slot assignment, DNS override lookups
//   - Per-attempt retry bookkeeping
//   - Internal state changes
//
// Info: Normal operation events
//   - Pool startup/shutdown
//   - Progress milestones
//   - Coordinator lifecycle steps
//
// Warn: Warning conditions that don't prevent operation
//   - Decode diagnostics (skipped entries, non-object primary)
//   - Retried transport faults
//   - Rejected URLs during intake
//   - Failed fetches, including retry exhaustion
//   - CA bundle not found
//
// Error: Error conditions requiring attention
//   - No URLs to fetch
//   - Worker pool spawn failure
//
// Context Fields:
//   - endpoint: Dashboard endpoint path
//   - status_code: HTTP status code
//   - duration: Request duration
//   - worker_id: worker goroutine index
//   - slot: output slot index
//   - error_class: transport error classification
