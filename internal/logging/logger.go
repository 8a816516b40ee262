// Package logging builds the structured loggers used across the logbook.
package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

// Config holds logger configuration
type Config struct {
	Level  slog.Level
	Output io.Writer
	RunID  string
}

// DefaultConfig logs at Info to stderr so stdout stays free for CSV output.
func DefaultConfig() Config {
	level := slog.LevelInfo
	if DebugEnabled() {
		level = slog.LevelDebug
	}
	return Config{
		Level:  level,
		Output: os.Stderr,
		RunID:  NewRunID(),
	}
}

// New creates a text logger tagged with the run id of this process
func New(cfg Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: cfg.Level}))
	if cfg.RunID != "" {
		logger = logger.With(FieldRunID, cfg.RunID)
	}
	return logger
}

// Discard returns a logger that drops every record
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// WithComponent returns a child logger carrying the component name
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = Discard()
	}
	return logger.With(FieldComponent, component)
}

// NewRunID returns a fresh identifier correlating the records of one invocation
func NewRunID() string {
	return uuid.NewString()
}

// DebugEnabled returns true if debug mode is enabled via LB_DEBUG environment variable
func DebugEnabled() bool {
	return os.Getenv("LB_DEBUG") != ""
}
