// Package log provides a structured logging interface for pricefactor.
//
// The interface is slog-compatible and is injected into every component that
// wants to report what it is doing (the factor trainer, the price calculator,
// the HTTP server and the CLI). No component reaches for a process-wide logger:
// callers decide the backend and pass it in.
//
// Backends:
//   - NewZerologLogger: zerolog JSON or console output
//   - NewSlogLogger:    log/slog JSON output using Cloud Logging attribute names
//   - NewNopLogger:     discards everything (library default)
//   - NewTestLogger:    captures JSON lines in memory for assertions
//
// Example usage:
//
//	logger := log.NewZerologLogger(os.Stderr, log.LevelInfo, log.FormatConsole).With(
//	    log.ModelNameKey, "TimeAwareFactorModel",
//	    log.EstimatorIDKey, "tafm-001",
//	)
//	logger.Info("Training started",
//	    log.OperationKey, log.OperationFit,
//	    log.SamplesKey, 1000,
//	)
package log

import (
	"context"
	"strings"

	"github.com/YuminosukeSato/pricefactor/pkg/errors"
)

// Logger defines a structured logging interface compatible with Go's log/slog.
//
// The interface supports method chaining through the With method, allowing
// for creation of contextual loggers with pre-populated fields.
type Logger interface {
	// Debug logs a debug-level message with optional structured fields.
	// Debug logs are used for per-epoch training details and per-request pricing details.
	Debug(msg string, fields ...any)

	// Info logs an info-level message with optional structured fields.
	Info(msg string, fields ...any)

	// Warn logs a warning-level message with optional structured fields.
	Warn(msg string, fields ...any)

	// Error logs an error-level message with optional structured fields.
	// If the first field is an error value it is attached as the error of the record
	// (with its stack trace when the backend supports it).
	//
	// Example:
	//   logger.Error("Model training failed",
	//       err,
	//       log.OperationKey, log.OperationFit,
	//   )
	Error(msg string, fields ...any)

	// With returns a new Logger with the given fields pre-populated.
	With(fields ...any) Logger

	// Enabled reports whether the logger emits log records at the given level.
	// Use it to skip building expensive fields.
	Enabled(ctx context.Context, level Level) bool
}

// Level represents a logging level, compatible with slog.Level.
type Level int

// Standard logging levels, values are compatible with slog.Level.
const (
	LevelDebug Level = -4 // Detailed diagnostic information
	LevelInfo  Level = 0  // General operational information
	LevelWarn  Level = 4  // Warning conditions
	LevelError Level = 8  // Error conditions
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a configuration string (debug, info, warn, error) into a Level.
func ParseLevel(level string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, errors.NewValidationError("logging.level", "unknown log level", level)
	}
}

// Output formats understood by the backends.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
	FormatCloud   = "cloud"
)

// splitError separates a leading error value from the key-value fields.
func splitError(fields []any) (error, []any) {
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok {
			return err, fields[1:]
		}
	}
	return nil, fields
}
