// Package log provides structured logging for the experiment pipeline.
//
// It configures the default slog logger with a JSON handler whose
// records carry stack traces extracted from cockroachdb/errors, and it
// bridges library warnings into zerolog for console output.
package log

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/rs/zerolog"

	"github.com/alineAssuncao/kaggle-regression-lab/pkg/errors"
)

// SetupLogger installs a JSON slog handler as the default logger.
func SetupLogger(loglevel string) {
	ops := slog.HandlerOptions{
		AddSource: true,
		Level:     ToLogLevel(loglevel),
	}
	handler := slog.NewJSONHandler(os.Stdout, &ops)
	errFmtHandler := WrapByErrFmtHandler(handler)
	slog.SetDefault(slog.New(errFmtHandler))
}

// ToLogLevel converts a level name into a slog.Level.
func ToLogLevel(level string) slog.Level {
	switch level {
	case "info":
		return slog.LevelInfo
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		panic(fmt.Sprintf("invalid log level :%s", level))
	}
}

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

// ErrAttr wraps an error for slog.
func ErrAttr(err error) slog.Attr {
	return slog.Any(ErrAttrKey, err)
}

// SetupWarnBridge routes library warnings (errors.Warn) into a zerolog
// console logger. Warning types that implement zerolog.LogObjectMarshaler
// contribute their structured fields to the event.
func SetupWarnBridge(logger zerolog.Logger) {
	errors.SetZerologWarnFunc(func(warning error) {
		event := logger.Warn()
		if m, ok := warning.(zerolog.LogObjectMarshaler); ok {
			event = event.EmbedObject(m)
		}
		event.Msg(warning.Error())
	})
}

// NewConsoleLogger returns a zerolog logger writing human-readable
// output to stderr, for interactive CLI runs.
func NewConsoleLogger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}
