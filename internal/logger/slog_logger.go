package logger

import (
	"io"
	"log/slog"
	"os"
	"time"
)

// NewSlogLogger creates a standalone JSON logger writing to writer.
// Tests use it with a bytes.Buffer or io.Discard.
func NewSlogLogger(writer io.Writer, level LogLevel, timezone *time.Location) Logger {
	if writer == nil {
		writer = os.Stdout
	}
	if timezone == nil {
		timezone = time.UTC
	}

	slogLevel := parseSlogLevel(level)
	handler := slog.NewJSONHandler(writer, &slog.HandlerOptions{
		Level:       slogLevel,
		ReplaceAttr: timezoneReplacer(timezone),
	})

	return &moduleLogger{
		logger: slog.New(handler),
		level:  slogLevel,
	}
}

// NewConsoleLogger creates a human-readable console logger for use before
// the central logger is configured.
func NewConsoleLogger(module string, level LogLevel) Logger {
	slogLevel := parseSlogLevel(level)

	return &moduleLogger{
		module: module,
		logger: slog.New(newTextHandler(os.Stdout, slogLevel, time.Local)),
		level:  slogLevel,
	}
}

// NewSlogHandlerLogger returns a *slog.Logger for code that takes the
// standard library type, such as the HTTP request logger middleware.
func NewSlogHandlerLogger(l Logger) *slog.Logger {
	if ml, ok := l.(*moduleLogger); ok && ml != nil {
		if ml.module == "" {
			return ml.logger
		}
		return ml.logger.With(slog.String(moduleKey, ml.module))
	}
	return slog.Default()
}
