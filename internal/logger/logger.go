package logger

import (
	"io"
	"log/slog"
	"os"
)

// FormatJSON selects the JSON handler; anything else falls back to text.
const FormatJSON = "json"

// Logger represents application logger.
type Logger struct {
	*slog.Logger
}

// New creates a stdout Logger with the given level and format.
func New(level int, format string) *Logger {
	return NewWithWriter(os.Stdout, level, format)
}

func NewWithWriter(w io.Writer, level int, format string) *Logger {
	opts := &slog.HandlerOptions{Level: slog.Level(level)}

	var h slog.Handler
	if format == FormatJSON {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}

	return &Logger{
		Logger: slog.New(h),
	}
}

// Fatal is equivalent to Error followed by os.Exit(1).
func (l *Logger) Fatal(msg string, args ...any) {
	l.Logger.Error(msg, args...)
	os.Exit(1)
}
