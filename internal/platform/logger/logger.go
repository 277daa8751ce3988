package logger

import (
	"log/slog"
	"os"
)

// New returns the process logger. JSON output when ZONEGATE_LOG_FORMAT=json,
// text otherwise.
func New() *slog.Logger {
	var handler slog.Handler
	if os.Getenv("ZONEGATE_LOG_FORMAT") == "json" {
		handler = slog.NewJSONHandler(os.Stdout, nil)
	} else {
		handler = slog.NewTextHandler(os.Stdout, nil)
	}
	return slog.New(handler)
}
