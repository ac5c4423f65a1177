package shared

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

// SetupLogger builds the application logger. JSON output is meant for the
// server, text with timestamps for everything else.
func SetupLogger(level string, json bool, w io.Writer) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	opts := log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	}
	if json {
		opts.Formatter = log.JSONFormatter
		opts.TimeFormat = "2006-01-02T15:04:05.000Z07:00"
	}
	return log.NewWithOptions(w, opts), nil
}
