// Package logging builds the application logger and manages session log
// files.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// Options holds logger configuration.
type Options struct {
	Level           log.Level
	Formatter       log.Formatter
	ReportTimestamp bool
	ReportCaller    bool
	Prefix          string
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Level:           log.InfoLevel,
		Formatter:       log.TextFormatter,
		ReportTimestamp: false,
		ReportCaller:    false,
		Prefix:          "todolist",
	}
}

// New returns a logger writing to w.
func New(w io.Writer, opts Options) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           opts.Level,
		Formatter:       opts.Formatter,
		ReportTimestamp: opts.ReportTimestamp,
		ReportCaller:    opts.ReportCaller,
		Prefix:          opts.Prefix,
	})
}

// ParseFormatter maps "text", "json" or "logfmt" to a formatter.
func ParseFormatter(s string) (log.Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return log.TextFormatter, nil
	case "json":
		return log.JSONFormatter, nil
	case "logfmt":
		return log.LogfmtFormatter, nil
	default:
		return log.TextFormatter, fmt.Errorf("unknown log format %q (want text, json or logfmt)", s)
	}
}

// ParseOptions builds Options from configuration strings.
func ParseOptions(level, format string, timestamps, caller bool) (Options, error) {
	opts := DefaultOptions()
	if strings.TrimSpace(level) != "" {
		lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
		if err != nil {
			return opts, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		opts.Level = lvl
	}
	formatter, err := ParseFormatter(format)
	if err != nil {
		return opts, err
	}
	opts.Formatter = formatter
	opts.ReportTimestamp = timestamps
	opts.ReportCaller = caller
	return opts, nil
}
