package config

import (
	"flag"

	"github.com/nibzard/todolist/internal/datadir"
)

// flagToSource maps flag names to source field names.
var flagToSource = map[string]string{
	"data":           "data_file",
	"schema":         "schema_file",
	"log-dir":        "log_dir",
	"log-keep":       "log_keep",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-timestamps": "log_timestamps",
	"log-caller":     "log_caller",
	"filter":         "default_filter",
	"toast-scale":    "toast_scale",
}

// parseFlags defines the config flags on fs, parses args and applies the
// flags that were set. If sources is non-nil, it tracks the source of each
// value.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource, source ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet(datadir.AppName, flag.ContinueOnError)
	}

	// Bind to a copy so only explicitly set flags are applied.
	v := *cfg
	fs.StringVar(&v.DataFile, "data", cfg.DataFile, "Path to the collections file")
	fs.StringVar(&v.SchemaFile, "schema", cfg.SchemaFile, "Path to a JSON Schema replacing the bundled one")
	fs.StringVar(&v.LogDir, "log-dir", cfg.LogDir, "Session log directory")
	fs.IntVar(&v.LogKeep, "log-keep", cfg.LogKeep, "Session logs to keep (0 keeps all)")
	fs.StringVar(&v.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&v.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&v.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	fs.BoolVar(&v.LogCaller, "log-caller", cfg.LogCaller, "Show caller location in logs")
	fs.StringVar(&v.DefaultFilter, "filter", cfg.DefaultFilter, "Initial filter (all, unresolved, done)")
	fs.Float64Var(&v.ToastScale, "toast-scale", cfg.ToastScale, "Multiplier for notification timeouts")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "data":
			cfg.DataFile = v.DataFile
		case "schema":
			cfg.SchemaFile = v.SchemaFile
		case "log-dir":
			cfg.LogDir = v.LogDir
		case "log-keep":
			cfg.LogKeep = v.LogKeep
		case "log-level":
			cfg.LogLevel = v.LogLevel
		case "log-format":
			cfg.LogFormat = v.LogFormat
		case "log-timestamps":
			cfg.LogTimestamps = v.LogTimestamps
		case "log-caller":
			cfg.LogCaller = v.LogCaller
		case "filter":
			cfg.DefaultFilter = v.DefaultFilter
		case "toast-scale":
			cfg.ToastScale = v.ToastScale
		default:
			return
		}
		markSource(sources, flagToSource[f.Name], source)
	})
	return nil
}
