package config

import (
	"fmt"
	"os"
	"strconv"
)

// loadFromEnv overrides config from TODOLIST_* environment variables.
// If sources is non-nil, it tracks the source of each value.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource, source ConfigSource) error {
	setEnv := func(field string) {
		markSource(sources, field, source)
	}

	if v := os.Getenv("TODOLIST_DATA"); v != "" {
		cfg.DataFile = v
		setEnv("data_file")
	}
	if v := os.Getenv("TODOLIST_SCHEMA"); v != "" {
		cfg.SchemaFile = v
		setEnv("schema_file")
	}
	if v := os.Getenv("TODOLIST_LOG_DIR"); v != "" {
		cfg.LogDir = v
		setEnv("log_dir")
	}
	if v := os.Getenv("TODOLIST_LOG_KEEP"); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TODOLIST_LOG_KEEP: %w", err)
		}
		cfg.LogKeep = i
		setEnv("log_keep")
	}

	// Logging configuration
	if v := os.Getenv("TODOLIST_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
		setEnv("log_level")
	}
	if v := os.Getenv("TODOLIST_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
		setEnv("log_format")
	}
	if v := os.Getenv("TODOLIST_LOG_TIMESTAMPS"); v != "" {
		cfg.LogTimestamps = boolFromString(v)
		setEnv("log_timestamps")
	}
	if v := os.Getenv("TODOLIST_LOG_CALLER"); v != "" {
		cfg.LogCaller = boolFromString(v)
		setEnv("log_caller")
	}

	if v := os.Getenv("TODOLIST_FILTER"); v != "" {
		cfg.DefaultFilter = v
		setEnv("default_filter")
	}
	if v := os.Getenv("TODOLIST_TOAST_SCALE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("TODOLIST_TOAST_SCALE: %w", err)
		}
		cfg.ToastScale = f
		setEnv("toast_scale")
	}
	return nil
}
