package config

import (
	"flag"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file (~/.todolist/todolist.toml or OS-specific config dir)
// 3. Project config file (todolist.toml or .todolist.toml in current directory)
// 4. Environment variables
// 5. CLI flags
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cws, err := load(fs, args, nil)
	if err != nil {
		return nil, err
	}
	return cws.Config, nil
}

// LoadWithSources loads configuration and tracks the source of each value.
// Returns ConfigWithSources containing the config and a map of field names to their sources.
func LoadWithSources(fs *flag.FlagSet, args []string) (*ConfigWithSources, error) {
	sources := make(map[string]ConfigSource)
	for _, field := range configFields() {
		sources[field] = SourceDefault
	}
	return load(fs, args, sources)
}

// load runs every layer. If sources is non-nil, it tracks the source of each
// value.
func load(fs *flag.FlagSet, args []string, sources map[string]ConfigSource) (*ConfigWithSources, error) {
	cfg := &Config{}

	// 1. Set defaults
	setDefaults(cfg)

	// 2. Try to load from user config file
	if userConfigFile := findUserConfigFile(); userConfigFile != "" {
		if err := loadConfigFile(cfg, userConfigFile, sources, SourceUserFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", userConfigFile, err)
		}
	}

	// 3. Try to load from project config file (overrides user config)
	if projectConfigFile := findProjectConfigFile(); projectConfigFile != "" {
		if err := loadConfigFile(cfg, projectConfigFile, sources, SourceProjFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projectConfigFile, err)
		}
	}

	// 4. Override from environment
	if err := loadFromEnv(cfg, sources, SourceEnv); err != nil {
		return nil, err
	}

	// 5. Parse CLI flags (they override everything)
	if err := parseFlags(cfg, fs, args, sources, SourceFlag); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// 6. Compute derived values
	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return &ConfigWithSources{
		Config:  cfg,
		Sources: sources,
	}, nil
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"data_file",
		"schema_file",
		"log_dir",
		"log_keep",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
		"default_filter",
		"toast_scale",
	}
}

// loadConfigFile decodes the TOML file at path over cfg. Keys present in the
// file are recorded in sources when it is non-nil. Unknown keys are an error.
func loadConfigFile(cfg *Config, path string, sources map[string]ConfigSource, source ConfigSource) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	for _, field := range configFields() {
		if md.IsDefined(field) {
			markSource(sources, field, source)
		}
	}
	return nil
}

// finalizeConfig expands and absolutizes paths and validates values.
func finalizeConfig(cfg *Config) error {
	cfg.DataFile = expandPath(cfg.DataFile)
	cfg.SchemaFile = expandPath(cfg.SchemaFile)
	cfg.LogDir = expandPath(cfg.LogDir)

	for _, p := range []*string{&cfg.DataFile, &cfg.SchemaFile, &cfg.LogDir} {
		if *p == "" || filepath.IsAbs(*p) {
			continue
		}
		abs, err := filepath.Abs(*p)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", *p, err)
		}
		*p = abs
	}

	if strings.TrimSpace(cfg.DataFile) == "" {
		return fmt.Errorf("data_file is empty")
	}
	if cfg.LogKeep < 0 {
		return fmt.Errorf("log_keep must not be negative, got %d", cfg.LogKeep)
	}
	if cfg.ToastScale <= 0 {
		return fmt.Errorf("toast_scale must be positive, got %g", cfg.ToastScale)
	}
	cfg.DefaultFilter = strings.ToLower(strings.TrimSpace(cfg.DefaultFilter))
	if !slices.Contains(filterModes, cfg.DefaultFilter) {
		return fmt.Errorf("default_filter must be one of %s, got %q", strings.Join(filterModes, ", "), cfg.DefaultFilter)
	}
	return nil
}
