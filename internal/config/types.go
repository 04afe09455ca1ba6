package config

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
}

// Default values.
const (
	DefaultLogKeep    = 10
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "text"
	DefaultFilter     = "all"
	DefaultToastScale = 1.0
)

// filterModes lists the accepted default_filter values.
var filterModes = []string{"all", "unresolved", "done"}

// Config holds the full configuration for todolist.
type Config struct {
	// Paths
	DataFile   string `toml:"data_file"`
	SchemaFile string `toml:"schema_file"` // empty means the bundled schema
	LogDir     string `toml:"log_dir"`

	// Session logs kept in LogDir; 0 keeps all.
	LogKeep int `toml:"log_keep"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Interface
	DefaultFilter string  `toml:"default_filter"`
	ToastScale    float64 `toml:"toast_scale"`

	// Data directory the defaults were derived from (computed)
	Root string `toml:"-"`
}
