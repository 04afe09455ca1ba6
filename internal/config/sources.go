package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/nibzard/todolist/internal/datadir"
)

// findProjectConfigFile looks for a config file in the current directory.
func findProjectConfigFile() string {
	names := []string{datadir.ConfigFile, "." + datadir.ConfigFile}
	for _, name := range names {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// findUserConfigFile looks for a user-level config file.
// Checks ~/.todolist/todolist.toml first, then falls back to OS-specific
// config directories if it doesn't exist.
func findUserConfigFile() string {
	home, err := os.UserHomeDir()
	if err == nil {
		userConfigPath := filepath.Join(home, datadir.Dir, datadir.ConfigFile)
		if _, err := os.Stat(userConfigPath); err == nil {
			return userConfigPath
		}
	}

	if cfgDir := osUserConfigDir(); cfgDir != "" {
		userConfigPath := filepath.Join(cfgDir, datadir.AppName, datadir.ConfigFile)
		if _, err := os.Stat(userConfigPath); err == nil {
			return userConfigPath
		}
	}

	return ""
}

// UserConfigPath returns where a user config file is read from: the existing
// one if any, otherwise ~/.todolist/todolist.toml.
func UserConfigPath() string {
	if p := findUserConfigFile(); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return datadir.ConfigPath("")
	}
	return filepath.Join(home, datadir.Dir, datadir.ConfigFile)
}

// osUserConfigDir returns the OS-specific user config directory.
// Returns empty string if the directory cannot be determined.
func osUserConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		if appdata := os.Getenv("APPDATA"); appdata != "" {
			return appdata
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, "Library", "Application Support")
		}
	case "linux", "openbsd", "freebsd", "netbsd":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return xdg
		}
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, ".config")
		}
	}
	return ""
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.Root = datadir.Root()
	cfg.DataFile = datadir.DataPath(cfg.Root)
	cfg.SchemaFile = ""
	cfg.LogDir = datadir.LogPath(cfg.Root)
	cfg.LogKeep = DefaultLogKeep
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.LogTimestamps = true
	cfg.LogCaller = false
	cfg.DefaultFilter = DefaultFilter
	cfg.ToastScale = DefaultToastScale
}

// GetConfigFile returns the active config file path (project or user).
func (cws *ConfigWithSources) GetConfigFile() string {
	for _, source := range cws.Sources {
		if source == SourceProjFile {
			if p := findProjectConfigFile(); p != "" {
				return p
			}
		}
	}
	for _, source := range cws.Sources {
		if source == SourceUserFile {
			if p := findUserConfigFile(); p != "" {
				return p
			}
		}
	}
	return ""
}
