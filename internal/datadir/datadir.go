// Package datadir provides constants and utilities for the per-installation
// data directory.
package datadir

import (
	"os"
	"path/filepath"
	"runtime"
)

const (
	// AppName names the data and config directories.
	AppName = "todolist"

	// HomeEnv overrides the data directory when set.
	HomeEnv = "TODOLIST_HOME"

	// Dir is the name of the data directory under the home directory.
	Dir = ".todolist"

	// DataFile is the collections file name.
	DataFile = "collections.json"

	// SchemaFile is the name of the exported JSON Schema.
	SchemaFile = "collections.schema.json"

	// ConfigFile is the config file name.
	ConfigFile = "todolist.toml"

	// LogDir is the session log directory name.
	LogDir = "logs"
)

// Root returns the data directory. In order it uses $TODOLIST_HOME,
// ~/.todolist if it exists, then the OS data directory. It falls back to
// ./.todolist when no home directory is known.
func Root() string {
	if v := os.Getenv(HomeEnv); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err == nil {
		dir := filepath.Join(home, Dir)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	if dataDir := osUserDataDir(); dataDir != "" {
		return filepath.Join(dataDir, AppName)
	}
	if err == nil {
		return filepath.Join(home, Dir)
	}
	return Dir
}

// osUserDataDir returns the OS-specific user data directory, or "".
func osUserDataDir() string {
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
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			return xdg
		}
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, ".local", "share")
		}
	}
	return ""
}

// DataPath returns the collections file within root.
func DataPath(root string) string {
	return joinPath(root, DataFile)
}

// SchemaPath returns the schema file within root.
func SchemaPath(root string) string {
	return joinPath(root, SchemaFile)
}

// ConfigPath returns the config file within root.
func ConfigPath(root string) string {
	return joinPath(root, ConfigFile)
}

// LogPath returns the session log directory within root.
func LogPath(root string) string {
	return joinPath(root, LogDir)
}

func joinPath(root, name string) string {
	if root == "" {
		root = Dir
	}
	return filepath.Join(root, name)
}
