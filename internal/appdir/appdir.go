// Package appdir provides constants and utilities for the taskflow data directory.
package appdir

import "path/filepath"

const (
	// Dir is the name of the taskflow state directory.
	Dir = ".taskflow"

	// StorageFile is the key-value file used by the file backend.
	StorageFile = "storage.json"

	// DatabaseFile is the SQLite database used by the sqlite backend.
	DatabaseFile = "taskflow.db"

	// LogFile receives log output while the TUI owns the terminal.
	LogFile = "taskflow.log"

	// ConfigFile is the config file name inside a state directory.
	ConfigFile = "taskflow.toml"
)

// StoragePath returns the file backend path within a data directory.
func StoragePath(dataDir string) string {
	return joinPath(dataDir, StorageFile)
}

// DatabasePath returns the sqlite backend path within a data directory.
func DatabasePath(dataDir string) string {
	return joinPath(dataDir, DatabaseFile)
}

// LogPath returns the TUI log file path within a data directory.
func LogPath(dataDir string) string {
	return joinPath(dataDir, LogFile)
}

// ConfigPath returns the config file path within a data directory.
func ConfigPath(dataDir string) string {
	return joinPath(dataDir, ConfigFile)
}

// DirPath returns the .taskflow directory inside a home or project directory.
func DirPath(root string) string {
	if root == "." || root == "" {
		return Dir
	}
	return filepath.Join(root, Dir)
}

func joinPath(dataDir, file string) string {
	if dataDir == "." || dataDir == "" {
		return file
	}
	return filepath.Join(dataDir, file)
}
