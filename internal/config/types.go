package config

import (
	"fmt"
	"strconv"

	"github.com/nibzard/taskflow-go/internal/appdir"
	"github.com/nibzard/taskflow-go/internal/logging"
	"github.com/nibzard/taskflow-go/internal/storage"
)

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

	// Files lists the config files that were read, lowest priority first.
	Files []string
	// Warnings holds non-fatal problems, such as unknown keys in a file.
	Warnings []string
}

// Default values.
const (
	DefaultDataDir   = "~/" + appdir.Dir
	DefaultStore     = string(storage.BackendFile)
	DefaultDarkMode  = true
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Config holds the full configuration for taskflow.
type Config struct {
	// Paths
	DataDir    string `toml:"data_dir" env:"DATA_DIR"`
	Store      string `toml:"store" env:"STORE"`
	StorePath  string `toml:"store_path" env:"STORE_PATH"`
	SchemaFile string `toml:"schema_file" env:"SCHEMA_FILE"`

	// Default theme when no choice has been stored yet.
	DarkMode bool `toml:"dark_mode" env:"DARK_MODE"`

	// Logging configuration
	LogLevel      string `toml:"log_level" env:"LOG_LEVEL"`
	LogFormat     string `toml:"log_format" env:"LOG_FORMAT"`
	LogTimestamps bool   `toml:"log_timestamps" env:"LOG_TIMESTAMPS"`
	LogCaller     bool   `toml:"log_caller" env:"LOG_CALLER"`
}

// Fields returns the configurable field names in display order.
func Fields() []string {
	return []string{
		"data_dir",
		"store",
		"store_path",
		"schema_file",
		"dark_mode",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
	}
}

// Value returns the string form of a field for display.
func (c *Config) Value(field string) (string, error) {
	switch field {
	case "data_dir":
		return c.DataDir, nil
	case "store":
		return c.Store, nil
	case "store_path":
		return c.StorePath, nil
	case "schema_file":
		return c.SchemaFile, nil
	case "dark_mode":
		return strconv.FormatBool(c.DarkMode), nil
	case "log_level":
		return c.LogLevel, nil
	case "log_format":
		return c.LogFormat, nil
	case "log_timestamps":
		return strconv.FormatBool(c.LogTimestamps), nil
	case "log_caller":
		return strconv.FormatBool(c.LogCaller), nil
	default:
		return "", fmt.Errorf("unknown config field %q", field)
	}
}

// Backend returns the configured storage backend.
func (c *Config) Backend() storage.Backend {
	backend, err := storage.ParseBackend(c.Store)
	if err != nil {
		return storage.BackendFile
	}
	return backend
}

// LogPath returns the file the TUI logs to.
func (c *Config) LogPath() string {
	return appdir.LogPath(c.DataDir)
}

// LoggingOptions returns logger options for the configured level and format.
func (c *Config) LoggingOptions() logging.Options {
	return logging.OptionsFromConfig(c.LogLevel, c.LogFormat, c.LogTimestamps, c.LogCaller)
}

// OpenStorage opens the configured storage backend.
func (c *Config) OpenStorage() (storage.KV, error) {
	return storage.Open(c.Backend(), c.StorePath)
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.DataDir = DefaultDataDir
	cfg.Store = DefaultStore
	cfg.StorePath = ""
	cfg.SchemaFile = ""
	cfg.DarkMode = DefaultDarkMode
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.LogTimestamps = false
	cfg.LogCaller = false
}
