package config

import (
	"flag"
)

// flagToField maps flag names to config field names.
var flagToField = map[string]string{
	"data-dir":       "data_dir",
	"store":          "store",
	"store-path":     "store_path",
	"schema":         "schema_file",
	"dark-mode":      "dark_mode",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-timestamps": "log_timestamps",
	"log-caller":     "log_caller",
}

// parseFlags defines the global flags on fs, parses args, and records which
// flags were set. Flags default to the values already in cfg, so unset flags
// leave lower layers untouched.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("taskflow", flag.ContinueOnError)
	}

	// Paths
	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Data directory")
	fs.StringVar(&cfg.Store, "store", cfg.Store, "Storage backend (file, sqlite, memory)")
	fs.StringVar(&cfg.StorePath, "store-path", cfg.StorePath, "Storage file path (default inside data dir)")
	fs.StringVar(&cfg.SchemaFile, "schema", cfg.SchemaFile, "External JSON schema for stored tasks")

	// Theme
	fs.BoolVar(&cfg.DarkMode, "dark-mode", cfg.DarkMode, "Default to the dark theme")

	// Logging
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Show caller location in logs")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if sources == nil {
			return
		}
		if field, ok := flagToField[f.Name]; ok {
			sources[field] = SourceFlag
		}
	})
	return nil
}
