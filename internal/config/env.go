package config

import (
	"strings"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix prefixes every environment variable taskflow reads.
const EnvPrefix = "TASKFLOW_"

// loadFromEnv overrides config from TASKFLOW_* environment variables and
// records each one that was set.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) error {
	return env.ParseWithOptions(cfg, env.Options{
		Prefix: EnvPrefix,
		OnSet: func(tag string, value interface{}, isDefault bool) {
			if isDefault || sources == nil {
				return
			}
			// OnSet also fires for variables that are not present.
			if s, _ := value.(string); s == "" {
				return
			}
			sources[envField(tag)] = SourceEnv
		},
	})
}

// envField maps TASKFLOW_DATA_DIR to data_dir.
func envField(key string) string {
	return strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
}
