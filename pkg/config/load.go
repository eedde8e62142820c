package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any
// errors. Environment variables are not consulted; use
// LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and
// applies environment variable overrides. Variables follow the naming
// convention STOCKADE_SECTION_FIELD (e.g. STOCKADE_STORAGE_PATH) and
// always take precedence over the file.
//
// The loading sequence is:
//  1. Load YAML from file
//  2. Apply default values
//  3. Apply environment variable overrides
//  4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// applyEnvOverrides applies STOCKADE_* environment variables over the
// loaded configuration.
func applyEnvOverrides(cfg *Config) {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	setBool := func(key string, dst *bool) {
		if v, ok := os.LookupEnv(key); ok {
			if b, err := strconv.ParseBool(v); err == nil {
				*dst = b
			}
		}
	}

	setString("STOCKADE_LOGGING_LEVEL", &cfg.Logging.Level)
	setString("STOCKADE_LOGGING_FORMAT", &cfg.Logging.Format)

	setBool("STOCKADE_METRICS_ENABLED", &cfg.Metrics.Enabled)
	setString("STOCKADE_METRICS_LISTEN_ADDRESS", &cfg.Metrics.ListenAddress)

	setString("STOCKADE_STORAGE_BACKEND", &cfg.Storage.Backend)
	setString("STOCKADE_STORAGE_PATH", &cfg.Storage.Path)

	setString("STOCKADE_CATALOG_PATH", &cfg.Catalog.Path)
	setBool("STOCKADE_CATALOG_WATCH", &cfg.Catalog.Watch)
	setBool("STOCKADE_CATALOG_MATCH_DISPLAY_NAMES", &cfg.Catalog.MatchDisplayNames)

	setString("STOCKADE_BLOCKS_PRUNE_SCHEDULE", &cfg.Blocks.PruneSchedule)

	setBool("STOCKADE_AUDIT_ENABLED", &cfg.Audit.Enabled)
	setString("STOCKADE_AUDIT_PATH", &cfg.Audit.Path)
}
