package config

import (
	"fmt"

	"github.com/robfig/cron/v3"
)

// Validate checks the configuration for errors. It assumes defaults have
// been applied.
func Validate(cfg *Config) error {
	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unknown level %q", cfg.Logging.Level)
	}

	switch cfg.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("logging.format: unknown format %q", cfg.Logging.Format)
	}

	switch cfg.Storage.Backend {
	case "memory":
	case "sqlite":
		if cfg.Storage.Path == "" {
			return fmt.Errorf("storage.path: required for sqlite backend")
		}
	default:
		return fmt.Errorf("storage.backend: unknown backend %q", cfg.Storage.Backend)
	}

	if cfg.Catalog.Path == "" {
		return fmt.Errorf("catalog.path: cannot be empty")
	}

	if cfg.Blocks.PruneSchedule != "" {
		if _, err := cron.ParseStandard(cfg.Blocks.PruneSchedule); err != nil {
			return fmt.Errorf("blocks.prune_schedule: %w", err)
		}
	}

	if cfg.Audit.Enabled && cfg.Audit.Path == "" {
		return fmt.Errorf("audit.path: required when audit is enabled")
	}

	return nil
}
