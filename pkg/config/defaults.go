package config

// ApplyDefaults fills unset fields with their default values.
func ApplyDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.Metrics.ListenAddress == "" {
		cfg.Metrics.ListenAddress = "127.0.0.1:9090"
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = "stockade"
	}
	if cfg.Metrics.Subsystem == "" {
		cfg.Metrics.Subsystem = "block"
	}

	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "memory"
	}
	if cfg.Storage.Backend == "sqlite" && cfg.Storage.Path == "" {
		cfg.Storage.Path = "stockade.db"
	}

	if cfg.Catalog.Path == "" {
		cfg.Catalog.Path = "items.yaml"
	}

	if cfg.Audit.Enabled && cfg.Audit.Path == "" {
		cfg.Audit.Path = "stockade_audit.db"
	}
}
