package config

// Config is the root configuration for the Stockade runtime.
type Config struct {
	// Logging configures structured log output.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics configures the Prometheus endpoint.
	Metrics MetricsConfig `yaml:"metrics"`

	// Storage configures rule persistence.
	Storage StorageConfig `yaml:"storage"`

	// Catalog configures item token resolution.
	Catalog CatalogConfig `yaml:"catalog"`

	// Blocks configures rule maintenance.
	Blocks BlocksConfig `yaml:"blocks"`

	// Authz configures the static permission grants.
	Authz AuthzConfig `yaml:"authz"`

	// Audit configures the mutation journal.
	Audit AuditConfig `yaml:"audit"`
}

// LoggingConfig configures structured log output.
type LoggingConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	Level string `yaml:"level"`

	// Format is the output format ("json", "text").
	Format string `yaml:"format"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	// Enabled enables metric recording and the scrape endpoint.
	Enabled bool `yaml:"enabled"`

	// ListenAddress is where the metrics endpoint listens,
	// e.g. "127.0.0.1:9090".
	ListenAddress string `yaml:"listen_address"`

	// Namespace is the Prometheus metric namespace.
	Namespace string `yaml:"namespace"`

	// Subsystem is the Prometheus metric subsystem.
	Subsystem string `yaml:"subsystem"`
}

// StorageConfig configures rule persistence.
type StorageConfig struct {
	// Backend selects the persistence backend ("memory" or "sqlite").
	Backend string `yaml:"backend"`

	// Path is the SQLite database file. Required for the sqlite backend.
	Path string `yaml:"path"`
}

// CatalogConfig configures item token resolution.
type CatalogConfig struct {
	// Path is the YAML item definition file.
	Path string `yaml:"path"`

	// Watch enables hot reload of the definition file.
	Watch bool `yaml:"watch"`

	// MatchDisplayNames enables exact case-insensitive display-name
	// matching during resolution.
	MatchDisplayNames bool `yaml:"match_display_names"`
}

// BlocksConfig configures rule maintenance.
type BlocksConfig struct {
	// PruneSchedule is a cron expression for periodic pruning, e.g.
	// "*/5 * * * *". Empty disables scheduled maintenance; expired rules
	// are still dropped lazily on evaluation.
	PruneSchedule string `yaml:"prune_schedule"`
}

// AuthzConfig configures the static permission grants.
type AuthzConfig struct {
	// Grants maps actor id to granted permission names
	// ("block.admin", "block.bypass").
	Grants map[uint64][]string `yaml:"grants"`
}

// AuditConfig configures the mutation journal.
type AuditConfig struct {
	// Enabled enables journaling of successful mutations.
	Enabled bool `yaml:"enabled"`

	// Path is the journal SQLite database file.
	Path string `yaml:"path"`
}
