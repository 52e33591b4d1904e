package config

// Config is the root configuration structure
type Config struct {
	Output    string          `yaml:"output"`
	Sources   []SourceConfig  `yaml:"sources"`
	Reconcile ReconcileConfig `yaml:"reconcile"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// SourceConfig configures a price source
type SourceConfig struct {
	Type     string                 `yaml:"type"`
	Name     string                 `yaml:"name"`
	Enabled  bool                   `yaml:"enabled"`
	Priority int                    `yaml:"priority"`
	Config   map[string]interface{} `yaml:"config"`
}

// ReconcileConfig tunes cross-source validation
type ReconcileConfig struct {
	TolerancePct       float64 `yaml:"tolerance_pct"`        // max deviation from median, percent
	FilterMinSources   int     `yaml:"filter_min_sources"`   // minimum sources before outlier filtering kicks in
	ValidateMinSources int     `yaml:"validate_min_sources"` // minimum sources to call a value cross-validated
}

// MetricsConfig configures Prometheus metrics push
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Gateway string `yaml:"gateway"`
	Job     string `yaml:"job"`
}

// LoggingConfig configures structured logging
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}
