package config

import (
	"fmt"
	"strings"
)

var validSourceTypes = map[string]bool{
	"vendor": true,
	"spot":   true,
	"forex":  true,
}

// Validate checks configuration for errors
func Validate(cfg *Config) error {
	if cfg.Output == "" {
		return ErrOutputRequired
	}

	if len(cfg.Sources) == 0 {
		return ErrNoSourcesConfigured
	}

	enabled := 0
	for i, source := range cfg.Sources {
		if err := validateSourceConfig(&source); err != nil {
			return fmt.Errorf("source %d (%s.%s): %w", i, source.Type, source.Name, err)
		}
		if source.Enabled {
			enabled++
		}
	}
	if enabled == 0 {
		return ErrNoSourcesEnabled
	}

	if err := validateReconcileConfig(&cfg.Reconcile); err != nil {
		return fmt.Errorf("reconcile config: %w", err)
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Gateway == "" {
		return ErrMetricsGatewayRequired
	}

	if err := validateLoggingConfig(&cfg.Logging); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

func validateSourceConfig(sc *SourceConfig) error {
	if sc.Type == "" {
		return ErrSourceTypeRequired
	}
	if sc.Name == "" {
		return ErrSourceNameRequired
	}
	if !validSourceTypes[strings.ToLower(sc.Type)] {
		return fmt.Errorf("%w: %s", ErrUnknownSourceType, sc.Type)
	}
	return nil
}

func validateReconcileConfig(rc *ReconcileConfig) error {
	if rc.TolerancePct <= 0 || rc.TolerancePct > 100 {
		return ErrInvalidTolerance
	}
	if rc.FilterMinSources < 1 || rc.ValidateMinSources < 1 {
		return ErrInvalidMinSources
	}
	return nil
}

func validateLoggingConfig(lc *LoggingConfig) error {
	switch strings.ToLower(lc.Level) {
	case "trace", "debug", "info", "warn", "error", "fatal":
	default:
		return fmt.Errorf("%w: %s", ErrInvalidLogLevel, lc.Level)
	}
	switch strings.ToLower(lc.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("%w: %s", ErrInvalidLogFormat, lc.Format)
	}
	return nil
}
