// Package config provides configuration loading and validation for goldwatch.
package config

import "errors"

var (
	// ErrNoSourcesConfigured indicates that no price sources are configured.
	ErrNoSourcesConfigured = errors.New("at least one price source must be configured")
	// ErrNoSourcesEnabled indicates that no sources are enabled.
	ErrNoSourcesEnabled = errors.New("no sources enabled")
	// ErrSourceTypeRequired indicates that source type is required.
	ErrSourceTypeRequired = errors.New("source type is required")
	// ErrSourceNameRequired indicates that source name is required.
	ErrSourceNameRequired = errors.New("source name is required")
	// ErrUnknownSourceType indicates that the source type is unknown.
	ErrUnknownSourceType = errors.New("unknown source type")
	// ErrOutputRequired indicates that the output path is missing.
	ErrOutputRequired = errors.New("output path must be specified")
	// ErrInvalidTolerance indicates that the reconcile tolerance is out of range.
	ErrInvalidTolerance = errors.New("tolerance_pct must be between 0 and 100")
	// ErrInvalidMinSources indicates a non-positive minimum source count.
	ErrInvalidMinSources = errors.New("minimum source counts must be >= 1")
	// ErrMetricsGatewayRequired indicates that the push gateway address is missing.
	ErrMetricsGatewayRequired = errors.New("metrics gateway must be specified when metrics are enabled")
	// ErrInvalidLogLevel indicates that the log level is invalid.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidLogFormat indicates that the log format is invalid.
	ErrInvalidLogFormat = errors.New("invalid log format")
)
