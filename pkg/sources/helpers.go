// Package sources provides price source interfaces and implementations.
package sources

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/BBJcaptain/keju2/pkg/logging"
	"github.com/shopspring/decimal"
)

// GetLoggerFromConfig extracts logger from config map or returns a default noop logger.
// Sources should use this to get the logger passed from main.go.
// If no logger is configured, returns a noop logger to prevent nil pointer dereferences.
func GetLoggerFromConfig(config map[string]interface{}) *logging.Logger {
	if loggerInterface, ok := config["logger"]; ok {
		if logger, ok := loggerInterface.(*logging.Logger); ok {
			return logger
		}
	}

	// return default noop logger if logger not found
	return logging.NewNoopLogger()
}

// GetStringFromConfig retrieves a string value from source config.
func GetStringFromConfig(config map[string]interface{}, key, defaultValue string) string {
	if v, ok := config[key].(string); ok && v != "" {
		return v
	}
	return defaultValue
}

// GetTimeoutFromConfig retrieves a timeout in milliseconds from source
// config, falling back to the given default.
func GetTimeoutFromConfig(config map[string]interface{}, defaultTimeout time.Duration) time.Duration {
	switch v := config["timeout"].(type) {
	case int:
		return time.Duration(v) * time.Millisecond
	case int64:
		return time.Duration(v) * time.Millisecond
	case float64:
		return time.Duration(v) * time.Millisecond
	default:
		return defaultTimeout
	}
}

var nonNumericRe = regexp.MustCompile(`[^\d.]`)

// ParseQuoteText converts display text like "2,651.30" or "$2 651.30" to a
// decimal by stripping everything but digits and the decimal point.
func ParseQuoteText(text string) (decimal.Decimal, error) {
	cleaned := nonNumericRe.ReplaceAllString(strings.TrimSpace(text), "")
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("%w: empty quote text", ErrInvalidResponse)
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidResponse, text)
	}
	return decimal.NewFromFloat(f), nil
}

// CheckBand validates an extracted value against its plausibility band.
// Out-of-band values are treated as extraction failures, never as data.
func CheckBand(value decimal.Decimal, band Band) error {
	if !band.Contains(value) {
		return fmt.Errorf("%w: %s not in (%s, %s)", ErrValueOutOfRange,
			value.String(), band.Low.String(), band.High.String())
	}
	return nil
}
