package sources

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParseQuoteText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2,651.30", "2651.3"},
		{"$2,651.30", "2651.3"},
		{" 1.3425 ", "1.3425"},
		{"S$118,000.00", "118000"},
		{"2651", "2651"},
	}

	for _, tt := range tests {
		got, err := ParseQuoteText(tt.in)
		if err != nil {
			t.Errorf("ParseQuoteText(%q) failed: %v", tt.in, err)
			continue
		}
		if got.String() != tt.want {
			t.Errorf("ParseQuoteText(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestParseQuoteText_Invalid(t *testing.T) {
	for _, in := range []string{"", "N/A", "--", "1.2.3"} {
		if _, err := ParseQuoteText(in); err == nil {
			t.Errorf("ParseQuoteText(%q) should fail", in)
		}
	}
}

func TestCheckBand(t *testing.T) {
	if err := CheckBand(decimal.NewFromFloat(2650), GoldSpotBand); err != nil {
		t.Errorf("2650 should be inside the gold band: %v", err)
	}
	if err := CheckBand(decimal.NewFromFloat(26.5), GoldSpotBand); !errors.Is(err, ErrValueOutOfRange) {
		t.Errorf("Expected ErrValueOutOfRange for 26.5, got %v", err)
	}
	// The bounds themselves are excluded.
	if err := CheckBand(decimal.NewFromInt(1000), GoldSpotBand); !errors.Is(err, ErrValueOutOfRange) {
		t.Errorf("Expected boundary value 1000 rejected, got %v", err)
	}
	if err := CheckBand(decimal.NewFromFloat(1.3425), ForexBand); err != nil {
		t.Errorf("1.3425 should be inside the forex band: %v", err)
	}
	if err := CheckBand(decimal.NewFromFloat(0.745), ForexBand); !errors.Is(err, ErrValueOutOfRange) {
		t.Errorf("Expected ErrValueOutOfRange for 0.745, got %v", err)
	}
}

func TestGetTimeoutFromConfig(t *testing.T) {
	def := 10 * time.Second

	if got := GetTimeoutFromConfig(map[string]interface{}{}, def); got != def {
		t.Errorf("Expected default timeout, got %v", got)
	}
	if got := GetTimeoutFromConfig(map[string]interface{}{"timeout": 5000}, def); got != 5*time.Second {
		t.Errorf("Expected 5s from int millis, got %v", got)
	}
	if got := GetTimeoutFromConfig(map[string]interface{}{"timeout": 2500.0}, def); got != 2500*time.Millisecond {
		t.Errorf("Expected 2.5s from float millis, got %v", got)
	}
}

func TestGetStringFromConfig(t *testing.T) {
	cfg := map[string]interface{}{"url": "https://example.com", "empty": ""}

	if got := GetStringFromConfig(cfg, "url", "fallback"); got != "https://example.com" {
		t.Errorf("Expected configured value, got %s", got)
	}
	if got := GetStringFromConfig(cfg, "empty", "fallback"); got != "fallback" {
		t.Errorf("Expected fallback for empty value, got %s", got)
	}
	if got := GetStringFromConfig(cfg, "missing", "fallback"); got != "fallback" {
		t.Errorf("Expected fallback for missing key, got %s", got)
	}
}
