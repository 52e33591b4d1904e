package forex

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BBJcaptain/keju2/pkg/sources"
)

func serveBody(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestExchangeRateSource_Fetch(t *testing.T) {
	srv := serveBody(t, `{"result": "success", "rates": {"SGD": 1.3425, "EUR": 0.92}}`)

	src, err := NewExchangeRateSourceFromConfig(map[string]interface{}{"url": srv.URL})
	if err != nil {
		t.Fatalf("NewExchangeRateSourceFromConfig failed: %v", err)
	}
	if src.Name() != "exchangerate_api" {
		t.Errorf("Expected name 'exchangerate_api', got '%s'", src.Name())
	}
	if src.Role() != sources.RoleForexRate {
		t.Errorf("Expected forex role, got %v", src.Role())
	}

	reading, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if got := reading.Value.String(); got != "1.3425" {
		t.Errorf("Expected 1.3425, got %s", got)
	}
}

func TestExchangeRateSource_ErrorResult(t *testing.T) {
	srv := serveBody(t, `{"result": "error", "error-type": "invalid-key"}`)

	src, _ := NewExchangeRateSourceFromConfig(map[string]interface{}{"url": srv.URL})
	_, err := src.Fetch(context.Background())
	if !errors.Is(err, sources.ErrInvalidResponse) {
		t.Errorf("Expected ErrInvalidResponse, got %v", err)
	}
}

func TestExchangeRateSource_SGDMissing(t *testing.T) {
	srv := serveBody(t, `{"result": "success", "rates": {"EUR": 0.92}}`)

	src, _ := NewExchangeRateSourceFromConfig(map[string]interface{}{"url": srv.URL})
	_, err := src.Fetch(context.Background())
	if !errors.Is(err, sources.ErrValueNotFound) {
		t.Errorf("Expected ErrValueNotFound, got %v", err)
	}
}

func TestExchangeRateSource_ImplausibleRate(t *testing.T) {
	// A USD-per-SGD inversion would land far outside the plausible band.
	srv := serveBody(t, `{"result": "success", "rates": {"SGD": 0.745}}`)

	src, _ := NewExchangeRateSourceFromConfig(map[string]interface{}{"url": srv.URL})
	_, err := src.Fetch(context.Background())
	if !errors.Is(err, sources.ErrValueOutOfRange) {
		t.Errorf("Expected ErrValueOutOfRange, got %v", err)
	}
}

func TestFrankfurterSource_Fetch(t *testing.T) {
	srv := serveBody(t, `{"amount": 1.0, "base": "USD", "date": "2026-08-31", "rates": {"SGD": 1.341}}`)

	src, err := NewFrankfurterSourceFromConfig(map[string]interface{}{"url": srv.URL})
	if err != nil {
		t.Fatalf("NewFrankfurterSourceFromConfig failed: %v", err)
	}

	reading, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if got := reading.Value.String(); got != "1.341" {
		t.Errorf("Expected 1.341, got %s", got)
	}
}

func TestFrankfurterSource_SGDMissing(t *testing.T) {
	srv := serveBody(t, `{"amount": 1.0, "base": "USD", "rates": {}}`)

	src, _ := NewFrankfurterSourceFromConfig(map[string]interface{}{"url": srv.URL})
	_, err := src.Fetch(context.Background())
	if !errors.Is(err, sources.ErrValueNotFound) {
		t.Errorf("Expected ErrValueNotFound, got %v", err)
	}
}

func TestCNBCSource_Fetch(t *testing.T) {
	srv := serveBody(t, `<html><body>
		<span class="QuoteStrip-lastPrice">1.3430</span>
	</body></html>`)

	src, err := NewCNBCSourceFromConfig(map[string]interface{}{"url": srv.URL})
	if err != nil {
		t.Fatalf("NewCNBCSourceFromConfig failed: %v", err)
	}

	reading, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if got := reading.Value.String(); got != "1.343" {
		t.Errorf("Expected 1.343, got %s", got)
	}
}

func TestCNBCSource_GoldValueRejectedByBand(t *testing.T) {
	// A gold quote accidentally served on the forex page must not pass
	// the forex plausibility band.
	srv := serveBody(t, `<html><body>
		<span class="QuoteStrip-lastPrice">2,651.30</span>
	</body></html>`)

	src, _ := NewCNBCSourceFromConfig(map[string]interface{}{"url": srv.URL})
	_, err := src.Fetch(context.Background())
	if !errors.Is(err, sources.ErrValueNotFound) {
		t.Errorf("Expected ErrValueNotFound, got %v", err)
	}
}
