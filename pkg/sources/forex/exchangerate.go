// Package forex provides USD/SGD exchange rate sources.
package forex

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BBJcaptain/keju2/pkg/sources"
)

const exchangeRateURL = "https://open.er-api.com/v6/latest/USD"

// ExchangeRateSource fetches USD/SGD from ExchangeRate-API (free, no key).
type ExchangeRateSource struct {
	*sources.BaseSource
}

type exchangeRateResponse struct {
	Result string             `json:"result"`
	Rates  map[string]float64 `json:"rates"`
}

// NewExchangeRateSourceFromConfig creates a new ExchangeRateSource from config.
func NewExchangeRateSourceFromConfig(config map[string]interface{}) (sources.Source, error) {
	logger := sources.GetLoggerFromConfig(config)
	url := sources.GetStringFromConfig(config, "url", exchangeRateURL)
	timeout := sources.GetTimeoutFromConfig(config, 10*time.Second)

	base := sources.NewBaseSource("exchangerate_api", sources.RoleForexRate, url, timeout, logger)
	base.SetUserAgent(sources.GetStringFromConfig(config, "user_agent", ""))

	return &ExchangeRateSource{BaseSource: base}, nil
}

// Fetch performs one fetch-and-parse attempt.
func (s *ExchangeRateSource) Fetch(ctx context.Context) (sources.Reading, error) {
	body, err := s.Get(ctx)
	if err != nil {
		return s.FailedReading(err), err
	}

	var data exchangeRateResponse
	if err := json.Unmarshal(body, &data); err != nil {
		err = fmt.Errorf("failed to decode response: %w", err)
		return s.FailedReading(err), err
	}

	if data.Result != "success" {
		err = fmt.Errorf("%w: result=%s", sources.ErrInvalidResponse, data.Result)
		return s.FailedReading(err), err
	}

	raw, ok := data.Rates["SGD"]
	if !ok {
		err = fmt.Errorf("%w: SGD rate missing", sources.ErrValueNotFound)
		return s.FailedReading(err), err
	}

	rate := decimal.NewFromFloat(raw)
	if err := sources.CheckBand(rate, sources.ForexBand); err != nil {
		return s.FailedReading(err), err
	}

	s.Logger().Debug("Extracted USD/SGD rate", "source", s.Name(), "rate", rate.String())
	return s.ScalarReading(rate), nil
}
