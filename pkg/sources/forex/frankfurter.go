package forex

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BBJcaptain/keju2/pkg/sources"
)

const frankfurterURL = "https://api.frankfurter.dev/v1/latest?base=USD&symbols=SGD"

// FrankfurterSource fetches USD/SGD from the Frankfurter API (free, no
// API key, ECB reference data).
// https://frankfurter.dev/
type FrankfurterSource struct {
	*sources.BaseSource
}

type frankfurterResponse struct {
	Amount float64            `json:"amount"`
	Base   string             `json:"base"`
	Date   string             `json:"date"`
	Rates  map[string]float64 `json:"rates"`
}

// NewFrankfurterSourceFromConfig creates a new FrankfurterSource from config.
func NewFrankfurterSourceFromConfig(config map[string]interface{}) (sources.Source, error) {
	logger := sources.GetLoggerFromConfig(config)
	url := sources.GetStringFromConfig(config, "url", frankfurterURL)
	timeout := sources.GetTimeoutFromConfig(config, 10*time.Second)

	base := sources.NewBaseSource("frankfurter", sources.RoleForexRate, url, timeout, logger)
	base.SetUserAgent(sources.GetStringFromConfig(config, "user_agent", ""))

	return &FrankfurterSource{BaseSource: base}, nil
}

// Fetch performs one fetch-and-parse attempt.
func (s *FrankfurterSource) Fetch(ctx context.Context) (sources.Reading, error) {
	body, err := s.Get(ctx)
	if err != nil {
		return s.FailedReading(err), err
	}

	var data frankfurterResponse
	if err := json.Unmarshal(body, &data); err != nil {
		err = fmt.Errorf("failed to decode response: %w", err)
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
