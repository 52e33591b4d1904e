// Package spot provides XAUUSD spot price sources.
package spot

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BBJcaptain/keju2/pkg/sources"
)

const goldpriceURL = "https://data-asg.goldprice.org/dbXRates/USD"

// GoldPriceSource fetches XAUUSD spot from the GoldPrice.org API (free, no key).
type GoldPriceSource struct {
	*sources.BaseSource
}

type goldpriceResponse struct {
	Items []struct {
		Currency string  `json:"curr"`
		XAUPrice float64 `json:"xauPrice"`
	} `json:"items"`
}

// NewGoldPriceSourceFromConfig creates a new GoldPriceSource from config.
func NewGoldPriceSourceFromConfig(config map[string]interface{}) (sources.Source, error) {
	logger := sources.GetLoggerFromConfig(config)
	url := sources.GetStringFromConfig(config, "url", goldpriceURL)
	timeout := sources.GetTimeoutFromConfig(config, 10*time.Second)

	base := sources.NewBaseSource("goldprice_org", sources.RoleGoldSpot, url, timeout, logger)
	base.SetUserAgent(sources.GetStringFromConfig(config, "user_agent", ""))

	return &GoldPriceSource{BaseSource: base}, nil
}

// Fetch performs one fetch-and-parse attempt.
func (s *GoldPriceSource) Fetch(ctx context.Context) (sources.Reading, error) {
	body, err := s.Get(ctx)
	if err != nil {
		return s.FailedReading(err), err
	}

	var data goldpriceResponse
	if err := json.Unmarshal(body, &data); err != nil {
		err = fmt.Errorf("failed to decode response: %w", err)
		return s.FailedReading(err), err
	}

	if len(data.Items) == 0 {
		err = fmt.Errorf("%w: no items in response", sources.ErrInvalidResponse)
		return s.FailedReading(err), err
	}

	price := decimal.NewFromFloat(data.Items[0].XAUPrice)
	if err := sources.CheckBand(price, sources.GoldSpotBand); err != nil {
		return s.FailedReading(err), err
	}

	s.Logger().Debug("Extracted gold spot price", "source", s.Name(), "price", price.String())
	return s.ScalarReading(price), nil
}
