package spot

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BBJcaptain/keju2/pkg/sources"
)

const metalsLiveURL = "https://api.metals.live/v1/spot"

// MetalsLiveSource fetches XAUUSD spot from the Metals.live API (free, no key).
// The response is an array of single-key objects: [{"gold": 2650.5}, ...].
type MetalsLiveSource struct {
	*sources.BaseSource
}

// NewMetalsLiveSourceFromConfig creates a new MetalsLiveSource from config.
func NewMetalsLiveSourceFromConfig(config map[string]interface{}) (sources.Source, error) {
	logger := sources.GetLoggerFromConfig(config)
	url := sources.GetStringFromConfig(config, "url", metalsLiveURL)
	timeout := sources.GetTimeoutFromConfig(config, 10*time.Second)

	base := sources.NewBaseSource("metals_live", sources.RoleGoldSpot, url, timeout, logger)
	base.SetUserAgent(sources.GetStringFromConfig(config, "user_agent", ""))

	return &MetalsLiveSource{BaseSource: base}, nil
}

// Fetch performs one fetch-and-parse attempt.
func (s *MetalsLiveSource) Fetch(ctx context.Context) (sources.Reading, error) {
	body, err := s.Get(ctx)
	if err != nil {
		return s.FailedReading(err), err
	}

	var items []map[string]float64
	if err := json.Unmarshal(body, &items); err != nil {
		err = fmt.Errorf("failed to decode response: %w", err)
		return s.FailedReading(err), err
	}

	for _, item := range items {
		raw, ok := item["gold"]
		if !ok {
			continue
		}
		price := decimal.NewFromFloat(raw)
		if err := sources.CheckBand(price, sources.GoldSpotBand); err != nil {
			return s.FailedReading(err), err
		}
		s.Logger().Debug("Extracted gold spot price", "source", s.Name(), "price", price.String())
		return s.ScalarReading(price), nil
	}

	err = fmt.Errorf("%w: gold entry missing", sources.ErrValueNotFound)
	return s.FailedReading(err), err
}
