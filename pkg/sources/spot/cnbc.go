package spot

import (
	"context"
	"time"

	"github.com/BBJcaptain/keju2/pkg/sources"
)

const cnbcGoldURL = "https://www.cnbc.com/quotes/XAU="

// CNBCSource scrapes XAUUSD spot from the CNBC quote page. Markup drifts,
// so extraction runs the shared selector chain instead of pinning one class.
type CNBCSource struct {
	*sources.BaseSource
}

// NewCNBCSourceFromConfig creates a new CNBCSource from config.
func NewCNBCSourceFromConfig(config map[string]interface{}) (sources.Source, error) {
	logger := sources.GetLoggerFromConfig(config)
	url := sources.GetStringFromConfig(config, "url", cnbcGoldURL)
	timeout := sources.GetTimeoutFromConfig(config, 10*time.Second)

	base := sources.NewBaseSource("cnbc", sources.RoleGoldSpot, url, timeout, logger)
	base.SetUserAgent(sources.GetStringFromConfig(config, "user_agent", ""))

	return &CNBCSource{BaseSource: base}, nil
}

// Fetch performs one fetch-and-parse attempt.
func (s *CNBCSource) Fetch(ctx context.Context) (sources.Reading, error) {
	body, err := s.Get(ctx)
	if err != nil {
		return s.FailedReading(err), err
	}

	price, err := sources.ExtractQuoteFromHTML(body, sources.GoldSpotBand)
	if err != nil {
		return s.FailedReading(err), err
	}

	s.Logger().Debug("Extracted gold spot price", "source", s.Name(), "price", price.String())
	return s.ScalarReading(price), nil
}
