package forex

import (
	"context"
	"time"

	"github.com/BBJcaptain/keju2/pkg/sources"
)

const cnbcForexURL = "https://www.cnbc.com/quotes/SGD=X"

// CNBCSource scrapes USD/SGD from the CNBC quote page using the shared
// selector chain.
type CNBCSource struct {
	*sources.BaseSource
}

// NewCNBCSourceFromConfig creates a new CNBCSource from config.
func NewCNBCSourceFromConfig(config map[string]interface{}) (sources.Source, error) {
	logger := sources.GetLoggerFromConfig(config)
	url := sources.GetStringFromConfig(config, "url", cnbcForexURL)
	timeout := sources.GetTimeoutFromConfig(config, 10*time.Second)

	base := sources.NewBaseSource("cnbc", sources.RoleForexRate, url, timeout, logger)
	base.SetUserAgent(sources.GetStringFromConfig(config, "user_agent", ""))

	return &CNBCSource{BaseSource: base}, nil
}

// Fetch performs one fetch-and-parse attempt.
func (s *CNBCSource) Fetch(ctx context.Context) (sources.Reading, error) {
	body, err := s.Get(ctx)
	if err != nil {
		return s.FailedReading(err), err
	}

	rate, err := sources.ExtractQuoteFromHTML(body, sources.ForexBand)
	if err != nil {
		return s.FailedReading(err), err
	}

	s.Logger().Debug("Extracted USD/SGD rate", "source", s.Name(), "rate", rate.String())
	return s.ScalarReading(rate), nil
}
