package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/BBJcaptain/keju2/pkg/logging"
	"github.com/BBJcaptain/keju2/pkg/metrics"
	"github.com/shopspring/decimal"
)

const (
	// defaultUserAgent mimics a desktop browser; several upstreams serve
	// reduced or blocked content to obvious bots.
	defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	defaultAccept         = "text/html,application/xhtml+xml,application/xml;q=0.9,application/json,*/*;q=0.8"
	defaultAcceptLanguage = "en-US,en;q=0.9"

	// maxBodyBytes caps response reads; upstream pages are small.
	maxBodyBytes = 4 << 20
)

// BaseSource provides common functionality for all price sources: the
// HTTP client with its per-source timeout, request headers and the logger.
type BaseSource struct {
	name      string
	role      Role
	url       string
	userAgent string
	referer   string
	client    *http.Client
	logger    *logging.Logger
}

// NewBaseSource creates a new base source.
func NewBaseSource(name string, role Role, url string, timeout time.Duration, logger *logging.Logger) *BaseSource {
	if logger == nil {
		logger = logging.NewNoopLogger()
	}
	return &BaseSource{
		name:      name,
		role:      role,
		url:       url,
		userAgent: defaultUserAgent,
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Name returns the source name
func (b *BaseSource) Name() string {
	return b.name
}

// Role returns the source role
func (b *BaseSource) Role() Role {
	return b.role
}

// URL returns the configured target URL
func (b *BaseSource) URL() string {
	return b.url
}

// Logger returns the logger
func (b *BaseSource) Logger() *logging.Logger {
	return b.logger
}

// SetReferer sets a Referer header to send with each request.
func (b *BaseSource) SetReferer(referer string) {
	b.referer = referer
}

// SetUserAgent overrides the default browser User-Agent.
func (b *BaseSource) SetUserAgent(ua string) {
	if ua != "" {
		b.userAgent = ua
	}
}

// Get performs a single GET against the configured URL and returns the
// response body. Non-2xx statuses, transport failures and oversized
// bodies all come back as errors; there is no retry.
func (b *BaseSource) Get(ctx context.Context) ([]byte, error) {
	start := time.Now()
	body, err := b.doGet(ctx)
	metrics.RecordFetch(b.name, string(b.role), err == nil, time.Since(start))
	return body, err
}

func (b *BaseSource) doGet(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", b.userAgent)
	req.Header.Set("Accept", defaultAccept)
	req.Header.Set("Accept-Language", defaultAcceptLanguage)
	if b.referer != "" {
		req.Header.Set("Referer", b.referer)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", b.url, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusTooManyRequests {
		b.logger.Warn("Rate limit exceeded", "source", b.name)
		return nil, fmt.Errorf("%w", ErrRateLimitExceeded)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return body, nil
}

// ScalarReading builds a successful Reading carrying a single value.
func (b *BaseSource) ScalarReading(value decimal.Decimal) Reading {
	return Reading{Role: b.role, Source: b.name, Value: value}
}

// BarsReading builds a successful Reading carrying vendor bar prices.
func (b *BaseSource) BarsReading(bars []BarPrice) Reading {
	return Reading{Role: b.role, Source: b.name, Bars: bars}
}

// FailedReading builds a failed Reading for this source.
func (b *BaseSource) FailedReading(err error) Reading {
	return Reading{Role: b.role, Source: b.name, Err: err}
}
