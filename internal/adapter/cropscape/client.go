package cropscape

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/cdl-history-service/internal/observability"
	"golang.org/x/time/rate"
)

// maxBodyBytes caps how much of a GetCDLValue response is read. Real
// responses are a few hundred bytes.
const maxBodyBytes = 64 << 10

// Client implements domain.CDLSource against the CropScape GetCDLValue service.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	coverage   *Coverage
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a CropScape client. Every request waits on a shared token
// bucket allowing ratePerSec requests per second with a burst of one, and is
// bounded by timeout.
func NewClient(baseURL string, timeout time.Duration, ratePerSec float64, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:  baseURL,
		limiter:  rate.NewLimiter(rate.Limit(ratePerSec), 1),
		coverage: CONUSCoverage(),
		metrics:  metrics,
		logger:   logger,
	}
}

// FetchValue returns the raw GetCDLValue body for a WGS-84 point and layer year.
// Points outside the CDL extent fail with ErrOutsideCoverage before any request
// is made.
func (c *Client) FetchValue(ctx context.Context, lat, lng float64, year int) ([]byte, error) {
	x, y := toAlbers(lat, lng)
	if !c.coverage.Contains(x, y) {
		return nil, fmt.Errorf("%w: %.6f,%.6f", ErrOutsideCoverage, lat, lng)
	}

	params := url.Values{
		"year": {strconv.Itoa(year)},
		"x":    {strconv.FormatFloat(x, 'f', 3, 64)},
		"y":    {strconv.FormatFloat(y, 'f', 3, 64)},
	}
	return c.doRequest(ctx, c.baseURL+"?"+params.Encode())
}

func (c *Client) doRequest(ctx context.Context, fullURL string) ([]byte, error) {
	start := time.Now()
	defer func() {
		c.metrics.UpstreamDuration.Observe(time.Since(start).Seconds())
	}()

	if err := c.limiter.Wait(ctx); err != nil {
		c.metrics.UpstreamRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("cdl value request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.metrics.UpstreamRequests.WithLabelValues("status").Inc()
		return nil, fmt.Errorf("cropscape API error: status %d: %s", resp.StatusCode, body)
	}

	c.metrics.UpstreamRequests.WithLabelValues("success").Inc()
	c.logger.Debug("cdl value fetched", "url", fullURL, "duration", time.Since(start))
	return body, nil
}
