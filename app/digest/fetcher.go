package digest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Fetcher retrieves raw feed documents. A shared rate limiter spreads
// outbound requests so a full chunk starting at once doesn't burst-hit
// upstream servers.
type Fetcher struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
	timeout    time.Duration
}

func NewFetcher(httpClient *http.Client, userAgent string, timeout time.Duration, perSecond float64) *Fetcher {
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}

	return &Fetcher{
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(perSecond), burst),
		userAgent:  userAgent,
		timeout:    timeout,
	}
}

// Run fetches one feed document. Transport errors and non-success statuses
// are returned as errors; the caller decides feed-level policy.
func (f *Fetcher) Run(ctx context.Context, url string) ([]byte, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait failed: %w", err)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
