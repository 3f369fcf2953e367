package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ecocart/backend/internal/domain"
	"github.com/gocolly/colly/v2"
	"golang.org/x/time/rate"
)

// maxFetchBytes bounds how much of a remote resource is read.
const maxFetchBytes = 8 << 20

// FetcherConfig holds page-fetching configuration
type FetcherConfig struct {
	Timeout   time.Duration
	UserAgent string
}

// Fetcher retrieves retailer pages and image bytes. Outbound requests share
// a rate limiter so enrichment cannot hammer a storefront.
type Fetcher struct {
	config      FetcherConfig
	httpClient  *http.Client
	rateLimiter *rate.Limiter
}

// NewFetcher creates a new page fetcher
func NewFetcher(cfg FetcherConfig) *Fetcher {
	if cfg.Timeout == 0 {
		cfg.Timeout = 8 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "EcoCart/1.0"
	}

	return &Fetcher{
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		rateLimiter: rate.NewLimiter(rate.Limit(2), 5),
	}
}

// FetchHTML retrieves the page body as HTML. A fresh collector is created
// per request so no state leaks between candidates.
func (f *Fetcher) FetchHTML(ctx context.Context, targetURL string) (string, error) {
	if err := f.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter error: %w", err)
	}

	c := colly.NewCollector(
		colly.UserAgent(f.config.UserAgent),
	)
	c.SetRequestTimeout(f.config.Timeout)

	var body string
	var fetchErr error

	c.OnResponse(func(r *colly.Response) {
		body = string(r.Body)
	})
	c.OnError(func(r *colly.Response, err error) {
		fetchErr = fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	})

	if err := c.Visit(targetURL); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}
	if fetchErr != nil {
		return "", fetchErr
	}
	return body, nil
}

// FetchBytes retrieves a raw resource (typically an image) and reports its
// Content-Type.
func (f *Fetcher) FetchBytes(ctx context.Context, targetURL string) ([]byte, string, error) {
	if err := f.rateLimiter.Wait(ctx); err != nil {
		return nil, "", fmt.Errorf("rate limiter error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}
	req.Header.Set("User-Agent", f.config.UserAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("%w: status %d", domain.ErrFetchFailed, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}
	return data, resp.Header.Get("Content-Type"), nil
}
