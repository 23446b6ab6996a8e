// Package fetcher issues browser-like HTTP GETs with a rotating identity
// pool and bounded linear-backoff retries.
package fetcher

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"

	"jobscout/internal/model"
)

const (
	DefaultMaxRetries = 3
	DefaultRetryDelay = 2 * time.Second
)

// userAgents is the fixed identity pool. One entry is picked at random per
// attempt so consecutive retries present different browsers.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:126.0) Gecko/20100101 Firefox/126.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36",
}

// Options tunes a single Fetch call. Zero values fall back to defaults.
type Options struct {
	Headers    map[string]string // extra headers (e.g. session cookie), applied last
	MaxRetries int               // total attempts, default 3
	RetryDelay time.Duration     // base backoff unit, default 2s
}

// Client fetches pages. Safe for use by multiple extractors within one run.
type Client struct {
	http   *http.Client
	logger *slog.Logger
	pickUA func() string
}

// New returns a Client using httpClient (or a 30s-timeout default when nil).
func New(httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		http:   httpClient,
		logger: logger,
		pickUA: func() string { return userAgents[rand.IntN(len(userAgents))] },
	}
}

// Fetch GETs url and returns the response body. Retry policy:
//   - 429: wait RetryDelay * attempt, retry
//   - 5xx: wait RetryDelay flat, retry
//   - transport error: wait RetryDelay * attempt, retry
//   - any other non-2xx: permanent, abort immediately
//
// After MaxRetries attempts the last error is returned. Callers treat any
// error as "no data from this URL", never as a fatal run error.
func (c *Client) Fetch(ctx context.Context, url string, opts Options) (string, error) {
	maxRetries := opts.MaxRetries
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	retryDelay := opts.RetryDelay
	if retryDelay <= 0 {
		retryDelay = DefaultRetryDelay
	}

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		body, err := c.do(ctx, url, opts.Headers)
		if err == nil {
			c.logger.Debug("fetched", "url", url, "bytes", len(body), "attempt", attempt)
			return body, nil
		}

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}

		var delay time.Duration
		var httpErr *model.HTTPError
		switch {
		case errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusTooManyRequests:
			delay = retryDelay * time.Duration(attempt)
			if httpErr.RetryAfter > 0 {
				delay = httpErr.RetryAfter
			}
		case errors.As(err, &httpErr) && httpErr.StatusCode >= 500:
			delay = retryDelay
		case errors.As(err, &httpErr):
			// Other non-2xx statuses are permanent for this URL.
			return "", err
		default:
			// Transport-level failure (timeout, DNS, reset).
			delay = retryDelay * time.Duration(attempt)
		}

		lastErr = err
		if attempt == maxRetries {
			break
		}

		c.logger.Warn("fetch retrying",
			"url", url,
			"attempt", attempt,
			"max_retries", maxRetries,
			"delay", delay,
			"error", err,
		)
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("fetch cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}
	}

	c.logger.Warn("fetch gave up", "url", url, "attempts", maxRetries, "error", lastErr)
	return "", lastErr
}

func (c *Client) do(ctx context.Context, url string, extra map[string]string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}

	req.Header.Set("User-Agent", c.pickUA())
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9,he;q=0.8")
	req.Header.Set("Accept-Encoding", "gzip")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	req.Header.Set("Sec-Fetch-Dest", "document")
	req.Header.Set("Sec-Fetch-Mode", "navigate")
	req.Header.Set("Sec-Fetch-Site", "none")
	for k, v := range extra {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		io.Copy(io.Discard, resp.Body)
		return "", &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}

	reader := io.Reader(resp.Body)
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return "", fmt.Errorf("gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(body), nil
}

// parseRetryAfter parses the Retry-After header value into a duration.
// Supports seconds format (e.g. "120"). Returns zero if absent or unparseable.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
