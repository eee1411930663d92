// Package request provides the shared HTTP client used to talk to upstream
// services, with response caching, retry with exponential backoff, and
// per-provider usage tracking.
package request

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"geotruth/pkg/cache"
	"geotruth/pkg/tracker"
	"geotruth/pkg/version"
)

var defaultUserAgent = fmt.Sprintf("GeoTruth/%s", version.Version)

// Client handles HTTP requests with caching and tracking.
type Client struct {
	httpClient *http.Client
	cache      cache.Cacher
	tracker    *tracker.Tracker
}

// New creates a new Client.
func New(c cache.Cacher, t *tracker.Tracker) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 120 * time.Second},
		cache:      c,
		tracker:    t,
	}
}

// Get performs a GET request, consulting the cache first if a key is provided.
func (c *Client) Get(ctx context.Context, u, cacheKey string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, u, nil, nil, cacheKey)
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, u string, body []byte, contentType string) ([]byte, error) {
	return c.do(ctx, http.MethodPost, u, body, map[string]string{"Content-Type": contentType}, "")
}

// PostWithCache performs a POST request, consulting the cache first if a key
// is provided. Useful for idempotent POST APIs like map matching.
func (c *Client) PostWithCache(ctx context.Context, u string, body []byte, headers map[string]string, cacheKey string) ([]byte, error) {
	return c.do(ctx, http.MethodPost, u, body, headers, cacheKey)
}

func (c *Client) do(ctx context.Context, method, u string, body []byte, headers map[string]string, cacheKey string) ([]byte, error) {
	parsedURL, err := url.Parse(u)
	if err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}
	provider := normalizeProvider(parsedURL.Host)

	if cacheKey != "" {
		if val, hit := c.cache.Get(ctx, cacheKey); hit {
			c.tracker.TrackCacheHit(provider)
			slog.Debug("Cache Hit", "provider", provider, "key", cacheKey)
			return val, nil
		}
		c.tracker.TrackCacheMiss(provider)
		slog.Debug("Cache Miss", "provider", provider, "key", cacheKey)
	}

	var reader io.Reader = http.NoBody
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	uaSet := false
	for k, v := range headers {
		req.Header.Set(k, v)
		if http.CanonicalHeaderKey(k) == "User-Agent" {
			uaSet = true
		}
	}
	if !uaSet {
		req.Header.Set("User-Agent", defaultUserAgent)
	}

	respBody, err := c.executeWithBackoff(req, body)
	if err != nil {
		c.tracker.TrackAPIFailure(provider)
		return nil, err
	}
	c.tracker.TrackAPISuccess(provider)

	if cacheKey != "" {
		if err := c.cache.Set(context.Background(), cacheKey, respBody, cache.DefaultTTL); err != nil {
			slog.Error("Failed to cache response", "url", req.URL, "error", err)
		}
	}
	return respBody, nil
}

func normalizeProvider(host string) string {
	if strings.HasSuffix(host, "googleapis.com") {
		return "gemini"
	}
	// Strip the port so localhost:8002 and localhost:6379 stay distinct hosts
	// but stable provider names in stats output.
	return host
}

// executeWithBackoff attempts the request with exponential backoff on
// retryable errors (network failures, 429, 5xx).
func (c *Client) executeWithBackoff(req *http.Request, body []byte) ([]byte, error) {
	maxAttempts := 3
	baseDelay := 500 * time.Millisecond

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if req.Context().Err() != nil {
			return nil, req.Context().Err()
		}

		// The body reader is consumed on each attempt.
		if body != nil {
			req.Body = io.NopCloser(bytes.NewReader(body))
		}

		slog.Debug("Network Request", "host", req.URL.Host, "path", req.URL.Path, "attempt", attempt+1)
		resp, err := c.httpClient.Do(req)

		if err != nil {
			if req.Context().Err() != nil {
				return nil, req.Context().Err()
			}

			slog.Warn("Request failed, retrying", "url", req.URL, "attempt", attempt+1, "error", err)
			if err := sleepBackoff(req.Context(), baseDelay, attempt); err != nil {
				return nil, err
			}
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || (resp.StatusCode >= 500 && resp.StatusCode < 600) {
			resp.Body.Close()
			slog.Warn("API Backoff", "status", resp.StatusCode, "url", req.URL, "attempt", attempt+1)
			if err := sleepBackoff(req.Context(), baseDelay, attempt); err != nil {
				return nil, err
			}
			continue
		}

		if resp.StatusCode >= 400 {
			resp.Body.Close()
			return nil, fmt.Errorf("api error: status %d", resp.StatusCode)
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("read error: %w", err)
		}
		return respBody, nil
	}

	return nil, fmt.Errorf("max retries exceeded")
}

func sleepBackoff(ctx context.Context, baseDelay time.Duration, attempt int) error {
	sleepDur := time.Duration(math.Pow(2, float64(attempt))) * baseDelay
	select {
	case <-time.After(sleepDur):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
