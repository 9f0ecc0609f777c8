package kovaaksapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://kovaaks.com/webapp-backend"
	rateLimitDelay = 250 * time.Millisecond
	requestTimeout = 30 * time.Second
	maxRetries     = 3
	initialBackoff = 1 * time.Second
	maxBackoff     = 16 * time.Second
)

// Client talks to the KovaaK's webapp backend with rate limiting and
// retry on transient failures.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	userAgent   string
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL. Used by tests.
func WithBaseURL(base string) Option {
	return func(c *Client) { c.baseURL = base }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a KovaaK's API client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		// 4 requests per second keeps us well under the backend's limits.
		rateLimiter: rate.NewLimiter(rate.Every(rateLimitDelay), 1),
		userAgent:   "refleks-insights/1.0",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetBenchmarkProgress retrieves a player's rank progress for one
// benchmark, keyed by Steam ID.
func (c *Client) GetBenchmarkProgress(ctx context.Context, benchmarkID int, steamID string) (*BenchmarkProgress, error) {
	u := fmt.Sprintf("%s/benchmarks/player-progress-rank-benchmark?benchmarkId=%d&steamId=%s",
		c.baseURL, benchmarkID, url.QueryEscape(steamID))

	var progress BenchmarkProgress
	if err := c.doRequest(ctx, u, &progress); err != nil {
		return nil, fmt.Errorf("failed to get benchmark %d progress for %s: %w", benchmarkID, steamID, err)
	}

	return &progress, nil
}

// GetProfile retrieves a player's webapp profile by username.
func (c *Client) GetProfile(ctx context.Context, username string) (*Profile, error) {
	u := fmt.Sprintf("%s/user/profile/by-username?username=%s", c.baseURL, url.QueryEscape(username))

	var profile Profile
	if err := c.doRequest(ctx, u, &profile); err != nil {
		return nil, fmt.Errorf("failed to get profile for %s: %w", username, err)
	}

	return &profile, nil
}

// doRequest performs a GET with rate limiting and retry logic.
func (c *Client) doRequest(ctx context.Context, url string, result interface{}) error {
	var lastErr error
	backoff := initialBackoff

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("HTTP request failed: %w", err)
			if attempt < maxRetries {
				time.Sleep(backoff)
				backoff = minDuration(backoff*2, maxBackoff)
				continue
			}
			return lastErr
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusOK:
			if readErr != nil {
				return fmt.Errorf("failed to read response body: %w", readErr)
			}
			if err := json.Unmarshal(body, result); err != nil {
				return fmt.Errorf("failed to parse JSON response: %w", err)
			}
			return nil

		case http.StatusTooManyRequests:
			lastErr = fmt.Errorf("rate limited (HTTP 429)")
			if attempt < maxRetries {
				if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
					if d, err := time.ParseDuration(retryAfter + "s"); err == nil {
						time.Sleep(d)
					} else {
						time.Sleep(backoff)
					}
				} else {
					time.Sleep(backoff)
				}
				backoff = minDuration(backoff*2, maxBackoff)
				continue
			}
			return lastErr

		case http.StatusNotFound:
			return &NotFoundError{URL: url}

		default:
			return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
