package overpass

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"synthgrid/internal/geo"
)

const defaultUserAgent = "synthgrid/1.0"

// Client issues Overpass queries against a rotation of backend URLs with
// retries and exponential backoff. It is safe for concurrent use; the only
// shared state is the rotation cursor, which needs no stronger guarantee
// than rough distribution.
type Client struct {
	backends    []string
	httpClient  *http.Client
	maxAttempts int
	backoffBase time.Duration
	timeoutSec  int
	userAgent   string
	cursor      atomic.Uint64
}

// Option configures a Client.
type Option func(*Client)

// WithMaxAttempts sets the per-fetch attempt budget.
func WithMaxAttempts(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// WithBackoffBase sets the initial retry delay.
func WithBackoffBase(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.backoffBase = d
		}
	}
}

// WithUserAgent sets the User-Agent header, which public Overpass instances
// require for identification.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// NewClient constructs a client over one or more backend URLs.
func NewClient(backends []string, timeout time.Duration, opts ...Option) (*Client, error) {
	cleaned := make([]string, 0, len(backends))
	for _, backend := range backends {
		backend = strings.TrimSpace(backend)
		if backend != "" {
			cleaned = append(cleaned, strings.TrimRight(backend, "/"))
		}
	}
	if len(cleaned) == 0 {
		return nil, errors.New("overpass: at least one backend url required")
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	c := &Client{
		backends:    cleaned,
		httpClient:  &http.Client{Timeout: timeout},
		maxAttempts: 3,
		backoffBase: time.Second,
		timeoutSec:  int(timeout / time.Second),
		userAgent:   defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Fetch retrieves raw building elements for a region. Transient failures are
// retried against the next backend in the rotation; a fatal response stops
// immediately. The returned error, if any, is the last attempt's error.
func (c *Client) Fetch(ctx context.Context, region geo.Region, buildingTypes []string) ([]Element, error) {
	if err := region.Validate(); err != nil {
		return nil, err
	}
	query := BuildingQuery(region, c.timeoutSec, buildingTypes)

	var lastErr error
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if attempt > 0 {
			if err := sleepContext(ctx, c.backoffBase<<(attempt-1)); err != nil {
				return nil, err
			}
		}
		backend := c.nextBackend()
		elements, err := c.do(ctx, backend, query)
		if err == nil {
			return elements, nil
		}
		lastErr = err

		var fatal *FatalError
		if errors.As(err, &fatal) {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

// Backends returns the configured rotation list.
func (c *Client) Backends() []string {
	return append([]string(nil), c.backends...)
}

func (c *Client) nextBackend() string {
	idx := c.cursor.Add(1) - 1
	return c.backends[idx%uint64(len(c.backends))]
}

func (c *Client) do(ctx context.Context, backend, query string) ([]Element, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, backend, strings.NewReader(query))
	if err != nil {
		return nil, &FatalError{Backend: backend, Body: err.Error()}
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RetryableError{Backend: backend, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode
	case resp.StatusCode >= 500, resp.StatusCode == http.StatusTooManyRequests:
		io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<14))
		return nil, &RetryableError{Backend: backend, Status: resp.StatusCode}
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<12))
		return nil, &FatalError{Backend: backend, Status: resp.StatusCode, Body: string(body)}
	}

	var decoded Response
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		// Truncated or garbage bodies usually mean an overloaded backend.
		return nil, &RetryableError{Backend: backend, Err: fmt.Errorf("decode response: %w", err)}
	}
	return decoded.Elements, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
