// ABOUTME: Standard HTTP client implementation with retry logic and timeout support
// ABOUTME: Outbound calls to translation and content services, optionally throttled by a token bucket

package standard

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"digests-a11y/core/interfaces"

	"golang.org/x/time/rate"
)

const (
	maxRetries       = 3
	defaultUserAgent = "DigestsA11y/1.0"
)

// StandardHTTPClient implements the HTTPClient interface using standard library
type StandardHTTPClient struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
}

// Option configures a StandardHTTPClient
type Option func(*StandardHTTPClient)

// WithRateLimit throttles outbound requests to rps with the given burst.
// A non-positive rps leaves requests unthrottled.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *StandardHTTPClient) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithUserAgent overrides the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *StandardHTTPClient) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// NewStandardHTTPClient creates a new HTTP client with the specified timeout
func NewStandardHTTPClient(timeout time.Duration, opts ...Option) *StandardHTTPClient {
	c := &StandardHTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get performs an HTTP GET request, retrying network failures and 5xx responses
func (c *StandardHTTPClient) Get(ctx context.Context, url string) (interfaces.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff: 100ms, 200ms
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		if err := c.wait(ctx); err != nil {
			return nil, err
		}

		resp, err = c.client.Do(req)
		if err != nil {
			resp = nil
			lastErr = err
			continue
		}

		// Don't retry on success or 4xx errors
		if resp.StatusCode < 500 {
			break
		}

		lastErr = fmt.Errorf("server returned %d", resp.StatusCode)
		// The final 5xx response is handed back to the caller
		if attempt < maxRetries-1 {
			resp.Body.Close()
			resp = nil
		}
	}

	if resp == nil {
		return nil, lastErr
	}

	return newResponse(resp), nil
}

func (c *StandardHTTPClient) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	return nil
}

func newResponse(resp *http.Response) *httpResponse {
	return &httpResponse{
		statusCode: resp.StatusCode,
		body:       resp.Body,
		headers:    resp.Header,
	}
}

// httpResponse implements the Response interface
type httpResponse struct {
	statusCode int
	body       io.ReadCloser
	headers    http.Header
}

// StatusCode returns the HTTP status code
func (r *httpResponse) StatusCode() int {
	return r.statusCode
}

// Body returns the response body
func (r *httpResponse) Body() io.ReadCloser {
	return r.body
}

// Header returns the value of the specified header
func (r *httpResponse) Header(key string) string {
	return r.headers.Get(key)
}
