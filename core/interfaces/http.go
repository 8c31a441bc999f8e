// ABOUTME: HTTP client contract for outbound fetches of pages, feeds and translations
// ABOUTME: Lets adapters be tested against canned responses instead of the network

package interfaces

import (
	"context"
	"io"
)

// HTTPClient performs outbound GET requests. Implementations own retries,
// timeouts and throttling.
type HTTPClient interface {
	// Get fetches url. A non-2xx status is not an error; callers inspect
	// StatusCode.
	Get(ctx context.Context, url string) (Response, error)
}

// Response is an HTTP response as seen by adapters
type Response interface {
	StatusCode() int

	// Body must be closed by the caller
	Body() io.ReadCloser

	// Header returns the value of a header, case-insensitively, or ""
	Header(key string) string
}
