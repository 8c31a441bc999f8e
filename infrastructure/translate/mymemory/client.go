// ABOUTME: MyMemory machine translation client behind the core Translator interface
// ABOUTME: Inspects the loosely typed payload with gjson and flags warning or error answers as rejected

package mymemory

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"digests-a11y/core/errors"
	"digests-a11y/core/interfaces"

	"github.com/tidwall/gjson"
)

const (
	// DefaultEndpoint is the public MyMemory GET endpoint
	DefaultEndpoint = "https://api.mymemory.translated.net/get"

	apiName         = "MyMemory"
	maxResponseSize = 1 << 20
)

// Markers MyMemory puts in translatedText instead of a translation
var rejectedMarkers = []string{"MYMEMORY WARNING", "INVALID LANGUAGE PAIR", "INVALID SOURCE LANGUAGE", "INVALID TARGET LANGUAGE"}

// Client implements interfaces.Translator against the MyMemory API
type Client struct {
	http     interfaces.HTTPClient
	endpoint string
	email    string
}

// Option configures a Client
type Option func(*Client)

// WithEndpoint overrides the API endpoint. An empty endpoint keeps the default.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

// WithEmail sends the contact address MyMemory uses to raise the daily quota
func WithEmail(email string) Option {
	return func(c *Client) { c.email = email }
}

// NewClient creates a MyMemory client using the given HTTP transport
func NewClient(httpClient interfaces.HTTPClient, opts ...Option) *Client {
	c := &Client{http: httpClient, endpoint: DefaultEndpoint}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Translate returns text translated from source to target
func (c *Client) Translate(ctx context.Context, text, source, target string) (string, error) {
	params := url.Values{}
	params.Set("q", text)
	params.Set("langpair", source+"|"+target)
	if c.email != "" {
		params.Set("de", c.email)
	}

	resp, err := c.http.Get(ctx, c.endpoint+"?"+params.Encode())
	if err != nil {
		return "", errors.WrapError(err, "translation request failed")
	}
	defer resp.Body().Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body(), maxResponseSize))
	if err != nil {
		return "", errors.WrapError(err, "failed to read translation response")
	}

	if resp.StatusCode() >= 400 {
		return "", &errors.ExternalAPIError{
			StatusCode: resp.StatusCode(),
			Message:    strings.TrimSpace(string(body)),
			API:        apiName,
		}
	}

	return parseResponse(body)
}

// parseResponse extracts the translation. responseStatus arrives as either a
// number or a string depending on the failure path.
func parseResponse(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", &errors.ExternalAPIError{StatusCode: 200, Message: "malformed response", API: apiName}
	}
	result := gjson.ParseBytes(body)

	status := int(result.Get("responseStatus").Int())
	details := result.Get("responseDetails").String()
	translated := result.Get("responseData.translatedText").String()

	if status != 0 && status != 200 {
		if details == "" {
			details = translated
		}
		return "", &errors.TranslationRejectedError{Status: status, Details: details}
	}

	upper := strings.ToUpper(translated)
	for _, marker := range rejectedMarkers {
		if strings.Contains(upper, marker) {
			return "", &errors.TranslationRejectedError{Status: status, Details: translated}
		}
	}

	if strings.TrimSpace(translated) == "" {
		return "", fmt.Errorf("%s returned an empty translation", apiName)
	}
	return translated, nil
}
