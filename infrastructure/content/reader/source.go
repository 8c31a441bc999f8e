// ABOUTME: Reader-view content source built on go-readability
// ABOUTME: Fetches a page, strips it to the main article and hands the article tree to the extractor

package reader

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"digests-a11y/core/errors"
	"digests-a11y/core/extractor"
	"digests-a11y/core/interfaces"

	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

const (
	articleCacheTTL = 1 * time.Hour
	maxPageSize     = 10 << 20
)

// Source loads reader views of web pages
type Source struct {
	http   interfaces.HTTPClient
	cache  interfaces.Cache
	logger interfaces.Logger
}

// NewSource creates a source. deps.HTTPClient is required; deps.Cache is optional.
func NewSource(deps interfaces.Dependencies) *Source {
	logger := deps.Logger
	if logger == nil {
		logger = interfaces.NopLogger{}
	}
	return &Source{http: deps.HTTPClient, cache: deps.Cache, logger: logger}
}

// Provider returns a content provider that re-reads pageURL on every session
func (s *Source) Provider(pageURL string, opts extractor.Options) *extractor.Provider {
	return extractor.NewDocumentProvider(func(ctx context.Context) (*html.Node, error) {
		return s.Document(ctx, pageURL)
	}, opts)
}

// Document returns the article tree of pageURL
func (s *Source) Document(ctx context.Context, pageURL string) (*html.Node, error) {
	article, err := s.articleHTML(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	return extractor.ParseHTML(article)
}

func (s *Source) articleHTML(ctx context.Context, pageURL string) (string, error) {
	cacheKey := fmt.Sprintf("reader:%s", pageURL)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil && len(data) > 0 {
			return string(data), nil
		}
	}

	parsed, err := url.Parse(pageURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", &errors.ValidationError{Field: "url", Message: "must be an absolute URL"}
	}

	resp, err := s.http.Get(ctx, pageURL)
	if err != nil {
		return "", errors.WrapError(err, "failed to fetch page")
	}
	defer resp.Body().Close()

	if resp.StatusCode() >= 400 {
		return "", &errors.ExternalAPIError{StatusCode: resp.StatusCode(), Message: "page fetch failed", API: parsed.Host}
	}

	article, err := readability.FromReader(io.LimitReader(resp.Body(), maxPageSize), parsed)
	if err != nil {
		s.logger.Error("Failed to parse reader view", map[string]interface{}{
			"url":   pageURL,
			"error": err.Error(),
		})
		return "", errors.WrapError(err, "failed to parse reader view")
	}

	content := article.Content
	if article.Title != "" {
		content = "<h1>" + html.EscapeString(article.Title) + "</h1>" + content
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, []byte(content), articleCacheTTL); err != nil {
			s.logger.Debug("Failed to cache reader view", map[string]interface{}{
				"url":   pageURL,
				"error": err.Error(),
			})
		}
	}
	return content, nil
}
