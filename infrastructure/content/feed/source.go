// ABOUTME: Feed item content source built on gofeed
// ABOUTME: Renders one RSS, Atom or JSON feed item as a small article document for the extractor

package feed

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"digests-a11y/core/errors"
	"digests-a11y/core/extractor"
	"digests-a11y/core/interfaces"

	"github.com/mmcdole/gofeed"
	"golang.org/x/net/html"
)

const maxFeedSize = 10 << 20

// Item summarizes a feed entry for listing
type Item struct {
	Index int    `json:"index"`
	Title string `json:"title"`
	Link  string `json:"link"`
}

// Source loads feed items
type Source struct {
	http   interfaces.HTTPClient
	logger interfaces.Logger
}

// NewSource creates a feed source. deps.HTTPClient is required.
func NewSource(deps interfaces.Dependencies) *Source {
	logger := deps.Logger
	if logger == nil {
		logger = interfaces.NopLogger{}
	}
	return &Source{http: deps.HTTPClient, logger: logger}
}

// Provider returns a content provider for item index of feedURL, re-fetched on every session
func (s *Source) Provider(feedURL string, index int, opts extractor.Options) *extractor.Provider {
	return extractor.NewDocumentProvider(func(ctx context.Context) (*html.Node, error) {
		return s.Document(ctx, feedURL, index)
	}, opts)
}

// Items lists the entries of feedURL
func (s *Source) Items(ctx context.Context, feedURL string) ([]Item, error) {
	parsed, err := s.fetch(ctx, feedURL)
	if err != nil {
		return nil, err
	}
	items := make([]Item, 0, len(parsed.Items))
	for i, it := range parsed.Items {
		items = append(items, Item{Index: i, Title: it.Title, Link: it.Link})
	}
	return items, nil
}

// Document renders item index of feedURL as an article tree
func (s *Source) Document(ctx context.Context, feedURL string, index int) (*html.Node, error) {
	parsed, err := s.fetch(ctx, feedURL)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(parsed.Items) {
		return nil, &errors.NotFoundError{Resource: "feed item", ID: fmt.Sprintf("%s#%d", feedURL, index)}
	}
	return extractor.ParseHTML(renderItem(parsed.Items[index]))
}

func (s *Source) fetch(ctx context.Context, feedURL string) (*gofeed.Feed, error) {
	resp, err := s.http.Get(ctx, feedURL)
	if err != nil {
		return nil, errors.WrapError(err, "failed to fetch feed")
	}
	defer resp.Body().Close()

	if resp.StatusCode() >= 400 {
		return nil, &errors.ExternalAPIError{StatusCode: resp.StatusCode(), Message: "feed fetch failed", API: feedURL}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body(), maxFeedSize))
	if err != nil {
		return nil, errors.WrapError(err, "failed to read feed")
	}
	if len(body) == 0 {
		return nil, &errors.ValidationError{Field: "feed", Message: "empty feed content"}
	}

	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		s.logger.Warn("Failed to parse feed", map[string]interface{}{
			"url":   feedURL,
			"error": err.Error(),
		})
		return nil, errors.WrapError(err, "failed to parse feed")
	}
	return parsed, nil
}

// renderItem builds an article document; full content is preferred over the summary
func renderItem(item *gofeed.Item) string {
	var b strings.Builder
	b.WriteString("<html><body><main><article>")
	if item.Title != "" {
		b.WriteString("<h1>")
		b.WriteString(html.EscapeString(item.Title))
		b.WriteString("</h1>")
	}
	if author := itemAuthor(item); author != "" {
		b.WriteString("<p>By ")
		b.WriteString(html.EscapeString(author))
		b.WriteString("</p>")
	}
	body := item.Content
	if strings.TrimSpace(body) == "" {
		body = item.Description
	}
	if !strings.Contains(body, "<") {
		body = "<p>" + html.EscapeString(body) + "</p>"
	}
	b.WriteString(body)
	b.WriteString("</article></main></body></html>")
	return b.String()
}

func itemAuthor(item *gofeed.Item) string {
	if item.Author != nil && item.Author.Name != "" {
		return item.Author.Name
	}
	if item.ITunesExt != nil {
		return item.ITunesExt.Author
	}
	return ""
}
