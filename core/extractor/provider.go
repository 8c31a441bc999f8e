// ABOUTME: Content providers that feed the playback controller from HTML documents
// ABOUTME: Each Units call re-reads the document source so a reading session sees current content

package extractor

import (
	"context"
	"fmt"
	"strings"

	"digests-a11y/core/domain"

	"golang.org/x/net/html"
)

// DocumentSource returns the current root of the content tree
type DocumentSource func(ctx context.Context) (*html.Node, error)

// Provider implements interfaces.ContentProvider over a DocumentSource
type Provider struct {
	source DocumentSource
	opts   Options
}

// NewDocumentProvider creates a provider that extracts from whatever the source returns
func NewDocumentProvider(source DocumentSource, opts Options) *Provider {
	return &Provider{source: source, opts: opts}
}

// NewHTMLProvider creates a provider over a fixed HTML document
func NewHTMLProvider(markup string, opts Options) *Provider {
	return NewDocumentProvider(func(ctx context.Context) (*html.Node, error) {
		return ParseHTML(markup)
	}, opts)
}

// Units extracts the current document into speakable units
func (p *Provider) Units(ctx context.Context) ([]domain.SpeakableUnit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	root, err := p.source(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load content: %w", err)
	}
	return Collect(Extract(root, p.opts)), nil
}

// ParseHTML parses markup into a document tree
func ParseHTML(markup string) (*html.Node, error) {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return root, nil
}
