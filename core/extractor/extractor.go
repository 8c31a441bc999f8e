// ABOUTME: Content extractor that turns an HTML tree into speakable units in reading order
// ABOUTME: Walks the main content region pre-order, skipping hidden, technical and control-surface nodes

package extractor

import (
	"iter"
	"slices"
	"strings"
	"unicode/utf8"

	"digests-a11y/core/domain"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Options controls region selection and filtering
type Options struct {
	// MainSelector locates the main content region
	MainSelector string

	// FallbackSelector is used when no main region is marked
	FallbackSelector string

	// ControlSelector matches the reader's own toolbar so it is never read aloud
	ControlSelector string

	// MinLength is the minimum trimmed rune count of a unit
	MinLength int
}

// DefaultOptions returns the selectors used by the Digests web client
func DefaultOptions() Options {
	return Options{
		MainSelector:     `main, [role="main"]`,
		FallbackSelector: "body",
		ControlSelector:  "[data-a11y-controls]",
		MinLength:        3,
	}
}

// technical nodes are never content
var skippedTags = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
	"svg":      true,
	"math":     true,
	"canvas":   true,
	"iframe":   true,
	"object":   true,
	"embed":    true,
	"head":     true,
}

// block-level kinds that produce units
var acceptedTags = map[string]bool{
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"p": true, "li": true, "dt": true, "dd": true,
	"td": true, "th": true, "caption": true, "figcaption": true,
	"blockquote": true, "label": true,
	"main": true, "div": true, "section": true, "article": true,
	"aside": true, "header": true, "footer": true,
	"a": true, "button": true, "img": true,
}

// inline kinds whose text is folded into the enclosing block
var inlineTags = map[string]bool{
	"span": true, "strong": true, "b": true, "em": true, "i": true, "u": true,
	"small": true, "a": true, "time": true, "code": true, "mark": true,
	"abbr": true, "cite": true, "q": true, "sub": true, "sup": true, "br": true,
}

// Extract returns the speakable units under root. Each range over the returned
// sequence performs one fresh scan with its own duplicate set.
func Extract(root *html.Node, opts Options) iter.Seq[domain.SpeakableUnit] {
	opts = withDefaults(opts)
	return func(yield func(domain.SpeakableUnit) bool) {
		if root == nil {
			return
		}
		w := &walker{
			opts:     opts,
			seen:     make(map[string]struct{}),
			controls: matchSet(root, opts.ControlSelector),
			yield:    yield,
		}
		w.walk(findRegion(root, opts))
	}
}

// Collect materialises a scan into a slice
func Collect(units iter.Seq[domain.SpeakableUnit]) []domain.SpeakableUnit {
	return slices.Collect(units)
}

func withDefaults(opts Options) Options {
	def := DefaultOptions()
	if opts.MainSelector == "" {
		opts.MainSelector = def.MainSelector
	}
	if opts.FallbackSelector == "" {
		opts.FallbackSelector = def.FallbackSelector
	}
	if opts.ControlSelector == "" {
		opts.ControlSelector = def.ControlSelector
	}
	if opts.MinLength <= 0 {
		opts.MinLength = def.MinLength
	}
	return opts
}

// findRegion picks the main region, then the fallback region, then root itself
func findRegion(root *html.Node, opts Options) *html.Node {
	sel := goquery.NewDocumentFromNode(root).Selection
	for _, selector := range []string{opts.MainSelector, opts.FallbackSelector} {
		if sel.Is(selector) {
			return root
		}
		if match := sel.Find(selector).First(); match.Length() > 0 {
			return match.Get(0)
		}
	}
	return root
}

func matchSet(root *html.Node, selector string) map[*html.Node]struct{} {
	set := make(map[*html.Node]struct{})
	sel := goquery.NewDocumentFromNode(root).Selection
	for _, n := range sel.Find(selector).Nodes {
		set[n] = struct{}{}
	}
	if sel.Is(selector) {
		set[root] = struct{}{}
	}
	return set
}

type walker struct {
	opts     Options
	seen     map[string]struct{}
	controls map[*html.Node]struct{}
	yield    func(domain.SpeakableUnit) bool
}

// walk visits n pre-order and reports whether the scan should continue
func (w *walker) walk(n *html.Node) bool {
	switch n.Type {
	case html.DocumentNode:
		return w.walkChildren(n, false)
	case html.ElementNode:
	default:
		return true
	}

	if w.rejected(n) {
		return true
	}

	folded := false
	if acceptedTags[n.Data] {
		text := directText(n, w)
		if text != "" {
			folded = true
			if !w.emit(n, text) {
				return false
			}
		}
	}
	return w.walkChildren(n, folded)
}

// walkChildren descends into n. When n's inline descendants were folded into
// its own unit they are not visited again, but blocks nested inside them are.
func (w *walker) walkChildren(n *html.Node, folded bool) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if folded && c.Type == html.ElementNode && inlineTags[c.Data] {
			if w.rejected(c) {
				continue
			}
			if !w.walkChildren(c, true) {
				return false
			}
			continue
		}
		if !w.walk(c) {
			return false
		}
	}
	return true
}

func (w *walker) emit(n *html.Node, text string) bool {
	if utf8.RuneCountInString(text) < w.opts.MinLength {
		return true
	}
	if _, dup := w.seen[text]; dup {
		return true
	}
	w.seen[text] = struct{}{}
	return w.yield(domain.SpeakableUnit{Ref: n, Text: text})
}

func (w *walker) rejected(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if skippedTags[n.Data] || n.Namespace == "svg" || n.Namespace == "math" {
		return true
	}
	if _, ok := w.controls[n]; ok {
		return true
	}
	if strings.EqualFold(attr(n, "aria-hidden"), "true") {
		return true
	}
	if hasAttr(n, "hidden") {
		return true
	}
	style := strings.ReplaceAll(strings.ToLower(attr(n, "style")), " ", "")
	return strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden")
}

// directText is the text a node contributes on its own: its accessible label,
// an image description, or its text plus the text of inline descendants.
func directText(n *html.Node, w *walker) string {
	if label := strings.TrimSpace(attr(n, "aria-label")); label != "" {
		return normalizeSpace(label)
	}
	if n.Data == "img" {
		if alt := strings.TrimSpace(attr(n, "alt")); alt != "" {
			return normalizeSpace(alt)
		}
		return normalizeSpace(attr(n, "title"))
	}

	var b strings.Builder
	collectInline(n, w, &b)
	return normalizeSpace(b.String())
}

func collectInline(n *html.Node, w *walker, b *strings.Builder) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			b.WriteString(c.Data)
		case html.ElementNode:
			if !inlineTags[c.Data] || w.rejected(c) {
				continue
			}
			if c.Data == "br" {
				b.WriteByte(' ')
				continue
			}
			collectInline(c, w, b)
		}
	}
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}
