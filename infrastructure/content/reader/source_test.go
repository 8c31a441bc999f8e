package reader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"digests-a11y/core/errors"
	"digests-a11y/core/extractor"
	"digests-a11y/core/interfaces"
	"digests-a11y/infrastructure/cache/memory"
	"digests-a11y/infrastructure/http/standard"
)

const page = `<!DOCTYPE html>
<html><head><title>Quiet Streets</title></head>
<body>
<nav><a href="/">Home</a> <a href="/about">About us</a></nav>
<article>
<h1>Quiet Streets</h1>
<p>The city council approved a plan to close three downtown streets to cars on weekends, turning them into walking zones for residents and visitors alike.</p>
<p>Local shop owners were divided on the proposal, with some expecting more foot traffic while others worried about deliveries and parking for their customers.</p>
<p>The trial begins next month and will run through the end of the summer, after which the council will review traffic and sales figures before deciding.</p>
<p>Residents can share their views at a public meeting in the town hall on the first Tuesday of the month, and written comments are welcome by post or email.</p>
</article>
<footer>Copyright notice</footer>
</body></html>`

func newTestSource(t *testing.T, status int, body string) (*Source, *atomic.Int32, string) {
	t.Helper()
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	source := NewSource(interfaces.Dependencies{
		HTTPClient: standard.NewStandardHTTPClient(5 * time.Second),
		Cache:      memory.NewMemoryCache(),
	})
	return source, &hits, server.URL + "/news/quiet-streets"
}

func TestSource_Provider(t *testing.T) {
	source, _, pageURL := newTestSource(t, http.StatusOK, page)

	units, err := source.Provider(pageURL, extractor.DefaultOptions()).Units(context.Background())
	if err != nil {
		t.Fatalf("Units() error = %v", err)
	}
	if len(units) < 3 {
		t.Fatalf("units = %d, want the article paragraphs", len(units))
	}

	var joined []string
	for _, u := range units {
		joined = append(joined, u.Text)
	}
	text := strings.Join(joined, "\n")
	if !strings.Contains(text, "city council approved") || !strings.Contains(text, "trial begins") {
		t.Errorf("article text missing: %q", text)
	}
	if strings.Contains(text, "Copyright notice") {
		t.Errorf("page chrome leaked into the article: %q", text)
	}
}

func TestSource_CachesArticle(t *testing.T) {
	source, hits, pageURL := newTestSource(t, http.StatusOK, page)
	ctx := context.Background()

	if _, err := source.Document(ctx, pageURL); err != nil {
		t.Fatalf("Document() error = %v", err)
	}
	if _, err := source.Document(ctx, pageURL); err != nil {
		t.Fatalf("Document() error = %v", err)
	}
	if hits.Load() != 1 {
		t.Errorf("page fetched %d times, want 1", hits.Load())
	}
}

func TestSource_Errors(t *testing.T) {
	source, _, pageURL := newTestSource(t, http.StatusNotFound, "missing")
	ctx := context.Background()

	if _, err := source.Document(ctx, pageURL); !errors.IsExternalAPI(err) {
		t.Errorf("Document(404) error = %v, want ExternalAPIError", err)
	}
	if _, err := source.Document(ctx, "not a url"); !errors.IsValidation(err) {
		t.Errorf("Document(relative) error = %v, want ValidationError", err)
	}
}
