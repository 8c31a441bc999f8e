package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"digests-a11y/core/errors"
	"digests-a11y/core/extractor"
	"digests-a11y/core/interfaces"
	"digests-a11y/infrastructure/http/standard"
)

const rss = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Town News</title>
  <link>https://example.com</link>
  <item>
    <title>Library extends opening hours</title>
    <link>https://example.com/library</link>
    <author>editor@example.com (Dana Reyes)</author>
    <description><![CDATA[<p>The central library will stay open until nine in the evening.</p><script>track()</script>]]></description>
  </item>
  <item>
    <title>Bridge repairs finished</title>
    <link>https://example.com/bridge</link>
    <description>Traffic is flowing again on the river bridge.</description>
  </item>
</channel>
</rss>`

func newTestSource(t *testing.T, status int, body string) (*Source, string) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return NewSource(interfaces.Dependencies{HTTPClient: standard.NewStandardHTTPClient(5 * time.Second)}), server.URL + "/feed.xml"
}

func TestSource_Items(t *testing.T) {
	source, feedURL := newTestSource(t, http.StatusOK, rss)

	items, err := source.Items(context.Background(), feedURL)
	if err != nil {
		t.Fatalf("Items() error = %v", err)
	}
	if len(items) != 2 || items[1].Title != "Bridge repairs finished" || items[1].Index != 1 {
		t.Errorf("Items() = %+v", items)
	}
}

func TestSource_Provider(t *testing.T) {
	source, feedURL := newTestSource(t, http.StatusOK, rss)

	units, err := source.Provider(feedURL, 0, extractor.DefaultOptions()).Units(context.Background())
	if err != nil {
		t.Fatalf("Units() error = %v", err)
	}

	want := []string{
		"Library extends opening hours",
		"By Dana Reyes",
		"The central library will stay open until nine in the evening.",
	}
	if len(units) != len(want) {
		t.Fatalf("units = %+v, want %d", units, len(want))
	}
	for i, w := range want {
		if units[i].Text != w {
			t.Errorf("unit %d = %q, want %q", i, units[i].Text, w)
		}
	}
}

func TestSource_PlainDescription(t *testing.T) {
	source, feedURL := newTestSource(t, http.StatusOK, rss)

	root, err := source.Document(context.Background(), feedURL, 1)
	if err != nil {
		t.Fatalf("Document() error = %v", err)
	}
	units := extractor.Collect(extractor.Extract(root, extractor.DefaultOptions()))
	if len(units) != 2 || units[1].Text != "Traffic is flowing again on the river bridge." {
		t.Errorf("units = %+v", units)
	}
}

func TestSource_Errors(t *testing.T) {
	source, feedURL := newTestSource(t, http.StatusOK, rss)
	ctx := context.Background()

	if _, err := source.Document(ctx, feedURL, 5); !errors.IsNotFound(err) {
		t.Errorf("Document(out of range) error = %v", err)
	}

	broken, brokenURL := newTestSource(t, http.StatusOK, "not a feed")
	if _, err := broken.Items(ctx, brokenURL); err == nil {
		t.Error("Items() should fail on malformed feeds")
	}

	gone, goneURL := newTestSource(t, http.StatusGone, "")
	if _, err := gone.Items(ctx, goneURL); !errors.IsExternalAPI(err) {
		t.Errorf("Items(410) error = %v", err)
	}
}
