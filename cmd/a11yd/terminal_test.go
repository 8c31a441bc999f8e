package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"digests-a11y/core/domain"
	"digests-a11y/core/extractor"
	"digests-a11y/core/interfaces"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

func TestTerminal_NotificationsPrintedOnce(t *testing.T) {
	var out bytes.Buffer
	term := newTerminal(&out)

	first := domain.Notification{ID: "1", Message: "Saved", Severity: domain.SeveritySuccess}
	second := domain.Notification{ID: "2", Message: "Network down", Severity: domain.SeverityWarning}

	term.Notifications([]domain.Notification{first})
	term.Notifications([]domain.Notification{first, second})
	term.Notifications([]domain.Notification{second})

	assert.Equal(t, 1, strings.Count(out.String(), "Saved"))
	assert.Equal(t, 1, strings.Count(out.String(), "Network down"))
	assert.Contains(t, out.String(), "⚠️ Network down")
}

func TestTerminal_CaptionShowsTail(t *testing.T) {
	var out bytes.Buffer
	term := newTerminal(&out)

	term.Caption(strings.Repeat("a", 150) + "END")
	assert.Contains(t, out.String(), "…")
	assert.True(t, strings.HasSuffix(out.String(), "END"))

	term.Println(infoColor, "done")
	assert.True(t, strings.HasSuffix(out.String(), "END\ndone\n"), "Println should end the caption line first")
}

func TestTerminal_Highlight(t *testing.T) {
	var out bytes.Buffer
	term := newTerminal(&out)

	term.Highlight(domain.SpeakableUnit{Text: "First paragraph"})
	term.ClearHighlight()

	assert.Equal(t, "» First paragraph\n", out.String())
}

func TestContentProvider_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte("<main><h1>Title</h1><p>Body text</p></main>"), 0o644))

	provider, err := contentProvider(strings.NewReader(""), path, interfaces.Dependencies{}, extractor.Options{})
	require.NoError(t, err)

	units, err := provider.Units(context.Background())
	require.NoError(t, err)
	require.Len(t, units, 2)
	assert.Equal(t, "Title", units[0].Text)
	assert.Equal(t, "Body text", units[1].Text)
}

func TestContentProvider_Stdin(t *testing.T) {
	provider, err := contentProvider(strings.NewReader("<p>From stdin</p>"), "-", interfaces.Dependencies{}, extractor.Options{})
	require.NoError(t, err)

	units, err := provider.Units(context.Background())
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, "From stdin", units[0].Text)
}

func TestContentProvider_MissingFile(t *testing.T) {
	_, err := contentProvider(strings.NewReader(""), filepath.Join(t.TempDir(), "missing.html"), interfaces.Dependencies{}, extractor.Options{})
	assert.Error(t, err)
}

func TestMeasuredProvider(t *testing.T) {
	provider := &measuredProvider{
		ContentProvider: extractor.NewHTMLProvider("<p>one two three</p><p>four</p>", extractor.Options{}),
	}

	units, err := provider.Units(context.Background())
	require.NoError(t, err)
	assert.Len(t, units, 2)
	assert.Equal(t, 2, provider.units)
	assert.Equal(t, 4, provider.words)
}
