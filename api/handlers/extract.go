// ABOUTME: Extraction handler for the Huma API
// ABOUTME: Returns the speakable units a read-aloud session would speak for a page

package handlers

import (
	"context"
	"net/http"

	"digests-a11y/core/errors"
	"digests-a11y/core/extractor"
	"digests-a11y/core/interfaces"
	"digests-a11y/pkg/featureflags"

	"github.com/danielgtaylor/huma/v2"
)

// PageSource builds content providers for remote pages
type PageSource interface {
	Provider(pageURL string, opts extractor.Options) *extractor.Provider
}

// ExtractHandler handles speakable content extraction
type ExtractHandler struct {
	pages PageSource
	flags featureflags.Manager
}

// NewExtractHandler creates a new extraction handler. A nil pages source
// limits extraction to inline HTML.
func NewExtractHandler(pages PageSource, flags featureflags.Manager) *ExtractHandler {
	return &ExtractHandler{
		pages: pages,
		flags: flags,
	}
}

// RegisterRoutes registers extraction routes
func (h *ExtractHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "extract",
		Method:      http.MethodPost,
		Path:        "/extract",
		Summary:     "Extract speakable units",
		Description: "Extracts the text units read aloud for an HTML document or a page URL, in reading order",
		Tags:        []string{"Speech"},
	}, h.Extract)
}

// ExtractInput defines the input for the Extract operation
type ExtractInput struct {
	Body struct {
		HTML         string `json:"html,omitempty" doc:"HTML document to extract from"`
		URL          string `json:"url,omitempty" doc:"Page to fetch through the reader view"`
		MainSelector string `json:"mainSelector,omitempty" doc:"CSS selector of the main content region"`
	}
}

// Unit is one speakable unit in reading order
type Unit struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// ExtractOutput defines the output for the Extract operation
type ExtractOutput struct {
	Body struct {
		Units []Unit `json:"units"`
		Count int    `json:"count"`
	}
}

// Extract handles POST /extract
func (h *ExtractHandler) Extract(ctx context.Context, input *ExtractInput) (*ExtractOutput, error) {
	if !h.flags.IsEnabled(ctx, featureflags.SpeechEnabled) {
		return nil, disabled("Speech")
	}

	body := input.Body
	if (body.HTML == "") == (body.URL == "") {
		return nil, huma.Error400BadRequest("Provide exactly one of html or url")
	}

	opts := extractor.Options{MainSelector: body.MainSelector}
	var provider interfaces.ContentProvider
	switch {
	case body.HTML != "":
		provider = extractor.NewHTMLProvider(body.HTML, opts)
	case h.pages == nil:
		return nil, toHumaError(&errors.UnsupportedError{Capability: "URL extraction"})
	default:
		provider = h.pages.Provider(body.URL, opts)
	}

	units, err := provider.Units(ctx)
	if err != nil {
		return nil, toHumaError(err)
	}

	out := &ExtractOutput{}
	out.Body.Units = make([]Unit, len(units))
	for i, u := range units {
		out.Body.Units[i] = Unit{Index: i, Text: u.Text}
	}
	out.Body.Count = len(units)
	return out, nil
}
