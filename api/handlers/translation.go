// ABOUTME: Translation handler for the Huma API
// ABOUTME: Serves cached machine translation of single strings and batches

package handlers

import (
	"context"
	"net/http"

	"digests-a11y/core/interfaces"
	"digests-a11y/pkg/featureflags"

	"github.com/danielgtaylor/huma/v2"
)

// TranslationHandler handles translation requests
type TranslationHandler struct {
	service interfaces.TranslationService
	flags   featureflags.Manager
}

// NewTranslationHandler creates a new translation handler
func NewTranslationHandler(service interfaces.TranslationService, flags featureflags.Manager) *TranslationHandler {
	return &TranslationHandler{
		service: service,
		flags:   flags,
	}
}

// RegisterRoutes registers all translation routes
func (h *TranslationHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "translate",
		Method:      http.MethodPost,
		Path:        "/translate",
		Summary:     "Translate text",
		Description: "Returns text translated from source to target. Failures return the original text.",
		Tags:        []string{"Translation"},
	}, h.Translate)

	huma.Register(api, huma.Operation{
		OperationID: "translateBatch",
		Method:      http.MethodPost,
		Path:        "/translate/batch",
		Summary:     "Translate a batch of strings",
		Description: "Translates strings in parallel and returns them in request order",
		Tags:        []string{"Translation"},
	}, h.TranslateBatch)
}

// TranslateInput defines the input for the Translate operation
type TranslateInput struct {
	Body struct {
		Text   string `json:"text" maxLength:"20000" doc:"Text to translate"`
		Source string `json:"source" minLength:"2" maxLength:"35" example:"fr" doc:"Source language tag"`
		Target string `json:"target" minLength:"2" maxLength:"35" example:"en" doc:"Target language tag"`
	}
}

// TranslateOutput defines the output for the Translate operation
type TranslateOutput struct {
	Body struct {
		TranslatedText string `json:"translatedText" doc:"Translated text, or the input when translation failed"`
		Source         string `json:"source"`
		Target         string `json:"target"`
	}
}

// TranslateBatchInput defines the input for the TranslateBatch operation
type TranslateBatchInput struct {
	Body struct {
		Texts  []string `json:"texts" minItems:"1" maxItems:"200" doc:"Strings to translate"`
		Source string   `json:"source" minLength:"2" maxLength:"35"`
		Target string   `json:"target" minLength:"2" maxLength:"35"`
	}
}

// TranslateBatchOutput defines the output for the TranslateBatch operation
type TranslateBatchOutput struct {
	Body struct {
		Translations []string `json:"translations" doc:"Translations in request order"`
	}
}

// Translate handles POST /translate
func (h *TranslationHandler) Translate(ctx context.Context, input *TranslateInput) (*TranslateOutput, error) {
	if !h.flags.IsEnabled(ctx, featureflags.TranslationEnabled) {
		return nil, disabled("Translation")
	}

	out := &TranslateOutput{}
	out.Body.TranslatedText = h.service.Translate(ctx, input.Body.Text, input.Body.Source, input.Body.Target)
	out.Body.Source = input.Body.Source
	out.Body.Target = input.Body.Target
	return out, nil
}

// TranslateBatch handles POST /translate/batch
func (h *TranslationHandler) TranslateBatch(ctx context.Context, input *TranslateBatchInput) (*TranslateBatchOutput, error) {
	if !h.flags.IsEnabled(ctx, featureflags.TranslationEnabled) {
		return nil, disabled("Translation")
	}

	out := &TranslateBatchOutput{}
	out.Body.Translations = h.service.TranslateBatch(ctx, input.Body.Texts, input.Body.Source, input.Body.Target)
	return out, nil
}
