// ABOUTME: Voices handler for the Huma API
// ABOUTME: Lists synthesis voices and the one read-aloud would pick for a language

package handlers

import (
	"context"
	"net/http"

	"digests-a11y/core/domain"
	"digests-a11y/core/errors"
	"digests-a11y/core/playback"
	"digests-a11y/pkg/featureflags"

	"github.com/danielgtaylor/huma/v2"
)

// VoiceLister reports the voices of a synthesis engine
type VoiceLister interface {
	Voices(ctx context.Context) ([]domain.Voice, error)
}

// VoicesHandler handles voice discovery
type VoicesHandler struct {
	voices VoiceLister
	flags  featureflags.Manager
}

// NewVoicesHandler creates a new voices handler
func NewVoicesHandler(voices VoiceLister, flags featureflags.Manager) *VoicesHandler {
	return &VoicesHandler{
		voices: voices,
		flags:  flags,
	}
}

// RegisterRoutes registers voice routes
func (h *VoicesHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "listVoices",
		Method:      http.MethodGet,
		Path:        "/voices",
		Summary:     "List synthesis voices",
		Description: "Lists available voices, optionally filtered to a language family, with the voice selected for that language",
		Tags:        []string{"Speech"},
	}, h.ListVoices)
}

// VoicesInput defines the input for the ListVoices operation
type VoicesInput struct {
	Lang string `query:"lang" maxLength:"35" example:"en-US" doc:"Content language tag"`
}

// VoicesOutput defines the output for the ListVoices operation
type VoicesOutput struct {
	Body struct {
		Voices   []domain.Voice `json:"voices"`
		Selected *domain.Voice  `json:"selected,omitempty" doc:"Voice read-aloud uses for lang; absent means the engine default"`
	}
}

// ListVoices handles GET /voices
func (h *VoicesHandler) ListVoices(ctx context.Context, input *VoicesInput) (*VoicesOutput, error) {
	if !h.flags.IsEnabled(ctx, featureflags.SpeechEnabled) {
		return nil, disabled("Speech")
	}
	if h.voices == nil {
		return nil, toHumaError(&errors.UnsupportedError{Capability: "speech synthesis"})
	}

	voices, err := h.voices.Voices(ctx)
	if err != nil {
		return nil, toHumaError(err)
	}

	out := &VoicesOutput{}
	out.Body.Voices = voices
	if input.Lang != "" {
		out.Body.Selected = playback.SelectVoice(voices, input.Lang)
		out.Body.Voices = sameFamily(voices, input.Lang)
	}
	if out.Body.Voices == nil {
		out.Body.Voices = []domain.Voice{}
	}
	return out, nil
}

// sameFamily keeps the voices SelectVoice would consider for lang
func sameFamily(voices []domain.Voice, lang string) []domain.Voice {
	var out []domain.Voice
	for _, v := range voices {
		if playback.SelectVoice([]domain.Voice{v}, lang) != nil {
			out = append(out, v)
		}
	}
	return out
}
