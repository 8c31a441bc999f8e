// ABOUTME: Service interfaces for the accessibility core
// ABOUTME: Defines contracts for content sources, presentation hooks, notifications and translation

package interfaces

import (
	"context"

	"digests-a11y/core/domain"
)

// ContentProvider returns the current page content as speakable units in
// reading order. It is called once per reading session.
type ContentProvider interface {
	Units(ctx context.Context) ([]domain.SpeakableUnit, error)
}

// Highlighter is the presentation hook that marks the unit being read.
// Highlight is expected to scroll the referenced node into centered view.
type Highlighter interface {
	Highlight(unit domain.SpeakableUnit)
	ClearHighlight()
}

// Notifier accepts visual alerts
type Notifier interface {
	Push(message string, severity domain.Severity) string
}

// Translator is the external machine translation service
type Translator interface {
	// Translate returns text translated from source to target.
	// Payloads flagged as errors or warnings are returned as
	// *errors.TranslationRejectedError.
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// TranslationService is the cached, deduplicating translation front end used
// by presentation. It never fails; on error it returns the input unchanged.
type TranslationService interface {
	Translate(ctx context.Context, text, source, target string) string
	TranslateBatch(ctx context.Context, texts []string, source, target string) []string
}
