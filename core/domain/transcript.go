// ABOUTME: Transcript buffer for live captions with bounded finalized text
// ABOUTME: Finalized text is append-only and trimmed to its tail; interim text is replaced wholesale

package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// TranscriptMaxRunes is the finalized length that triggers trimming
	TranscriptMaxRunes = 500

	// TranscriptKeepRunes is the finalized tail kept after trimming
	TranscriptKeepRunes = 400
)

// TranscriptBuffer holds what the caption overlay shows
type TranscriptBuffer struct {
	Finalized string `json:"finalized"`
	Interim   string `json:"interim"`
}

// AppendFinal appends confirmed text. Once Finalized grows past TranscriptMaxRunes
// only its trailing TranscriptKeepRunes are kept. The cut ignores word boundaries.
func (b *TranscriptBuffer) AppendFinal(text string) {
	if text == "" {
		return
	}
	if b.Finalized != "" && !endsWithSpace(b.Finalized) && !startsWithSpace(text) {
		b.Finalized += " "
	}
	b.Finalized += text

	if utf8.RuneCountInString(b.Finalized) > TranscriptMaxRunes {
		runes := []rune(b.Finalized)
		b.Finalized = string(runes[len(runes)-TranscriptKeepRunes:])
	}
}

// SetInterim replaces the interim text
func (b *TranscriptBuffer) SetInterim(text string) {
	b.Interim = text
}

// Text is what presentation renders: finalized followed by interim
func (b TranscriptBuffer) Text() string {
	if b.Interim == "" {
		return b.Finalized
	}
	if b.Finalized == "" || endsWithSpace(b.Finalized) || startsWithSpace(b.Interim) {
		return b.Finalized + b.Interim
	}
	return b.Finalized + " " + b.Interim
}

// Reset clears both parts
func (b *TranscriptBuffer) Reset() {
	b.Finalized = ""
	b.Interim = ""
}

func endsWithSpace(s string) bool {
	r, _ := utf8.DecodeLastRuneInString(s)
	return unicode.IsSpace(r)
}

func startsWithSpace(s string) bool {
	return strings.IndexFunc(s, unicode.IsSpace) == 0
}
