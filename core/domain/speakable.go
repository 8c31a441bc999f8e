// ABOUTME: Domain models for read-aloud sessions over extracted page content
// ABOUTME: Defines speakable units, reading states and the status snapshot exposed to presentation

package domain

import "unicode/utf8"

// NodeRef is an opaque back-reference into the presentation tree.
// Core code only hands it back to the highlighter; it never owns or inspects it.
type NodeRef any

// SpeakableUnit is one contiguous piece of extracted text and the node it came from
type SpeakableUnit struct {
	Ref  NodeRef `json:"-"`
	Text string  `json:"text"`
}

// ReadingState is the state of the playback state machine
type ReadingState string

const (
	ReadingStateIdle     ReadingState = "idle"
	ReadingStateReading  ReadingState = "reading"
	ReadingStatePaused   ReadingState = "paused"
	ReadingStateFinished ReadingState = "finished"
)

// PreviewLength is the number of runes kept in ReadingStatus.CurrentText
const PreviewLength = 80

// ReadingStatus is a snapshot of the playback controller
type ReadingStatus struct {
	State        ReadingState `json:"state"`
	CurrentIndex int          `json:"currentIndex"`
	Total        int          `json:"total"`
	CurrentText  string       `json:"currentText,omitempty"`
}

// Active reports whether a session is reading or paused
func (s ReadingStatus) Active() bool {
	return s.State == ReadingStateReading || s.State == ReadingStatePaused
}

// Preview returns the first PreviewLength runes of text, with an ellipsis when truncated
func Preview(text string) string {
	if utf8.RuneCountInString(text) <= PreviewLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:PreviewLength]) + "…"
}
