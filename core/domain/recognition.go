// ABOUTME: Speech recognition result and error models delivered by recognition engines
// ABOUTME: Batches carry per-segment finality flags; error kinds follow the Web Speech naming

package domain

import "strings"

// RecognitionSegment is one recognized piece of speech
type RecognitionSegment struct {
	Text    string `json:"text"`
	IsFinal bool   `json:"isFinal"`
}

// RecognitionBatch is a group of segments delivered in one engine update
type RecognitionBatch struct {
	Segments []RecognitionSegment `json:"segments"`
}

// Split partitions the batch into finalized and interim text
func (b RecognitionBatch) Split() (final string, interim string) {
	var finals, interims []string
	for _, s := range b.Segments {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		if s.IsFinal {
			finals = append(finals, text)
		} else {
			interims = append(interims, text)
		}
	}
	return strings.Join(finals, " "), strings.Join(interims, " ")
}

// RecognitionErrorKind names a recognition engine failure
type RecognitionErrorKind string

const (
	RecognitionErrorNoSpeech          RecognitionErrorKind = "no-speech"
	RecognitionErrorAborted           RecognitionErrorKind = "aborted"
	RecognitionErrorAudioCapture      RecognitionErrorKind = "audio-capture"
	RecognitionErrorNetwork           RecognitionErrorKind = "network"
	RecognitionErrorNotAllowed        RecognitionErrorKind = "not-allowed"
	RecognitionErrorServiceNotAllowed RecognitionErrorKind = "service-not-allowed"
	RecognitionErrorLanguage          RecognitionErrorKind = "language-not-supported"
	RecognitionErrorService           RecognitionErrorKind = "service"
)

// Transient reports errors that are expected noise during continuous recognition
func (k RecognitionErrorKind) Transient() bool {
	return k == RecognitionErrorNoSpeech || k == RecognitionErrorAborted
}

// PermissionDenied reports errors after which restarting cannot succeed
func (k RecognitionErrorKind) PermissionDenied() bool {
	return k == RecognitionErrorNotAllowed || k == RecognitionErrorServiceNotAllowed
}
