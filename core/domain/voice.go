// ABOUTME: Voice and utterance models shared by speech synthesis engines
// ABOUTME: Mirrors what engines report about their installed voices

package domain

// Voice describes a synthesis voice reported by an engine
type Voice struct {
	// Name is the engine-specific voice identifier
	Name string `json:"name"`

	// Language is a BCP 47 tag such as "en-US"
	Language string `json:"language"`

	// Local is true when the voice runs on the device rather than a remote service
	Local bool `json:"local"`

	// Default marks the engine's default voice
	Default bool `json:"default"`

	Gender string `json:"gender,omitempty"`
}

// Utterance is a single request to speak text
type Utterance struct {
	Text     string
	Language string

	// Voice is nil when the engine default should be used
	Voice *Voice
}
