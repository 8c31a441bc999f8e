// ABOUTME: Speech engine interfaces for synthesis and recognition capabilities
// ABOUTME: Engines are black boxes; controllers drive them and react to their callbacks

package interfaces

import (
	"context"

	"digests-a11y/core/domain"
)

// UtteranceCallbacks receives the lifecycle events of one utterance.
// Engines must never invoke a callback synchronously from inside one of their
// own method calls; events are delivered from the engine's goroutines.
type UtteranceCallbacks struct {
	// OnStart fires when audio for the utterance begins
	OnStart func()

	// OnEnd fires when the utterance completed normally
	OnEnd func()

	// OnError fires when the utterance failed. Cancellation is reported as an
	// error wrapping errors.ErrUtteranceCanceled.
	OnError func(err error)
}

// SpeechSynthesizer defines the text-to-speech engine capability.
//
// Example usage:
//
//	err := synth.Speak(ctx, domain.Utterance{Text: "Hello", Language: "en"}, interfaces.UtteranceCallbacks{
//		OnEnd: func() { log.Println("done") },
//	})
type SpeechSynthesizer interface {
	// Speak queues text for synthesis. It returns once the request is accepted.
	Speak(ctx context.Context, utterance domain.Utterance, callbacks UtteranceCallbacks) error

	// Pause suspends the utterance currently being spoken
	Pause() error

	// Resume continues a paused utterance
	Resume() error

	// CancelAll drops the current and any queued utterances
	CancelAll() error

	// Speaking reports whether an utterance is actively being spoken (not paused)
	Speaking() bool

	// Voices lists the voices the engine can use
	Voices(ctx context.Context) ([]domain.Voice, error)
}

// RecognitionConfig describes a recognition run
type RecognitionConfig struct {
	Language       string
	Continuous     bool
	InterimResults bool
}

// RecognitionCallbacks receives the events of one recognition run.
// As with UtteranceCallbacks, callbacks are never invoked synchronously from
// inside a recognizer method call.
type RecognitionCallbacks struct {
	OnResult func(batch domain.RecognitionBatch)
	OnError  func(kind domain.RecognitionErrorKind)
	OnEnd    func()
}

// RecognitionRun is a single engine recognition run
type RecognitionRun interface {
	// Stop ends the run gracefully, flushing pending results
	Stop() error

	// Abort ends the run immediately and discards pending results
	Abort() error
}

// SpeechRecognizer defines the speech-to-text engine capability
type SpeechRecognizer interface {
	// Start opens a new recognition run. OnEnd fires exactly once per run.
	Start(ctx context.Context, cfg RecognitionConfig, callbacks RecognitionCallbacks) (RecognitionRun, error)
}
