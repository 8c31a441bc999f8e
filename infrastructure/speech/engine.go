// ABOUTME: Queued speech synthesizer built from a synthesis backend and an audio player
// ABOUTME: Speaks utterances one at a time on a worker goroutine and reports lifecycle callbacks from it

package speech

import (
	"context"
	"fmt"
	"sync"

	"digests-a11y/core/domain"
	"digests-a11y/core/errors"
	"digests-a11y/core/interfaces"
)

// Backend renders utterances to audio
type Backend interface {
	Synthesize(ctx context.Context, utterance domain.Utterance) ([]byte, error)
	Voices(ctx context.Context) ([]domain.Voice, error)
}

// Player starts playback of rendered audio
type Player interface {
	Play(audio []byte) (Playback, error)
}

// Playback is one clip being played
type Playback interface {
	Pause()
	Resume()
	Stop()

	// Done is closed when the clip finished or was stopped
	Done() <-chan struct{}
}

type job struct {
	ctx       context.Context
	cancel    context.CancelFunc
	utterance domain.Utterance
	callbacks interfaces.UtteranceCallbacks

	canceled bool
	playback Playback
}

// Engine implements interfaces.SpeechSynthesizer on top of a Backend and Player
type Engine struct {
	backend Backend
	player  Player
	logger  interfaces.Logger

	mu      sync.Mutex
	queue   []*job
	current *job
	paused  bool
	closed  bool

	wake chan struct{}
	done chan struct{}
}

// NewEngine creates an engine and starts its worker
func NewEngine(backend Backend, player Player, logger interfaces.Logger) *Engine {
	if logger == nil {
		logger = interfaces.NopLogger{}
	}
	e := &Engine{
		backend: backend,
		player:  player,
		logger:  logger,
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go e.run()
	return e
}

// Speak queues an utterance
func (e *Engine) Speak(ctx context.Context, utterance domain.Utterance, callbacks interfaces.UtteranceCallbacks) error {
	if utterance.Text == "" {
		return &errors.ValidationError{Field: "text", Message: "cannot be empty"}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return fmt.Errorf("speech engine is closed")
	}

	jobCtx, cancel := context.WithCancel(ctx)
	e.queue = append(e.queue, &job{ctx: jobCtx, cancel: cancel, utterance: utterance, callbacks: callbacks})
	e.signal()
	return nil
}

// Pause suspends the current utterance. An utterance already cancelled is
// left alone so the pause does not carry over to the next one.
func (e *Engine) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil || e.current.canceled {
		return nil
	}
	e.paused = true
	if e.current.playback != nil {
		e.current.playback.Pause()
	}
	return nil
}

// Resume continues a paused utterance
func (e *Engine) Resume() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.paused = false
	if e.current != nil && e.current.playback != nil {
		e.current.playback.Resume()
	}
	return nil
}

// CancelAll stops the current utterance and drops the queue. Every dropped
// utterance reports a cancellation error from the worker.
func (e *Engine) CancelAll() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelAllLocked()
	return nil
}

// Speaking reports whether an utterance is in progress, not cancelled and not paused
func (e *Engine) Speaking() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current != nil && !e.current.canceled && !e.paused
}

// Voices lists the backend's voices
func (e *Engine) Voices(ctx context.Context) ([]domain.Voice, error) {
	return e.backend.Voices(ctx)
}

// Close cancels everything and stops the worker
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.cancelAllLocked()
	e.signal()
	e.mu.Unlock()

	<-e.done
	return nil
}

func (e *Engine) cancelAllLocked() {
	if e.current != nil {
		e.current.canceled = true
		e.current.cancel()
		if e.current.playback != nil {
			e.current.playback.Stop()
		}
	}
	for _, j := range e.queue {
		j.canceled = true
		j.cancel()
	}
	e.paused = false
}

func (e *Engine) signal() {
	select {
	case e.wake <- struct{}{}:
	default:
	}
}

// run is the worker loop. Canceled queued jobs are still popped so their
// cancellation is reported in order.
func (e *Engine) run() {
	defer close(e.done)
	for {
		j, ok := e.next()
		if !ok {
			return
		}
		e.speak(j)
	}
}

func (e *Engine) next() (*job, bool) {
	for {
		e.mu.Lock()
		if len(e.queue) > 0 {
			j := e.queue[0]
			e.queue = e.queue[1:]
			e.current = j
			e.paused = false
			e.mu.Unlock()
			return j, true
		}
		closed := e.closed
		e.mu.Unlock()
		if closed {
			return nil, false
		}
		<-e.wake
	}
}

func (e *Engine) speak(j *job) {
	defer j.cancel()

	if e.isCanceled(j) {
		e.finish(j, canceledError())
		return
	}

	audio, err := e.backend.Synthesize(j.ctx, j.utterance)
	if e.isCanceled(j) {
		e.finish(j, canceledError())
		return
	}
	if err != nil {
		e.logger.Warn("Speech synthesis failed", map[string]interface{}{"error": err.Error()})
		e.finish(j, fmt.Errorf("synthesis failed: %w", err))
		return
	}

	playback, err := e.player.Play(audio)
	if err != nil {
		e.finish(j, fmt.Errorf("playback failed: %w", err))
		return
	}

	e.mu.Lock()
	j.playback = playback
	canceled := j.canceled
	if canceled {
		playback.Stop()
	} else if e.paused {
		playback.Pause()
	}
	e.mu.Unlock()

	if !canceled && j.callbacks.OnStart != nil {
		j.callbacks.OnStart()
	}

	<-playback.Done()

	if e.isCanceled(j) {
		e.finish(j, canceledError())
		return
	}
	e.finish(j, nil)
}

func (e *Engine) isCanceled(j *job) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return j.canceled
}

func (e *Engine) finish(j *job, err error) {
	e.mu.Lock()
	if e.current == j {
		e.current = nil
		e.paused = false
	}
	e.mu.Unlock()

	if err != nil {
		if j.callbacks.OnError != nil {
			j.callbacks.OnError(err)
		}
		return
	}
	if j.callbacks.OnEnd != nil {
		j.callbacks.OnEnd()
	}
}

func canceledError() error {
	return fmt.Errorf("speech engine: %w", errors.ErrUtteranceCanceled)
}
