// ABOUTME: Live caption controller keeps a recognition engine running continuously
// ABOUTME: Restarts the engine when a segment ends, buffers the transcript and reports engine failures

package captions

import (
	"context"
	"fmt"
	"sync"

	"digests-a11y/core/domain"
	"digests-a11y/core/interfaces"
)

// Config holds captioning settings
type Config struct {
	// Language is the BCP 47 tag passed to the recognizer
	Language string
}

// session is the owner of one captioning session across engine restarts.
// It is replaced wholesale on every Start.
type session struct {
	ctx    context.Context
	cancel context.CancelFunc

	// captioning is the "should still be captioning" flag
	captioning bool
	run        interfaces.RecognitionRun

	// token identifies the engine run whose events are still wanted
	token    uint64
	restarts int
}

// Controller drives a SpeechRecognizer for continuous captions. Operations
// and engine callbacks are serialized by one mutex.
type Controller struct {
	mu sync.Mutex

	recognizer interfaces.SpeechRecognizer
	notifier   interfaces.Notifier
	logger     interfaces.Logger
	config     Config

	session *session
	buffer  domain.TranscriptBuffer
	closed  bool

	onTranscript func(string)
	pending      []string
}

// Option configures a Controller
type Option func(*Controller)

// WithOnTranscript registers an observer called with the rendered transcript
// after every change, outside the controller lock
func WithOnTranscript(fn func(string)) Option {
	return func(c *Controller) { c.onTranscript = fn }
}

// NewController creates a caption controller. A nil recognizer yields an
// unsupported controller whose operations are no-ops.
func NewController(recognizer interfaces.SpeechRecognizer, deps interfaces.Dependencies, config Config, opts ...Option) *Controller {
	c := &Controller{
		recognizer: recognizer,
		notifier:   deps.Notifier,
		logger:     deps.Logger,
		config:     config,
	}
	if c.logger == nil {
		c.logger = interfaces.NopLogger{}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Supported reports whether the host offers speech recognition
func (c *Controller) Supported() bool {
	return c.recognizer != nil
}

// Active reports whether captioning is on
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session != nil && c.session.captioning
}

// Transcript returns finalized text followed by interim text
func (c *Controller) Transcript() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buffer.Text()
}

// Buffer returns a copy of the transcript buffer
func (c *Controller) Buffer() domain.TranscriptBuffer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buffer
}

// Start begins a continuous captioning session. Any session already running
// is aborted first so two engine runs never overlap.
func (c *Controller) Start(ctx context.Context) {
	if !c.Supported() {
		return
	}

	c.mu.Lock()
	if c.closed {
		c.unlock()
		return
	}

	c.teardownLocked(true)
	c.buffer.Reset()
	c.changedLocked()

	// Restarts outlive the call that started captioning.
	sessCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s := &session{ctx: sessCtx, cancel: cancel, captioning: true}
	c.session = s
	s.token++
	token := s.token
	c.unlock()

	c.launch(s, token, false)
}

// Stop ends captioning. Finalized text stays visible; interim text is dropped.
// Calling Stop when captioning is off does nothing.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.unlock()
	if c.session == nil {
		return
	}
	c.teardownLocked(false)
	c.logger.Info("Captioning stopped", nil)
}

// ClearTranscript empties the buffer without touching the session
func (c *Controller) ClearTranscript() {
	c.mu.Lock()
	defer c.unlock()
	c.buffer.Reset()
	c.changedLocked()
}

// Close aborts any engine run; later calls to Start are ignored
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.unlock()
	c.teardownLocked(true)
	c.closed = true
}

// launch starts the engine run identified by token without holding the lock,
// so Stop can cancel a slow connect through the session context. A run that
// comes up after its session was superseded is aborted.
func (c *Controller) launch(s *session, token uint64, restart bool) {
	run, err := c.recognizer.Start(s.ctx, interfaces.RecognitionConfig{
		Language:       c.config.Language,
		Continuous:     true,
		InterimResults: true,
	}, interfaces.RecognitionCallbacks{
		OnResult: func(batch domain.RecognitionBatch) { c.handleResult(s, token, batch) },
		OnError:  func(kind domain.RecognitionErrorKind) { c.handleError(s, token, kind) },
		OnEnd:    func() { c.handleEnd(s, token) },
	})

	c.mu.Lock()
	defer c.unlock()
	live := c.currentLocked(s, token)

	if err != nil {
		if !live {
			return
		}
		if restart {
			c.logger.Warn("Failed to restart captions", map[string]interface{}{
				"restarts": s.restarts,
				"error":    err.Error(),
			})
			c.notify("Live captions stopped unexpectedly")
		} else {
			c.logger.Warn("Failed to start captions", map[string]interface{}{"error": err.Error()})
			c.notify("Live captions could not start")
		}
		c.endSessionLocked(s)
		return
	}

	if !live {
		if err := run.Abort(); err != nil {
			c.logger.Debug("Superseded recognition run did not abort cleanly", map[string]interface{}{
				"error": err.Error(),
			})
		}
		return
	}
	s.run = run
	if restart {
		c.logger.Debug("Recognition restarted", map[string]interface{}{"restarts": s.restarts})
		return
	}
	c.logger.Info("Captioning started", map[string]interface{}{"language": c.config.Language})
}

func (c *Controller) handleResult(s *session, token uint64, batch domain.RecognitionBatch) {
	c.mu.Lock()
	defer c.unlock()
	if !c.currentLocked(s, token) {
		return
	}

	final, interim := batch.Split()
	c.buffer.AppendFinal(final)
	c.buffer.SetInterim(interim)
	c.changedLocked()
}

func (c *Controller) handleError(s *session, token uint64, kind domain.RecognitionErrorKind) {
	c.mu.Lock()
	defer c.unlock()
	if !c.currentLocked(s, token) {
		return
	}

	if kind.Transient() {
		c.logger.Debug("Ignoring transient recognition error", map[string]interface{}{"kind": string(kind)})
		return
	}

	c.logger.Warn("Recognition error", map[string]interface{}{"kind": string(kind)})
	c.notify(fmt.Sprintf("Live captions error: %s", kind))
	if kind.PermissionDenied() {
		// Restarting cannot succeed until the user grants access.
		c.teardownLocked(true)
	}
}

// handleEnd restarts the engine while captioning is wanted. The buffer is
// left untouched across the restart.
func (c *Controller) handleEnd(s *session, token uint64) {
	c.mu.Lock()
	if c.session != s || s.token != token {
		c.unlock()
		return
	}

	if !s.captioning {
		c.endSessionLocked(s)
		c.unlock()
		return
	}

	s.restarts++
	s.run = nil
	s.token++
	next := s.token
	c.unlock()

	c.launch(s, next, true)
}

// currentLocked reports whether an event belongs to the live run of the live session
func (c *Controller) currentLocked(s *session, token uint64) bool {
	return c.session == s && s.captioning && s.token == token
}

// teardownLocked ends the current session, aborting or stopping its engine run
func (c *Controller) teardownLocked(abort bool) {
	s := c.session
	if s == nil {
		return
	}
	s.captioning = false
	if s.run != nil {
		var err error
		if abort {
			err = s.run.Abort()
		} else {
			err = s.run.Stop()
		}
		if err != nil {
			c.logger.Debug("Recognition run did not shut down cleanly", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	c.endSessionLocked(s)
}

func (c *Controller) endSessionLocked(s *session) {
	s.captioning = false
	s.cancel()
	if c.session == s {
		c.session = nil
	}
	if c.buffer.Interim != "" {
		c.buffer.SetInterim("")
		c.changedLocked()
	}
}

func (c *Controller) notify(message string) {
	if c.notifier != nil {
		c.notifier.Push(message, domain.SeverityWarning)
	}
}

func (c *Controller) changedLocked() {
	if c.onTranscript != nil {
		c.pending = append(c.pending, c.buffer.Text())
	}
}

// unlock releases the lock and then delivers queued transcript changes
func (c *Controller) unlock() {
	events := c.pending
	c.pending = nil
	c.mu.Unlock()
	for _, text := range events {
		c.onTranscript(text)
	}
}
