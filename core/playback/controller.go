// ABOUTME: Speech playback controller reads extracted content aloud through a synthesis engine
// ABOUTME: Owns the idle/reading/paused/finished state machine and ignores events from superseded utterances

package playback

import (
	"context"
	"sync"

	"digests-a11y/core/domain"
	"digests-a11y/core/errors"
	"digests-a11y/core/interfaces"
)

// Config holds playback settings
type Config struct {
	// Language is the BCP 47 tag of the content, used for voice selection
	Language string
}

// session is the owner of one reading pass. It is replaced wholesale on every
// Start and never reused once inactive.
type session struct {
	ctx    context.Context
	cancel context.CancelFunc
	active bool
	units  []domain.SpeakableUnit
	index  int

	// token identifies the utterance whose events are still wanted
	token uint64

	// held is set when an utterance ended while paused; the unit at index
	// is spoken on Resume
	held bool
}

func (s *session) end() {
	s.active = false
	s.cancel()
}

// Controller drives a SpeechSynthesizer over the units of a ContentProvider.
// Operations and engine callbacks are serialized by one mutex.
type Controller struct {
	mu sync.Mutex

	synth       interfaces.SpeechSynthesizer
	content     interfaces.ContentProvider
	highlighter interfaces.Highlighter
	notifier    interfaces.Notifier
	logger      interfaces.Logger
	config      Config

	session *session
	voice   *domain.Voice
	status  domain.ReadingStatus
	closed  bool

	onChange func(domain.ReadingStatus)
	pending  []domain.ReadingStatus
}

// Option configures a Controller
type Option func(*Controller)

// WithHighlighter sets the presentation hook that marks the unit being read
func WithHighlighter(h interfaces.Highlighter) Option {
	return func(c *Controller) { c.highlighter = h }
}

// WithOnChange registers an observer called after every state change,
// outside the controller lock
func WithOnChange(fn func(domain.ReadingStatus)) Option {
	return func(c *Controller) { c.onChange = fn }
}

// NewController creates a playback controller. deps.Notifier receives
// warnings about skipped units; deps.Logger may be nil.
func NewController(synth interfaces.SpeechSynthesizer, content interfaces.ContentProvider, deps interfaces.Dependencies, config Config, opts ...Option) *Controller {
	c := &Controller{
		synth:    synth,
		content:  content,
		notifier: deps.Notifier,
		logger:   deps.Logger,
		config:   config,
		status:   domain.ReadingStatus{State: domain.ReadingStateIdle},
	}
	if c.logger == nil {
		c.logger = interfaces.NopLogger{}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Supported reports whether a synthesis engine is available
func (c *Controller) Supported() bool {
	return c.synth != nil
}

// Status returns a snapshot of the reading state
func (c *Controller) Status() domain.ReadingStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Voice returns the voice chosen for the current session, nil for the engine default
func (c *Controller) Voice() *domain.Voice {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.voice
}

// Start cancels any session in progress, extracts the content again and
// begins reading at the first unit. It stays idle when there is nothing to read.
func (c *Controller) Start(ctx context.Context) {
	if !c.Supported() {
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.teardownLocked()
	sessCtx, cancel := context.WithCancel(context.Background())
	s := &session{ctx: sessCtx, cancel: cancel, active: true}
	c.session = s
	c.setStatusLocked(domain.ReadingStatus{State: domain.ReadingStateIdle})
	c.unlock()

	// Extraction and voice lookup run unlocked; a Stop or Start issued meanwhile
	// supersedes s and the results are dropped.
	units, err := c.content.Units(ctx)
	voice := c.lookupVoice(ctx)

	c.mu.Lock()
	defer c.unlock()
	if c.session != s || !s.active {
		return
	}
	if err != nil {
		c.logger.Warn("Failed to extract content for reading", map[string]interface{}{
			"error": err.Error(),
		})
		c.notify("Could not read this page aloud", domain.SeverityWarning)
		c.endSessionLocked(s)
		return
	}
	if len(units) == 0 {
		c.logger.Debug("Nothing to read", nil)
		c.endSessionLocked(s)
		return
	}

	s.units = units
	c.voice = voice
	c.logger.Info("Reading session started", map[string]interface{}{
		"units":    len(units),
		"language": c.config.Language,
	})
	c.speakLocked(s)
}

// Pause suspends the utterance being spoken. It is a no-op unless the engine
// is actively speaking for this session.
func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.unlock()

	if c.session == nil || c.status.State != domain.ReadingStateReading || !c.synth.Speaking() {
		return
	}
	if err := c.synth.Pause(); err != nil {
		c.logger.Warn("Failed to pause speech", map[string]interface{}{"error": err.Error()})
		return
	}
	c.status.State = domain.ReadingStatePaused
	c.changedLocked()
}

// Resume continues a paused utterance
func (c *Controller) Resume() {
	c.mu.Lock()
	defer c.unlock()

	if c.session == nil || c.status.State != domain.ReadingStatePaused {
		return
	}
	if err := c.synth.Resume(); err != nil {
		c.logger.Warn("Failed to resume speech", map[string]interface{}{"error": err.Error()})
		return
	}
	if s := c.session; s.held {
		s.held = false
		c.speakLocked(s)
		return
	}
	c.status.State = domain.ReadingStateReading
	c.changedLocked()
}

// Stop cancels speech, clears the highlight and returns to idle from any state
func (c *Controller) Stop() {
	if !c.Supported() {
		return
	}
	c.mu.Lock()
	defer c.unlock()
	c.teardownLocked()
	c.setStatusLocked(domain.ReadingStatus{State: domain.ReadingStateIdle})
}

// Next skips to the following unit. Skipping past the last unit finishes the session.
func (c *Controller) Next() {
	c.jump(1)
}

// Previous goes back one unit, staying on the first unit at the start
func (c *Controller) Previous() {
	c.jump(-1)
}

// Close stops reading; later calls to Start are ignored
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.unlock()
	if c.closed {
		return
	}
	c.closed = true
	if !c.Supported() {
		return
	}
	c.teardownLocked()
	c.setStatusLocked(domain.ReadingStatus{State: domain.ReadingStateIdle})
}

func (c *Controller) jump(delta int) {
	c.mu.Lock()
	defer c.unlock()

	s := c.session
	if s == nil || !s.active || len(s.units) == 0 {
		return
	}

	// Invalidate the current utterance before cancelling it so its late
	// cancellation error is ignored.
	s.token++
	c.cancelSpeechLocked()

	s.index += delta
	if s.index < 0 {
		s.index = 0
	}
	c.advanceLocked(s)
}

// speakLocked speaks s.units[s.index]. Units the engine refuses outright are
// skipped, and the session finishes when none are left.
func (c *Controller) speakLocked(s *session) {
	s.held = false
	for s.index < len(s.units) {
		s.token++
		token := s.token
		unit := s.units[s.index]

		c.status.State = domain.ReadingStateReading
		c.status.CurrentIndex = s.index
		c.status.Total = len(s.units)
		c.changedLocked()

		err := c.synth.Speak(s.ctx, domain.Utterance{
			Text:     unit.Text,
			Language: c.config.Language,
			Voice:    c.voice,
		}, interfaces.UtteranceCallbacks{
			OnStart: func() { c.handleStart(s, token) },
			OnEnd:   func() { c.handleEnd(s, token) },
			OnError: func(err error) { c.handleError(s, token, err) },
		})
		if err == nil {
			return
		}
		c.reportSkipLocked(s, err)
		s.index++
	}
	c.finishLocked(s)
}

func (c *Controller) advanceLocked(s *session) {
	if s.index >= len(s.units) {
		c.finishLocked(s)
		return
	}
	c.speakLocked(s)
}

func (c *Controller) handleStart(s *session, token uint64) {
	c.mu.Lock()
	defer c.unlock()
	if !c.currentLocked(s, token) {
		return
	}

	unit := s.units[s.index]
	if c.highlighter != nil {
		c.highlighter.Highlight(unit)
	}
	c.status.CurrentText = domain.Preview(unit.Text)
	c.changedLocked()
}

// handleEnd moves to the next unit. An utterance that ends while paused
// leaves the session paused on the next unit until Resume.
func (c *Controller) handleEnd(s *session, token uint64) {
	c.mu.Lock()
	defer c.unlock()
	if !c.currentLocked(s, token) {
		return
	}

	s.index++
	if c.status.State == domain.ReadingStatePaused && s.index < len(s.units) {
		s.token++
		s.held = true
		c.status.CurrentIndex = s.index
		c.status.CurrentText = ""
		c.clearHighlightLocked()
		c.changedLocked()
		return
	}
	c.advanceLocked(s)
}

func (c *Controller) handleError(s *session, token uint64, err error) {
	c.mu.Lock()
	defer c.unlock()
	if !c.currentLocked(s, token) || errors.IsCanceled(err) {
		return
	}

	c.reportSkipLocked(s, err)
	s.index++
	c.advanceLocked(s)
}

// currentLocked reports whether an event belongs to the live utterance
func (c *Controller) currentLocked(s *session, token uint64) bool {
	return c.session == s && s.active && s.token == token
}

func (c *Controller) reportSkipLocked(s *session, err error) {
	c.logger.Warn("Skipping unreadable unit", map[string]interface{}{
		"index": s.index,
		"error": err.Error(),
	})
	c.notify("Skipped a section that could not be read aloud", domain.SeverityWarning)
}

// finishLocked passes through finished and lands on idle
func (c *Controller) finishLocked(s *session) {
	total := len(s.units)
	c.endSessionLocked(s)
	c.setStatusLocked(domain.ReadingStatus{
		State:        domain.ReadingStateFinished,
		CurrentIndex: total,
		Total:        total,
	})
	c.logger.Info("Reading session finished", map[string]interface{}{"units": total})
	c.setStatusLocked(domain.ReadingStatus{State: domain.ReadingStateIdle})
}

func (c *Controller) endSessionLocked(s *session) {
	s.end()
	if c.session == s {
		c.session = nil
	}
	c.clearHighlightLocked()
}

// teardownLocked ends the current session and silences the engine
func (c *Controller) teardownLocked() {
	if s := c.session; s != nil {
		s.end()
		c.session = nil
	}
	c.cancelSpeechLocked()
	c.clearHighlightLocked()
}

func (c *Controller) cancelSpeechLocked() {
	if err := c.synth.CancelAll(); err != nil {
		c.logger.Warn("Failed to cancel speech", map[string]interface{}{"error": err.Error()})
	}
}

func (c *Controller) clearHighlightLocked() {
	if c.highlighter != nil {
		c.highlighter.ClearHighlight()
	}
}

func (c *Controller) lookupVoice(ctx context.Context) *domain.Voice {
	if c.config.Language == "" {
		return nil
	}
	voices, err := c.synth.Voices(ctx)
	if err != nil {
		c.logger.Debug("Voice list unavailable, using engine default", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}
	return SelectVoice(voices, c.config.Language)
}

func (c *Controller) notify(message string, severity domain.Severity) {
	if c.notifier != nil {
		c.notifier.Push(message, severity)
	}
}

func (c *Controller) setStatusLocked(status domain.ReadingStatus) {
	c.status = status
	c.changedLocked()
}

func (c *Controller) changedLocked() {
	if c.onChange != nil {
		c.pending = append(c.pending, c.status)
	}
}

// unlock releases the lock and then delivers queued status changes
func (c *Controller) unlock() {
	events := c.pending
	c.pending = nil
	c.mu.Unlock()
	for _, status := range events {
		c.onChange(status)
	}
}
