package playback

import (
	"context"
	"sync"

	"digests-a11y/core/domain"
	"digests-a11y/core/interfaces"
)

// fakeUtterance is one Speak request captured by fakeSynth
type fakeUtterance struct {
	utterance domain.Utterance
	callbacks interfaces.UtteranceCallbacks
	started   bool
	done      bool
}

// fakeSynth records engine calls; tests deliver callbacks by hand, which keeps
// them off the engine call stack like a real engine would
type fakeSynth struct {
	mu         sync.Mutex
	utterances []*fakeUtterance
	paused     bool
	cancels    int
	pauses     int
	resumes    int
	overlaps   int
	speakErr   func(text string) error
	voices     []domain.Voice
	voicesErr  error
}

func (f *fakeSynth) Speak(ctx context.Context, u domain.Utterance, cb interfaces.UtteranceCallbacks) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.speakErr != nil {
		if err := f.speakErr(u.Text); err != nil {
			return err
		}
	}
	for _, other := range f.utterances {
		if !other.done {
			f.overlaps++
		}
	}
	f.utterances = append(f.utterances, &fakeUtterance{utterance: u, callbacks: cb})
	return nil
}

func (f *fakeSynth) Pause() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pauses++
	f.paused = true
	return nil
}

func (f *fakeSynth) Resume() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resumes++
	f.paused = false
	return nil
}

func (f *fakeSynth) CancelAll() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancels++
	f.paused = false
	for _, u := range f.utterances {
		u.done = true
	}
	return nil
}

func (f *fakeSynth) Speaking() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.paused {
		return false
	}
	for _, u := range f.utterances {
		if !u.done {
			return true
		}
	}
	return false
}

func (f *fakeSynth) Voices(ctx context.Context) ([]domain.Voice, error) {
	return f.voices, f.voicesErr
}

// last returns the most recent utterance
func (f *fakeSynth) last() *fakeUtterance {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.utterances) == 0 {
		return nil
	}
	return f.utterances[len(f.utterances)-1]
}

func (f *fakeSynth) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.utterances)
}

// start delivers OnStart for u
func (f *fakeSynth) start(u *fakeUtterance) {
	f.mu.Lock()
	u.started = true
	f.mu.Unlock()
	if u.callbacks.OnStart != nil {
		u.callbacks.OnStart()
	}
}

// finish delivers OnEnd for u
func (f *fakeSynth) finish(u *fakeUtterance) {
	f.mu.Lock()
	u.done = true
	f.mu.Unlock()
	if u.callbacks.OnEnd != nil {
		u.callbacks.OnEnd()
	}
}

// fail delivers OnError for u
func (f *fakeSynth) fail(u *fakeUtterance, err error) {
	f.mu.Lock()
	u.done = true
	f.mu.Unlock()
	if u.callbacks.OnError != nil {
		u.callbacks.OnError(err)
	}
}

// staticContent is a ContentProvider over fixed texts
type staticContent struct {
	texts []string
	err   error
	calls int
}

func (s *staticContent) Units(ctx context.Context) ([]domain.SpeakableUnit, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	units := make([]domain.SpeakableUnit, len(s.texts))
	for i, text := range s.texts {
		units[i] = domain.SpeakableUnit{Ref: i, Text: text}
	}
	return units, nil
}

// recordingHighlighter remembers the highlighted unit
type recordingHighlighter struct {
	mu          sync.Mutex
	current     *domain.SpeakableUnit
	highlighted []string
	clears      int
}

func (h *recordingHighlighter) Highlight(unit domain.SpeakableUnit) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.current = &unit
	h.highlighted = append(h.highlighted, unit.Text)
}

func (h *recordingHighlighter) ClearHighlight() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.current = nil
	h.clears++
}

func (h *recordingHighlighter) active() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current != nil
}

// recordingNotifier captures pushed notifications
type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
	levels   []domain.Severity
}

func (n *recordingNotifier) Push(message string, severity domain.Severity) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
	n.levels = append(n.levels, severity)
	return "n"
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.messages)
}
