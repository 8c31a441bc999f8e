package playback

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"digests-a11y/core/domain"
	coreerrors "digests-a11y/core/errors"
	"digests-a11y/core/interfaces"
)

type harness struct {
	ctrl        *Controller
	synth       *fakeSynth
	content     *staticContent
	highlighter *recordingHighlighter
	notifier    *recordingNotifier

	mu     sync.Mutex
	states []domain.ReadingState
}

func newHarness(texts ...string) *harness {
	h := &harness{
		synth:       &fakeSynth{},
		content:     &staticContent{texts: texts},
		highlighter: &recordingHighlighter{},
		notifier:    &recordingNotifier{},
	}
	h.ctrl = NewController(h.synth, h.content,
		interfaces.Dependencies{Notifier: h.notifier},
		Config{Language: "en-US"},
		WithHighlighter(h.highlighter),
		WithOnChange(func(s domain.ReadingStatus) {
			h.mu.Lock()
			h.states = append(h.states, s.State)
			h.mu.Unlock()
		}),
	)
	return h
}

func (h *harness) countState(state domain.ReadingState) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, s := range h.states {
		if s == state {
			n++
		}
	}
	return n
}

// speakThrough starts and completes the current utterance
func (h *harness) speakThrough() {
	u := h.synth.last()
	h.synth.start(u)
	h.synth.finish(u)
}

func TestController_ReadsUnitsInOrder(t *testing.T) {
	h := newHarness("Headline text", "First paragraph", "Second paragraph")

	h.ctrl.Start(context.Background())

	for i, want := range []string{"Headline text", "First paragraph", "Second paragraph"} {
		u := h.synth.last()
		if u.utterance.Text != want {
			t.Fatalf("utterance %d = %q, want %q", i, u.utterance.Text, want)
		}
		if got := h.ctrl.Status(); got.State != domain.ReadingStateReading || got.CurrentIndex != i || got.Total != 3 {
			t.Fatalf("status before unit %d = %+v", i, got)
		}
		h.synth.start(u)
		if got := h.ctrl.Status().CurrentText; got != want {
			t.Errorf("CurrentText = %q, want %q", got, want)
		}
		h.synth.finish(u)
	}

	if got := h.ctrl.Status().State; got != domain.ReadingStateIdle {
		t.Errorf("State after last unit = %q, want idle", got)
	}
	if h.countState(domain.ReadingStateFinished) != 1 {
		t.Errorf("finished observed %d times, want 1", h.countState(domain.ReadingStateFinished))
	}
	if h.highlighter.active() {
		t.Error("highlight should be cleared when reading finishes")
	}
	if got := strings.Join(h.highlighter.highlighted, "|"); got != "Headline text|First paragraph|Second paragraph" {
		t.Errorf("highlighted = %q", got)
	}
	if h.synth.overlaps != 0 {
		t.Errorf("%d overlapping utterances", h.synth.overlaps)
	}
}

func TestController_Start_NoUnitsStaysIdle(t *testing.T) {
	h := newHarness()

	h.ctrl.Start(context.Background())

	if h.synth.count() != 0 {
		t.Error("nothing should be spoken")
	}
	if got := h.ctrl.Status().State; got != domain.ReadingStateIdle {
		t.Errorf("State = %q, want idle", got)
	}
}

func TestController_Start_ProviderErrorNotifies(t *testing.T) {
	h := newHarness()
	h.content.err = errors.New("document detached")

	h.ctrl.Start(context.Background())

	if got := h.ctrl.Status().State; got != domain.ReadingStateIdle {
		t.Errorf("State = %q, want idle", got)
	}
	if h.notifier.count() != 1 || h.notifier.levels[0] != domain.SeverityWarning {
		t.Errorf("notifications = %v %v", h.notifier.messages, h.notifier.levels)
	}
}

func TestController_Start_CancelsPriorSession(t *testing.T) {
	h := newHarness("Unit one text", "Unit two text", "Unit three text")
	h.ctrl.Start(context.Background())
	h.speakThrough()
	old := h.synth.last()
	h.synth.start(old)
	cancelsBefore := h.synth.cancels

	h.ctrl.Start(context.Background())

	if h.synth.cancels <= cancelsBefore {
		t.Error("Start should cancel the utterance in progress")
	}
	if h.content.calls != 2 {
		t.Errorf("content extracted %d times, want once per Start", h.content.calls)
	}
	fresh := h.synth.last()
	if fresh == old || fresh.utterance.Text != "Unit one text" {
		t.Fatalf("new session should restart at the first unit, got %q", fresh.utterance.Text)
	}

	// late events from the cancelled utterance are ignored
	spoken := h.synth.count()
	old.callbacks.OnEnd()
	old.callbacks.OnError(errors.New("late failure"))
	if h.synth.count() != spoken {
		t.Error("late events from the previous session advanced playback")
	}
	if got := h.ctrl.Status().CurrentIndex; got != 0 {
		t.Errorf("CurrentIndex = %d, want 0", got)
	}
	if h.synth.overlaps != 0 {
		t.Errorf("%d overlapping utterances", h.synth.overlaps)
	}
}

func TestController_Stop_FromAnyStateIsIdle(t *testing.T) {
	setups := map[string]func(h *harness){
		"idle": func(h *harness) {},
		"reading": func(h *harness) {
			h.ctrl.Start(context.Background())
			h.synth.start(h.synth.last())
		},
		"paused": func(h *harness) {
			h.ctrl.Start(context.Background())
			h.synth.start(h.synth.last())
			h.ctrl.Pause()
		},
		"after finish": func(h *harness) {
			h.ctrl.Start(context.Background())
			h.speakThrough()
			h.speakThrough()
		},
	}

	for name, setup := range setups {
		t.Run(name, func(t *testing.T) {
			h := newHarness("Alpha unit", "Beta unit")
			setup(h)

			h.ctrl.Stop()

			if got := h.ctrl.Status(); got.State != domain.ReadingStateIdle {
				t.Errorf("State = %q, want idle", got.State)
			}
			if h.highlighter.active() {
				t.Error("no unit may stay highlighted after Stop")
			}
		})
	}
}

func TestController_Stop_IgnoresLateCompletion(t *testing.T) {
	h := newHarness("Alpha unit", "Beta unit")
	h.ctrl.Start(context.Background())
	u := h.synth.last()
	h.synth.start(u)

	h.ctrl.Stop()
	u.callbacks.OnEnd()

	if h.synth.count() != 1 {
		t.Errorf("completion after Stop spoke another unit")
	}
	if got := h.ctrl.Status().State; got != domain.ReadingStateIdle {
		t.Errorf("State = %q, want idle", got)
	}
}

func TestController_PauseResume(t *testing.T) {
	h := newHarness("Alpha unit", "Beta unit")

	h.ctrl.Pause()
	if h.synth.pauses != 0 {
		t.Error("Pause while idle should not reach the engine")
	}

	h.ctrl.Start(context.Background())
	h.synth.start(h.synth.last())

	h.ctrl.Resume()
	if h.synth.resumes != 0 {
		t.Error("Resume while reading should be a no-op")
	}

	h.ctrl.Pause()
	if got := h.ctrl.Status(); got.State != domain.ReadingStatePaused || got.CurrentIndex != 0 {
		t.Errorf("after Pause status = %+v", got)
	}
	h.ctrl.Pause()
	if h.synth.pauses != 1 {
		t.Errorf("engine paused %d times, want 1", h.synth.pauses)
	}

	h.ctrl.Resume()
	if got := h.ctrl.Status(); got.State != domain.ReadingStateReading || got.CurrentIndex != 0 {
		t.Errorf("after Resume status = %+v", got)
	}
	if h.synth.resumes != 1 {
		t.Errorf("engine resumed %d times, want 1", h.synth.resumes)
	}
}

func TestController_UtteranceEndingWhilePausedStaysPaused(t *testing.T) {
	h := newHarness("Alpha unit", "Beta unit", "Gamma unit")
	h.ctrl.Start(context.Background())
	first := h.synth.last()
	h.synth.start(first)

	h.ctrl.Pause()
	h.synth.finish(first)

	got := h.ctrl.Status()
	if got.State != domain.ReadingStatePaused || got.CurrentIndex != 1 {
		t.Fatalf("status after end while paused = %+v", got)
	}
	if h.synth.count() != 1 {
		t.Errorf("spoke %d utterances while paused, want 1", h.synth.count())
	}
	if h.highlighter.active() {
		t.Error("highlight should be cleared while held between units")
	}

	h.ctrl.Resume()

	if h.synth.count() != 2 || h.synth.last().utterance.Text != "Beta unit" {
		t.Fatalf("Resume should speak the held unit, utterances = %d", h.synth.count())
	}
	if got := h.ctrl.Status(); got.State != domain.ReadingStateReading || got.CurrentIndex != 1 {
		t.Errorf("status after Resume = %+v", got)
	}
}

func TestController_Pause_NotSpeakingIsNoop(t *testing.T) {
	h := newHarness("Alpha unit")
	h.ctrl.Start(context.Background())
	h.synth.CancelAll()

	h.ctrl.Pause()

	if h.synth.pauses != 0 || h.ctrl.Status().State != domain.ReadingStateReading {
		t.Error("Pause should only act while the engine is speaking")
	}
}

func TestController_Next_FinishesAfterExactlyNAdvances(t *testing.T) {
	for n := 1; n <= 5; n++ {
		texts := make([]string, n)
		for i := range texts {
			texts[i] = strings.Repeat("x", 3) + string(rune('a'+i))
		}
		h := newHarness(texts...)
		h.ctrl.Start(context.Background())

		for i := 1; i < n; i++ {
			h.ctrl.Next()
			if h.countState(domain.ReadingStateFinished) != 0 {
				t.Fatalf("n=%d: finished after %d advances", n, i)
			}
			if got := h.ctrl.Status().CurrentIndex; got != i {
				t.Fatalf("n=%d: CurrentIndex = %d after %d advances", n, got, i)
			}
		}
		h.ctrl.Next()

		if h.countState(domain.ReadingStateFinished) != 1 {
			t.Errorf("n=%d: finished observed %d times after %d advances", n, h.countState(domain.ReadingStateFinished), n)
		}
		if h.ctrl.Status().State != domain.ReadingStateIdle {
			t.Errorf("n=%d: finished should reset to idle", n)
		}
		if h.synth.overlaps != 0 {
			t.Errorf("n=%d: %d overlapping utterances", n, h.synth.overlaps)
		}
	}
}

func TestController_Next_IgnoresCancellationOfSkippedUtterance(t *testing.T) {
	h := newHarness("Alpha unit", "Beta unit", "Gamma unit")
	h.ctrl.Start(context.Background())
	first := h.synth.last()

	h.ctrl.Next()
	first.callbacks.OnError(coreerrors.ErrUtteranceCanceled)
	first.callbacks.OnEnd()

	if got := h.ctrl.Status().CurrentIndex; got != 1 {
		t.Errorf("CurrentIndex = %d, want 1", got)
	}
	if h.synth.last().utterance.Text != "Beta unit" {
		t.Errorf("speaking %q, want Beta unit", h.synth.last().utterance.Text)
	}
}

func TestController_Previous_ClampsAtStart(t *testing.T) {
	h := newHarness("Alpha unit", "Beta unit")
	h.ctrl.Start(context.Background())

	h.ctrl.Previous()
	if got := h.ctrl.Status(); got.CurrentIndex != 0 || got.State != domain.ReadingStateReading {
		t.Errorf("after Previous at 0 status = %+v", got)
	}
	if h.synth.last().utterance.Text != "Alpha unit" {
		t.Error("Previous at the first unit should restart it")
	}

	h.ctrl.Next()
	h.ctrl.Previous()
	if got := h.ctrl.Status().CurrentIndex; got != 0 {
		t.Errorf("CurrentIndex = %d, want 0", got)
	}
}

func TestController_NextPrevious_IdleIsNoop(t *testing.T) {
	h := newHarness("Alpha unit")

	h.ctrl.Next()
	h.ctrl.Previous()

	if h.synth.count() != 0 || h.ctrl.Status().State != domain.ReadingStateIdle {
		t.Error("navigation without a session should do nothing")
	}
}

func TestController_EngineErrorSkipsOneUnit(t *testing.T) {
	h := newHarness("Alpha unit", "Beta unit", "Gamma unit")
	h.ctrl.Start(context.Background())

	h.synth.fail(h.synth.last(), errors.New("synthesis-failed"))

	if got := h.synth.last().utterance.Text; got != "Beta unit" {
		t.Errorf("after error speaking %q, want Beta unit", got)
	}
	if h.notifier.count() != 1 || h.notifier.levels[0] != domain.SeverityWarning {
		t.Errorf("notifications = %v", h.notifier.levels)
	}
}

func TestController_EngineCancellationDoesNotSkip(t *testing.T) {
	h := newHarness("Alpha unit", "Beta unit")
	h.ctrl.Start(context.Background())

	h.synth.fail(h.synth.last(), coreerrors.ErrUtteranceCanceled)

	if h.synth.count() != 1 || h.notifier.count() != 0 {
		t.Error("cancellation is not an error and should not skip")
	}
}

func TestController_RefusedUnitsAreSkipped(t *testing.T) {
	h := newHarness("Broken unit", "Readable unit")
	h.synth.speakErr = func(text string) error {
		if text == "Broken unit" {
			return errors.New("text too long")
		}
		return nil
	}

	h.ctrl.Start(context.Background())

	if got := h.synth.last().utterance.Text; got != "Readable unit" {
		t.Errorf("speaking %q, want Readable unit", got)
	}
	if got := h.ctrl.Status().CurrentIndex; got != 1 {
		t.Errorf("CurrentIndex = %d, want 1", got)
	}
	if h.notifier.count() != 1 {
		t.Errorf("notifications = %d, want 1", h.notifier.count())
	}
}

func TestController_AllUnitsRefusedFinishes(t *testing.T) {
	h := newHarness("Broken one", "Broken two")
	h.synth.speakErr = func(string) error { return errors.New("engine offline") }

	h.ctrl.Start(context.Background())

	if h.ctrl.Status().State != domain.ReadingStateIdle || h.countState(domain.ReadingStateFinished) != 1 {
		t.Error("session should finish when no unit can be spoken")
	}
}

func TestController_CurrentTextPreview(t *testing.T) {
	long := strings.Repeat("word ", 30)
	h := newHarness(long)
	h.ctrl.Start(context.Background())
	h.synth.start(h.synth.last())

	got := h.ctrl.Status().CurrentText
	if !strings.HasSuffix(got, "…") || len([]rune(got)) != domain.PreviewLength+1 {
		t.Errorf("CurrentText = %q", got)
	}
}

func TestController_UsesSelectedVoice(t *testing.T) {
	h := newHarness("Alpha unit")
	h.synth.voices = []domain.Voice{
		{Name: "remote-us", Language: "en-US"},
		{Name: "local-us", Language: "en-US", Local: true},
	}

	h.ctrl.Start(context.Background())

	v := h.synth.last().utterance.Voice
	if v == nil || v.Name != "local-us" {
		t.Errorf("utterance voice = %+v, want local-us", v)
	}
	if h.synth.last().utterance.Language != "en-US" {
		t.Error("utterance should carry the content language")
	}
}

func TestController_Unsupported(t *testing.T) {
	content := &staticContent{texts: []string{"Alpha unit"}}
	ctrl := NewController(nil, content, interfaces.Dependencies{}, Config{})

	ctrl.Start(context.Background())
	ctrl.Stop()

	if ctrl.Supported() || content.calls != 0 || ctrl.Status().State != domain.ReadingStateIdle {
		t.Error("controller without an engine should be a safe no-op")
	}
}

func TestController_Close_StartFromObserverIgnored(t *testing.T) {
	synth := &fakeSynth{}
	content := &staticContent{texts: []string{"Alpha unit"}}
	var ctrl *Controller
	restarted := false
	ctrl = NewController(synth, content, interfaces.Dependencies{}, Config{},
		WithOnChange(func(s domain.ReadingStatus) {
			if s.State == domain.ReadingStateIdle && !restarted && content.calls > 0 {
				restarted = true
				ctrl.Start(context.Background())
			}
		}),
	)
	ctrl.Start(context.Background())

	ctrl.Close()

	if !restarted {
		t.Fatal("observer did not see the idle transition")
	}
	if content.calls != 1 || synth.count() != 1 {
		t.Errorf("a session started during Close: extractions = %d, utterances = %d", content.calls, synth.count())
	}
	if ctrl.Status().State != domain.ReadingStateIdle {
		t.Errorf("state = %s after Close", ctrl.Status().State)
	}
}

func TestController_Close(t *testing.T) {
	h := newHarness("Alpha unit")
	h.ctrl.Start(context.Background())

	h.ctrl.Close()
	h.ctrl.Start(context.Background())

	if h.content.calls != 1 {
		t.Error("Start after Close should be ignored")
	}
	if h.ctrl.Status().State != domain.ReadingStateIdle || h.highlighter.active() {
		t.Error("Close should leave the controller idle with no highlight")
	}
}
