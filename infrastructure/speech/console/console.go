// ABOUTME: Console speech backend for hosts without audio output
// ABOUTME: Prints each utterance and simulates reading time from its word count

package console

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"digests-a11y/core/domain"
	"digests-a11y/infrastructure/speech"

	"github.com/fatih/color"
)

// DefaultWordsPerMinute approximates a comfortable reading pace
const DefaultWordsPerMinute = 150

// Config controls output and pacing
type Config struct {
	Output         io.Writer
	WordsPerMinute int
	Language       string
}

// Engine is both the speech.Backend and the speech.Player of the console
type Engine struct {
	out      io.Writer
	perWord  time.Duration
	language string
	mu       sync.Mutex
	printer  *color.Color
}

// New creates a console engine
func New(cfg Config) *Engine {
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	if cfg.WordsPerMinute <= 0 {
		cfg.WordsPerMinute = DefaultWordsPerMinute
	}
	if cfg.Language == "" {
		cfg.Language = "en-US"
	}
	return &Engine{
		out:      cfg.Output,
		perWord:  time.Minute / time.Duration(cfg.WordsPerMinute),
		language: cfg.Language,
		printer:  color.New(color.FgYellow),
	}
}

// Synthesize returns the text itself as the "audio"
func (e *Engine) Synthesize(ctx context.Context, utterance domain.Utterance) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []byte(utterance.Text), nil
}

// Voices reports a single on-device voice
func (e *Engine) Voices(ctx context.Context) ([]domain.Voice, error) {
	return []domain.Voice{{Name: "console", Language: e.language, Local: true, Default: true}}, nil
}

// Play prints the text and finishes after its simulated reading time
func (e *Engine) Play(audio []byte) (speech.Playback, error) {
	text := string(audio)
	e.mu.Lock()
	e.printer.Fprintf(e.out, "🔊 %s\n", text)
	e.mu.Unlock()

	words := len(strings.Fields(text))
	return newPlayback(time.Duration(words) * e.perWord), nil
}

// playback is a pausable countdown
type playback struct {
	mu        sync.Mutex
	remaining time.Duration
	started   time.Time
	timer     *time.Timer

	done     chan struct{}
	doneOnce sync.Once
}

func newPlayback(d time.Duration) *playback {
	p := &playback{remaining: d, done: make(chan struct{})}
	p.mu.Lock()
	p.startLocked()
	p.mu.Unlock()
	return p
}

func (p *playback) startLocked() {
	p.started = time.Now()
	p.timer = time.AfterFunc(p.remaining, p.finish)
}

func (p *playback) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.timer == nil {
		return
	}
	if p.timer.Stop() {
		p.remaining -= time.Since(p.started)
		if p.remaining < 0 {
			p.remaining = 0
		}
	}
	p.timer = nil
}

func (p *playback) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.timer != nil || p.isDone() {
		return
	}
	p.startLocked()
}

func (p *playback) Stop() {
	p.mu.Lock()
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.mu.Unlock()
	p.finish()
}

func (p *playback) Done() <-chan struct{} {
	return p.done
}

func (p *playback) isDone() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

func (p *playback) finish() {
	p.doneOnce.Do(func() { close(p.done) })
}
