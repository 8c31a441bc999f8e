// ABOUTME: MP3 playback through the system speaker using faiface/beep
// ABOUTME: Each clip is wrapped in a beep.Ctrl so it can be paused, resumed and stopped mid-stream

package beep

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"digests-a11y/infrastructure/speech"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
)

// DefaultSampleRate is the rate the speaker is opened at; clips are resampled to it
const DefaultSampleRate = beep.SampleRate(44100)

// Player implements speech.Player on the default audio device
type Player struct {
	sampleRate beep.SampleRate

	initOnce sync.Once
	initErr  error
}

// NewPlayer creates a player. The speaker is opened on first use.
func NewPlayer() *Player {
	return &Player{sampleRate: DefaultSampleRate}
}

// Play decodes MP3 audio and starts playing it
func (p *Player) Play(audio []byte) (speech.Playback, error) {
	if len(audio) == 0 {
		return nil, errors.New("no audio to play")
	}

	streamer, format, err := mp3.Decode(io.NopCloser(bytes.NewReader(audio)))
	if err != nil {
		return nil, fmt.Errorf("failed to decode MP3: %w", err)
	}

	p.initOnce.Do(func() {
		p.initErr = speaker.Init(p.sampleRate, p.sampleRate.N(time.Second/10))
	})
	if p.initErr != nil {
		streamer.Close()
		return nil, fmt.Errorf("failed to open speaker: %w", p.initErr)
	}

	var source beep.Streamer = streamer
	if format.SampleRate != p.sampleRate {
		source = beep.Resample(4, format.SampleRate, p.sampleRate, streamer)
	}

	pb := newPlayback(source, streamer, speakerLocker{})
	speaker.Play(beep.Seq(pb.ctrl, beep.Callback(pb.finish)))
	return pb, nil
}

// locker guards mutation of a streamer the speaker is reading
type locker interface {
	Lock()
	Unlock()
}

type speakerLocker struct{}

func (speakerLocker) Lock()   { speaker.Lock() }
func (speakerLocker) Unlock() { speaker.Unlock() }

type playback struct {
	ctrl   *beep.Ctrl
	closer io.Closer
	lock   locker

	done     chan struct{}
	doneOnce sync.Once
}

func newPlayback(source beep.Streamer, closer io.Closer, lock locker) *playback {
	return &playback{
		ctrl:   &beep.Ctrl{Streamer: source},
		closer: closer,
		lock:   lock,
		done:   make(chan struct{}),
	}
}

func (p *playback) Pause() {
	p.lock.Lock()
	p.ctrl.Paused = true
	p.lock.Unlock()
}

func (p *playback) Resume() {
	p.lock.Lock()
	p.ctrl.Paused = false
	p.lock.Unlock()
}

// Stop detaches the clip; the speaker then moves past it
func (p *playback) Stop() {
	p.lock.Lock()
	p.ctrl.Streamer = nil
	p.ctrl.Paused = false
	p.lock.Unlock()
	p.finish()
}

func (p *playback) Done() <-chan struct{} {
	return p.done
}

func (p *playback) finish() {
	p.doneOnce.Do(func() {
		close(p.done)
		if p.closer != nil {
			p.closer.Close()
		}
	})
}
