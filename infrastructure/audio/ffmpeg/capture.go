// ABOUTME: Microphone capture through an ffmpeg child process
// ABOUTME: Streams 16-bit little-endian PCM from the configured input device on stdout

package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"time"
)

// Config describes how the microphone is captured
type Config struct {
	Command     string
	SampleRate  int
	Channels    int
	InputFormat string
	InputDevice string

	// StartupGrace is how long ffmpeg must survive before capture counts as started
	StartupGrace time.Duration
}

// Capture opens ffmpeg microphone sessions
type Capture struct {
	cfg Config
}

// NewCapture fills in defaults: 16 kHz mono from the default PulseAudio source
func NewCapture(cfg Config) *Capture {
	if cfg.Command == "" {
		cfg.Command = "ffmpeg"
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 16000
	}
	if cfg.Channels <= 0 {
		cfg.Channels = 1
	}
	if cfg.InputFormat == "" {
		cfg.InputFormat = "pulse"
	}
	if cfg.InputDevice == "" {
		cfg.InputDevice = "default"
	}
	if cfg.StartupGrace <= 0 {
		cfg.StartupGrace = 250 * time.Millisecond
	}
	return &Capture{cfg: cfg}
}

// SampleRate is the PCM rate of opened sessions
func (c *Capture) SampleRate() int { return c.cfg.SampleRate }

// Channels is the PCM channel count of opened sessions
func (c *Capture) Channels() int { return c.cfg.Channels }

// Args returns the ffmpeg arguments for a capture session
func (c *Capture) Args() []string {
	return []string{
		"-nostdin",
		"-hide_banner",
		"-loglevel", "warning",
		"-f", c.cfg.InputFormat,
		"-i", c.cfg.InputDevice,
		"-ac", strconv.Itoa(c.cfg.Channels),
		"-ar", strconv.Itoa(c.cfg.SampleRate),
		"-f", "s16le",
		"-",
	}
}

// Open starts ffmpeg. Closing the returned reader stops the process.
func (c *Capture) Open(ctx context.Context) (io.ReadCloser, error) {
	cmd := exec.CommandContext(ctx, c.cfg.Command, c.Args()...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create ffmpeg stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	waitErr := make(chan error, 1)
	go func() {
		waitErr <- cmd.Wait()
		close(waitErr)
	}()

	select {
	case err := <-waitErr:
		if err != nil {
			return nil, fmt.Errorf("ffmpeg exited before capture started: %w: %s", err, bytes.TrimSpace(stderr.Bytes()))
		}
		return nil, errors.New("ffmpeg exited before capture started")
	case <-time.After(c.cfg.StartupGrace):
	}

	return &session{
		stdout:  stdout,
		stderr:  &stderr,
		process: cmd.Process,
		waitErr: waitErr,
	}, nil
}

type session struct {
	stdout io.ReadCloser
	stderr *bytes.Buffer

	process *os.Process
	waitErr <-chan error

	stopOnce sync.Once
	stopErr  error
}

func (s *session) Read(p []byte) (int, error) {
	return s.stdout.Read(p)
}

// Close interrupts ffmpeg, killing it if it does not exit promptly
func (s *session) Close() error {
	s.stopOnce.Do(func() {
		if s.process != nil {
			_ = s.process.Signal(os.Interrupt)
		}

		select {
		case err, ok := <-s.waitErr:
			if ok {
				s.stopErr = normalizeStopErr(err)
			}
		case <-time.After(1200 * time.Millisecond):
			if s.process != nil {
				_ = s.process.Kill()
			}
			if err, ok := <-s.waitErr; ok {
				s.stopErr = normalizeStopErr(err)
			}
		}

		if closeErr := s.stdout.Close(); closeErr != nil && !errors.Is(closeErr, os.ErrClosed) && s.stopErr == nil {
			s.stopErr = closeErr
		}
		if s.stopErr != nil && s.stderr.Len() > 0 {
			s.stopErr = fmt.Errorf("%w: %s", s.stopErr, bytes.TrimSpace(s.stderr.Bytes()))
		}
	})
	return s.stopErr
}

// normalizeStopErr treats a non-zero exit after our interrupt as a clean stop
func normalizeStopErr(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return nil
	}
	return err
}
