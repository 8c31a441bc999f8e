// ABOUTME: Deepgram streaming speech recognizer over a websocket
// ABOUTME: Pumps microphone PCM to the listen endpoint and turns transcript messages into recognition callbacks

package deepgram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"digests-a11y/core/domain"
	"digests-a11y/core/interfaces"

	"github.com/gorilla/websocket"
)

const (
	defaultBaseURL = "https://api.deepgram.com/v1"
	defaultModel   = "nova-2"
	audioChunkSize = 3200 // 100ms of 16 kHz mono s16le
	stopGrace      = 5 * time.Second
)

// AudioSource opens a raw PCM stream, typically a microphone
type AudioSource interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// Config controls Deepgram websocket settings
type Config struct {
	APIKey      string
	APIBaseURL  string
	Model       string
	SmartFormat bool
	SampleRate  int
	Channels    int
}

// Recognizer implements interfaces.SpeechRecognizer for Deepgram
type Recognizer struct {
	cfg    Config
	audio  AudioSource
	dialer *websocket.Dialer
	logger interfaces.Logger
}

// NewRecognizer creates a recognizer reading audio from source
func NewRecognizer(cfg Config, source AudioSource, logger interfaces.Logger) *Recognizer {
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 16000
	}
	if cfg.Channels <= 0 {
		cfg.Channels = 1
	}
	if logger == nil {
		logger = interfaces.NopLogger{}
	}
	return &Recognizer{cfg: cfg, audio: source, dialer: websocket.DefaultDialer, logger: logger}
}

// Start connects to Deepgram and starts streaming microphone audio
func (r *Recognizer) Start(ctx context.Context, cfg interfaces.RecognitionConfig, callbacks interfaces.RecognitionCallbacks) (interfaces.RecognitionRun, error) {
	if strings.TrimSpace(r.cfg.APIKey) == "" {
		return nil, errors.New("DEEPGRAM_API_KEY is not configured")
	}

	wsURL, err := buildListenURL(r.cfg, cfg)
	if err != nil {
		return nil, err
	}

	headers := http.Header{}
	headers.Set("Authorization", "Token "+r.cfg.APIKey)

	conn, _, err := r.dialer.DialContext(ctx, wsURL, headers)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Deepgram websocket: %w", err)
	}

	mic, err := r.audio.Open(ctx)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open audio source: %w", err)
	}

	run := &run{
		conn:       conn,
		mic:        mic,
		callbacks:  callbacks,
		continuous: cfg.Continuous,
		logger:     r.logger,
		done:       make(chan struct{}),
	}
	run.wg.Add(2)
	go run.pumpLoop()
	go run.readLoop()
	go run.finish()

	go func() {
		select {
		case <-ctx.Done():
			if !run.isStopping() {
				_ = run.Abort()
			}
		case <-run.done:
		}
	}()

	return run, nil
}

type run struct {
	conn       *websocket.Conn
	mic        io.ReadCloser
	callbacks  interfaces.RecognitionCallbacks
	continuous bool
	logger     interfaces.Logger

	wg   sync.WaitGroup
	done chan struct{}

	mu       sync.Mutex
	errKind  domain.RecognitionErrorKind
	stopping bool
	aborted  bool

	writeMu   sync.Mutex
	micOnce   sync.Once
	closeOnce sync.Once
}

// Stop ends the microphone stream and lets Deepgram flush its final results.
// The socket is dropped if Deepgram has not closed it within stopGrace.
func (r *run) Stop() error {
	r.mu.Lock()
	r.stopping = true
	r.mu.Unlock()
	r.closeMic()
	_ = r.conn.SetReadDeadline(time.Now().Add(stopGrace))
	return nil
}

// Abort drops the connection immediately
func (r *run) Abort() error {
	r.mu.Lock()
	r.aborted = true
	r.stopping = true
	r.mu.Unlock()
	r.closeMic()
	r.closeConn()
	return nil
}

func (r *run) closeMic() {
	r.micOnce.Do(func() {
		if err := r.mic.Close(); err != nil {
			r.logger.Debug("Audio source did not close cleanly", map[string]interface{}{"error": err.Error()})
		}
	})
}

func (r *run) closeConn() {
	r.closeOnce.Do(func() { _ = r.conn.Close() })
}

// pumpLoop copies microphone audio to the socket, then asks Deepgram to close the stream
func (r *run) pumpLoop() {
	defer r.wg.Done()

	buf := make([]byte, audioChunkSize)
	for {
		n, err := r.mic.Read(buf)
		if n > 0 {
			if werr := r.write(websocket.BinaryMessage, buf[:n]); werr != nil {
				if !r.isStopping() {
					r.fail(domain.RecognitionErrorNetwork)
				}
				r.closeConn()
				return
			}
		}
		if err != nil {
			if !r.isStopping() && !errors.Is(err, io.EOF) {
				r.fail(domain.RecognitionErrorAudioCapture)
			}
			break
		}
	}

	if err := r.write(websocket.TextMessage, []byte(`{"type":"CloseStream"}`)); err != nil {
		r.closeConn()
	}
}

func (r *run) readLoop() {
	defer r.wg.Done()
	defer func() {
		r.mu.Lock()
		r.stopping = true
		r.mu.Unlock()
		r.closeMic()
		r.closeConn()
	}()

	for {
		_, payload, err := r.conn.ReadMessage()
		if err != nil {
			if !r.isStopping() && !isNormalClose(err) {
				r.fail(domain.RecognitionErrorNetwork)
			}
			return
		}

		var msg response
		if err := json.Unmarshal(payload, &msg); err != nil {
			continue
		}

		if strings.EqualFold(msg.Type, "Error") {
			r.logger.Warn("Deepgram reported an error", map[string]interface{}{"message": msg.Message})
			r.fail(classify(msg))
			return
		}

		text := msg.transcript()
		if text == "" {
			continue
		}
		isFinal := msg.IsFinal || msg.SpeechFinal
		if r.callbacks.OnResult != nil && !r.isAborted() {
			r.callbacks.OnResult(domain.RecognitionBatch{Segments: []domain.RecognitionSegment{{Text: text, IsFinal: isFinal}}})
		}
		if msg.SpeechFinal && !r.continuous {
			_ = r.Stop()
		}
	}
}

// finish reports the run's error, if any, and then OnEnd exactly once
func (r *run) finish() {
	r.wg.Wait()
	close(r.done)

	r.mu.Lock()
	kind := r.errKind
	if r.aborted {
		kind = domain.RecognitionErrorAborted
	}
	r.mu.Unlock()

	if kind != "" && r.callbacks.OnError != nil {
		r.callbacks.OnError(kind)
	}
	if r.callbacks.OnEnd != nil {
		r.callbacks.OnEnd()
	}
}

func (r *run) write(messageType int, data []byte) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	return r.conn.WriteMessage(messageType, data)
}

func (r *run) fail(kind domain.RecognitionErrorKind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.errKind == "" {
		r.errKind = kind
	}
}

func (r *run) isStopping() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stopping
}

func (r *run) isAborted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.aborted
}

func isNormalClose(err error) bool {
	if websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseNoStatusReceived,
	) {
		return true
	}
	return errors.Is(err, net.ErrClosed)
}

// classify maps a Deepgram error message to a recognition error kind
func classify(msg response) domain.RecognitionErrorKind {
	text := strings.ToLower(msg.Message + " " + msg.Description)
	switch {
	case strings.Contains(text, "unauthorized") || strings.Contains(text, "credentials") || strings.Contains(text, "forbidden"):
		return domain.RecognitionErrorServiceNotAllowed
	case strings.Contains(text, "language"):
		return domain.RecognitionErrorLanguage
	default:
		return domain.RecognitionErrorService
	}
}

type response struct {
	Type        string `json:"type"`
	Message     string `json:"message"`
	Description string `json:"description"`
	IsFinal     bool   `json:"is_final"`
	SpeechFinal bool   `json:"speech_final"`

	Channel struct {
		Alternatives []struct {
			Transcript string `json:"transcript"`
		} `json:"alternatives"`
	} `json:"channel"`
}

func (m response) transcript() string {
	if len(m.Channel.Alternatives) == 0 {
		return ""
	}
	return strings.TrimSpace(m.Channel.Alternatives[0].Transcript)
}

func buildListenURL(providerCfg Config, cfg interfaces.RecognitionConfig) (string, error) {
	base := strings.TrimSpace(providerCfg.APIBaseURL)
	if strings.HasPrefix(base, "https://") {
		base = "wss://" + strings.TrimPrefix(base, "https://")
	} else if strings.HasPrefix(base, "http://") {
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}
	base = strings.TrimRight(base, "/")

	listenURL, err := url.Parse(base + "/listen")
	if err != nil {
		return "", fmt.Errorf("invalid Deepgram API base URL: %w", err)
	}

	query := listenURL.Query()
	query.Set("model", providerCfg.Model)
	query.Set("encoding", "linear16")
	query.Set("sample_rate", fmt.Sprintf("%d", providerCfg.SampleRate))
	query.Set("channels", fmt.Sprintf("%d", providerCfg.Channels))
	query.Set("interim_results", fmt.Sprintf("%t", cfg.InterimResults))
	query.Set("smart_format", fmt.Sprintf("%t", providerCfg.SmartFormat))
	if cfg.Language != "" {
		query.Set("language", cfg.Language)
	}
	listenURL.RawQuery = query.Encode()
	return listenURL.String(), nil
}
