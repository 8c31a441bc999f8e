// ABOUTME: Translation cache service memoizes machine translations in the durable store
// ABOUTME: Deduplicates concurrent identical requests and fails open to the original text

package translation

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"digests-a11y/core/domain"
	"digests-a11y/core/errors"
	"digests-a11y/core/interfaces"
	"digests-a11y/core/workers"

	"golang.org/x/sync/singleflight"
)

// DefaultMaxInputRunes is the longest input the translation service accepts
const DefaultMaxInputRunes = 500

// Config holds translation service settings
type Config struct {
	// MaxInputRunes truncates text sent to the translator
	MaxInputRunes int

	// RequestTimeout bounds one call to the translator, zero means none
	RequestTimeout time.Duration

	// Workers sizes the pool used by TranslateBatch
	Workers workers.WorkerConfig
}

// DefaultConfig returns the default translation settings
func DefaultConfig() Config {
	return Config{
		MaxInputRunes:  DefaultMaxInputRunes,
		RequestTimeout: 10 * time.Second,
		Workers:        workers.DefaultWorkerConfig(),
	}
}

// Service is the cached, deduplicating translation front end
type Service struct {
	store      interfaces.Cache
	translator interfaces.Translator
	logger     interfaces.Logger
	config     Config

	inflight singleflight.Group
	pool     *workers.TranslationWorker
	requests atomic.Int64

	mu     sync.Mutex
	closed bool
}

// NewService creates a translation service over deps.Cache using translator
// for misses. A nil cache disables memoization but keeps deduplication.
func NewService(deps interfaces.Dependencies, translator interfaces.Translator, config Config) *Service {
	if config.MaxInputRunes <= 0 {
		config.MaxInputRunes = DefaultMaxInputRunes
	}
	logger := deps.Logger
	if logger == nil {
		logger = interfaces.NopLogger{}
	}

	s := &Service{
		store:      deps.Cache,
		translator: translator,
		logger:     logger,
		config:     config,
	}
	s.pool = workers.NewTranslationWorker(s, config.Workers)
	return s
}

// Translate returns text translated from source to target. Blank text and
// identical languages return text unchanged without touching the store.
// Any failure returns text unchanged.
func (s *Service) Translate(ctx context.Context, text, source, target string) string {
	if strings.TrimSpace(text) == "" || domain.SameLanguage(source, target) {
		return text
	}

	key := domain.NewTranslationKey(text, source, target).String()
	if cached, ok := s.lookup(ctx, key); ok {
		return cached
	}

	result, _, _ := s.inflight.Do(key, func() (interface{}, error) {
		// A caller that raced the previous flight finds its result here.
		if cached, ok := s.lookup(ctx, key); ok {
			return cached, nil
		}
		return s.fetch(ctx, key, text, source, target), nil
	})
	return result.(string)
}

// TranslateBatch translates texts in parallel and returns results in input order.
// Duplicate strings share one request.
func (s *Service) TranslateBatch(ctx context.Context, texts []string, source, target string) []string {
	out := make([]string, len(texts))
	copy(out, texts)
	if len(texts) == 0 || domain.SameLanguage(source, target) {
		return out
	}

	if !s.startPool() {
		for i, text := range texts {
			out[i] = s.Translate(ctx, text, source, target)
		}
		return out
	}

	results := make(chan workers.TranslationResult, len(texts))
	pending := 0
	for i, text := range texts {
		job := &workers.TranslationJob{
			Index:    i,
			Text:     text,
			Source:   source,
			Target:   target,
			Context:  ctx,
			ResultCh: results,
		}
		if err := s.pool.SubmitJob(job); err != nil {
			s.logger.Debug("Translating inline, worker pool unavailable", map[string]interface{}{
				"error": err.Error(),
			})
			out[i] = s.Translate(ctx, text, source, target)
			continue
		}
		pending++
	}

	for ; pending > 0; pending-- {
		select {
		case r := <-results:
			out[r.Index] = r.Text
		case <-ctx.Done():
			return out
		}
	}
	return out
}

// Requests returns how many calls reached the external translator
func (s *Service) Requests() int64 {
	return s.requests.Load()
}

// Close stops the batch worker pool. Later batches are translated inline.
func (s *Service) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return s.pool.Stop()
}

// startPool starts the worker pool on first use. It reports false once the
// service is closed.
func (s *Service) startPool() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	if err := s.pool.Start(); err != nil {
		s.logger.Warn("Failed to start translation workers", map[string]interface{}{
			"error": err.Error(),
		})
		return false
	}
	return true
}

// fetch performs the single outbound request for key
func (s *Service) fetch(ctx context.Context, key, text, source, target string) string {
	if s.translator == nil {
		return text
	}
	if s.config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.RequestTimeout)
		defer cancel()
	}

	s.requests.Add(1)
	translated, err := s.translator.Translate(ctx, truncateRunes(text, s.config.MaxInputRunes), source, target)
	if err != nil {
		fields := map[string]interface{}{
			"source": source,
			"target": target,
			"error":  err.Error(),
		}
		if errors.IsTranslationRejected(err) {
			s.logger.Warn("Translation service rejected request", fields)
		} else {
			s.logger.Warn("Translation request failed", fields)
		}
		return text
	}

	translated = strings.TrimSpace(translated)
	if translated == "" || translated == text {
		return text
	}

	if s.store != nil {
		if err := s.store.Set(ctx, key, []byte(translated), 0); err != nil {
			s.logger.Debug("Failed to store translation", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
	}
	return translated
}

func (s *Service) lookup(ctx context.Context, key string) (string, bool) {
	if s.store == nil {
		return "", false
	}
	data, err := s.store.Get(ctx, key)
	if err != nil {
		if !errors.IsNotFound(err) {
			s.logger.Debug("Translation cache read failed", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
		return "", false
	}
	if len(data) == 0 {
		return "", false
	}
	return string(data), true
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
