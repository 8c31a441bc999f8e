// ABOUTME: Component wiring shared by every command
// ABOUTME: Builds the logger, durable store, translator and speech engines from configuration

package main

import (
	"context"
	"io"
	"os"
	"time"

	"digests-a11y/core/interfaces"
	"digests-a11y/core/translation"
	"digests-a11y/core/workers"
	beepaudio "digests-a11y/infrastructure/audio/beep"
	"digests-a11y/infrastructure/audio/ffmpeg"
	"digests-a11y/infrastructure/cache/memory"
	"digests-a11y/infrastructure/cache/redis"
	"digests-a11y/infrastructure/cache/sqlite"
	"digests-a11y/infrastructure/http/standard"
	"digests-a11y/infrastructure/logger"
	logruslogger "digests-a11y/infrastructure/logger/logrus"
	zaplogger "digests-a11y/infrastructure/logger/zap"
	"digests-a11y/infrastructure/speech"
	"digests-a11y/infrastructure/speech/console"
	"digests-a11y/infrastructure/speech/deepgram"
	"digests-a11y/infrastructure/speech/googletts"
	"digests-a11y/infrastructure/translate/mymemory"
	"digests-a11y/pkg/config"
	"digests-a11y/pkg/featureflags"
)

// app owns the components built for one command and closes them in reverse order
type app struct {
	cfg     *config.Config
	logger  interfaces.Logger
	flags   featureflags.Manager
	closers []func() error
}

// newApp creates the logger. Interactive commands keep stdout for the user
// and log to stderr unless a log file is configured.
func newApp(cfg *config.Config, interactive bool) *app {
	a := &app{
		cfg:   cfg,
		flags: featureflags.NewEnvManager("FEATURE_", featureflags.Defaults),
	}

	out := logger.DefaultOutput()
	out.File = cfg.Log.File
	var w io.Writer = out.Writer()
	if interactive && out.File == "" {
		w = os.Stderr
	}

	switch cfg.Log.Backend {
	case "zap":
		l := zaplogger.NewWithWriter(zaplogger.Config{Level: cfg.Log.Level}, w)
		a.onClose(func() error {
			_ = l.Sync()
			return nil
		})
		a.logger = l
	default:
		a.logger = logruslogger.NewWithWriter(logruslogger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format}, w)
	}
	return a
}

func (a *app) onClose(fn func() error) {
	a.closers = append(a.closers, fn)
}

// Close releases components in reverse creation order
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("Failed to close component", map[string]interface{}{"error": err.Error()})
		}
	}
	a.closers = nil
}

// dependencies builds the shared container with the durable store and HTTP client
func (a *app) dependencies(ctx context.Context, notifier interfaces.Notifier) interfaces.Dependencies {
	return interfaces.Dependencies{
		Cache:      a.store(ctx),
		HTTPClient: standard.NewStandardHTTPClient(30 * time.Second),
		Logger:     a.logger,
		Notifier:   notifier,
	}
}

// store opens the configured durable store, falling back to memory when it
// cannot be opened. It returns nil when caching is switched off.
func (a *app) store(ctx context.Context) interfaces.Cache {
	if !a.flags.IsEnabled(ctx, featureflags.CacheEnabled) {
		a.logger.Info("Caching disabled", nil)
		return nil
	}

	switch a.cfg.Cache.Type {
	case "redis":
		redisCache, err := redis.NewRedisCache(a.cfg.Cache.Redis)
		if err != nil {
			a.logger.Error("Failed to create Redis cache, falling back to memory", map[string]interface{}{
				"error": err.Error(),
			})
			return memory.NewMemoryCache()
		}
		a.onClose(redisCache.Close)
		a.logger.Info("Using Redis cache", map[string]interface{}{"address": a.cfg.Cache.Redis.Address})
		return redisCache
	case "sqlite":
		sqliteCache, err := sqlite.NewSQLiteCache(a.cfg.Cache.SQLite.Path, sqlite.WithLogger(a.logger))
		if err != nil {
			a.logger.Error("Failed to open SQLite cache, falling back to memory", map[string]interface{}{
				"path":  a.cfg.Cache.SQLite.Path,
				"error": err.Error(),
			})
			return memory.NewMemoryCache()
		}
		a.onClose(sqliteCache.Close)
		a.logger.Info("Using SQLite cache", map[string]interface{}{"path": a.cfg.Cache.SQLite.Path})
		return sqliteCache
	default:
		a.logger.Info("Using memory cache", nil)
		return memory.NewMemoryCache()
	}
}

// translation builds the cached translation front end over MyMemory
func (a *app) translation(deps interfaces.Dependencies) *translation.Service {
	tc := a.cfg.Translation
	client := mymemory.NewClient(
		standard.NewStandardHTTPClient(tc.RequestTimeout, standard.WithRateLimit(tc.RateLimit, 1)),
		mymemory.WithEndpoint(tc.Endpoint),
		mymemory.WithEmail(tc.Email),
	)
	service := translation.NewService(deps, client, translation.Config{
		MaxInputRunes:  tc.MaxInputRunes,
		RequestTimeout: tc.RequestTimeout,
		Workers:        workers.WorkerConfig{MaxWorkers: tc.Workers},
	})
	a.onClose(service.Close)
	return service
}

// synthesizer builds the configured speech engine. It returns nil when
// speech is switched off.
func (a *app) synthesizer(ctx context.Context, deps interfaces.Dependencies) (*speech.Engine, error) {
	if !a.flags.IsEnabled(ctx, featureflags.SpeechEnabled) {
		return nil, nil
	}

	var engine *speech.Engine
	switch a.cfg.Speech.Engine {
	case "google":
		client, err := googletts.NewClient(ctx)
		if err != nil {
			return nil, err
		}
		a.onClose(client.Close)
		engine = speech.NewEngine(googletts.NewBackend(client, deps), beepaudio.NewPlayer(), a.logger)
	case "console":
		c := console.New(console.Config{
			WordsPerMinute: a.cfg.Speech.WordsPerMinute,
			Language:       a.cfg.Speech.Language,
		})
		engine = speech.NewEngine(c, c, a.logger)
	default:
		return nil, nil
	}
	a.onClose(engine.Close)
	return engine, nil
}

// recognizer builds the Deepgram recognizer over an ffmpeg microphone.
// It returns nil when captions are switched off.
func (a *app) recognizer(ctx context.Context) interfaces.SpeechRecognizer {
	cc := a.cfg.Captions
	if !a.flags.IsEnabled(ctx, featureflags.CaptionsEnabled) || cc.Engine != "deepgram" {
		return nil
	}
	capture := ffmpeg.NewCapture(ffmpeg.Config{
		Command:     cc.FFmpegCommand,
		InputFormat: cc.InputFormat,
		InputDevice: cc.InputDevice,
	})
	return deepgram.NewRecognizer(deepgram.Config{
		APIKey:      cc.DeepgramAPIKey,
		Model:       cc.DeepgramModel,
		SmartFormat: true,
		SampleRate:  capture.SampleRate(),
		Channels:    capture.Channels(),
	}, capture, a.logger)
}
