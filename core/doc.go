// Package core contains the accessibility logic for Digests.
// It is framework-agnostic and can be used independently of any web
// framework, speech engine or storage backend.
//
// The core package is organized into several sub-packages:
//
// - domain: Pure models (speakable units, reading status, transcripts, notifications)
// - extractor: Walks an HTML tree and yields speakable units in reading order
// - playback: Read-aloud state machine over a speech synthesizer
// - captions: Continuous live captions over a speech recognizer
// - notify: Bounded, self-expiring notification queue
// - translation: Cached, deduplicating translation front end
// - workers: Bounded worker pool used for batch translation
// - errors: Custom error types for better error handling
// - interfaces: Contracts for external dependencies (cache, HTTP, logger, speech)
//
// # Design Principles
//
// - No external framework dependencies
// - All external dependencies are injected via interfaces
// - Controllers serialize operations and engine callbacks behind one lock
// - Observers are called after the lock is released
//
// # Usage Example
//
//	import (
//	    "digests-a11y/core/interfaces"
//	    "digests-a11y/core/notify"
//	    "digests-a11y/core/translation"
//	)
//
//	queue := notify.NewQueue(notify.WithLogger(logger))
//	defer queue.Close()
//
//	deps := interfaces.Dependencies{
//	    Cache:      store,  // implements interfaces.Cache
//	    HTTPClient: client, // implements interfaces.HTTPClient
//	    Logger:     logger, // implements interfaces.Logger
//	    Notifier:   queue,
//	}
//
//	service := translation.NewService(deps, translator, translation.Config{})
//	defer service.Close()
//
//	text := service.Translate(ctx, "Bonjour", "fr", "en")
package core
