// Package infrastructure provides concrete implementations of the interfaces
// defined in the core package. These implementations handle external concerns
// such as storage, HTTP communication, speech engines and logging.
//
// The infrastructure package is organized by technical concern:
//
// - cache/memory: In-memory store using patrickmn/go-cache
// - cache/redis: Redis-backed store
// - cache/sqlite: SQLite-backed durable store
// - http/standard: Standard library HTTP client with retry logic and rate limiting
// - logger/logrus, logger/zap: Structured logger backends
// - translate/mymemory: MyMemory machine translation client
// - speech: Synthesizer built from a voice backend and an audio player
// - speech/googletts, speech/console: Synthesis backends
// - speech/deepgram: Streaming recognizer over a websocket
// - audio/beep, audio/ffmpeg: Speaker output and microphone capture
// - content/reader, content/feed: Remote page and feed item sources
//
// # Design Philosophy
//
// Infrastructure components are designed to be:
// - Pluggable: Easy to swap implementations
// - Configurable: Accept configuration objects
// - Testable: Include both unit and integration tests
// - Production-ready: Include retries, timeouts, and error handling
//
// # Store Implementations
//
// Memory Example:
//
//	store := memory.NewMemoryCache()
//	err := store.Set(ctx, "key", []byte("value"), 1*time.Hour)
//	value, err := store.Get(ctx, "key")
//
// SQLite Example:
//
//	store, err := sqlite.NewSQLiteCache("a11y-cache.db")
//	defer store.Close()
//
// # HTTP Client
//
// The HTTP client includes automatic retry logic for transient failures:
//
//	client := standard.NewStandardHTTPClient(30 * time.Second)
//	resp, err := client.Get(ctx, "https://example.com")
//	if err != nil {
//	    // Handle error
//	}
//	defer resp.Body().Close()
package infrastructure
