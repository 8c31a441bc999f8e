// ABOUTME: SQLite-based cache implementation for persistent caching
// ABOUTME: Durable default store for translations; entries written with a zero TTL survive restarts indefinitely

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	coreerrors "digests-a11y/core/errors"
	"digests-a11y/core/interfaces"

	_ "github.com/mattn/go-sqlite3"
)

const (
	maxKeyLength   = 255
	maxValueLength = 1024 * 1024

	// DefaultCleanupInterval is how often expired rows are purged
	DefaultCleanupInterval = 5 * time.Minute
)

// Client implements the Cache interface using SQLite
type Client struct {
	db       *sql.DB
	filePath string
	logger   interfaces.Logger
	interval time.Duration

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// Option configures a Client
type Option func(*Client)

// WithLogger logs cleanup failures
func WithLogger(logger interfaces.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithCleanupInterval overrides how often expired rows are purged
func WithCleanupInterval(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.interval = d
		}
	}
}

// NewSQLiteCache opens (or creates) the cache database at filePath
func NewSQLiteCache(filePath string, opts ...Option) (*Client, error) {
	if filePath == "" {
		filePath = "cache.db"
	}

	db, err := sql.Open("sqlite3", filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to SQLite database: %w", err)
	}

	client := &Client{
		db:       db,
		filePath: filePath,
		logger:   interfaces.NopLogger{},
		interval: DefaultCleanupInterval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(client)
	}

	if err := client.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	go client.cleanupRoutine()

	return client, nil
}

// initSchema creates the cache table if it doesn't exist. An expiry of 0 never expires.
func (c *Client) initSchema() error {
	query := `
		CREATE TABLE IF NOT EXISTS cache (
			key TEXT PRIMARY KEY,
			value BLOB NOT NULL,
			expiry INTEGER NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_expiry ON cache(expiry);
	`
	_, err := c.db.Exec(query)
	return err
}

// Get retrieves a value from the cache
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	var value []byte
	query := "SELECT value FROM cache WHERE key = ? AND (expiry = 0 OR expiry > ?)"
	err := c.db.QueryRowContext(ctx, query, key, time.Now().UnixMilli()).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &coreerrors.NotFoundError{Resource: "cache key", ID: key}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get value: %w", err)
	}
	return value, nil
}

// Set stores a value in the cache. A zero TTL stores it indefinitely.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if len(value) == 0 {
		return &coreerrors.ValidationError{Field: "value", Message: "cannot be empty"}
	}
	if len(value) > maxValueLength {
		return &coreerrors.ValidationError{Field: "value", Message: fmt.Sprintf("exceeds %d bytes", maxValueLength)}
	}

	var expiry int64
	if ttl > 0 {
		expiry = time.Now().Add(ttl).UnixMilli()
	}

	query := "INSERT OR REPLACE INTO cache (key, value, expiry) VALUES (?, ?, ?)"
	if _, err := c.db.ExecContext(ctx, query, key, value, expiry); err != nil {
		return fmt.Errorf("failed to set value: %w", err)
	}
	return nil
}

// Delete removes a value from the cache
func (c *Client) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if _, err := c.db.ExecContext(ctx, "DELETE FROM cache WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete value: %w", err)
	}
	return nil
}

// Clear removes all values from the cache
func (c *Client) Clear(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, "DELETE FROM cache"); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

// cleanupRoutine periodically removes expired entries until Close
func (c *Client) cleanupRoutine() {
	defer close(c.done)
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := c.cleanup(context.Background()); err != nil {
				c.logger.Warn("SQLite cache cleanup failed", map[string]interface{}{
					"error": err.Error(),
				})
			}
		case <-c.stop:
			return
		}
	}
}

// cleanup removes expired entries and reports how many were deleted
func (c *Client) cleanup(ctx context.Context) (int64, error) {
	res, err := c.db.ExecContext(ctx, "DELETE FROM cache WHERE expiry != 0 AND expiry <= ?", time.Now().UnixMilli())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Close stops the cleanup routine and closes the database connection
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.stop)
		<-c.done
		err = c.db.Close()
	})
	return err
}

// Stats returns cache statistics
func (c *Client) Stats(ctx context.Context) (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var total, persistent int
	if err := c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM cache").Scan(&total); err != nil {
		return nil, err
	}
	if err := c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM cache WHERE expiry = 0").Scan(&persistent); err != nil {
		return nil, err
	}
	stats["total_entries"] = total
	stats["persistent_entries"] = persistent

	var pageCount, pageSize int
	if err := c.db.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pageCount); err == nil {
		if err := c.db.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize); err == nil {
			stats["db_size_bytes"] = pageCount * pageSize
		}
	}
	stats["file_path"] = c.filePath

	return stats, nil
}

func validateKey(key string) error {
	if key == "" {
		return &coreerrors.ValidationError{Field: "key", Message: "cannot be empty"}
	}
	if len(key) > maxKeyLength {
		return &coreerrors.ValidationError{Field: "key", Message: fmt.Sprintf("exceeds %d bytes", maxKeyLength)}
	}
	return nil
}
