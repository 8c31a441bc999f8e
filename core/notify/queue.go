// ABOUTME: Time-bounded notification queue used as a visual substitute for audible alerts
// ABOUTME: Each entry owns exactly one expiry timer; entry and timer are always released together

package notify

import (
	"strings"
	"sync"
	"time"

	"digests-a11y/core/domain"
	"digests-a11y/core/interfaces"

	"github.com/google/uuid"
)

const (
	// DefaultTTL is how long an entry stays visible
	DefaultTTL = 6 * time.Second

	// DefaultMaxEntries is the number of most recent entries retained
	DefaultMaxEntries = 10
)

// Timer is a cancellable scheduled callback
type Timer interface {
	Stop() bool
}

// Scheduler creates expiry timers
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type clockScheduler struct{}

func (clockScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// entry pairs a notification with the timer that expires it
type entry struct {
	notification domain.Notification
	timer        Timer
}

// Queue is a capped, ordered list of notifications with auto-dismissal
type Queue struct {
	mu      sync.Mutex
	entries []*entry
	timers  map[string]*entry
	closed  bool

	ttl        time.Duration
	maxEntries int
	scheduler  Scheduler
	now        func() time.Time
	logger     interfaces.Logger
	onChange   func([]domain.Notification)
}

// Option configures a Queue
type Option func(*Queue)

// WithTTL overrides the auto-dismiss delay
func WithTTL(ttl time.Duration) Option {
	return func(q *Queue) {
		if ttl > 0 {
			q.ttl = ttl
		}
	}
}

// WithMaxEntries overrides the retained entry count
func WithMaxEntries(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.maxEntries = n
		}
	}
}

// WithScheduler replaces the timer source, mainly for tests
func WithScheduler(s Scheduler) Option {
	return func(q *Queue) { q.scheduler = s }
}

// WithClock replaces the creation time source
func WithClock(now func() time.Time) Option {
	return func(q *Queue) { q.now = now }
}

// WithLogger logs pushes and dismissals at debug level
func WithLogger(logger interfaces.Logger) Option {
	return func(q *Queue) { q.logger = logger }
}

// WithOnChange registers an observer called with a snapshot after every change.
// It runs outside the queue lock.
func WithOnChange(fn func([]domain.Notification)) Option {
	return func(q *Queue) { q.onChange = fn }
}

// NewQueue creates an empty queue
func NewQueue(opts ...Option) *Queue {
	q := &Queue{
		timers:     make(map[string]*entry),
		ttl:        DefaultTTL,
		maxEntries: DefaultMaxEntries,
		scheduler:  clockScheduler{},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Push adds a notification and schedules its dismissal. It returns the new
// entry's id, or an empty string when the message is blank or the queue is closed.
func (q *Queue) Push(message string, severity domain.Severity) string {
	message = strings.TrimSpace(message)
	if message == "" {
		return ""
	}
	if !severity.Valid() {
		severity = domain.SeverityInfo
	}

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ""
	}

	e := &entry{
		notification: domain.Notification{
			ID:        uuid.New().String(),
			Message:   message,
			Severity:  severity,
			CreatedAt: q.now(),
		},
	}
	// The lock is held until e is registered, so an early firing timer waits for it.
	e.timer = q.scheduler.AfterFunc(q.ttl, func() { q.expire(e) })
	q.entries = append(q.entries, e)
	q.timers[e.notification.ID] = e

	for len(q.entries) > q.maxEntries {
		oldest := q.entries[0]
		q.removeLocked(oldest)
		oldest.timer.Stop()
	}
	snapshot := q.snapshotLocked()
	q.mu.Unlock()

	q.debug("Notification pushed", map[string]interface{}{
		"id":       e.notification.ID,
		"severity": string(severity),
	})
	q.changed(snapshot)
	return e.notification.ID
}

// Dismiss removes the entry with the given id and cancels its timer.
// Unknown ids are ignored.
func (q *Queue) Dismiss(id string) {
	q.mu.Lock()
	e, ok := q.timers[id]
	if !ok {
		q.mu.Unlock()
		return
	}
	q.removeLocked(e)
	e.timer.Stop()
	snapshot := q.snapshotLocked()
	q.mu.Unlock()

	q.debug("Notification dismissed", map[string]interface{}{"id": id})
	q.changed(snapshot)
}

// List returns the current entries, oldest first
func (q *Queue) List() []domain.Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.snapshotLocked()
}

// Len returns the number of live entries
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// Close cancels every outstanding timer and drops all entries.
// Later pushes are ignored.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	for _, e := range q.entries {
		e.timer.Stop()
	}
	q.entries = nil
	q.timers = make(map[string]*entry)
	q.mu.Unlock()

	q.changed(nil)
}

// expire runs on the timer goroutine. It only removes the entry it was
// created for; a timer that lost the race with Dismiss finds nothing to do.
func (q *Queue) expire(e *entry) {
	q.mu.Lock()
	if current, ok := q.timers[e.notification.ID]; !ok || current != e {
		q.mu.Unlock()
		return
	}
	q.removeLocked(e)
	snapshot := q.snapshotLocked()
	q.mu.Unlock()

	q.debug("Notification expired", map[string]interface{}{"id": e.notification.ID})
	q.changed(snapshot)
}

func (q *Queue) removeLocked(e *entry) {
	delete(q.timers, e.notification.ID)
	for i, candidate := range q.entries {
		if candidate == e {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			return
		}
	}
}

func (q *Queue) snapshotLocked() []domain.Notification {
	out := make([]domain.Notification, len(q.entries))
	for i, e := range q.entries {
		out[i] = e.notification
	}
	return out
}

func (q *Queue) changed(snapshot []domain.Notification) {
	if q.onChange != nil {
		q.onChange(snapshot)
	}
}

func (q *Queue) debug(msg string, fields map[string]interface{}) {
	if q.logger != nil {
		q.logger.Debug(msg, fields)
	}
}
