// ABOUTME: Translation worker handles background translation of batches of strings
// ABOUTME: Provides a managed worker pool so a page of text can warm the translation cache in parallel

package workers

import (
	"context"
	"sync"
	"time"
)

// Translator is the fail-open translation call a worker performs
type Translator interface {
	Translate(ctx context.Context, text, source, target string) string
}

// TranslationJob represents one string to translate
type TranslationJob struct {
	Index    int
	Text     string
	Source   string
	Target   string
	Context  context.Context
	ResultCh chan<- TranslationResult
}

// TranslationResult carries a translated string back to the submitter
type TranslationResult struct {
	Index int
	Text  string
}

// TranslationWorker manages background translation processing
type TranslationWorker struct {
	translator Translator
	jobQueue   chan *TranslationJob
	maxWorkers int
	queueSize  int
	submitWait time.Duration
	wg         sync.WaitGroup
	ctx        context.Context
	cancel     context.CancelFunc
	mu         sync.RWMutex
	running    bool
}

// WorkerConfig holds configuration for the translation worker
type WorkerConfig struct {
	MaxWorkers int
	QueueSize  int

	// SubmitTimeout bounds how long SubmitJob waits for queue space
	SubmitTimeout time.Duration
}

// DefaultWorkerConfig returns the default worker configuration
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		MaxWorkers:    4,
		QueueSize:     100,
		SubmitTimeout: 5 * time.Second,
	}
}

// NewTranslationWorker creates a new translation worker
func NewTranslationWorker(translator Translator, config WorkerConfig) *TranslationWorker {
	def := DefaultWorkerConfig()
	if config.MaxWorkers <= 0 {
		config.MaxWorkers = def.MaxWorkers
	}
	if config.QueueSize <= 0 {
		config.QueueSize = def.QueueSize
	}
	if config.SubmitTimeout <= 0 {
		config.SubmitTimeout = def.SubmitTimeout
	}

	return &TranslationWorker{
		translator: translator,
		maxWorkers: config.MaxWorkers,
		queueSize:  config.QueueSize,
		submitWait: config.SubmitTimeout,
	}
}

// Start starts the worker pool
func (tw *TranslationWorker) Start() error {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.running {
		return nil
	}

	tw.ctx, tw.cancel = context.WithCancel(context.Background())
	tw.jobQueue = make(chan *TranslationJob, tw.queueSize)
	for i := 0; i < tw.maxWorkers; i++ {
		tw.wg.Add(1)
		go tw.run(tw.ctx, tw.jobQueue)
	}

	tw.running = true
	return nil
}

// Stop stops the worker pool and waits for in-flight jobs
func (tw *TranslationWorker) Stop() error {
	tw.mu.Lock()
	if !tw.running {
		tw.mu.Unlock()
		return nil
	}
	tw.running = false
	tw.cancel()
	close(tw.jobQueue)
	tw.mu.Unlock()

	tw.wg.Wait()
	return nil
}

// Running reports whether the pool accepts jobs
func (tw *TranslationWorker) Running() bool {
	tw.mu.RLock()
	defer tw.mu.RUnlock()
	return tw.running
}

// SubmitJob submits a job to the worker pool
func (tw *TranslationWorker) SubmitJob(job *TranslationJob) error {
	// The read lock keeps Stop from closing the queue under a pending send.
	tw.mu.RLock()
	defer tw.mu.RUnlock()
	if !tw.running {
		return ErrWorkerNotRunning
	}

	timer := time.NewTimer(tw.submitWait)
	defer timer.Stop()

	select {
	case tw.jobQueue <- job:
		return nil
	case <-job.Context.Done():
		return job.Context.Err()
	case <-timer.C:
		return ErrQueueFull
	}
}

// run is the main loop for each worker. Jobs still queued when the pool stops
// are answered with their original text so no submitter is left waiting.
func (tw *TranslationWorker) run(ctx context.Context, jobs <-chan *TranslationJob) {
	defer tw.wg.Done()

	for job := range jobs {
		tw.processJob(ctx, job)
	}
}

// processJob translates a single string and reports it back
func (tw *TranslationWorker) processJob(ctx context.Context, job *TranslationJob) {
	text := job.Text
	if ctx.Err() == nil && job.Context.Err() == nil {
		text = tw.translator.Translate(job.Context, job.Text, job.Source, job.Target)
	}
	if job.ResultCh == nil {
		return
	}
	select {
	case job.ResultCh <- TranslationResult{Index: job.Index, Text: text}:
	case <-job.Context.Done():
	}
}

// Error definitions
var (
	ErrWorkerNotRunning = &WorkerError{Message: "worker pool is not running"}
	ErrQueueFull        = &WorkerError{Message: "job queue is full"}
)

// WorkerError represents a worker-specific error
type WorkerError struct {
	Message string
}

func (e *WorkerError) Error() string {
	return e.Message
}
