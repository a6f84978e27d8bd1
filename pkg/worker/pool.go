// Package worker provides an asynchronous worker pool that records
// suggestion runs: it persists the suggestion list using the provided
// storage.Driver and publishes an event using the provided
// eventstream.Publisher.
//
// The pool keeps storage and publishing off the API's request path.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/papercomputeco/wayfarer/pkg/eventstream"
	"github.com/papercomputeco/wayfarer/pkg/logger"
	"github.com/papercomputeco/wayfarer/pkg/storage"
)

var (
	defaultNumWorkers   uint = 3
	defaultJobQueueSize uint = 256
	defaultJobTimeout        = 10 * time.Second
)

// Job is a finished suggestion run to record.
type Job struct {
	// ChatID is the chat the suggestions belong to. Empty skips persistence.
	ChatID string

	Kind     string
	Items    []string
	Provider string
	Model    string

	HistoryTurns int
	Duration     time.Duration
}

// Config is the configuration options for the worker pool.
type Config struct {
	// Driver is the storage backend for suggestion records. Optional.
	Driver storage.Driver

	// Publisher receives a SuggestionsGeneratedEvent per job. Optional.
	Publisher eventstream.Publisher

	// NumWorkers is the number of background workers in the pool.
	NumWorkers uint

	// QueueSize is the capacity of the buffered job channel (defaults to 256).
	QueueSize uint

	// JobTimeout bounds the storage and publish calls of one job.
	JobTimeout time.Duration

	// Logger is the provided slog logger
	Logger *slog.Logger
}

// Pool processes recording jobs asynchronously via a worker pool.
type Pool struct {
	config *Config
	queue  chan Job
	wg     sync.WaitGroup
	logger *slog.Logger

	closeOnce sync.Once
}

// NewPool creates a new Pool and starts its worker goroutines.
func NewPool(c *Config) (*Pool, error) {
	if c.NumWorkers == 0 {
		c.NumWorkers = defaultNumWorkers
	}

	if c.QueueSize == 0 {
		c.QueueSize = defaultJobQueueSize
	}

	if c.JobTimeout == 0 {
		c.JobTimeout = defaultJobTimeout
	}

	if c.NumWorkers > uint(math.MaxInt) {
		return nil, fmt.Errorf("NumWorkers %d exceeds max int", c.NumWorkers)
	}

	l := c.Logger
	if l == nil {
		l = logger.Nop()
	}

	wp := &Pool{
		config: c,
		queue:  make(chan Job, c.QueueSize),
		logger: l,
	}

	wp.wg.Add(int(c.NumWorkers))
	for i := range c.NumWorkers {
		go wp.worker(i)
	}

	return wp, nil
}

// Enqueue submits a job for processing by the worker pool.
// Returns true if enqueued, false if the queue is full, resulting in the job being dropped
func (p *Pool) Enqueue(job Job) bool {
	select {
	case p.queue <- job:
		p.logger.Debug("job queued", "kind", job.Kind, "chat_id", job.ChatID)
		return true
	default:
		p.logger.Error("job not queued, queue full, job dropped", "kind", job.Kind, "chat_id", job.ChatID)
		return false
	}
}

// Close signals workers to stop and waits for in-flight jobs to drain.
// Call this during graceful shutdown after the API server has stopped.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		close(p.queue)
	})
	p.wg.Wait()
}

// worker is the inner worker thread that continuously pulls jobs off the jobs queue
func (p *Pool) worker(id uint) {
	defer p.wg.Done()
	p.logger.Debug("worker started", "worker_id", id)

	for job := range p.queue {
		p.processJob(job)
	}

	p.logger.Debug("worker stopped", "worker_id", id)
}

// processJob stores the suggestion record, when the job has a chat, and
// publishes the event. A storage failure does not prevent publishing.
func (p *Pool) processJob(job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), p.config.JobTimeout)
	defer cancel()

	if p.config.Driver != nil && job.ChatID != "" {
		rec := &storage.SuggestionRecord{
			ChatID:   job.ChatID,
			Kind:     job.Kind,
			Items:    job.Items,
			Provider: job.Provider,
			Model:    job.Model,
		}
		if err := p.config.Driver.SaveSuggestions(ctx, rec); err != nil {
			p.logger.Error("storing suggestions failed", "chat_id", job.ChatID, "kind", job.Kind, "error", err)
		} else {
			p.logger.Debug("suggestions stored", "chat_id", job.ChatID, "kind", job.Kind, "id", rec.ID)
		}
	}

	if p.config.Publisher != nil {
		event := eventstream.NewSuggestionsGeneratedEvent(job.Kind, job.Items)
		event.ChatID = job.ChatID
		event.Source = eventstream.EventSource{Provider: job.Provider, Model: job.Model}
		event.HistoryTurns = job.HistoryTurns
		event.DurationMs = job.Duration.Milliseconds()

		if err := p.config.Publisher.PublishSuggestions(ctx, event); err != nil {
			p.logger.Error("publishing suggestions event failed", "kind", job.Kind, "error", err)
			return
		}
		p.logger.Debug("suggestions event published", "event_id", event.EventID)
	}
}
