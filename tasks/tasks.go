// Package tasks implements the asynchronous moderation queue: content IDs are
// enqueued as jobs, and a Runner polls the store and hands each job to a
// handler with at-least-once delivery. Failed jobs re-enter the queue with
// exponential backoff until MaxRetries is exhausted, so handlers must be
// idempotent.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"golang.org/x/sync/semaphore"
)

// Job is a single unit of moderation work tracked by a Store
type Job interface {
	ContentID() int64
	State() string
	RetryCount() int
	// Exhausted reports whether the job has failed with no retry scheduled
	Exhausted() bool
	SetState(ctx context.Context, state string) error
}

// Store is an interface for a task store which holds Jobs
type Store interface {
	GetJob(ctx context.Context, contentID int64) (Job, error)
	GetNextEnqueuedJob(ctx context.Context) (Job, error)

	EnqueueJob(ctx context.Context, contentID int64) error
}

var (
	// StateEnqueued is the state of a job when it is first created
	StateEnqueued = "enqueued"
	// StateInProgress is the state of a job while the handler is running
	StateInProgress = "in_progress"
	// StateComplete is the state of a job once the handler has succeeded
	StateComplete = "complete"
)

// ErrJobNotFound is returned when looking up a job that doesn't exist
var ErrJobNotFound = errors.New("job not found")

// MaxRetries is the maximum number of times to retry a failed job
var MaxRetries = 3

// RetryBackoffBase is the backoff applied to a job's first retry; each
// subsequent retry doubles it
var RetryBackoffBase = 5 * time.Second

func computeExponentialBackoff(attempt int) time.Duration {
	return time.Duration(1<<uint(attempt)) * RetryBackoffBase
}

var tracer = otel.Tracer("tasks")

// Runner polls a Store for enqueued jobs and runs the handler against each,
// up to Parallel jobs at a time
type Runner struct {
	Name    string
	Handler func(ctx context.Context, contentID int64) error
	Store   Store

	// Number of jobs to process in parallel
	Parallel int
	// How long to sleep when the queue is empty
	PollInterval time.Duration

	stop chan chan struct{}
}

type RunnerOptions struct {
	Parallel     int
	PollInterval time.Duration
}

func DefaultRunnerOptions() *RunnerOptions {
	return &RunnerOptions{
		Parallel:     4,
		PollInterval: time.Second,
	}
}

// NewRunner creates a new Runner
func NewRunner(name string, store Store, handler func(ctx context.Context, contentID int64) error, opts *RunnerOptions) *Runner {
	if opts == nil {
		opts = DefaultRunnerOptions()
	}

	return &Runner{
		Name:         name,
		Handler:      handler,
		Store:        store,
		Parallel:     opts.Parallel,
		PollInterval: opts.PollInterval,
		stop:         make(chan chan struct{}, 1),
	}
}

// Start starts the job processor routine
func (r *Runner) Start() {
	ctx := context.Background()

	log := slog.With("source", "task_runner", "name", r.Name)
	log.Info("starting task runner")

	sem := semaphore.NewWeighted(int64(r.Parallel))

	for {
		select {
		case stopped := <-r.stop:
			log.Info("stopping task runner")
			sem.Acquire(ctx, int64(r.Parallel))
			close(stopped)
			return
		default:
		}

		// Get the next job
		job, err := r.Store.GetNextEnqueuedJob(ctx)
		if err != nil {
			log.Error("failed to get next enqueued job", "error", err)
			time.Sleep(r.PollInterval)
			continue
		} else if job == nil {
			time.Sleep(r.PollInterval)
			continue
		}

		log := log.With("contentID", job.ContentID())

		// Mark the job as "in progress"
		err = job.SetState(ctx, StateInProgress)
		if err != nil {
			log.Error("failed to set job state", "error", err)
			continue
		}

		sem.Acquire(ctx, 1)
		go func(j Job) {
			defer sem.Release(1)
			r.process(ctx, j, log)
			jobsProcessed.WithLabelValues(r.Name).Inc()
		}(job)
	}
}

func (r *Runner) process(ctx context.Context, job Job, log *slog.Logger) {
	ctx, span := tracer.Start(ctx, "processJob")
	defer span.End()

	err := r.Handler(ctx, job.ContentID())
	if err == nil {
		if err := job.SetState(ctx, StateComplete); err != nil {
			log.Error("failed to set job state", "error", err)
		}
		return
	}

	log.Error("job handler failed", "error", err)
	jobsFailed.WithLabelValues(r.Name).Inc()

	state := fmt.Sprintf("failed: %s", err)
	if err := job.SetState(ctx, state); err != nil {
		log.Error("failed to set job state", "error", err)
		return
	}

	if job.Exhausted() {
		log.Error("job retries exhausted", "retries", job.RetryCount())
		jobsExhausted.WithLabelValues(r.Name).Inc()
	}
}

// Stop stops the job processor and waits for in-flight jobs to finish
func (r *Runner) Stop(ctx context.Context) error {
	log := slog.With("source", "task_runner", "name", r.Name)
	log.Info("stopping task runner")
	stopped := make(chan struct{})
	r.stop <- stopped
	select {
	case <-stopped:
		log.Info("task runner stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// retryable reports whether a job in the given state is due for another
// attempt
func retryable(state string, retryAfter *time.Time) bool {
	return strings.HasPrefix(state, "failed") && retryAfter != nil && time.Now().After(*retryAfter)
}
