package tasks

import (
	"context"
	"strings"
	"sync"
	"time"
)

type Memjob struct {
	contentID int64
	state     string

	lk sync.Mutex

	createdAt time.Time
	updatedAt time.Time

	retryCount int
	retryAfter *time.Time
}

// Memstore is a simple in-memory implementation of the task Store interface
type Memstore struct {
	lk   sync.RWMutex
	jobs map[int64]*Memjob
}

func NewMemstore() *Memstore {
	return &Memstore{
		jobs: make(map[int64]*Memjob),
	}
}

func (s *Memstore) EnqueueJob(ctx context.Context, contentID int64) error {
	s.lk.Lock()
	defer s.lk.Unlock()

	if _, ok := s.jobs[contentID]; ok {
		// enqueueing is idempotent
		return nil
	}

	s.jobs[contentID] = &Memjob{
		contentID: contentID,
		createdAt: time.Now(),
		updatedAt: time.Now(),
		state:     StateEnqueued,
	}
	jobsEnqueued.Inc()
	return nil
}

func (s *Memstore) GetJob(ctx context.Context, contentID int64) (Job, error) {
	s.lk.RLock()
	defer s.lk.RUnlock()

	j, ok := s.jobs[contentID]
	if !ok || j == nil {
		return nil, ErrJobNotFound
	}
	return j, nil
}

func (s *Memstore) GetNextEnqueuedJob(ctx context.Context) (Job, error) {
	s.lk.RLock()
	defer s.lk.RUnlock()

	for _, j := range s.jobs {
		j.lk.Lock()
		ready := j.state == StateEnqueued || retryable(j.state, j.retryAfter)
		j.lk.Unlock()
		if ready {
			return j, nil
		}
	}
	return nil, nil
}

func (j *Memjob) ContentID() int64 {
	return j.contentID
}

func (j *Memjob) State() string {
	j.lk.Lock()
	defer j.lk.Unlock()

	return j.state
}

func (j *Memjob) SetState(ctx context.Context, state string) error {
	j.lk.Lock()
	defer j.lk.Unlock()

	j.state = state
	j.updatedAt = time.Now()

	if strings.HasPrefix(state, "failed") {
		if j.retryCount < MaxRetries {
			next := time.Now().Add(computeExponentialBackoff(j.retryCount))
			j.retryAfter = &next
			j.retryCount++
		} else {
			j.retryAfter = nil
		}
	}
	return nil
}

func (j *Memjob) RetryCount() int {
	j.lk.Lock()
	defer j.lk.Unlock()
	return j.retryCount
}

func (j *Memjob) Exhausted() bool {
	j.lk.Lock()
	defer j.lk.Unlock()
	return strings.HasPrefix(j.state, "failed") && j.retryAfter == nil
}
