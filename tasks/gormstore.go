package tasks

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"
)

type Gormjob struct {
	contentID int64
	state     string

	lk sync.Mutex

	dbj *GormDBJob
	db  *gorm.DB

	createdAt time.Time
	updatedAt time.Time

	retryCount int
	retryAfter *time.Time
}

type GormDBJob struct {
	gorm.Model
	ContentID  int64  `gorm:"unique;index"`
	State      string `gorm:"index"`
	RetryCount int
	RetryAfter *time.Time
}

// Gormstore is a gorm-backed implementation of the task Store interface
type Gormstore struct {
	lk   sync.RWMutex
	jobs map[int64]*Gormjob
	db   *gorm.DB
}

func NewGormstore(db *gorm.DB) (*Gormstore, error) {
	if err := db.AutoMigrate(&GormDBJob{}); err != nil {
		return nil, err
	}
	return &Gormstore{
		jobs: make(map[int64]*Gormjob),
		db:   db,
	}, nil
}

// LoadJobs pulls persisted jobs into the in-memory cache, so that work
// interrupted by a restart is picked up again
func (s *Gormstore) LoadJobs(ctx context.Context) error {
	limit := 20_000
	offset := 0
	s.lk.Lock()
	defer s.lk.Unlock()

	for {
		var dbjobs []*GormDBJob
		if err := s.db.Limit(limit).Offset(offset).Find(&dbjobs).Error; err != nil {
			return err
		}
		if len(dbjobs) == 0 {
			break
		}
		offset += len(dbjobs)

		for i := range dbjobs {
			dbj := dbjobs[i]
			j := &Gormjob{
				contentID: dbj.ContentID,
				state:     dbj.State,
				createdAt: dbj.CreatedAt,
				updatedAt: dbj.UpdatedAt,

				dbj: dbj,
				db:  s.db,

				retryCount: dbj.RetryCount,
				retryAfter: dbj.RetryAfter,
			}
			s.jobs[dbj.ContentID] = j
		}
	}

	return nil
}

func (s *Gormstore) EnqueueJob(ctx context.Context, contentID int64) error {
	// Persist the job to the database
	dbj := &GormDBJob{
		ContentID: contentID,
		State:     StateEnqueued,
	}
	if err := s.db.Create(dbj).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// enqueueing is idempotent
			return nil
		}
		return err
	}
	jobsEnqueued.Inc()

	s.lk.Lock()
	defer s.lk.Unlock()

	if _, ok := s.jobs[contentID]; ok {
		// The DB create should have errored if the job already existed, but just in case
		return nil
	}

	s.jobs[contentID] = &Gormjob{
		contentID: contentID,
		createdAt: time.Now(),
		updatedAt: time.Now(),
		state:     StateEnqueued,

		dbj: dbj,
		db:  s.db,
	}

	return nil
}

func (s *Gormstore) GetJob(ctx context.Context, contentID int64) (Job, error) {
	return s.getJob(ctx, contentID)
}

func (s *Gormstore) getJob(ctx context.Context, contentID int64) (*Gormjob, error) {
	cj := s.checkJobCache(ctx, contentID)
	if cj != nil {
		return cj, nil
	}

	return s.loadJob(ctx, contentID)
}

func (s *Gormstore) loadJob(ctx context.Context, contentID int64) (*Gormjob, error) {
	var dbj GormDBJob
	if err := s.db.Find(&dbj, "content_id = ?", contentID).Error; err != nil {
		return nil, err
	}

	if dbj.ID == 0 {
		return nil, ErrJobNotFound
	}

	j := &Gormjob{
		contentID: dbj.ContentID,
		state:     dbj.State,
		createdAt: dbj.CreatedAt,
		updatedAt: dbj.UpdatedAt,

		dbj: &dbj,
		db:  s.db,

		retryCount: dbj.RetryCount,
		retryAfter: dbj.RetryAfter,
	}
	s.lk.Lock()
	defer s.lk.Unlock()
	// would imply a race condition
	exist, ok := s.jobs[contentID]
	if ok {
		return exist, nil
	}
	s.jobs[contentID] = j
	return j, nil
}

func (s *Gormstore) checkJobCache(ctx context.Context, contentID int64) *Gormjob {
	s.lk.RLock()
	defer s.lk.RUnlock()

	j, ok := s.jobs[contentID]
	if !ok || j == nil {
		return nil
	}
	return j
}

func (s *Gormstore) GetNextEnqueuedJob(ctx context.Context) (Job, error) {
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

func (j *Gormjob) ContentID() int64 {
	return j.contentID
}

func (j *Gormjob) State() string {
	j.lk.Lock()
	defer j.lk.Unlock()

	return j.state
}

func (j *Gormjob) SetState(ctx context.Context, state string) error {
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

	// Persist the job to the database
	j.dbj.State = state
	j.dbj.RetryCount = j.retryCount
	j.dbj.RetryAfter = j.retryAfter
	return j.db.Save(j.dbj).Error
}

func (j *Gormjob) RetryCount() int {
	j.lk.Lock()
	defer j.lk.Unlock()
	return j.retryCount
}

func (j *Gormjob) Exhausted() bool {
	j.lk.Lock()
	defer j.lk.Unlock()
	return strings.HasPrefix(j.state, "failed") && j.retryAfter == nil
}
