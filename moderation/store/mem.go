package store

import (
	"context"
	"sync"
	"time"
)

// MemStore is a simple in-memory implementation of the Store interface, for
// tests and local development.
type MemStore struct {
	lk       sync.RWMutex
	nextID   int64
	contents map[int64]Content
	results  map[int64][]ModerationResult
	webhooks map[string]Webhook
}

var _ Store = (*MemStore)(nil)

func NewMemStore() *MemStore {
	return &MemStore{
		nextID:   1,
		contents: make(map[int64]Content),
		results:  make(map[int64][]ModerationResult),
		webhooks: make(map[string]Webhook),
	}
}

func (s *MemStore) CreateContent(ctx context.Context, content *Content) error {
	s.lk.Lock()
	defer s.lk.Unlock()

	if content.ID == 0 {
		content.ID = s.nextID
		s.nextID++
	}
	if content.Status == "" {
		content.Status = StatusPending
	}
	content.CreatedAt = time.Now()
	content.UpdatedAt = content.CreatedAt
	s.contents[content.ID] = *content
	return nil
}

func (s *MemStore) GetContent(ctx context.Context, id int64) (*Content, error) {
	s.lk.RLock()
	defer s.lk.RUnlock()

	c, ok := s.contents[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := c
	return &out, nil
}

func (s *MemStore) SaveContent(ctx context.Context, content *Content) error {
	s.lk.Lock()
	defer s.lk.Unlock()

	content.UpdatedAt = time.Now()
	s.contents[content.ID] = *content
	return nil
}

func (s *MemStore) FinalizeRun(ctx context.Context, content *Content, results []*ModerationResult) error {
	s.lk.Lock()
	defer s.lk.Unlock()

	rows := make([]ModerationResult, 0, len(results))
	now := time.Now()
	for i, r := range results {
		r.ID = int64(i + 1)
		r.ContentID = content.ID
		r.CreatedAt = now
		rows = append(rows, *r)
	}
	s.results[content.ID] = rows
	content.UpdatedAt = now
	s.contents[content.ID] = *content
	return nil
}

func (s *MemStore) GetResults(ctx context.Context, contentID int64) ([]*ModerationResult, error) {
	s.lk.RLock()
	defer s.lk.RUnlock()

	rows := s.results[contentID]
	out := make([]*ModerationResult, 0, len(rows))
	for i := range rows {
		r := rows[i]
		out = append(out, &r)
	}
	return out, nil
}

func (s *MemStore) GetWebhook(ctx context.Context, sourceApp string) (*Webhook, error) {
	s.lk.RLock()
	defer s.lk.RUnlock()

	h, ok := s.webhooks[sourceApp]
	if !ok {
		return nil, ErrNotFound
	}
	out := h
	return &out, nil
}

func (s *MemStore) PutWebhook(ctx context.Context, hook *Webhook) error {
	s.lk.Lock()
	defer s.lk.Unlock()

	s.webhooks[hook.SourceApp] = *hook
	return nil
}
