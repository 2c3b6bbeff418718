package cachestore

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type MemCacheStore struct {
	urls *expirable.LRU[string, string]
}

var _ CacheStore = (*MemCacheStore)(nil)

func NewMemCacheStore(capacity int, ttl time.Duration) *MemCacheStore {
	return &MemCacheStore{
		urls: expirable.NewLRU[string, string](capacity, nil, ttl),
	}
}

func (s *MemCacheStore) GetURL(ctx context.Context, sourceApp string) (string, error) {
	v, ok := s.urls.Get(sourceApp)
	if !ok {
		return "", nil
	}
	return v, nil
}

func (s *MemCacheStore) SetURL(ctx context.Context, sourceApp, url string) error {
	s.urls.Add(sourceApp, url)
	return nil
}

func (s *MemCacheStore) PurgeURL(ctx context.Context, sourceApp string) error {
	s.urls.Remove(sourceApp)
	return nil
}
