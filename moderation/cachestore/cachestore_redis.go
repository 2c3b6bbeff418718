package cachestore

import (
	"context"
	"time"

	"github.com/go-redis/cache/v9"
	"github.com/redis/go-redis/v9"
)

// RedisCacheStore keeps callback URLs in redis with a local TinyLFU
// near-cache in front, so multiple daemon instances share one registry view.
type RedisCacheStore struct {
	urls *cache.Cache
	ttl  time.Duration
}

var _ CacheStore = (*RedisCacheStore)(nil)

func NewRedisCacheStore(redisURL string, ttl time.Duration) (*RedisCacheStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opt)
	// check redis connection
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		return nil, err
	}
	return &RedisCacheStore{
		urls: cache.New(&cache.Options{
			Redis:      rdb,
			LocalCache: cache.NewTinyLFU(10_000, ttl),
		}),
		ttl: ttl,
	}, nil
}

func urlKey(sourceApp string) string {
	return "webhook-url/" + sourceApp
}

func (s *RedisCacheStore) GetURL(ctx context.Context, sourceApp string) (string, error) {
	var url string
	err := s.urls.Get(ctx, urlKey(sourceApp), &url)
	if err == cache.ErrCacheMiss {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return url, nil
}

func (s *RedisCacheStore) SetURL(ctx context.Context, sourceApp, url string) error {
	return s.urls.Set(&cache.Item{
		Ctx:   ctx,
		Key:   urlKey(sourceApp),
		Value: url,
		TTL:   s.ttl,
	})
}

func (s *RedisCacheStore) PurgeURL(ctx context.Context, sourceApp string) error {
	err := s.urls.Delete(ctx, urlKey(sourceApp))
	if err == cache.ErrCacheMiss {
		return nil
	}
	return err
}
