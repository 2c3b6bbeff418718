// Package cachestore caches webhook callback-URL lookups so each decision
// notification doesn't hit the registry table, with in-memory and
// redis-backed variants.
package cachestore

import "context"

type CacheStore interface {
	// GetURL returns the cached callback URL for a source app, or "" on a
	// miss.
	GetURL(ctx context.Context, sourceApp string) (string, error)
	SetURL(ctx context.Context, sourceApp, url string) error
	// PurgeURL drops a cached entry, forcing the next lookup back to the
	// registry. Called when a delivery reveals the cached URL is stale.
	PurgeURL(ctx context.Context, sourceApp string) error
}
