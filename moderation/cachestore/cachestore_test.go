package cachestore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemCacheStoreURLs(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	c := NewMemCacheStore(10, time.Minute)

	url, err := c.GetURL(ctx, "app1")
	assert.NoError(err)
	assert.Equal("", url)

	assert.NoError(c.SetURL(ctx, "app1", "https://one.example.com/hook"))
	assert.NoError(c.SetURL(ctx, "app2", "https://two.example.com/hook"))

	url, err = c.GetURL(ctx, "app1")
	assert.NoError(err)
	assert.Equal("https://one.example.com/hook", url)

	// purge drops only the named app
	assert.NoError(c.PurgeURL(ctx, "app1"))
	url, err = c.GetURL(ctx, "app1")
	assert.NoError(err)
	assert.Equal("", url)
	url, err = c.GetURL(ctx, "app2")
	assert.NoError(err)
	assert.Equal("https://two.example.com/hook", url)
}
