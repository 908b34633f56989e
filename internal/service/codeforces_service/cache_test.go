package codeforces_service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLRUCache(t *testing.T) {
	c := NewLRUCache(1, time.Minute)
	ctx := context.Background()

	_, ok := c.Get(ctx, "tourist")
	assert.False(t, ok)

	c.Set(ctx, "tourist", FetchResult{Profile: Profile{Handle: "tourist"}})
	res, ok := c.Get(ctx, "tourist")
	assert.True(t, ok)
	assert.Equal(t, "tourist", res.Profile.Handle)

	// size 1 evicts the older entry
	c.Set(ctx, "petr", FetchResult{Profile: Profile{Handle: "petr"}})
	_, ok = c.Get(ctx, "tourist")
	assert.False(t, ok)
}

func TestNewRedisCacheInvalidUrl(t *testing.T) {
	_, err := NewRedisCache(context.Background(), "not-a-redis-url", time.Minute)
	assert.Error(t, err)
}

type closingCache struct {
	*LRUCache
	closed bool
}

func (c *closingCache) Close() error {
	c.closed = true
	return nil
}

func TestStopClosesResultCache(t *testing.T) {
	cache := &closingCache{LRUCache: NewLRUCache(1, time.Minute)}
	cf := &CodeforcesService{BaseUrl: "http://127.0.0.1:1", ResultCache: cache}
	cf.Start()

	cf.Stop()
	assert.True(t, cache.closed)

	// caches without a connection and a missing cache are left alone
	for _, rc := range []ResultCache{NewLRUCache(1, time.Minute), nil} {
		cf = &CodeforcesService{BaseUrl: "http://127.0.0.1:1", ResultCache: rc}
		cf.Start()
		assert.NotPanics(t, cf.Stop)
	}
}
