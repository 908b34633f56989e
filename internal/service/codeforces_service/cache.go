package codeforces_service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/tcp_snm/pulse/internal/pulse_errors"
)

const redisKeyPrefix = "pulse:cf:"

// LRUCache keeps fetch results in process memory.
type LRUCache struct {
	lru *expirable.LRU[string, FetchResult]
}

func NewLRUCache(size int, ttl time.Duration) *LRUCache {
	return &LRUCache{
		lru: expirable.NewLRU[string, FetchResult](size, nil, ttl),
	}
}

func (c *LRUCache) Get(ctx context.Context, handle string) (FetchResult, bool) {
	return c.lru.Get(handle)
}

func (c *LRUCache) Set(ctx context.Context, handle string, result FetchResult) {
	c.lru.Add(handle, result)
}

// RedisCache shares fetch results between instances.
// Any redis failure is treated as a cache miss.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logrus.Entry
}

func NewRedisCache(ctx context.Context, redisUrl string, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisUrl)
	if err != nil {
		return nil, fmt.Errorf("%w, invalid redis url, %w", pulse_errors.ErrComponentStart, err)
	}

	client := redis.NewClient(opts)
	if err = client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w, cannot ping redis, %w", pulse_errors.ErrComponentStart, err)
	}

	return &RedisCache{
		client: client,
		ttl:    ttl,
		logger: logrus.WithField("from", "codeforces_redis_cache"),
	}, nil
}

func (c *RedisCache) Get(ctx context.Context, handle string) (FetchResult, bool) {
	raw, err := c.client.Get(ctx, redisKeyPrefix+handle).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warnf("cannot read %v from redis, %v", handle, err)
		}
		return FetchResult{}, false
	}

	var res FetchResult
	if err = json.Unmarshal(raw, &res); err != nil {
		c.logger.Warnf("cannot unmarshal cached result of %v, %v", handle, err)
		return FetchResult{}, false
	}
	return res, true
}

func (c *RedisCache) Set(ctx context.Context, handle string, result FetchResult) {
	raw, err := json.Marshal(result)
	if err != nil {
		c.logger.Warnf("cannot marshal result of %v, %v", handle, err)
		return
	}
	if err = c.client.Set(ctx, redisKeyPrefix+handle, raw, c.ttl).Err(); err != nil {
		c.logger.Warnf("cannot write %v to redis, %v", handle, err)
	}
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
