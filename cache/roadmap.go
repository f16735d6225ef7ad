// Package cache keeps public roadmap views in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"roadmap-review/models"
)

const (
	publicRoadmapPrefix = "roadmap:public:"
	defaultTTL          = 10 * time.Minute
)

// RoadmapCache caches the public view of approved roadmaps. A miss returns
// (nil, nil).
//
// Entries carry the roadmap's Revision. Invalidate leaves a marker at the
// committed revision so a reader that loaded the row before the write cannot
// put the older view back.
type RoadmapCache interface {
	Get(ctx context.Context, id string) (*models.PublicRoadmap, error)
	Set(ctx context.Context, roadmap *models.Roadmap) error
	Invalidate(ctx context.Context, id string, revision int) error
}

var _ RoadmapCache = (*RedisRoadmapCache)(nil)

// Both scripts refuse to touch an entry stamped with a newer revision.
var (
	setScript = redis.NewScript(`
local current = tonumber(redis.call('HGET', KEYS[1], 'revision') or '-1')
if current > tonumber(ARGV[1]) then
	return 0
end
redis.call('HSET', KEYS[1], 'revision', ARGV[1], 'data', ARGV[2])
redis.call('PEXPIRE', KEYS[1], ARGV[3])
return 1
`)
	invalidateScript = redis.NewScript(`
local current = tonumber(redis.call('HGET', KEYS[1], 'revision') or '-1')
if current > tonumber(ARGV[1]) then
	return 0
end
redis.call('DEL', KEYS[1])
redis.call('HSET', KEYS[1], 'revision', ARGV[1])
redis.call('PEXPIRE', KEYS[1], ARGV[2])
return 1
`)
)

type RedisRoadmapCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisRoadmapCache connects to redisURL and verifies the connection.
func NewRedisRoadmapCache(redisURL string, ttl time.Duration) (*RedisRoadmapCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return NewRedisRoadmapCacheWithClient(client, ttl), nil
}

func NewRedisRoadmapCacheWithClient(client *redis.Client, ttl time.Duration) *RedisRoadmapCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisRoadmapCache{client: client, ttl: ttl}
}

func key(id string) string {
	return publicRoadmapPrefix + id
}

func (c *RedisRoadmapCache) Get(ctx context.Context, id string) (*models.PublicRoadmap, error) {
	data, err := c.client.HGet(ctx, key(id), "data").Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cached roadmap: %w", err)
	}

	var view models.PublicRoadmap
	if err := json.Unmarshal(data, &view); err != nil {
		return nil, fmt.Errorf("unmarshal cached roadmap: %w", err)
	}
	return &view, nil
}

// Set stores the public view of roadmap unless a newer revision is already
// recorded for it.
func (c *RedisRoadmapCache) Set(ctx context.Context, roadmap *models.Roadmap) error {
	data, err := json.Marshal(roadmap.Public())
	if err != nil {
		return fmt.Errorf("marshal roadmap: %w", err)
	}
	err = setScript.Run(ctx, c.client, []string{key(roadmap.ID)},
		roadmap.Revision, data, c.ttl.Milliseconds()).Err()
	if err != nil {
		return fmt.Errorf("cache roadmap: %w", err)
	}
	return nil
}

// Invalidate drops the cached view and records revision as the oldest one
// that may be cached again.
func (c *RedisRoadmapCache) Invalidate(ctx context.Context, id string, revision int) error {
	err := invalidateScript.Run(ctx, c.client, []string{key(id)}, revision, c.ttl.Milliseconds()).Err()
	if err != nil {
		return fmt.Errorf("invalidate roadmap: %w", err)
	}
	return nil
}

func (c *RedisRoadmapCache) Close() error {
	return c.client.Close()
}

// Noop is used when Redis is not configured.
type Noop struct{}

func (Noop) Get(context.Context, string) (*models.PublicRoadmap, error) { return nil, nil }
func (Noop) Set(context.Context, *models.Roadmap) error                 { return nil }
func (Noop) Invalidate(context.Context, string, int) error              { return nil }
