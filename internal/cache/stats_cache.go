// Package cache keeps computed blog statistics in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"bloglist/internal/stats"
)

// DefaultStatsKey is the Redis key holding the cached statistics. The
// generation counter lives next to it under DefaultStatsKey + ":generation".
const DefaultStatsKey = "bloglist:stats"

// RedisStatsCache stores one statistics summary under a single key. Every
// invalidation bumps a generation counter, and a summary is only served while
// the generation it was computed under is still current. A summary computed
// before a write but stored after that write's invalidation is never served.
type RedisStatsCache struct {
	client redis.Cmdable
	key    string
	genKey string
	ttl    time.Duration
}

type entry struct {
	Generation int64         `json:"generation"`
	Summary    stats.Summary `json:"summary"`
}

// NewRedisStatsCache creates a cache on top of client. Entries expire after ttl.
func NewRedisStatsCache(client redis.Cmdable, ttl time.Duration) *RedisStatsCache {
	return &RedisStatsCache{
		client: client,
		key:    DefaultStatsKey,
		genKey: DefaultStatsKey + ":generation",
		ttl:    ttl,
	}
}

// Get returns the cached summary. ok is false on a miss, including an entry
// left over from an older generation.
func (c *RedisStatsCache) Get(ctx context.Context) (stats.Summary, bool, error) {
	values, err := c.client.MGet(ctx, c.key, c.genKey).Result()
	if err != nil {
		return stats.Summary{}, false, fmt.Errorf("failed to read %s: %w", c.key, err)
	}
	raw, ok := values[0].(string)
	if !ok {
		return stats.Summary{}, false, nil
	}
	generation, err := parseGeneration(values[1])
	if err != nil {
		return stats.Summary{}, false, err
	}

	var e entry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return stats.Summary{}, false, fmt.Errorf("failed to decode %s: %w", c.key, err)
	}
	if e.Generation != generation {
		return stats.Summary{}, false, nil
	}
	return e.Summary, true, nil
}

// Generation returns the current generation. Read it before loading the
// blogs a summary is computed from.
func (c *RedisStatsCache) Generation(ctx context.Context) (int64, error) {
	generation, err := c.client.Get(ctx, c.genKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", c.genKey, err)
	}
	return generation, nil
}

// Set stores summary as computed under generation.
func (c *RedisStatsCache) Set(ctx context.Context, generation int64, summary stats.Summary) error {
	data, err := json.Marshal(entry{Generation: generation, Summary: summary})
	if err != nil {
		return fmt.Errorf("failed to encode stats: %w", err)
	}
	if err := c.client.Set(ctx, c.key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write %s: %w", c.key, err)
	}
	return nil
}

// Invalidate moves to a new generation, retiring the cached summary and any
// summary still being computed.
func (c *RedisStatsCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, c.genKey).Err(); err != nil {
		return fmt.Errorf("failed to bump %s: %w", c.genKey, err)
	}
	return nil
}

func parseGeneration(v interface{}) (int64, error) {
	if v == nil {
		return 0, nil
	}
	s, ok := v.(string)
	if !ok {
		return 0, fmt.Errorf("unexpected generation value %T", v)
	}
	generation, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse generation: %w", err)
	}
	return generation, nil
}

// Connect opens a Redis client and checks that the server answers.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return client, nil
}
