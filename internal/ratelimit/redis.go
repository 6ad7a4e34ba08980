package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "ratelimit:"

// RedisLimiter is a fixed-window limiter shared across instances. The
// counter key is created with the window TTL on first hit; INCR afterwards.
type RedisLimiter struct {
	rdb    *redis.Client
	max    int
	window time.Duration
}

// NewRedisLimiter allows max requests per key per window, counted in Redis.
func NewRedisLimiter(rdb *redis.Client, max int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, max: max, window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := redisKeyPrefix + key
	n, err := l.rdb.Incr(ctx, k).Result()
	if err != nil {
		return false, err
	}
	if n == 1 {
		if err := l.rdb.Expire(ctx, k, l.window).Err(); err != nil {
			return false, err
		}
	}
	return n <= int64(l.max), nil
}
