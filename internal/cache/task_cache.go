package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	dom "taskapi/internal/domain"
	"taskapi/internal/repo"

	"github.com/redis/go-redis/v9"
)

const keyListPrefix = "task:list:"

// TaskCache caches per-user task list results in Redis. Each filter/sort
// variant gets its own key; any write by the user drops all of them.
type TaskCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewTaskCache returns a new TaskCache.
func NewTaskCache(rdb *redis.Client, ttl time.Duration) *TaskCache {
	return &TaskCache{rdb: rdb, ttl: ttl}
}

// ListKey builds the cache key for a user's list variant.
func ListKey(userID int64, f repo.ListFilter) string {
	return keyListPrefix + strconv.FormatInt(userID, 10) + ":" + f.Status + ":" + f.SortDueDate
}

// GetList returns the cached list for the variant, or nil on miss.
func (c *TaskCache) GetList(ctx context.Context, userID int64, f repo.ListFilter) ([]dom.Task, error) {
	b, err := c.rdb.Get(ctx, ListKey(userID, f)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []dom.Task
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SetList stores the list for the variant. Empty results are stored too:
// a user with zero tasks still gets cache hits.
func (c *TaskCache) SetList(ctx context.Context, userID int64, f repo.ListFilter, list []dom.Task) error {
	b, err := marshalList(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, ListKey(userID, f), b, c.ttl).Err()
}

// marshalList encodes a nil slice as [] so an empty list is
// distinguishable from a miss (GetList signals misses with nil).
func marshalList(list []dom.Task) ([]byte, error) {
	if list == nil {
		list = []dom.Task{}
	}
	return json.Marshal(list)
}

// InvalidateUser removes every cached list variant of userID (cache
// invalidation on write).
func (c *TaskCache) InvalidateUser(ctx context.Context, userID int64) error {
	pattern := keyListPrefix + strconv.FormatInt(userID, 10) + ":*"
	iter := c.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
