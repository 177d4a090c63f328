package tags

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// ListCache caches each user's tag list in Redis. Concurrent misses for the
// same user collapse into a single database load via singleflight.
type ListCache struct {
	client *redis.Client
	ttl    time.Duration
	group  singleflight.Group
}

// NewListCache instantiates the cache helper. A nil client disables caching;
// every Fetch then goes straight to the loader.
func NewListCache(client *redis.Client, ttl time.Duration) *ListCache {
	return &ListCache{client: client, ttl: ttl}
}

func listKey(userID int64) string {
	return fmt.Sprintf("tags:user:%d", userID)
}

// Fetch loads the user's tags from cache or populates it using the loader.
func (c *ListCache) Fetch(ctx context.Context, userID int64, loader func(context.Context) ([]Tag, error)) ([]Tag, error) {
	if c == nil || c.client == nil {
		return loader(ctx)
	}

	key := listKey(userID)
	raw, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var cached []Tag
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
		// Corrupt entry, fall through to a fresh load.
	} else if err != redis.Nil {
		return loader(ctx)
	}

	result, err, _ := c.group.Do(key, func() (any, error) {
		loaded, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		if encoded, err := json.Marshal(loaded); err == nil {
			_ = c.client.Set(ctx, key, encoded, c.ttl).Err()
		}
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]Tag), nil
}

// Invalidate drops the user's cached tag list after a write.
func (c *ListCache) Invalidate(ctx context.Context, userID int64) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Del(ctx, listKey(userID)).Err()
}
