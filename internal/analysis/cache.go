package analysis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/eleven-am/calorie-advisor/internal/shared"
	"github.com/redis/go-redis/v9"
)

const defaultCacheTTL = 24 * time.Hour

// Cache keeps successful results keyed by the SHA-256 of the image bytes.
type Cache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewCache(redisClient *redis.Client, ttl time.Duration) *Cache {
	if ttl == 0 {
		ttl = defaultCacheTTL
	}
	return &Cache{
		redis: redisClient,
		ttl:   ttl,
	}
}

func CacheKey(imageHash string) string {
	return "analysis:result:" + imageHash
}

func (c *Cache) Get(ctx context.Context, imageHash string) (*Result, error) {
	data, err := c.redis.Get(ctx, CacheKey(imageHash)).Bytes()
	if err == redis.Nil {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Set stores res unless it is a failure.
func (c *Cache) Set(ctx context.Context, imageHash string, res Result) error {
	if !res.OK() {
		return nil
	}
	data, err := json.Marshal(res)
	if err != nil {
		return err
	}
	return c.redis.Set(ctx, CacheKey(imageHash), data, c.ttl).Err()
}

func (c *Cache) Delete(ctx context.Context, imageHash string) error {
	return c.redis.Del(ctx, CacheKey(imageHash)).Err()
}
