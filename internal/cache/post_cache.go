package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const PostCacheTTL = 5 * time.Minute

// PostCache is a read-through cache for the public post endpoints.
// Mutations invalidate; a cold cache just means a database read.
type PostCache struct {
	client *redis.Client
}

func NewPostCache(client *redis.Client) *PostCache {
	return &PostCache{client: client}
}

func (c *PostCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil // cache miss
	}
	if err != nil {
		return nil, err
	}
	return []byte(val), nil
}

func (c *PostCache) Set(ctx context.Context, key string, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, jsonData, PostCacheTTL).Err()
}

func (c *PostCache) Delete(ctx context.Context, keys ...string) error {
	return c.client.Del(ctx, keys...).Err()
}

func PostKey(postID string) string {
	return fmt.Sprintf("post:%s", postID)
}

func PostListKey() string {
	return "posts:all"
}
