package posts

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	cacheKeyList   = "posts:all"
	cacheKeyPrefix = "posts:id:"
)

// Cache is a redis-backed read cache for the public post endpoints. Misses
// and redis failures fall through to PostgreSQL; mutations invalidate.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache constructs a Cache.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// GetList returns the cached post listing, if present.
func (c *Cache) GetList(ctx context.Context) ([]Post, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, cacheKeyList).Bytes()
	if err != nil {
		return nil, false
	}
	var posts []Post
	if err := json.Unmarshal(raw, &posts); err != nil {
		return nil, false
	}
	return posts, true
}

// SetList stores the post listing.
func (c *Cache) SetList(ctx context.Context, posts []Post) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(posts)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, cacheKeyList, raw, c.ttl).Err()
}

// GetPost returns a cached post, if present.
func (c *Cache) GetPost(ctx context.Context, id string) (*Post, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, cacheKeyPrefix+id).Bytes()
	if err != nil {
		return nil, false
	}
	var post Post
	if err := json.Unmarshal(raw, &post); err != nil {
		return nil, false
	}
	return &post, true
}

// SetPost stores one post.
func (c *Cache) SetPost(ctx context.Context, post *Post) {
	if c == nil || c.client == nil || post == nil {
		return
	}
	raw, err := json.Marshal(post)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, cacheKeyPrefix+post.ID, raw, c.ttl).Err()
}

// Invalidate drops the listing and, when id is non-empty, the single-post
// entry.
func (c *Cache) Invalidate(ctx context.Context, id string) {
	if c == nil || c.client == nil {
		return
	}
	keys := []string{cacheKeyList}
	if id != "" {
		keys = append(keys, cacheKeyPrefix+id)
	}
	_ = c.client.Del(ctx, keys...).Err()
}
