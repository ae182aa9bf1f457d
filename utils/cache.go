package utils

import (
	"context"
	"encoding/json"
	"errors"
	"feednana/internal/repo"
	"feednana/model"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a Redis cache client.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client: client,
	}
}

// Get reads a cached value.
func (c *RedisCache) Get(ctx context.Context, key string, dest interface{}) error {
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(val), dest)
}

// Set writes a cached value.
func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, string(data), expiration).Err()
}

// Delete removes a cache entry.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// Exists checks whether a cache key exists.
func (c *RedisCache) Exists(ctx context.Context, key string) (bool, error) {
	count, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

var errCacheUnavailable = errors.New("cache not initialized")

func cacheClient() (*RedisCache, error) {
	if repo.Redis == nil {
		return nil, errCacheUnavailable
	}
	return NewRedisCache(repo.Redis), nil
}

// BuildCacheKey builds a cache key.
func BuildCacheKey(prefix string, params ...interface{}) string {
	key := prefix
	for _, param := range params {
		key += fmt.Sprintf(":%v", param)
	}
	return key
}

// SetFileToCache caches a File row by id.
func SetFileToCache(ctx context.Context, id uint64, file *model.File, ttl time.Duration) error {
	cache, err := cacheClient()
	if err != nil {
		return err
	}
	return cache.Set(ctx, BuildCacheKey("file", id), file, ttl)
}

// GetFileFromCache loads a cached File row.
func GetFileFromCache(ctx context.Context, id uint64) (*model.File, bool) {
	cache, err := cacheClient()
	if err != nil {
		return nil, false
	}
	var file model.File
	if err := cache.Get(ctx, BuildCacheKey("file", id), &file); err != nil {
		return nil, false
	}
	return &file, true
}

// InvalidateFileCache drops a cached File row.
func InvalidateFileCache(ctx context.Context, id uint64) error {
	cache, err := cacheClient()
	if err != nil {
		return err
	}
	return cache.Delete(ctx, BuildCacheKey("file", id))
}

// SetAlbumToCache caches an Album row by id.
func SetAlbumToCache(ctx context.Context, id uint64, album *model.Album, ttl time.Duration) error {
	cache, err := cacheClient()
	if err != nil {
		return err
	}
	return cache.Set(ctx, BuildCacheKey("album", id), album, ttl)
}

// GetAlbumFromCache loads a cached Album row.
func GetAlbumFromCache(ctx context.Context, id uint64) (*model.Album, bool) {
	cache, err := cacheClient()
	if err != nil {
		return nil, false
	}
	var album model.Album
	if err := cache.Get(ctx, BuildCacheKey("album", id), &album); err != nil {
		return nil, false
	}
	return &album, true
}

// InvalidateAlbumCache drops a cached Album row.
func InvalidateAlbumCache(ctx context.Context, id uint64) error {
	cache, err := cacheClient()
	if err != nil {
		return err
	}
	return cache.Delete(ctx, BuildCacheKey("album", id))
}
