package directory

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Entry is a cached lookup result. Misses are cached too (Found false).
type Entry struct {
	Name  string `json:"name"`
	Found bool   `json:"found"`
}

// Cache stores name lookups for a limited time.
type Cache interface {
	Get(ctx context.Context, playerID string) (Entry, bool, error)
	Set(ctx context.Context, playerID string, entry Entry, ttl time.Duration) error
}

// MemoryCache is a process-local Cache.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryItem
	now     func() time.Time
}

type memoryItem struct {
	entry     Entry
	expiresAt time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryItem),
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, playerID string) (Entry, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.entries[playerID]
	if !ok {
		return Entry{}, false, nil
	}
	if !c.now().Before(item.expiresAt) {
		delete(c.entries, playerID)
		return Entry{}, false, nil
	}
	return item.entry, true, nil
}

func (c *MemoryCache) Set(_ context.Context, playerID string, entry Entry, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[playerID] = memoryItem{entry: entry, expiresAt: c.now().Add(ttl)}
	return nil
}

const redisKeyPrefix = "frontline:player_name:"

// RedisCache shares lookups between bot instances.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache parses a redis:// URL.
func NewRedisCache(url string) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return &RedisCache{client: redis.NewClient(opts)}, nil
}

func (c *RedisCache) Get(ctx context.Context, playerID string) (Entry, bool, error) {
	val, err := c.client.Get(ctx, redisKeyPrefix+playerID).Bytes()
	if errors.Is(err, redis.Nil) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}

	var entry Entry
	if err := json.Unmarshal(val, &entry); err != nil {
		return Entry{}, false, nil
	}
	return entry, true, nil
}

func (c *RedisCache) Set(ctx context.Context, playerID string, entry Entry, ttl time.Duration) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, redisKeyPrefix+playerID, data, ttl).Err()
}

// Close closes the redis connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
