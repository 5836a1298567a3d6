package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrEmptyRedisPrefix is returned for a redis store without a key prefix
var ErrEmptyRedisPrefix = errors.New("redis cache prefix must not be empty")

// RedisStore implements a Redis-backed cache
type RedisStore struct {
	client *redis.Client
	prefix string
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	// Addr is the Redis server address (host:port)
	Addr string
	// Password is the Redis password (optional)
	Password string
	// DB is the Redis database number
	DB int
	// Prefix is prepended to all record names
	Prefix string
}

// DefaultRedisConfig returns a default Redis configuration
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Addr:   "localhost:6379",
		Prefix: "chromeuri:",
	}
}

// NewRedisStore connects to Redis and verifies the connection
func NewRedisStore(ctx context.Context, config RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", config.Addr, err)
	}

	store, err := NewRedisStoreWithClient(client, config.Prefix)
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	return store, nil
}

// NewRedisStoreWithClient creates a Redis store with an existing client. The
// prefix must be non-empty: Clear deletes every key under it.
func NewRedisStoreWithClient(client *redis.Client, prefix string) (*RedisStore, error) {
	if prefix == "" {
		return nil, ErrEmptyRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}, nil
}

func (r *RedisStore) fullKey(key string) string {
	return r.prefix + Key(key)
}

// Get retrieves a value from the cache
func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, r.fullKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss{Key: key}
		}
		return nil, fmt.Errorf("failed to read cache record: %w", err)
	}

	return value, nil
}

// Set stores a value without expiry
func (r *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, r.fullKey(key), value, 0).Err()
}

// Clear removes every key under the store prefix
func (r *RedisStore) Clear(ctx context.Context) (int, error) {
	removed := 0
	iter := r.client.Scan(ctx, 0, escapeGlob(r.prefix)+"*", 0).Iterator()
	for iter.Next(ctx) {
		n, err := r.client.Del(ctx, iter.Val()).Result()
		if err != nil {
			return removed, err
		}
		removed += int(n)
	}
	return removed, iter.Err()
}

// Close closes the Redis connection
func (r *RedisStore) Close() error {
	return r.client.Close()
}

// escapeGlob quotes the characters SCAN MATCH treats as pattern syntax
func escapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
