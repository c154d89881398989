package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces session keys
const DefaultKeyPrefix = "nayana:session:"

// RedisStorage handles Redis operations for session storage
type RedisStorage[T any] struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStorage connects to the Redis server at redisURL and checks the connection
func NewRedisStorage[T any](ctx context.Context, redisURL string, ttl time.Duration) (*RedisStorage[T], error) {
	if redisURL == "" {
		return nil, fmt.Errorf("redis URL is required")
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	// Test connection
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisStorageWithClient[T](client, ttl), nil
}

// NewRedisStorageWithClient wraps an existing client
func NewRedisStorageWithClient[T any](client *redis.Client, ttl time.Duration) *RedisStorage[T] {
	return &RedisStorage[T]{
		client: client,
		prefix: DefaultKeyPrefix,
		ttl:    ttl,
	}
}

func (r *RedisStorage[T]) key(sessionID string) string {
	return r.prefix + sessionID
}

// Set stores session data and refreshes its TTL
func (r *RedisStorage[T]) Set(ctx context.Context, sessionID string, value T) error {
	if sessionID == "" {
		return fmt.Errorf("session ID cannot be empty")
	}

	data, err := sonic.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal session data: %w", err)
	}

	if err := r.client.Set(ctx, r.key(sessionID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set session data: %w", err)
	}
	return nil
}

// Get retrieves session data from Redis
func (r *RedisStorage[T]) Get(ctx context.Context, sessionID string) (T, error) {
	var value T

	data, err := r.client.Get(ctx, r.key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return value, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
		}
		return value, fmt.Errorf("failed to get session data: %w", err)
	}

	if err := sonic.Unmarshal(data, &value); err != nil {
		return value, fmt.Errorf("failed to unmarshal session data: %w", err)
	}
	return value, nil
}

// Delete removes session from Redis
func (r *RedisStorage[T]) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, r.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// TTL gets the remaining TTL for a session
func (r *RedisStorage[T]) TTL(ctx context.Context, sessionID string) (time.Duration, error) {
	ttl, err := r.client.TTL(ctx, r.key(sessionID)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get TTL: %w", err)
	}
	return ttl, nil
}

// Ping tests Redis connection
func (r *RedisStorage[T]) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (r *RedisStorage[T]) Close() error {
	return r.client.Close()
}
