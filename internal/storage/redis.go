package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a Durable backed by a Redis server. Keys are "career:<owner>:<key>".
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis connects to the server described by a redis:// or rediss:// URL.
func NewRedis(ctx context.Context, redisURL string) (*Redis, error) {
	if redisURL == "" {
		return nil, fmt.Errorf("redis URL is required")
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return NewRedisFromClient(client), nil
}

// NewRedisFromClient wraps an existing client.
func NewRedisFromClient(client *redis.Client) *Redis {
	return &Redis{client: client, prefix: "career"}
}

func (r *Redis) key(owner, key string) string {
	return r.prefix + ":" + owner + ":" + key
}

// Get decodes the value at owner/key into dst.
func (r *Redis) Get(ctx context.Context, owner, key string, dst any) (bool, error) {
	data, err := r.client.Get(ctx, r.key(owner, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, &DecodeError{Key: key, Cause: err}
	}
	return true, nil
}

// Set encodes value and stores it at owner/key without expiry.
func (r *Redis) Set(ctx context.Context, owner, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := r.client.Set(ctx, r.key(owner, key), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Remove deletes owner/key.
func (r *Redis) Remove(ctx context.Context, owner, key string) error {
	if err := r.client.Del(ctx, r.key(owner, key)).Err(); err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}
