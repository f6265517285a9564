package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to url (redis://host:port/db) and pings it.
func NewRedisStore(ctx context.Context, url, prefix string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &RedisStore{client: client, prefix: prefix}, nil
}

func (r *RedisStore) Save(ctx context.Context, key string, value any) error {
	payload, err := encode(key, value)
	if err != nil {
		return err
	}

	if err := r.client.Set(ctx, r.prefix+key, payload, 0).Err(); err != nil {
		return fmt.Errorf("error saving %q: %w", key, err)
	}
	return nil
}

func (r *RedisStore) Get(ctx context.Context, key string, dst any) (bool, error) {
	payload, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("error reading %q: %w", key, err)
	}

	return decode(payload, dst), nil
}

func (r *RedisStore) Remove(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		return fmt.Errorf("error removing %q: %w", key, err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
