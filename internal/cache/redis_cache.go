package cache

import (
	"context"

	redis "github.com/redis/go-redis/v9"
)

const snapshotKey = "pockettill:snapshot:latest"

type RedisSnapshotCache struct {
	client *redis.Client
}

func NewRedisSnapshotCache(addr string, password string, db int) *RedisSnapshotCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisSnapshotCache{client: client}
}

func (c *RedisSnapshotCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisSnapshotCache) Close() error {
	return c.client.Close()
}

func (c *RedisSnapshotCache) Get(ctx context.Context) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, snapshotKey).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (c *RedisSnapshotCache) Set(ctx context.Context, payload []byte) error {
	if len(payload) == 0 {
		return nil
	}
	// No TTL: the snapshot is always replaced, never expired.
	return c.client.Set(ctx, snapshotKey, payload, 0).Err()
}
