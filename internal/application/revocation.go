package application

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/bootcamp-directory/pkg/helpers"
)

// TokenRevoker keeps the ids of logged-out tokens until they would have expired anyway.
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	Revoked(ctx context.Context, jti string) (bool, error)
}

type RedisRevoker struct {
	rdb *redis.Client
}

func NewRedisRevoker(rdb *redis.Client) *RedisRevoker {
	return &RedisRevoker{rdb: rdb}
}

func (r *RedisRevoker) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return r.rdb.Set(ctx, helpers.KeyRevokedToken(jti), "1", ttl).Err()
}

func (r *RedisRevoker) Revoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.rdb.Exists(ctx, helpers.KeyRevokedToken(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
