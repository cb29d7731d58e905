package storage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/boba-shop/internal/core/domain"
)

const (
	sessionKeyPrefix  = "session:"
	idempotencyKeyTTL = 24 * time.Hour
)

type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

func (r *RedisAdapter) PutSession(ctx context.Context, token string, role domain.Role, ttl time.Duration) error {
	return r.client.Set(ctx, sessionKeyPrefix+token, string(role), ttl).Err()
}

func (r *RedisAdapter) SessionRole(ctx context.Context, token string) (domain.Role, bool, error) {
	v, err := r.client.Get(ctx, sessionKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return domain.Role(v), true, nil
}

func (r *RedisAdapter) DeleteSession(ctx context.Context, token string) error {
	return r.client.Del(ctx, sessionKeyPrefix+token).Err()
}

func (r *RedisAdapter) SetIdempotency(ctx context.Context, key string) (bool, error) {
	ok, err := r.client.SetNX(ctx, key, 1, idempotencyKeyTTL).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}
