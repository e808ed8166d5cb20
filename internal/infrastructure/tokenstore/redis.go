package tokenstore

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// Redis keeps the session in a single hash per installation namespace.
type Redis struct {
	rdb *redis.Client
	key string
}

func NewRedis(rdb *redis.Client, namespace string) *Redis {
	if namespace == "" {
		namespace = "default"
	}
	return &Redis{rdb: rdb, key: HashKey(namespace)}
}

// HashKey returns the hash holding the session of namespace.
func HashKey(namespace string) string {
	return "auth:tokens:" + namespace
}

// SaveTokens writes both tokens with one HSET, which Redis applies as a
// single command.
func (r *Redis) SaveTokens(ctx context.Context, authToken, refreshToken string) error {
	return r.rdb.HSet(ctx, r.key, KeyAuthToken, authToken, KeyRefreshToken, refreshToken).Err()
}

func (r *Redis) AuthToken(ctx context.Context) (string, bool, error) {
	return r.get(ctx, KeyAuthToken)
}

func (r *Redis) RefreshToken(ctx context.Context) (string, bool, error) {
	return r.get(ctx, KeyRefreshToken)
}

func (r *Redis) SaveUserID(ctx context.Context, id string) error {
	return r.rdb.HSet(ctx, r.key, KeyUserID, id).Err()
}

func (r *Redis) UserID(ctx context.Context) (string, bool, error) {
	return r.get(ctx, KeyUserID)
}

func (r *Redis) ClearTokens(ctx context.Context) error {
	return r.rdb.Del(ctx, r.key).Err()
}

func (r *Redis) get(ctx context.Context, field string) (string, bool, error) {
	v, err := r.rdb.HGet(ctx, r.key, field).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}
