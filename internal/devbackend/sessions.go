package devbackend

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/realio-auth/internal/domain/entity"
	"github.com/oksasatya/realio-auth/pkg/helpers"
)

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// Sessions tracks the one live session per user in a Redis hash. Tokens
// carry the session id; a token whose sid no longer matches is rejected.
type Sessions struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSessions(rdb *redis.Client, ttl time.Duration) *Sessions {
	return &Sessions{rdb: rdb, ttl: ttl}
}

// Open replaces any existing session for a and returns the new sid.
func (s *Sessions) Open(ctx context.Context, a *entity.Account) (string, error) {
	sid := uuid.NewString()
	key := helpers.KeyUserSession(a.ID)
	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key, map[string]any{
		"user_id":    a.ID,
		"email":      a.Email,
		"name":       a.Name,
		"sid":        sid,
		"created_at": nowRFC3339(),
	})
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", err
	}
	return sid, nil
}

// Check reports ErrSessionNotFound unless sid is the user's live session.
func (s *Sessions) Check(ctx context.Context, userID, sid string) error {
	cur, err := s.rdb.HGet(ctx, helpers.KeyUserSession(userID), "sid").Result()
	if errors.Is(err, redis.Nil) {
		return ErrSessionNotFound
	}
	if err != nil {
		return err
	}
	if cur != sid {
		return ErrSessionNotFound
	}
	return nil
}

// Close ends the user's session. Closing twice is not an error.
func (s *Sessions) Close(ctx context.Context, userID string) error {
	return s.rdb.Del(ctx, helpers.KeyUserSession(userID)).Err()
}
