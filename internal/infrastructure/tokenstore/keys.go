// Package tokenstore holds the TokenStore implementations: an in-memory
// map, a JSON file on disk and a Redis hash.
package tokenstore

import (
	"fmt"

	"github.com/oksasatya/realio-auth/internal/domain/repository"
)

// Stable keys shared by every implementation.
const (
	KeyAuthToken    = "auth_token"
	KeyRefreshToken = "refresh_token"
	KeyUserID       = "user_id"
)

// Kind names a TokenStore implementation in configuration.
const (
	KindFile   = "file"
	KindRedis  = "redis"
	KindMemory = "memory"
)

var (
	_ repository.TokenStore = (*Memory)(nil)
	_ repository.TokenStore = (*File)(nil)
	_ repository.TokenStore = (*Redis)(nil)
)

// ErrUnknownKind is returned by callers that select a store from config.
type ErrUnknownKind string

func (e ErrUnknownKind) Error() string {
	return fmt.Sprintf("unknown token store %q", string(e))
}
