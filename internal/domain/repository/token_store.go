package repository

import "context"

// TokenStore persists the session credentials of the current installation.
// Getters report false when the value was never set or has been cleared.
// Implementations must keep a pair write atomic.
type TokenStore interface {
	SaveTokens(ctx context.Context, authToken, refreshToken string) error
	AuthToken(ctx context.Context) (string, bool, error)
	RefreshToken(ctx context.Context) (string, bool, error)
	SaveUserID(ctx context.Context, id string) error
	UserID(ctx context.Context) (string, bool, error)
	// ClearTokens removes tokens and user id. Clearing an empty store is not an error.
	ClearTokens(ctx context.Context) error
}
