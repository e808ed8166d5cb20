package repository

import (
	"context"

	"github.com/oksasatya/realio-auth/internal/domain/entity"
)

// AuthRepository orchestrates the backend and local token storage.
// Every error it returns is an *autherr.Error. A successful auth operation
// persists the session before returning; a failed one leaves storage alone.
type AuthRepository interface {
	Login(ctx context.Context, email, password string) (entity.User, error)
	Register(ctx context.Context, name, email, password string) (entity.User, error)
	VerifyOtp(ctx context.Context, email, otp string) (entity.OtpOutcome, error)
	ResendOtp(ctx context.Context, email string) (bool, error)
	Logout(ctx context.Context) (bool, error)
	OAuthLogin(ctx context.Context, provider, token string) (entity.User, error)
	OAuthRegister(ctx context.Context, provider, token, email string) (entity.User, error)
	GetUserDetails(ctx context.Context, userID string) (entity.User, error)
	UploadProfileImage(ctx context.Context, path string) (entity.UploadResult, error)
	CurrentSession(ctx context.Context) (entity.Session, error)
}
