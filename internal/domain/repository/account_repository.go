package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/realio-auth/internal/domain/entity"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrEmailTaken      = errors.New("email already registered")
)

// AccountRepository stores dev backend accounts. Emails compare
// case-insensitively.
type AccountRepository interface {
	Create(ctx context.Context, a *entity.Account) error
	GetByID(ctx context.Context, id string) (*entity.Account, error)
	GetByEmail(ctx context.Context, email string) (*entity.Account, error)
	GetByProvider(ctx context.Context, provider, providerID string) (*entity.Account, error)
	Update(ctx context.Context, a *entity.Account) error
}
