package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/realio-auth/internal/domain/entity"
	"github.com/oksasatya/realio-auth/internal/domain/repository"
)

const uniqueViolation = "23505"

const accountColumns = `id, email, password_hash, name, avatar_url, provider, provider_id, verified, created_at, updated_at`

type AccountRepository struct {
	pool *pgxpool.Pool
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

func (r *AccountRepository) Create(ctx context.Context, a *entity.Account) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, name, avatar_url, provider, provider_id, verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, strings.ToLower(a.Email), a.Password, a.Name, a.AvatarURL, a.Provider, a.ProviderID, a.Verified)

	if err := row.Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return repository.ErrEmailTaken
		}
		return err
	}
	a.Email = strings.ToLower(a.Email)
	return nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*entity.Account, error) {
	return r.getOne(ctx, `SELECT `+accountColumns+` FROM users WHERE id::text = $1`, id)
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*entity.Account, error) {
	return r.getOne(ctx, `SELECT `+accountColumns+` FROM users WHERE email = $1`, strings.ToLower(strings.TrimSpace(email)))
}

func (r *AccountRepository) GetByProvider(ctx context.Context, provider, providerID string) (*entity.Account, error) {
	return r.getOne(ctx, `SELECT `+accountColumns+` FROM users WHERE provider = $1 AND provider_id = $2`, provider, providerID)
}

func (r *AccountRepository) Update(ctx context.Context, a *entity.Account) error {
	a.UpdatedAt = time.Now()

	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET email = $1, password_hash = $2, name = $3, avatar_url = $4,
		    provider = $5, provider_id = $6, verified = $7, updated_at = $8
		WHERE id::text = $9
	`, strings.ToLower(a.Email), a.Password, a.Name, a.AvatarURL, a.Provider, a.ProviderID, a.Verified, a.UpdatedAt, a.ID)
	if err != nil {
		return err
	}

	if res.RowsAffected() == 0 {
		return repository.ErrAccountNotFound
	}

	return nil
}

func (r *AccountRepository) getOne(ctx context.Context, query string, args ...any) (*entity.Account, error) {
	a := &entity.Account{}
	row := r.pool.QueryRow(ctx, query, args...)
	if err := row.Scan(&a.ID, &a.Email, &a.Password, &a.Name, &a.AvatarURL,
		&a.Provider, &a.ProviderID, &a.Verified, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrAccountNotFound
		}
		return nil, err
	}
	return a, nil
}

var _ repository.AccountRepository = (*AccountRepository)(nil)
