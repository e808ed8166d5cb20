package application

import (
	"context"

	"github.com/oksasatya/realio-auth/internal/domain/entity"
	"github.com/oksasatya/realio-auth/internal/domain/repository"
)

type LogoutUseCase struct {
	repo repository.AuthRepository
}

func NewLogoutUseCase(repo repository.AuthRepository) *LogoutUseCase {
	return &LogoutUseCase{repo: repo}
}

func (uc *LogoutUseCase) Execute(ctx context.Context) (bool, error) {
	return result(uc.repo.Logout(ctx))
}

// CurrentSessionUseCase reports the stored session, if any.
type CurrentSessionUseCase struct {
	repo repository.AuthRepository
}

func NewCurrentSessionUseCase(repo repository.AuthRepository) *CurrentSessionUseCase {
	return &CurrentSessionUseCase{repo: repo}
}

func (uc *CurrentSessionUseCase) Execute(ctx context.Context) (entity.Session, error) {
	return result(uc.repo.CurrentSession(ctx))
}
