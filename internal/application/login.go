package application

import (
	"context"

	"github.com/oksasatya/realio-auth/internal/domain/entity"
	"github.com/oksasatya/realio-auth/internal/domain/repository"
	"github.com/oksasatya/realio-auth/pkg/validation"
)

type loginInput struct {
	Email    string `validate:"nonblank,authemail"`
	Password string `validate:"nonblank"`
}

var loginMessages = validation.Messages{
	"Email.nonblank":    MsgEmailEmpty,
	"Email.authemail":   MsgEmailInvalid,
	"Password.nonblank": MsgPasswordEmpty,
}

type LoginUseCase struct {
	repo repository.AuthRepository
}

func NewLoginUseCase(repo repository.AuthRepository) *LoginUseCase {
	return &LoginUseCase{repo: repo}
}

func (uc *LoginUseCase) Execute(ctx context.Context, email, password string) (entity.User, error) {
	if err := check(loginInput{Email: email, Password: password}, loginMessages); err != nil {
		return entity.User{}, err
	}
	return result(uc.repo.Login(ctx, email, password))
}
