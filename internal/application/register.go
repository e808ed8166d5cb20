package application

import (
	"context"

	"github.com/oksasatya/realio-auth/internal/domain/entity"
	"github.com/oksasatya/realio-auth/internal/domain/repository"
	"github.com/oksasatya/realio-auth/pkg/validation"
)

type registerInput struct {
	Name     string `validate:"nonblank"`
	Email    string `validate:"nonblank,authemail"`
	Password string `validate:"nonblank,pwd"`
}

var registerMessages = validation.Messages{
	"Name.nonblank":     MsgNameEmpty,
	"Email.nonblank":    MsgEmailEmpty,
	"Email.authemail":   MsgEmailInvalid,
	"Password.nonblank": MsgPasswordEmpty,
	"Password.pwd":      MsgPasswordShort,
}

// RegisterUseCase creates an account. It does not log the user in; the
// caller follows up with VerifyOtp.
type RegisterUseCase struct {
	repo repository.AuthRepository
}

func NewRegisterUseCase(repo repository.AuthRepository) *RegisterUseCase {
	return &RegisterUseCase{repo: repo}
}

func (uc *RegisterUseCase) Execute(ctx context.Context, name, email, password string) (entity.User, error) {
	in := registerInput{Name: name, Email: email, Password: password}
	if err := check(in, registerMessages); err != nil {
		return entity.User{}, err
	}
	return result(uc.repo.Register(ctx, name, email, password))
}
