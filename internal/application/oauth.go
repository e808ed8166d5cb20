package application

import (
	"context"

	"github.com/oksasatya/realio-auth/internal/domain/entity"
	"github.com/oksasatya/realio-auth/internal/domain/repository"
	"github.com/oksasatya/realio-auth/pkg/validation"
)

type oauthLoginInput struct {
	Provider string `validate:"nonblank"`
	Token    string `validate:"nonblank"`
}

type oauthRegisterInput struct {
	Provider string `validate:"nonblank"`
	Token    string `validate:"nonblank"`
	Email    string `validate:"nonblank,authemail"`
}

var oauthMessages = validation.Messages{
	"Provider.nonblank": MsgProviderEmpty,
	"Token.nonblank":    MsgTokenEmpty,
	"Email.nonblank":    MsgEmailEmpty,
	"Email.authemail":   MsgEmailInvalid,
}

// OAuthLoginUseCase signs in with a token issued by an identity provider
// such as Google.
type OAuthLoginUseCase struct {
	repo repository.AuthRepository
}

func NewOAuthLoginUseCase(repo repository.AuthRepository) *OAuthLoginUseCase {
	return &OAuthLoginUseCase{repo: repo}
}

func (uc *OAuthLoginUseCase) Execute(ctx context.Context, provider, token string) (entity.User, error) {
	if err := check(oauthLoginInput{Provider: provider, Token: token}, oauthMessages); err != nil {
		return entity.User{}, err
	}
	return result(uc.repo.OAuthLogin(ctx, provider, token))
}

type OAuthRegisterUseCase struct {
	repo repository.AuthRepository
}

func NewOAuthRegisterUseCase(repo repository.AuthRepository) *OAuthRegisterUseCase {
	return &OAuthRegisterUseCase{repo: repo}
}

func (uc *OAuthRegisterUseCase) Execute(ctx context.Context, provider, token, email string) (entity.User, error) {
	in := oauthRegisterInput{Provider: provider, Token: token, Email: email}
	if err := check(in, oauthMessages); err != nil {
		return entity.User{}, err
	}
	return result(uc.repo.OAuthRegister(ctx, provider, token, email))
}
