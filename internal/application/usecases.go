// Package application holds the auth use cases. Each one checks its input,
// then delegates to the repository; input that fails a check never reaches
// the network.
package application

import (
	"github.com/oksasatya/realio-auth/internal/domain/autherr"
	"github.com/oksasatya/realio-auth/internal/domain/repository"
	"github.com/oksasatya/realio-auth/pkg/validation"
)

const (
	MsgEmailEmpty    = "Email cannot be empty"
	MsgEmailInvalid  = "Invalid email format"
	MsgPasswordEmpty = "Password cannot be empty"
	MsgPasswordShort = "Password must be at least 8 characters"
	MsgNameEmpty     = "Name cannot be empty"
	MsgOtpEmpty      = "OTP cannot be empty"
	MsgOtpInvalid    = "Invalid OTP format"
	MsgProviderEmpty = "Provider cannot be empty"
	MsgTokenEmpty    = "Token cannot be empty"
	MsgUserIDEmpty   = "User ID cannot be empty"
	MsgPathEmpty     = "Image path cannot be empty"
)

var validate = validation.New()

// check runs the struct tags of in and reports the first failure.
func check(in any, msgs validation.Messages) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	if msg, ok := validation.FirstMessage(err, msgs); ok {
		return autherr.Validation(msg)
	}
	return autherr.Validation(err.Error())
}

// result normalizes a repository result so the error is always an
// *autherr.Error and the value is zero on failure.
func result[T any](v T, err error) (T, error) {
	if err != nil {
		var zero T
		return zero, autherr.From(err)
	}
	return v, nil
}

// UseCases bundles every use case over one repository.
type UseCases struct {
	Login              *LoginUseCase
	Register           *RegisterUseCase
	VerifyOtp          *VerifyOtpUseCase
	ResendOtp          *ResendOtpUseCase
	OAuthLogin         *OAuthLoginUseCase
	OAuthRegister      *OAuthRegisterUseCase
	GetUserDetails     *GetUserDetailsUseCase
	UploadProfileImage *UploadProfileImageUseCase
	Logout             *LogoutUseCase
	CurrentSession     *CurrentSessionUseCase
}

func NewUseCases(repo repository.AuthRepository) *UseCases {
	return &UseCases{
		Login:              NewLoginUseCase(repo),
		Register:           NewRegisterUseCase(repo),
		VerifyOtp:          NewVerifyOtpUseCase(repo),
		ResendOtp:          NewResendOtpUseCase(repo),
		OAuthLogin:         NewOAuthLoginUseCase(repo),
		OAuthRegister:      NewOAuthRegisterUseCase(repo),
		GetUserDetails:     NewGetUserDetailsUseCase(repo),
		UploadProfileImage: NewUploadProfileImageUseCase(repo),
		Logout:             NewLogoutUseCase(repo),
		CurrentSession:     NewCurrentSessionUseCase(repo),
	}
}
