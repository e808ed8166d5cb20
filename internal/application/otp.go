package application

import (
	"context"

	"github.com/oksasatya/realio-auth/internal/domain/entity"
	"github.com/oksasatya/realio-auth/internal/domain/repository"
	"github.com/oksasatya/realio-auth/pkg/validation"
)

type verifyOtpInput struct {
	Email string `validate:"nonblank"`
	Otp   string `validate:"nonblank,otp"`
}

var verifyOtpMessages = validation.Messages{
	"Email.nonblank": MsgEmailEmpty,
	"Otp.nonblank":   MsgOtpEmpty,
	"Otp.otp":        MsgOtpInvalid,
}

// VerifyOtpUseCase confirms a one-time code. Depending on the backend the
// outcome either only confirms the account or also opens a session.
type VerifyOtpUseCase struct {
	repo repository.AuthRepository
}

func NewVerifyOtpUseCase(repo repository.AuthRepository) *VerifyOtpUseCase {
	return &VerifyOtpUseCase{repo: repo}
}

func (uc *VerifyOtpUseCase) Execute(ctx context.Context, email, otp string) (entity.OtpOutcome, error) {
	if err := check(verifyOtpInput{Email: email, Otp: otp}, verifyOtpMessages); err != nil {
		return entity.OtpOutcome{}, err
	}
	return result(uc.repo.VerifyOtp(ctx, email, otp))
}

type resendOtpInput struct {
	Email string `validate:"nonblank,authemail"`
}

var resendOtpMessages = validation.Messages{
	"Email.nonblank":  MsgEmailEmpty,
	"Email.authemail": MsgEmailInvalid,
}

type ResendOtpUseCase struct {
	repo repository.AuthRepository
}

func NewResendOtpUseCase(repo repository.AuthRepository) *ResendOtpUseCase {
	return &ResendOtpUseCase{repo: repo}
}

func (uc *ResendOtpUseCase) Execute(ctx context.Context, email string) (bool, error) {
	if err := check(resendOtpInput{Email: email}, resendOtpMessages); err != nil {
		return false, err
	}
	return result(uc.repo.ResendOtp(ctx, email))
}
