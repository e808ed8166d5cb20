package application

import (
	"context"

	"github.com/oksasatya/realio-auth/internal/domain/entity"
	"github.com/oksasatya/realio-auth/internal/domain/repository"
	"github.com/oksasatya/realio-auth/pkg/validation"
)

type getUserInput struct {
	UserID string `validate:"nonblank"`
}

type uploadInput struct {
	Path string `validate:"nonblank"`
}

var userMessages = validation.Messages{
	"UserID.nonblank": MsgUserIDEmpty,
	"Path.nonblank":   MsgPathEmpty,
}

type GetUserDetailsUseCase struct {
	repo repository.AuthRepository
}

func NewGetUserDetailsUseCase(repo repository.AuthRepository) *GetUserDetailsUseCase {
	return &GetUserDetailsUseCase{repo: repo}
}

func (uc *GetUserDetailsUseCase) Execute(ctx context.Context, userID string) (entity.User, error) {
	if err := check(getUserInput{UserID: userID}, userMessages); err != nil {
		return entity.User{}, err
	}
	return result(uc.repo.GetUserDetails(ctx, userID))
}

// UploadProfileImageUseCase uploads the image at a local path as the
// signed-in user's profile picture.
type UploadProfileImageUseCase struct {
	repo repository.AuthRepository
}

func NewUploadProfileImageUseCase(repo repository.AuthRepository) *UploadProfileImageUseCase {
	return &UploadProfileImageUseCase{repo: repo}
}

func (uc *UploadProfileImageUseCase) Execute(ctx context.Context, path string) (entity.UploadResult, error) {
	if err := check(uploadInput{Path: path}, userMessages); err != nil {
		return entity.UploadResult{}, err
	}
	return result(uc.repo.UploadProfileImage(ctx, path))
}
