package auth

import (
	"context"
	"errors"

	"storefront/internal/repository"
)

// LogoutUsecaseはtoken_versionを+1して、
// 発行済みのアクセストークンをすべて無効化する。
type LogoutUsecase struct {
	userRepo repository.UserRepository
}

func NewLogoutUsecase(userRepo repository.UserRepository) *LogoutUsecase {
	return &LogoutUsecase{userRepo: userRepo}
}

func (u *LogoutUsecase) Execute(ctx context.Context, userID int64) error {
	err := u.userRepo.IncrementTokenVersion(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		//既にいないユーザーはログアウト済み扱い
		return nil
	}
	return err
}
