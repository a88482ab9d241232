package auth

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/repository"
)

// 会員登録の入力
type RegisterUserInput struct {
	Email    string
	Password string
}

// 会員登録の出力
type RegisterUserOutput struct {
	User model.User `json:"user"`
}

var (
	// 入力が不正
	ErrInvalidEmailFormat = errors.New("invalid email format")
	ErrPasswordTooShort   = errors.New("password too short")

	// 競合
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// 平文パスワードからハッシュへ。
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

// RegisterUserUsecaseは会員登録の処理。
type RegisterUserUsecase struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
	clock    Clock
}

// DI
func NewRegisterUserUsecase(
	userRepo repository.UserRepository,
	hasher PasswordHasher,
	clock Clock,
) *RegisterUserUsecase {
	return &RegisterUserUsecase{
		userRepo: userRepo,
		hasher:   hasher,
		clock:    clock,
	}
}

// 会員登録実行
func (u *RegisterUserUsecase) Execute(ctx context.Context, in RegisterUserInput) (RegisterUserOutput, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))

	//email形式
	if _, err := mail.ParseAddress(email); err != nil {
		return RegisterUserOutput{}, ErrInvalidEmailFormat
	}

	//パスワード最低文字数（8）
	if len(in.Password) < 8 {
		return RegisterUserOutput{}, ErrPasswordTooShort
	}

	//email重複チェック
	existing, err := u.userRepo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return RegisterUserOutput{}, err
	}
	if existing != nil {
		return RegisterUserOutput{}, ErrEmailAlreadyExists
	}

	hash, err := u.hasher.Hash(in.Password)
	if err != nil {
		return RegisterUserOutput{}, err
	}

	now := u.clock.Now()
	user := &model.User{
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleUser,
		TokenVersion: 0,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		return RegisterUserOutput{}, err
	}

	out := RegisterUserOutput{User: *user}
	out.User.PasswordHash = ""
	return out, nil
}
