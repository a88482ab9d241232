package auth_test

import (
	"context"
	"testing"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/repository"
	auth "storefront/internal/usecase/auth_usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) IncrementTokenVersion(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type stubHasher struct{}

func (h *stubHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }

type stubClock struct{ t time.Time }

func (c *stubClock) Now() time.Time { return c.t }

func TestRegisterUser_InvalidEmail(t *testing.T) {
	uc := auth.NewRegisterUserUsecase(new(UserRepoMock), &stubHasher{}, &stubClock{t: time.Now()})

	_, err := uc.Execute(context.Background(), auth.RegisterUserInput{Email: "not-an-email", Password: "password123"})
	assert.ErrorIs(t, err, auth.ErrInvalidEmailFormat)
}

func TestRegisterUser_PasswordTooShort(t *testing.T) {
	uc := auth.NewRegisterUserUsecase(new(UserRepoMock), &stubHasher{}, &stubClock{t: time.Now()})

	_, err := uc.Execute(context.Background(), auth.RegisterUserInput{Email: "a@example.com", Password: "short"})
	assert.ErrorIs(t, err, auth.ErrPasswordTooShort)
}

func TestRegisterUser_DuplicateEmail(t *testing.T) {
	repoMock := new(UserRepoMock)
	repoMock.On("FindByEmail", mock.Anything, "a@example.com").Return(&model.User{ID: 1, Email: "a@example.com"}, nil)

	uc := auth.NewRegisterUserUsecase(repoMock, &stubHasher{}, &stubClock{t: time.Now()})

	_, err := uc.Execute(context.Background(), auth.RegisterUserInput{Email: "a@example.com", Password: "password123"})
	assert.ErrorIs(t, err, auth.ErrEmailAlreadyExists)
}

func TestRegisterUser_Success(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	repoMock := new(UserRepoMock)
	repoMock.On("FindByEmail", mock.Anything, "a@example.com").Return(nil, repository.ErrUserNotFound)

	var created *model.User
	repoMock.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		created, _ = args.Get(1).(*model.User)
	}).Return(nil)

	uc := auth.NewRegisterUserUsecase(repoMock, &stubHasher{}, &stubClock{t: now})

	out, err := uc.Execute(context.Background(), auth.RegisterUserInput{Email: "A@Example.com", Password: "password123"})
	assert.NoError(t, err)

	//emailは小文字化して保存される
	assert.Equal(t, "a@example.com", created.Email)
	assert.Equal(t, "hashed:password123", created.PasswordHash)
	assert.Equal(t, model.RoleUser, created.Role)
	assert.True(t, created.IsActive)
	assert.Equal(t, now, created.CreatedAt)

	//レスポンスにはハッシュを含めない
	assert.Equal(t, "", out.User.PasswordHash)
}
