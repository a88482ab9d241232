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

type stubVerifier struct{ ok bool }

func (v *stubVerifier) Verify(plain string, hashed string) bool { return v.ok }

type stubIssuer struct{}

func (i *stubIssuer) Issue(userID int64, role model.Role, tokenVersion int, now time.Time) (string, time.Time, error) {
	return "token", now.Add(15 * time.Minute), nil
}

func TestLogin_UnknownEmail(t *testing.T) {
	repoMock := new(UserRepoMock)
	repoMock.On("FindByEmail", mock.Anything, "x@example.com").Return(nil, repository.ErrUserNotFound)

	uc := auth.NewLoginUsecase(repoMock, &stubVerifier{ok: true}, &stubIssuer{}, &stubClock{t: time.Now()})

	_, err := uc.Execute(context.Background(), auth.LoginInput{Email: "x@example.com", Password: "password123"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_WrongPassword(t *testing.T) {
	repoMock := new(UserRepoMock)
	repoMock.On("FindByEmail", mock.Anything, "a@example.com").Return(&model.User{ID: 1, Email: "a@example.com", IsActive: true}, nil)

	uc := auth.NewLoginUsecase(repoMock, &stubVerifier{ok: false}, &stubIssuer{}, &stubClock{t: time.Now()})

	_, err := uc.Execute(context.Background(), auth.LoginInput{Email: "a@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_InactiveUser(t *testing.T) {
	repoMock := new(UserRepoMock)
	repoMock.On("FindByEmail", mock.Anything, "a@example.com").Return(&model.User{ID: 1, Email: "a@example.com", IsActive: false}, nil)

	uc := auth.NewLoginUsecase(repoMock, &stubVerifier{ok: true}, &stubIssuer{}, &stubClock{t: time.Now()})

	_, err := uc.Execute(context.Background(), auth.LoginInput{Email: "a@example.com", Password: "password123"})
	assert.ErrorIs(t, err, auth.ErrUserInactive)
}

func TestLogin_Success(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	repoMock := new(UserRepoMock)
	user := &model.User{ID: 1, Email: "a@example.com", PasswordHash: "h", Role: model.RoleUser, TokenVersion: 2, IsActive: true}
	repoMock.On("FindByEmail", mock.Anything, "a@example.com").Return(user, nil)
	repoMock.On("Update", mock.Anything, mock.Anything).Return(nil)

	uc := auth.NewLoginUsecase(repoMock, &stubVerifier{ok: true}, &stubIssuer{}, &stubClock{t: now})

	out, err := uc.Execute(context.Background(), auth.LoginInput{Email: "a@example.com", Password: "password123"})
	assert.NoError(t, err)
	assert.Equal(t, "token", out.Token.AccessToken)
	assert.Equal(t, 15*60, out.Token.ExpiresIn)
	assert.Equal(t, 2, out.Token.TokenVersion)
	assert.Equal(t, "", out.User.PasswordHash)

	//最終ログイン時刻が更新される
	repoMock.AssertCalled(t, "Update", mock.Anything, mock.Anything)
	assert.NotNil(t, user.LastLoginAt)
	assert.Equal(t, now, *user.LastLoginAt)
}
