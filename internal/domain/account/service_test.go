package account_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rpggio/pyeditor/internal/domain/account"
	"github.com/rpggio/pyeditor/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLogin_PersistsSession(t *testing.T) {
	ctx := context.Background()
	backend := &mocks.AccountBackend{}
	store := &mocks.SessionStore{}
	svc := account.NewService(backend, store, nil)

	user := &account.User{ID: "u1", Username: "ayse", Email: "ayse@example.com"}
	backend.On("Login", ctx, "ayse", "secret").Return(user, nil)
	store.On("Save", ctx).Return(nil)

	got, err := svc.Login(ctx, "  ayse ", "secret")
	require.NoError(t, err)
	require.Equal(t, "ayse", got.Username)
	require.Equal(t, "u1", svc.User().ID)
	store.AssertExpectations(t)
}

func TestLogin_RequiresCredentials(t *testing.T) {
	svc := account.NewService(&mocks.AccountBackend{}, nil, nil)
	_, err := svc.Login(context.Background(), "ayse", "")
	require.ErrorIs(t, err, account.ErrInvalidInput)
	require.Nil(t, svc.User())
}

func TestLogin_BackendFailureLeavesLoggedOut(t *testing.T) {
	ctx := context.Background()
	backend := &mocks.AccountBackend{}
	backend.On("Login", ctx, "ayse", "wrong").Return(nil, errors.New("Geçersiz kullanıcı adı veya şifre"))
	svc := account.NewService(backend, nil, nil)

	_, err := svc.Login(ctx, "ayse", "wrong")
	require.Error(t, err)
	require.Nil(t, svc.User())
}

func TestRegister_ValidatesEmail(t *testing.T) {
	backend := &mocks.AccountBackend{}
	svc := account.NewService(backend, nil, nil)

	_, err := svc.Register(context.Background(), account.RegisterRequest{Username: "a", Email: "nope", Password: "p"})
	require.ErrorIs(t, err, account.ErrInvalidInput)
	backend.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestRegister_TrimsAndLogsIn(t *testing.T) {
	ctx := context.Background()
	backend := &mocks.AccountBackend{}
	svc := account.NewService(backend, nil, nil)
	backend.On("Register", ctx, account.RegisterRequest{Username: "ali", Email: "ali@example.com", Password: "pw"}).
		Return(&account.User{ID: "u2", Username: "ali"}, nil)

	u, err := svc.Register(ctx, account.RegisterRequest{Username: " ali", Email: "ali@example.com ", Password: "pw"})
	require.NoError(t, err)
	require.Equal(t, "u2", u.ID)
	require.NotNil(t, svc.User())
}

func TestCheckAuth_ClearsUserOnFailure(t *testing.T) {
	ctx := context.Background()
	backend := &mocks.AccountBackend{}
	svc := account.NewService(backend, nil, nil)

	backend.On("Me", ctx).Return(&account.User{ID: "u1", Username: "ayse"}, nil).Once()
	u, err := svc.CheckAuth(ctx)
	require.NoError(t, err)
	require.Equal(t, "ayse", u.Username)

	backend.On("Me", ctx).Return(nil, errors.New("Oturum açılmamış")).Once()
	_, err = svc.CheckAuth(ctx)
	require.Error(t, err)
	require.Nil(t, svc.User())
}

func TestLogout_ClearsEvenOnFailure(t *testing.T) {
	ctx := context.Background()
	backend := &mocks.AccountBackend{}
	store := &mocks.SessionStore{}
	svc := account.NewService(backend, store, nil)

	backend.On("Login", ctx, "ayse", "pw").Return(&account.User{ID: "u1", Username: "ayse"}, nil)
	store.On("Save", ctx).Return(nil)
	_, err := svc.Login(ctx, "ayse", "pw")
	require.NoError(t, err)

	backend.On("Logout", ctx).Return(errors.New("connection refused"))
	store.On("Clear", ctx).Return(nil)

	require.Error(t, svc.Logout(ctx))
	require.Nil(t, svc.User())
	store.AssertCalled(t, "Clear", ctx)
}

func TestDeleteAccount_RequiresMatchingConfirmation(t *testing.T) {
	ctx := context.Background()
	backend := &mocks.AccountBackend{}
	svc := account.NewService(backend, nil, nil)

	require.ErrorIs(t, svc.DeleteAccount(ctx, "ayse"), account.ErrNotAuthenticated)

	backend.On("Me", ctx).Return(&account.User{ID: "u1", Username: "ayse"}, nil)
	_, err := svc.CheckAuth(ctx)
	require.NoError(t, err)

	require.ErrorIs(t, svc.DeleteAccount(ctx, "AYSE"), account.ErrConfirmationMismatch)
	backend.AssertNotCalled(t, "DeleteAccount", mock.Anything)

	backend.On("DeleteAccount", ctx).Return(nil)
	require.NoError(t, svc.DeleteAccount(ctx, "ayse"))
	require.Nil(t, svc.User())
}
