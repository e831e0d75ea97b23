package account

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"bookreview/internal/entity"
	"bookreview/internal/platform/crypto"
)

const testSecret = "account-test-secret"

func newTestService() (*Service, *mockStore, *mockNotifier) {
	store := new(mockStore)
	notifier := new(mockNotifier)
	svc := NewService(store, notifier, Config{Secret: testSecret, TokenTTL: time.Hour, ResetTTL: time.Hour})
	return svc, store, notifier
}

func userWithPassword(t *testing.T, password string) entity.User {
	t.Helper()
	hash, err := crypto.HashPassword(password)
	require.NoError(t, err)
	return entity.User{ID: "user-1", Email: "reader@example.com", PasswordHash: hash, FirstName: "Ada", LastName: "Reader"}
}

func TestService_Register(t *testing.T) {
	svc, store, _ := newTestService()

	store.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *entity.User) bool {
		return u.Email == "reader@example.com" && u.ID != "" && crypto.VerifyPassword(u.PasswordHash, "Secret1!")
	})).Return(nil)

	res, err := svc.Register(context.Background(), RegisterInput{
		Email:     "  Reader@Example.com ",
		Password:  "Secret1!",
		FirstName: "Ada",
		LastName:  "Reader",
	})
	require.NoError(t, err)

	assert.Equal(t, "reader@example.com", res.Email)
	assert.Equal(t, "Ada", res.FirstName)
	assert.NotEmpty(t, res.UserID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), res.Expires, time.Minute)

	claims, err := crypto.ParseToken(testSecret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.UserID, claims.Sub)
	store.AssertExpectations(t)
}

func TestService_Register_EmailTaken(t *testing.T) {
	svc, store, _ := newTestService()
	store.On("CreateUser", mock.Anything, mock.Anything).Return(ErrEmailTaken)

	_, err := svc.Register(context.Background(), RegisterInput{Email: "a@b.com", Password: "Secret1!"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestService_Login(t *testing.T) {
	u := userWithPassword(t, "Secret1!")

	t.Run("success", func(t *testing.T) {
		svc, store, _ := newTestService()
		store.On("GetUserByEmail", mock.Anything, "reader@example.com").Return(u, nil)

		res, err := svc.Login(context.Background(), "READER@example.com", "Secret1!")
		require.NoError(t, err)
		assert.Equal(t, "user-1", res.UserID)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, store, _ := newTestService()
		store.On("GetUserByEmail", mock.Anything, "reader@example.com").Return(u, nil)

		_, err := svc.Login(context.Background(), "reader@example.com", "nope")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("unknown email", func(t *testing.T) {
		svc, store, _ := newTestService()
		store.On("GetUserByEmail", mock.Anything, "ghost@example.com").Return(entity.User{}, ErrNotFound)

		_, err := svc.Login(context.Background(), "ghost@example.com", "Secret1!")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("store failure", func(t *testing.T) {
		svc, store, _ := newTestService()
		store.On("GetUserByEmail", mock.Anything, "reader@example.com").Return(entity.User{}, errors.New("timeout"))

		_, err := svc.Login(context.Background(), "reader@example.com", "Secret1!")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrUnauthorized)
	})
}

func TestService_ForgotPassword(t *testing.T) {
	t.Run("known email issues token", func(t *testing.T) {
		svc, store, notifier := newTestService()
		fixed := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
		svc.now = func() time.Time { return fixed }
		u := userWithPassword(t, "Secret1!")

		var sentToken string
		store.On("GetUserByEmail", mock.Anything, "reader@example.com").Return(u, nil)
		store.On("CreateReset", mock.Anything, mock.MatchedBy(func(r PasswordReset) bool {
			return r.UserID == "user-1" && r.ExpiresAt.Equal(fixed.Add(time.Hour)) && len(r.TokenHash) == 64
		})).Return(nil)
		notifier.On("SendPasswordReset", mock.Anything, u, mock.AnythingOfType("string")).
			Run(func(args mock.Arguments) { sentToken = args.String(2) }).
			Return(nil)

		require.NoError(t, svc.ForgotPassword(context.Background(), "reader@example.com"))

		assert.Len(t, sentToken, 64)
		reset := store.Calls[1].Arguments.Get(1).(PasswordReset)
		assert.Equal(t, hashToken(sentToken), reset.TokenHash)
		assert.NotEqual(t, sentToken, reset.TokenHash)
	})

	t.Run("unknown email is silent", func(t *testing.T) {
		svc, store, notifier := newTestService()
		store.On("GetUserByEmail", mock.Anything, "ghost@example.com").Return(entity.User{}, ErrNotFound)

		assert.NoError(t, svc.ForgotPassword(context.Background(), "ghost@example.com"))
		notifier.AssertNotCalled(t, "SendPasswordReset", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestService_ResetPassword(t *testing.T) {
	svc, store, _ := newTestService()
	fixed := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	store.On("ResetPassword", mock.Anything, hashToken("tok"), mock.AnythingOfType("string"), fixed).Return(nil).Once()
	assert.NoError(t, svc.ResetPassword(context.Background(), "tok", "NewPass1!"))

	store.On("ResetPassword", mock.Anything, hashToken("used"), mock.Anything, fixed).Return(ErrInvalidResetToken).Once()
	assert.ErrorIs(t, svc.ResetPassword(context.Background(), "used", "NewPass1!"), ErrInvalidResetToken)

	assert.ErrorIs(t, svc.ResetPassword(context.Background(), "", "NewPass1!"), ErrInvalidResetToken)
}

func TestService_ChangePassword(t *testing.T) {
	u := userWithPassword(t, "Secret1!")

	t.Run("wrong old password", func(t *testing.T) {
		svc, store, _ := newTestService()
		store.On("GetUserByID", mock.Anything, "user-1").Return(u, nil)

		err := svc.ChangePassword(context.Background(), "user-1", "Wrong1!", "NewPass1!")
		assert.ErrorIs(t, err, ErrIncorrectPassword)
		store.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("success", func(t *testing.T) {
		svc, store, _ := newTestService()
		store.On("GetUserByID", mock.Anything, "user-1").Return(u, nil)
		store.On("UpdatePassword", mock.Anything, "user-1", mock.MatchedBy(func(hash string) bool {
			return crypto.VerifyPassword(hash, "NewPass1!")
		})).Return(nil)

		require.NoError(t, svc.ChangePassword(context.Background(), "user-1", "Secret1!", "NewPass1!"))
		store.AssertExpectations(t)
	})
}

func TestLogNotifier_ResetLink(t *testing.T) {
	n := NewLogNotifier("http://localhost:5173/")
	assert.Equal(t, "http://localhost:5173/reset-password?token=abc", n.ResetLink("abc"))
	assert.NoError(t, n.SendPasswordReset(context.Background(), entity.User{ID: "u"}, "abc"))
}
