package account

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"bookreview/internal/entity"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) CreateUser(ctx context.Context, u *entity.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockStore) GetUserByEmail(ctx context.Context, email string) (entity.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(entity.User), args.Error(1)
}

func (m *mockStore) GetUserByID(ctx context.Context, id string) (entity.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(entity.User), args.Error(1)
}

func (m *mockStore) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	args := m.Called(ctx, userID, passwordHash)
	return args.Error(0)
}

func (m *mockStore) CreateReset(ctx context.Context, reset PasswordReset) error {
	args := m.Called(ctx, reset)
	return args.Error(0)
}

func (m *mockStore) ResetPassword(ctx context.Context, tokenHash, passwordHash string, now time.Time) error {
	args := m.Called(ctx, tokenHash, passwordHash, now)
	return args.Error(0)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) SendPasswordReset(ctx context.Context, u entity.User, token string) error {
	args := m.Called(ctx, u, token)
	return args.Error(0)
}
