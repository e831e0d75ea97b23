package account

import (
	"context"
	"time"

	"bookreview/internal/entity"
)

// Store persists users and password reset tokens.
type Store interface {
	// CreateUser returns ErrEmailTaken when the email is registered, ignoring case.
	CreateUser(ctx context.Context, u *entity.User) error
	GetUserByEmail(ctx context.Context, email string) (entity.User, error)
	GetUserByID(ctx context.Context, id string) (entity.User, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	CreateReset(ctx context.Context, reset PasswordReset) error
	// ResetPassword consumes the token and sets the new hash atomically.
	// It returns ErrInvalidResetToken when the token is unknown, used or expired at now.
	ResetPassword(ctx context.Context, tokenHash, passwordHash string, now time.Time) error
}

// Notifier delivers password reset tokens to their owner.
type Notifier interface {
	SendPasswordReset(ctx context.Context, u entity.User, token string) error
}
