// Package account is the identity collaborator: registration, login, JWT
// issuance and password management for /api/Account.
package account

import (
	"errors"
	"time"
)

var (
	// ErrUnauthorized is returned for unknown emails and wrong passwords alike.
	ErrUnauthorized      = errors.New("unauthorized")
	ErrNotFound          = errors.New("user not found")
	ErrEmailTaken        = errors.New("email already registered")
	ErrInvalidResetToken = errors.New("reset token is invalid or expired")
	ErrIncorrectPassword = errors.New("current password is incorrect")
)

// AuthResult is returned by login and registration.
type AuthResult struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	UserID    string    `json:"userId"`
	Expires   time.Time `json:"expires"`
}

// RegisterInput carries a validated registration request.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// PasswordReset is a pending reset. Only the SHA-256 of the token is stored.
type PasswordReset struct {
	TokenHash string
	UserID    string
	ExpiresAt time.Time
}
