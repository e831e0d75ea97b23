package account

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"bookreview/internal/entity"
	"bookreview/internal/logging"
	"bookreview/internal/platform/crypto"
)

type Config struct {
	Secret   string
	TokenTTL time.Duration
	ResetTTL time.Duration
}

type Service struct {
	store    Store
	notifier Notifier
	cfg      Config
	now      func() time.Time
}

func NewService(store Store, notifier Notifier, cfg Config) *Service {
	if cfg.ResetTTL <= 0 {
		cfg.ResetTTL = time.Hour
	}
	return &Service{store: store, notifier: notifier, cfg: cfg, now: time.Now}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

func (s *Service) issue(u entity.User) (AuthResult, error) {
	token, expires, err := crypto.GenerateToken(s.cfg.Secret, u.ID, u.Email, s.cfg.TokenTTL)
	if err != nil {
		return AuthResult{}, fmt.Errorf("sign token: %w", err)
	}
	return AuthResult{
		Token:     token,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		UserID:    u.ID,
		Expires:   expires,
	}, nil
}

// Register creates the account and signs the caller in.
func (s *Service) Register(ctx context.Context, in RegisterInput) (AuthResult, error) {
	hash, err := crypto.HashPassword(in.Password)
	if err != nil {
		return AuthResult{}, fmt.Errorf("hash password: %w", err)
	}

	u := entity.User{
		ID:           uuid.NewString(),
		Email:        normalizeEmail(in.Email),
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
	}
	if err := s.store.CreateUser(ctx, &u); err != nil {
		return AuthResult{}, err
	}
	return s.issue(u)
}

func (s *Service) Login(ctx context.Context, email, password string) (AuthResult, error) {
	u, err := s.store.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return AuthResult{}, ErrUnauthorized
		}
		return AuthResult{}, err
	}
	if !crypto.VerifyPassword(u.PasswordHash, password) {
		return AuthResult{}, ErrUnauthorized
	}
	return s.issue(u)
}

func (s *Service) Me(ctx context.Context, userID string) (entity.User, error) {
	return s.store.GetUserByID(ctx, userID)
}

// ForgotPassword issues a reset token when the email is known. Unknown emails
// succeed silently so the endpoint cannot be used to probe for accounts.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.store.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			logging.Debug().Msg("password reset requested for unknown email")
			return nil
		}
		return err
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}
	token := hex.EncodeToString(raw)

	reset := PasswordReset{
		TokenHash: hashToken(token),
		UserID:    u.ID,
		ExpiresAt: s.now().Add(s.cfg.ResetTTL),
	}
	if err := s.store.CreateReset(ctx, reset); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}
	return s.notifier.SendPasswordReset(ctx, u, token)
}

func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return ErrInvalidResetToken
	}
	hash, err := crypto.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.store.ResetPassword(ctx, hashToken(token), hash, s.now())
}

func (s *Service) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	u, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if !crypto.VerifyPassword(u.PasswordHash, oldPassword) {
		return ErrIncorrectPassword
	}
	hash, err := crypto.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.store.UpdatePassword(ctx, userID, hash)
}
