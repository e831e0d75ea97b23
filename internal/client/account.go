package client

import (
	"context"
	"net/http"
	"time"

	"bookreview/internal/entity"
)

type RegisterRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
}

type authResponse struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	UserID    string    `json:"userId"`
	Expires   time.Time `json:"expires"`
}

func (a authResponse) session() Session {
	return Session{
		Token:     a.Token,
		UserID:    a.UserID,
		Email:     a.Email,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Expires:   a.Expires,
	}
}

// AccountService wraps the /api/Account endpoints and the local session.
type AccountService struct {
	c   *Client
	now func() time.Time
}

// Login authenticates and stores the returned session.
func (s *AccountService) Login(ctx context.Context, email, password string) (Session, error) {
	body := map[string]string{"email": email, "password": password}
	return s.authenticate(ctx, "/api/Account/login", body)
}

// Register creates the account and stores the returned session.
func (s *AccountService) Register(ctx context.Context, in RegisterRequest) (Session, error) {
	return s.authenticate(ctx, "/api/Account/register", in)
}

func (s *AccountService) authenticate(ctx context.Context, path string, body interface{}) (Session, error) {
	var out authResponse
	if err := s.c.do(ctx, http.MethodPost, path, body, &out); err != nil {
		return Session{}, err
	}
	sess := out.session()
	if err := s.c.tokens.Save(sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// Logout forgets the local session. The server keeps no session state.
func (s *AccountService) Logout() error {
	return s.c.tokens.Clear()
}

// IsAuthenticated reports whether a stored token exists and its exp claim is in the future.
func (s *AccountService) IsAuthenticated() bool {
	sess, err := s.c.tokens.Load()
	if err != nil || sess.Token == "" {
		return false
	}
	exp, err := tokenExpiry(sess.Token)
	if err != nil {
		return false
	}
	return s.clock().Before(exp)
}

// CurrentUser returns the stored session without contacting the server.
func (s *AccountService) CurrentUser() (Session, error) {
	return s.c.tokens.Load()
}

func (s *AccountService) Me(ctx context.Context) (entity.User, error) {
	var u entity.User
	err := s.c.do(ctx, http.MethodGet, "/api/Account/me", nil, &u)
	return u, err
}

func (s *AccountService) ForgotPassword(ctx context.Context, email string) error {
	return s.c.do(ctx, http.MethodPost, "/api/Account/forgot-password", map[string]string{"email": email}, nil)
}

func (s *AccountService) ResetPassword(ctx context.Context, token, newPassword string) error {
	body := map[string]string{"token": token, "newPassword": newPassword}
	return s.c.do(ctx, http.MethodPost, "/api/Account/reset-password", body, nil)
}

func (s *AccountService) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	body := map[string]string{"oldPassword": oldPassword, "newPassword": newPassword}
	return s.c.do(ctx, http.MethodPost, "/api/Account/change-password", body, nil)
}

func (s *AccountService) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}
