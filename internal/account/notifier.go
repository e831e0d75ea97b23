package account

import (
	"context"
	"net/url"
	"strings"

	"bookreview/internal/entity"
	"bookreview/internal/logging"
)

// LogNotifier writes reset links to the debug log instead of sending mail.
type LogNotifier struct {
	baseURL string
}

func NewLogNotifier(baseURL string) *LogNotifier {
	return &LogNotifier{baseURL: strings.TrimRight(baseURL, "/")}
}

// ResetLink builds the URL a user follows to choose a new password.
func (n *LogNotifier) ResetLink(token string) string {
	return n.baseURL + "/reset-password?token=" + url.QueryEscape(token)
}

func (n *LogNotifier) SendPasswordReset(ctx context.Context, u entity.User, token string) error {
	logging.Debug().
		Str("user_id", u.ID).
		Str("email", u.Email).
		Str("reset_link", n.ResetLink(token)).
		Msg("password reset issued")
	return nil
}
