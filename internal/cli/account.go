package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"bookreview/internal/client"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func readLine(r io.Reader, prompt string, w io.Writer) (string, error) {
	fmt.Fprint(w, prompt)
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (a *app) newLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session locally",
		Long: `Sign in with email and password. The returned token is stored in the
session file and sent with every later request until it expires.

When --password is omitted it is read from stdin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				return errors.New("--email is required")
			}
			if password == "" {
				var err error
				password, err = readLine(cmd.InOrStdin(), "Password: ", cmd.ErrOrStderr())
				if err != nil {
					return err
				}
			}

			sess, err := a.client.Account.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			a.ok("Logged in as %s (expires %s)", sess.Email, sess.Expires.Local().Format(time.RFC1123))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	return cmd
}

func (a *app) newRegisterCmd() *cobra.Command {
	var in client.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if in.ConfirmPassword == "" {
				in.ConfirmPassword = in.Password
			}
			sess, err := a.client.Account.Register(cmd.Context(), in)
			if err != nil {
				return err
			}
			a.ok("Registered %s %s <%s>", sess.FirstName, sess.LastName, sess.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Email, "email", "", "Account email")
	cmd.Flags().StringVar(&in.Password, "password", "", "Password (6+ chars with upper, lower, digit and symbol)")
	cmd.Flags().StringVar(&in.ConfirmPassword, "confirm-password", "", "Password confirmation (defaults to --password)")
	cmd.Flags().StringVar(&in.FirstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&in.LastName, "last-name", "", "Last name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (a *app) newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.Account.Logout(); err != nil {
				return err
			}
			a.ok("Logged out")
			return nil
		},
	}
}

func (a *app) newWhoamiCmd() *cobra.Command {
	var remote bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.client.Account.CurrentUser()
			if errors.Is(err, client.ErrNoSession) {
				a.warn("Not logged in")
				return nil
			}
			if err != nil {
				return err
			}

			if remote {
				u, err := a.client.Account.Me(cmd.Context())
				if err != nil {
					return err
				}
				return a.render(u, func(w io.Writer) {
					fmt.Fprintf(w, "%-10s %s\n", "id:", u.ID)
					fmt.Fprintf(w, "%-10s %s\n", "email:", u.Email)
					fmt.Fprintf(w, "%-10s %s %s\n", "name:", u.FirstName, u.LastName)
					fmt.Fprintf(w, "%-10s %s\n", "joined:", formatDate(u.CreatedAt))
				})
			}

			status := color.GreenString("valid")
			if !a.client.Account.IsAuthenticated() {
				status = color.RedString("expired")
			}
			return a.render(sess, func(w io.Writer) {
				fmt.Fprintf(w, "%-10s %s %s <%s>\n", "user:", sess.FirstName, sess.LastName, sess.Email)
				fmt.Fprintf(w, "%-10s %s\n", "id:", sess.UserID)
				fmt.Fprintf(w, "%-10s %s (until %s)\n", "session:", status, sess.Expires.Local().Format(time.RFC1123))
			})
		},
	}

	cmd.Flags().BoolVar(&remote, "remote", false, "Ask the server instead of reading the local session")
	return cmd
}

func (a *app) newPasswordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Forgot, reset or change your password",
	}

	var email string
	forgot := &cobra.Command{
		Use:   "forgot",
		Short: "Request a password reset link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.Account.ForgotPassword(cmd.Context(), email); err != nil {
				return err
			}
			a.ok("If %s is registered, a reset link is on its way", email)
			return nil
		},
	}
	forgot.Flags().StringVar(&email, "email", "", "Account email")
	_ = forgot.MarkFlagRequired("email")

	var token, newPassword string
	reset := &cobra.Command{
		Use:   "reset",
		Short: "Set a new password using a reset token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.Account.ResetPassword(cmd.Context(), token, newPassword); err != nil {
				return err
			}
			a.ok("Password reset, log in with the new password")
			return nil
		},
	}
	reset.Flags().StringVar(&token, "token", "", "Reset token from the email link")
	reset.Flags().StringVar(&newPassword, "new-password", "", "New password")
	_ = reset.MarkFlagRequired("token")
	_ = reset.MarkFlagRequired("new-password")

	var oldPassword, changed string
	change := &cobra.Command{
		Use:   "change",
		Short: "Change the password of the logged in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.Account.ChangePassword(cmd.Context(), oldPassword, changed); err != nil {
				return err
			}
			a.ok("Password changed")
			return nil
		},
	}
	change.Flags().StringVar(&oldPassword, "old-password", "", "Current password")
	change.Flags().StringVar(&changed, "new-password", "", "New password")
	_ = change.MarkFlagRequired("old-password")
	_ = change.MarkFlagRequired("new-password")

	cmd.AddCommand(forgot, reset, change)
	return cmd
}
