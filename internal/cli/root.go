// Package cli implements the bookreview command, a terminal front end for
// the Book Review API built on internal/client.
package cli

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"bookreview/internal/client"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type app struct {
	cfg    *Config
	client *client.Client
	out    io.Writer

	flagNoColor bool
	flagConfig  string
}

// NewRootCmd builds the command tree. Each call returns independent state.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "bookreview",
		Short: "Browse and review books through the Book Review API",
		Long: `bookreview talks to a Book Review API server.

Reading the catalog needs no account. Creating categories and reviews
requires 'bookreview login' first; the session is kept in a local file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().BoolVar(&a.flagNoColor, "no-color", false, "Disable colored output")
	root.PersistentFlags().StringVar(&a.flagConfig, "config", "", "Config file path (default: ~/.config/bookreview/config.yml)")
	root.PersistentFlags().String("api-url", "", "API base URL")
	root.PersistentFlags().StringP("output", "o", "", "Output format: table, json or yaml")
	root.PersistentFlags().String("session-file", "", "Where the login session is stored")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return a.setup(cmd)
	}

	root.AddCommand(
		a.newLoginCmd(),
		a.newRegisterCmd(),
		a.newLogoutCmd(),
		a.newWhoamiCmd(),
		a.newPasswordCmd(),
		a.newAuthorCmd(),
		a.newBookCmd(),
		a.newCategoryCmd(),
		a.newReviewCmd(),
		a.newStatsCmd(),
		a.newConfigCmd(),
	)
	return root
}

// Execute is the entry point called from main.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), describeError(err))
		os.Exit(1)
	}
}

func (a *app) setup(cmd *cobra.Command) error {
	a.out = cmd.OutOrStdout()
	if a.flagNoColor || !isTTY() {
		color.NoColor = true
	}

	v := viper.New()
	flags := cmd.Root().PersistentFlags()
	_ = v.BindPFlag("api.base_url", flags.Lookup("api-url"))
	_ = v.BindPFlag("output", flags.Lookup("output"))
	_ = v.BindPFlag("session_file", flags.Lookup("session-file"))

	cfg, err := LoadConfig(v, a.flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	a.cfg = cfg

	var store client.TokenStore = client.NewMemoryTokenStore()
	if cfg.SessionFile != "" {
		store = client.NewFileTokenStore(cfg.SessionFile)
	}

	c, err := client.New(cfg.API.BaseURL,
		client.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}),
		client.WithTokenStore(store),
	)
	if err != nil {
		return err
	}
	a.client = c
	return nil
}

func isTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
