package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"bookreview/internal/client"

	"github.com/fatih/color"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

const uncategorized = "Uncategorized"

// ok prints a green success line.
func (a *app) ok(format string, args ...interface{}) {
	fmt.Fprintln(a.out, color.GreenString("✓"), fmt.Sprintf(format, args...))
}

// warn prints a yellow warning line.
func (a *app) warn(format string, args ...interface{}) {
	fmt.Fprintln(a.out, color.YellowString("!"), fmt.Sprintf(format, args...))
}

// header prints a cyan section heading.
func (a *app) header(format string, args ...interface{}) {
	fmt.Fprintln(a.out, color.CyanString(fmt.Sprintf(format, args...)))
}

// render writes v as JSON or YAML when asked to, otherwise calls table.
func (a *app) render(v interface{}, table func(w io.Writer)) error {
	switch a.cfg.Output {
	case "json":
		buf, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(a.out, string(buf))
		return err
	case "yaml":
		return writeYAML(a.out, v)
	default:
		table(a.out)
		return nil
	}
}

// writeYAML goes through JSON first so keys match the API field names.
func writeYAML(w io.Writer, v interface{}) error {
	buf, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var generic interface{}
	if err := json.Unmarshal(buf, &generic); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return err
	}
	return enc.Close()
}

func describeError(err error) string {
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		return err.Error()
	}

	switch {
	case apiErr.StatusCode == 404:
		return "not found"
	case apiErr.StatusCode == 401:
		return "not logged in or session expired (run: bookreview login)"
	}

	var b strings.Builder
	msg := apiErr.Message
	if msg == "" {
		msg = apiErr.Error()
	}
	b.WriteString(msg)
	for _, d := range apiErr.Details {
		fmt.Fprintf(&b, "\n  %s: %s", d.Field, d.Message)
	}
	return b.String()
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}

func deref(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func stars(rating int) string {
	if rating < 0 {
		rating = 0
	}
	if rating > 5 {
		rating = 5
	}
	return strings.Repeat("★", rating) + strings.Repeat("☆", 5-rating)
}
