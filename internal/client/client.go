// Package client is a typed HTTP client for the Book Review API. It mirrors
// the server endpoints one to one: no caching, batching or retries.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// Client talks to one API server.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	tokens  TokenStore

	Authors    *AuthorService
	Books      *BookService
	Categories *CategoryService
	Reviews    *ReviewService
	Account    *AccountService
}

type Option func(*Client)

// WithHTTPClient replaces the default client, which has a 15 second timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTokenStore sets where the session token is read from and saved to.
func WithTokenStore(ts TokenStore) Option {
	return func(c *Client) { c.tokens = ts }
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}

	c := &Client{
		baseURL: u,
		http:    &http.Client{Timeout: 15 * time.Second},
		tokens:  NewMemoryTokenStore(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.Authors = &AuthorService{resource[authorT]{c: c, path: "/api/Author"}}
	c.Books = &BookService{resource[bookT]{c: c, path: "/api/Book"}}
	c.Categories = &CategoryService{resource[categoryT]{c: c, path: "/api/Category"}}
	c.Reviews = &ReviewService{resource[reviewT]{c: c, path: "/api/Review"}}
	c.Account = &AccountService{c: c}
	return c, nil
}

// Tokens returns the store holding the current session.
func (c *Client) Tokens() TokenStore {
	return c.tokens
}

func (c *Client) newRequest(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if s, err := c.tokens.Load(); err == nil && s.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}
	return req, nil
}

// do sends the request and decodes a 2xx body into out when out is non-nil.
// Any other status is returned as *APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
