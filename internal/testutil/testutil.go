package testutil

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"bookreview/internal/entity"
	"bookreview/internal/platform/crypto"

	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
)

// TestSecret is long enough to pass config validation.
const TestSecret = "test-secret-at-least-16"

// TestUser is a registered reader.
var TestUser = entity.User{
	ID:        "3f1c2a9e-5b7d-4e11-9c0a-2d8e6f4b7a10",
	Email:     "reader@example.com",
	FirstName: "Ada",
	LastName:  "Reader",
	CreatedAt: time.Now(),
	UpdatedAt: time.Now(),
}

// TestBook is a catalogued book with an author and no category.
var TestBook = entity.Book{
	ID:            7,
	Title:         "The Left Hand of Darkness",
	PublishedDate: time.Date(1969, 3, 1, 0, 0, 0, 0, time.UTC),
	AuthorID:      3,
	Author: &entity.AuthorSummary{
		ID:        3,
		FirstName: "Ursula",
		LastName:  "Le Guin",
		FullName:  "Ursula Le Guin",
	},
}

// GenerateTestToken signs a one hour token for the user.
func GenerateTestToken(secret, userID, email string) string {
	token, _, _ := crypto.GenerateToken(secret, userID, email, time.Hour)
	return token
}

// GenerateExpiredToken signs a token that expired an hour ago.
func GenerateExpiredToken(secret, userID, email string) string {
	c := crypto.Claims{
		Sub:   userID,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	token, _ := t.SignedString([]byte(secret))
	return token
}

// NewRequest creates a new HTTP request for testing
func NewRequest(method, path string, body interface{}) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	var r *http.Request
	if bodyBytes != nil {
		r = httptest.NewRequest(method, path, bytes.NewReader(bodyBytes))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	return r
}

// NewRequestWithAuth creates a new HTTP request with a bearer token
func NewRequestWithAuth(method, path string, body interface{}, token string) *http.Request {
	r := NewRequest(method, path, body)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}

// RecordResponse records the HTTP response for testing
type RecordResponse struct {
	Code   int
	Header http.Header
	Raw    []byte
	Body   map[string]interface{}
}

// RecordHTTPResponse reads the recorder. Body stays nil for non-object payloads.
func RecordHTTPResponse(w *httptest.ResponseRecorder) RecordResponse {
	result := w.Result()
	defer result.Body.Close()

	bodyBytes, _ := io.ReadAll(result.Body)

	var bodyMap map[string]interface{}
	if len(bodyBytes) > 0 {
		_ = json.Unmarshal(bodyBytes, &bodyMap)
	}

	return RecordResponse{
		Code:   result.StatusCode,
		Header: result.Header,
		Raw:    bodyBytes,
		Body:   bodyMap,
	}
}

// ErrorCode pulls error.code out of an error envelope.
func (r RecordResponse) ErrorCode() string {
	e, ok := r.Body["error"].(map[string]interface{})
	if !ok {
		return ""
	}
	code, _ := e["code"].(string)
	return code
}

// AssertResponseCode checks if the response code matches expected
func AssertResponseCode(t interface {
	Errorf(format string, args ...any)
}, got, want int) {
	if got != want {
		t.Errorf("got status code %d, want %d", got, want)
	}
}
