package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookreview/internal/platform/crypto"
)

const testSecret = "test-secret-at-least-16"

func TestAuthMiddleware(t *testing.T) {
	var gotUser, gotEmail string
	handler := AuthMiddleware(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = UserIDFrom(r)
		gotEmail = EmailFrom(r)
		w.WriteHeader(http.StatusOK)
	}))

	valid, _, err := crypto.GenerateToken(testSecret, "user-1", "reader@example.com", time.Hour)
	require.NoError(t, err)
	expired, _, err := crypto.GenerateToken(testSecret, "user-1", "reader@example.com", -time.Minute)
	require.NoError(t, err)
	foreign, _, err := crypto.GenerateToken("another-secret-value", "user-1", "reader@example.com", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"expired token", "Bearer " + expired, http.StatusUnauthorized},
		{"wrong secret", "Bearer " + foreign, http.StatusUnauthorized},
		{"valid token", "Bearer " + valid, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotUser, gotEmail = "", ""
			r := httptest.NewRequest(http.MethodPost, "/api/Review", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, r)

			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusOK {
				assert.Equal(t, "user-1", gotUser)
				assert.Equal(t, "reader@example.com", gotEmail)
			} else {
				assert.Empty(t, gotUser)
				assert.Contains(t, w.Header().Get("WWW-Authenticate"), "Bearer")
				assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
			}
		})
	}
}

func TestAccessLog_ReceivesUserFromAuth(t *testing.T) {
	var info *requestInfo
	inner := AuthMiddleware(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info, _ = r.Context().Value(requestInfoKey).(*requestInfo)
		w.WriteHeader(http.StatusNoContent)
	}))
	handler := AccessLogMiddleware(inner)

	token, _, err := crypto.GenerateToken(testSecret, "user-9", "a@b.com", time.Hour)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodDelete, "/api/Category/1", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusNoContent, w.Code)
	require.NotNil(t, info)
	assert.Equal(t, "user-9", info.userID)
}
