package httpx

import (
	"net/http"
	"strings"

	"bookreview/internal/metrics"
	"bookreview/internal/platform/crypto"
)

// Unauthorized writes a 401 with a bearer challenge.
func Unauthorized(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="bookreview"`)
	JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized", nil)
}

// AuthMiddleware requires a valid bearer token and stores its subject in the request context.
func AuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				metrics.AuthFailures.WithLabelValues("missing_token").Inc()
				Unauthorized(w, r)
				return
			}
			token := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := crypto.ParseToken(secret, token)
			if err != nil || claims.Sub == "" {
				metrics.AuthFailures.WithLabelValues("invalid_token").Inc()
				Unauthorized(w, r)
				return
			}

			ctx := ContextWithUser(r.Context(), claims.Sub, claims.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
