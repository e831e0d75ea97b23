package main

import (
	"context"
	"net/http"
	"time"

	"bookreview/internal/account"
	"bookreview/internal/author"
	"bookreview/internal/book"
	"bookreview/internal/category"
	"bookreview/internal/config"
	"bookreview/internal/httpx"
	"bookreview/internal/metrics"
	"bookreview/internal/review"
)

type handlers struct {
	authors    *author.HTTPHandler
	books      *book.HTTPHandler
	categories *category.HTTPHandler
	reviews    *review.HTTPHandler
	account    *account.HTTPHandler
}

// pinger is satisfied by *pgxpool.Pool.
type pinger interface {
	Ping(ctx context.Context) error
}

// registerRoutes mounts every endpoint on mux. Literal segments such as
// /count and /recent outrank {id} under ServeMux precedence rules.
func registerRoutes(mux *http.ServeMux, h handlers, sec config.SecurityConfig, accountLimit func(http.Handler) http.Handler, db pinger) {
	requireAuth := httpx.AuthMiddleware(sec.JWTSecret)
	protected := func(fn http.HandlerFunc) http.Handler {
		return requireAuth(fn)
	}
	catalogWrite := func(fn http.HandlerFunc) http.Handler {
		if sec.ProtectCatalogWrites {
			return requireAuth(fn)
		}
		return fn
	}
	limited := func(next http.Handler) http.Handler {
		if accountLimit == nil {
			return next
		}
		return accountLimit(next)
	}

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	mux.Handle("GET /metrics", metrics.Handler())

	mux.HandleFunc("GET /api/Author", h.authors.List)
	mux.HandleFunc("GET /api/Author/count", h.authors.Count)
	mux.HandleFunc("GET /api/Author/{id}", h.authors.Get)
	mux.Handle("POST /api/Author", catalogWrite(h.authors.Create))
	mux.Handle("PUT /api/Author/{id}", catalogWrite(h.authors.Update))
	mux.Handle("DELETE /api/Author/{id}", catalogWrite(h.authors.Delete))

	mux.HandleFunc("GET /api/Book", h.books.List)
	mux.HandleFunc("GET /api/Book/count", h.books.Count)
	mux.HandleFunc("GET /api/Book/recent", h.books.Recent)
	mux.HandleFunc("GET /api/Book/{id}", h.books.Get)
	mux.Handle("POST /api/Book", catalogWrite(h.books.Create))
	mux.Handle("PUT /api/Book/{id}", catalogWrite(h.books.Update))
	mux.Handle("DELETE /api/Book/{id}", catalogWrite(h.books.Delete))

	mux.HandleFunc("GET /api/Category", h.categories.List)
	mux.HandleFunc("GET /api/Category/count", h.categories.Count)
	mux.HandleFunc("GET /api/Category/{id}", h.categories.Get)
	mux.Handle("POST /api/Category", protected(h.categories.Create))
	mux.Handle("PUT /api/Category/{id}", protected(h.categories.Update))
	mux.Handle("DELETE /api/Category/{id}", protected(h.categories.Delete))

	mux.HandleFunc("GET /api/Review", h.reviews.List)
	mux.HandleFunc("GET /api/Review/count", h.reviews.Count)
	mux.HandleFunc("GET /api/Review/average-rating", h.reviews.AverageRating)
	mux.HandleFunc("GET /api/Review/book/{bookId}", h.reviews.ByBook)
	mux.HandleFunc("GET /api/Review/{id}", h.reviews.Get)
	mux.Handle("POST /api/Review", protected(h.reviews.Create))
	mux.Handle("PUT /api/Review/{id}", protected(h.reviews.Update))
	mux.Handle("DELETE /api/Review/{id}", protected(h.reviews.Delete))

	mux.Handle("POST /api/Account/login", limited(http.HandlerFunc(h.account.Login)))
	mux.Handle("POST /api/Account/register", limited(http.HandlerFunc(h.account.Register)))
	mux.Handle("POST /api/Account/forgot-password", limited(http.HandlerFunc(h.account.ForgotPassword)))
	mux.Handle("POST /api/Account/reset-password", limited(http.HandlerFunc(h.account.ResetPassword)))
	mux.Handle("POST /api/Account/change-password", limited(protected(h.account.ChangePassword)))
	mux.Handle("GET /api/Account/me", protected(h.account.Me))
}

// buildHandler wraps the mux in the middleware stack. Metrics sits directly
// on the mux so it can read the matched pattern.
func buildHandler(mux *http.ServeMux, cfg *config.Config) http.Handler {
	return httpx.Chain(
		httpx.MetricsMiddleware(mux),
		httpx.RequestIDMiddleware,
		httpx.RecoveryMiddleware,
		httpx.AccessLogMiddleware,
		httpx.CORSMiddleware(cfg.Security.CORSOrigins),
		httpx.SecurityHeadersMiddleware(cfg.Security.EnableHSTS),
		httpx.RequestSizeLimitMiddleware(cfg.Server.MaxBodyBytes),
	)
}
