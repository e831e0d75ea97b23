package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bookreview/internal/account"
	"bookreview/internal/author"
	"bookreview/internal/book"
	"bookreview/internal/category"
	"bookreview/internal/config"
	"bookreview/internal/entity"
	"bookreview/internal/httpx"
	"bookreview/internal/review"
	"bookreview/internal/testutil"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noUsers struct{}

func (noUsers) CreateUser(context.Context, *entity.User) error { return nil }
func (noUsers) GetUserByEmail(context.Context, string) (entity.User, error) {
	return entity.User{}, account.ErrNotFound
}
func (noUsers) GetUserByID(context.Context, string) (entity.User, error) {
	return entity.User{}, account.ErrNotFound
}
func (noUsers) UpdatePassword(context.Context, string, string) error       { return nil }
func (noUsers) CreateReset(context.Context, account.PasswordReset) error   { return nil }
func (noUsers) ResetPassword(context.Context, string, string, time.Time) error {
	return account.ErrInvalidResetToken
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

type repos struct {
	authors    *author.MockRepository
	books      *book.MockRepository
	categories *category.MockRepository
	reviews    *review.MockRepository
}

func newTestServer(t *testing.T, mutate func(*config.Config), limiter *httpx.RateLimitMiddleware, db pinger) (http.Handler, repos) {
	t.Helper()
	ctrl := gomock.NewController(t)

	r := repos{
		authors:    author.NewMockRepository(ctrl),
		books:      book.NewMockRepository(ctrl),
		categories: category.NewMockRepository(ctrl),
		reviews:    review.NewMockRepository(ctrl),
	}

	cfg := &config.Config{
		Server: config.ServerConfig{MaxBodyBytes: 1 << 20},
		Security: config.SecurityConfig{
			JWTSecret:   testutil.TestSecret,
			JWTTTL:      time.Hour,
			CORSOrigins: []string{"http://localhost:3000"},
		},
	}
	if mutate != nil {
		mutate(cfg)
	}

	h := handlers{
		authors:    author.NewHTTPHandler(author.NewService(r.authors)),
		books:      book.NewHTTPHandler(book.NewService(r.books)),
		categories: category.NewHTTPHandler(category.NewService(r.categories)),
		reviews:    review.NewHTTPHandler(review.NewService(r.reviews)),
		account: account.NewHTTPHandler(account.NewService(noUsers{}, account.NewLogNotifier("http://localhost"),
			account.Config{Secret: testutil.TestSecret, TokenTTL: time.Hour})),
	}

	var limit func(http.Handler) http.Handler
	if limiter != nil {
		limit = limiter.Middleware
	}
	if db == nil {
		db = fakePinger{}
	}

	mux := http.NewServeMux()
	registerRoutes(mux, h, cfg.Security, limit, db)
	return buildHandler(mux, cfg), r
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRouting_LiteralSegmentsBeatID(t *testing.T) {
	h, r := newTestServer(t, nil, nil, nil)

	r.books.EXPECT().Recent(gomock.Any(), 3).Return([]entity.Book{}, nil)
	w := serve(h, testutil.NewRequest(http.MethodGet, "/api/Book/recent?limit=3", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	r.authors.EXPECT().Count(gomock.Any()).Return(4, nil)
	w = serve(h, testutil.NewRequest(http.MethodGet, "/api/Author/count", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "4", strings.TrimSpace(w.Body.String()))

	r.reviews.EXPECT().AverageRating(gomock.Any()).Return(0.0, nil)
	w = serve(h, testutil.NewRequest(http.MethodGet, "/api/Review/average-rating", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", strings.TrimSpace(w.Body.String()))
}

func TestRouting_NonIntegerIDIsNotFound(t *testing.T) {
	h, _ := newTestServer(t, nil, nil, nil)

	w := serve(h, testutil.NewRequest(http.MethodGet, "/api/Category/abc", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestRouting_UnsupportedMethod(t *testing.T) {
	h, _ := newTestServer(t, nil, nil, nil)

	w := serve(h, testutil.NewRequest(http.MethodPatch, "/api/Book/1", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestRouting_CategoryAndReviewWritesNeedToken(t *testing.T) {
	h, _ := newTestServer(t, nil, nil, nil)

	cases := []struct {
		method, path string
		body         interface{}
	}{
		{http.MethodPost, "/api/Category", map[string]string{"name": "Fiction"}},
		{http.MethodPut, "/api/Category/1", map[string]interface{}{"id": 1, "name": "Fiction"}},
		{http.MethodDelete, "/api/Category/1", nil},
		{http.MethodPost, "/api/Review", map[string]interface{}{"content": "Good", "rating": 4, "bookId": 1}},
		{http.MethodPut, "/api/Review/1", map[string]interface{}{"id": 1, "content": "Good", "rating": 4, "bookId": 1}},
		{http.MethodDelete, "/api/Review/1", nil},
		{http.MethodGet, "/api/Account/me", nil},
		{http.MethodPost, "/api/Account/change-password", map[string]string{"oldPassword": "a", "newPassword": "b"}},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			w := serve(h, testutil.NewRequest(tc.method, tc.path, tc.body))
			res := testutil.RecordHTTPResponse(w)
			testutil.AssertResponseCode(t, res.Code, http.StatusUnauthorized)
			assert.Equal(t, "UNAUTHORIZED", res.ErrorCode())
			assert.NotEmpty(t, res.Header.Get("WWW-Authenticate"))
		})
	}
}

func TestRouting_CategoryCreateWithToken(t *testing.T) {
	h, r := newTestServer(t, nil, nil, nil)
	token := testutil.GenerateTestToken(testutil.TestSecret, testutil.TestUser.ID, testutil.TestUser.Email)

	r.categories.EXPECT().Add(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, c *entity.Category) error {
		c.ID = 1
		return nil
	})
	r.categories.EXPECT().GetByID(gomock.Any(), int64(1)).Return(entity.Category{ID: 1, Name: "Fiction", Books: []entity.BookSummary{}}, nil)

	w := serve(h, testutil.NewRequestWithAuth(http.MethodPost, "/api/Category", map[string]string{"name": "Fiction"}, token))
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/api/Category/1", w.Header().Get("Location"))
}

func TestRouting_CatalogWritesPublicByDefault(t *testing.T) {
	h, _ := newTestServer(t, nil, nil, nil)

	// reaches the handler: validation fails before any repository call
	w := serve(h, testutil.NewRequest(http.MethodPost, "/api/Author", map[string]string{"firstName": ""}))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(h, testutil.NewRequest(http.MethodPost, "/api/Book", map[string]string{"title": ""}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouting_CatalogWritesProtectedWhenConfigured(t *testing.T) {
	h, _ := newTestServer(t, func(c *config.Config) { c.Security.ProtectCatalogWrites = true }, nil, nil)

	for _, path := range []string{"/api/Author", "/api/Book"} {
		w := serve(h, testutil.NewRequest(http.MethodPost, path, map[string]string{}))
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestRouting_AccountRateLimited(t *testing.T) {
	rl := httpx.NewRateLimitMiddleware(0.001, 1)
	t.Cleanup(rl.Close)
	h, _ := newTestServer(t, nil, rl, nil)

	body := map[string]string{"email": "nobody@example.com", "password": "Secret1!"}
	w := serve(h, testutil.NewRequest(http.MethodPost, "/api/Account/login", body))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(h, testutil.NewRequest(http.MethodPost, "/api/Account/login", body))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// catalog reads are not limited
	h2, r := newTestServer(t, nil, rl, nil)
	r.books.EXPECT().Count(gomock.Any()).Return(0, nil)
	w = serve(h2, testutil.NewRequest(http.MethodGet, "/api/Book/count", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouting_HealthAndReadiness(t *testing.T) {
	h, _ := newTestServer(t, nil, nil, fakePinger{err: errors.New("down")})

	w := serve(h, testutil.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(h, testutil.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	h, _ = newTestServer(t, nil, nil, nil)
	w = serve(h, testutil.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouting_MiddlewareStack(t *testing.T) {
	h, r := newTestServer(t, nil, nil, nil)
	r.categories.EXPECT().GetAll(gomock.Any()).Return([]entity.Category{}, nil)

	req := testutil.NewRequest(http.MethodGet, "/api/Category", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := serve(h, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}

func TestRouting_MetricsEndpoint(t *testing.T) {
	h, _ := newTestServer(t, nil, nil, nil)

	_ = serve(h, testutil.NewRequest(http.MethodGet, "/healthz", nil))
	w := serve(h, testutil.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}
