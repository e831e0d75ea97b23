package review

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookreview/internal/entity"
	"bookreview/internal/httpx"
	"bookreview/internal/platform/crypto"
)

const testSecret = "review-test-secret-123"

func testReview() entity.Review {
	return entity.Review{
		ID:          5,
		Content:     "Loved it",
		Rating:      4,
		CreatedDate: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		BookID:      1,
		UserID:      "user-1",
		Book:        &entity.BookSummary{ID: 1, Title: "Dune", AuthorID: 3},
		User:        &entity.ReviewUser{ID: "user-1", UserName: "reader@example.com", Email: "reader@example.com"},
	}
}

func withUser(r *http.Request, userID string) *http.Request {
	return r.WithContext(httpx.ContextWithUser(r.Context(), userID, "reader@example.com"))
}

func TestHTTPHandler_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	handler := NewHTTPHandler(NewService(mockRepo))

	post := func(body string, userID string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodPost, "/api/Review", strings.NewReader(body))
		if userID != "" {
			r = withUser(r, userID)
		}
		w := httptest.NewRecorder()
		handler.Create(w, r)
		return w
	}

	t.Run("stamps reviewer from token", func(t *testing.T) {
		mockRepo.EXPECT().Add(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, rv *entity.Review) error {
			assert.Equal(t, "user-1", rv.UserID)
			assert.Equal(t, 4, rv.Rating)
			rv.ID = 5
			return nil
		})
		mockRepo.EXPECT().GetByID(gomock.Any(), int64(5)).Return(testReview(), nil)

		w := post(`{"content":"Loved it","rating":4,"bookId":1,"userId":"someone-else"}`, "user-1")

		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "/api/Review/5", w.Header().Get("Location"))
		assert.Contains(t, w.Body.String(), `"userName":"reader@example.com"`)
	})

	for _, rating := range []int{0, 6, -1} {
		t.Run("rejects rating "+strconv.Itoa(rating), func(t *testing.T) {
			body := `{"content":"x","bookId":1,"rating":` + strconv.Itoa(rating) + `}`
			w := post(body, "user-1")

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), `"field":"rating"`)
		})
	}

	t.Run("unknown book", func(t *testing.T) {
		mockRepo.EXPECT().Add(gomock.Any(), gomock.Any()).Return(&InvalidReferenceError{Field: "bookId"})

		w := post(`{"content":"x","rating":3,"bookId":404}`, "user-1")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"field":"bookId"`)
	})

	t.Run("store check violation", func(t *testing.T) {
		mockRepo.EXPECT().Add(gomock.Any(), gomock.Any()).Return(ErrInvalidRating)

		w := post(`{"content":"x","rating":3,"bookId":1}`, "user-1")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	})

	t.Run("no identity", func(t *testing.T) {
		w := post(`{"content":"x","rating":3,"bookId":1}`, "")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRoutes_UnauthenticatedCreate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	handler := NewHTTPHandler(NewService(mockRepo))

	protected := httpx.AuthMiddleware(testSecret)(http.HandlerFunc(handler.Create))

	w := httptest.NewRecorder()
	protected.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/Review", strings.NewReader(`{"content":"x","rating":3,"bookId":1}`)))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, _, err := crypto.GenerateToken(testSecret, "user-7", "seven@example.com", time.Hour)
	require.NoError(t, err)

	mockRepo.EXPECT().Add(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, rv *entity.Review) error {
		assert.Equal(t, "user-7", rv.UserID)
		rv.ID = 9
		return nil
	})
	mockRepo.EXPECT().GetByID(gomock.Any(), int64(9)).Return(testReview(), nil)

	r := httptest.NewRequest(http.MethodPost, "/api/Review", strings.NewReader(`{"content":"x","rating":3,"bookId":1}`))
	r.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	protected.ServeHTTP(w, r)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestHTTPHandler_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	handler := NewHTTPHandler(NewService(mockRepo))

	put := func(id, body string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodPut, "/api/Review/"+id, strings.NewReader(body))
		r.SetPathValue("id", id)
		w := httptest.NewRecorder()
		handler.Update(w, withUser(r, "user-1"))
		return w
	}

	t.Run("mismatch", func(t *testing.T) {
		w := put("5", `{"id":6,"content":"x","rating":3,"bookId":1}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "ID_MISMATCH")
	})

	t.Run("rating out of range", func(t *testing.T) {
		w := put("5", `{"id":5,"content":"x","rating":9,"bookId":1}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"field":"rating"`)
	})

	t.Run("missing review", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(gomock.Any(), int64(5)).Return(entity.Review{}, ErrNotFound)
		w := put("5", `{"id":5,"content":"x","rating":3,"bookId":1}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("success", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(gomock.Any(), int64(5)).Return(testReview(), nil)
		mockRepo.EXPECT().Update(gomock.Any(), &entity.Review{ID: 5, Content: "Even better", Rating: 5, BookID: 1}).Return(nil)

		w := put("5", `{"id":5,"content":"Even better","rating":5,"bookId":1}`)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestHTTPHandler_ByBook(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	handler := NewHTTPHandler(NewService(mockRepo))

	get := func(id string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodGet, "/api/Review/book/"+id, nil)
		r.SetPathValue("bookId", id)
		w := httptest.NewRecorder()
		handler.ByBook(w, r)
		return w
	}

	t.Run("missing book", func(t *testing.T) {
		mockRepo.EXPECT().BookExists(gomock.Any(), int64(8)).Return(false, nil)
		assert.Equal(t, http.StatusNotFound, get("8").Code)
	})

	t.Run("book without reviews", func(t *testing.T) {
		mockRepo.EXPECT().BookExists(gomock.Any(), int64(1)).Return(true, nil)
		mockRepo.EXPECT().GetByBookID(gomock.Any(), int64(1)).Return([]entity.Review{}, nil)

		w := get("1")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})
}

func TestHTTPHandler_AverageRating(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	handler := NewHTTPHandler(NewService(mockRepo))

	t.Run("no reviews", func(t *testing.T) {
		mockRepo.EXPECT().AverageRating(gomock.Any()).Return(0.0, nil)

		w := httptest.NewRecorder()
		handler.AverageRating(w, httptest.NewRequest(http.MethodGet, "/api/Review/average-rating", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "0", strings.TrimSpace(w.Body.String()))
	})

	t.Run("mean", func(t *testing.T) {
		mockRepo.EXPECT().AverageRating(gomock.Any()).Return(3.5, nil)

		w := httptest.NewRecorder()
		handler.AverageRating(w, httptest.NewRequest(http.MethodGet, "/api/Review/average-rating", nil))

		assert.Equal(t, "3.5", strings.TrimSpace(w.Body.String()))
	})
}

func TestHTTPHandler_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	handler := NewHTTPHandler(NewService(mockRepo))

	mockRepo.EXPECT().GetByID(gomock.Any(), int64(5)).Return(testReview(), nil)
	mockRepo.EXPECT().Delete(gomock.Any(), int64(5)).Return(nil)

	r := httptest.NewRequest(http.MethodDelete, "/api/Review/5", nil)
	r.SetPathValue("id", "5")
	w := httptest.NewRecorder()
	handler.Delete(w, withUser(r, "user-1"))

	assert.Equal(t, http.StatusNoContent, w.Code)
}
