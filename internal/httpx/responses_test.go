package httpx

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON_WritesRawBody(t *testing.T) {
	w := httptest.NewRecorder()

	JSONOK(w, []string{"a", "b"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `["a","b"]`, w.Body.String())
}

func TestJSONCreated_SetsLocation(t *testing.T) {
	w := httptest.NewRecorder()

	JSONCreated(w, map[string]int64{"id": 7}, "/api/Category/%d", int64(7))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/api/Category/7", w.Header().Get("Location"))
	assert.JSONEq(t, `{"id":7}`, w.Body.String())
}

func TestNotFound_EmptyBody(t *testing.T) {
	w := httptest.NewRecorder()

	NotFound(w)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestJSONError_Envelope(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/api/Book", nil)
	r = r.WithContext(ContextWithRequestID(r.Context(), "req-1"))
	w := httptest.NewRecorder()

	details := []ErrorDetail{{Field: "title", Message: "title is required"}}
	JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response struct {
		ErrorResponse
		Meta map[string]string `json:"meta"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.False(t, response.Success)
	assert.Equal(t, "VALIDATION_ERROR", response.Error.Code)
	assert.Equal(t, details, response.Error.Details)
	assert.Equal(t, "req-1", response.Meta["request_id"])
}

func TestInternalError_DoesNotLeak(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/Book", nil)
	w := httptest.NewRecorder()

	InternalError(w, r, errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Fiction"}`))
	require.NoError(t, DecodeJSON(r, &dst))
	assert.Equal(t, "Fiction", dst.Name)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
	assert.Error(t, DecodeJSON(r, &dst))
}

func TestPathID(t *testing.T) {
	tests := []struct {
		value  string
		wantID int64
		wantOK bool
	}{
		{"42", 42, true},
		{"abc", 0, false},
		{"0", 0, false},
		{"-3", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/api/Book/x", nil)
		r.SetPathValue("id", tt.value)

		id, ok := PathID(r, "id")
		assert.Equal(t, tt.wantID, id, tt.value)
		assert.Equal(t, tt.wantOK, ok, tt.value)
	}
}

func TestQueryInt(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"", 5},
		{"limit=3", 3},
		{"limit=0", 5},
		{"limit=abc", 5},
		{"limit=500", 50},
	}

	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/api/Book/recent?"+tt.query, nil)
		assert.Equal(t, tt.want, QueryInt(r, "limit", 5, 50), tt.query)
	}
}
