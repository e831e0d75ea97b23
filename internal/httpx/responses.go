package httpx

import (
	"fmt"
	"net/http"

	"github.com/goccy/go-json"

	"bookreview/internal/logging"
)

type ErrorResponse struct {
	Success bool              `json:"success"`
	Error   ErrorResponseBody `json:"error"`
	Meta    interface{}       `json:"meta,omitempty"`
}

type ErrorResponseBody struct {
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Details []ErrorDetail `json:"details,omitempty"`
}

type ErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func buildMeta(r *http.Request) interface{} {
	if r == nil {
		return nil
	}
	requestID := RequestIDFrom(r)
	if requestID == "" {
		return nil
	}
	return map[string]interface{}{"request_id": requestID}
}

// JSON writes v as the response body. Nil slices are the caller's concern.
func JSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error().Err(err).Msg("encode response")
	}
}

// JSONOK writes a 200 response.
func JSONOK(w http.ResponseWriter, v interface{}) {
	JSON(w, http.StatusOK, v)
}

// JSONCreated writes a 201 response with a Location header built from format and args.
func JSONCreated(w http.ResponseWriter, v interface{}, locationFormat string, args ...any) {
	w.Header().Set("Location", fmt.Sprintf(locationFormat, args...))
	JSON(w, http.StatusCreated, v)
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// NotFound writes a 404 with an empty body.
func NotFound(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNotFound)
}

func JSONError(w http.ResponseWriter, r *http.Request, statusCode int, code string, message string, details []ErrorDetail) {
	JSON(w, statusCode, ErrorResponse{
		Success: false,
		Error: ErrorResponseBody{
			Code:    code,
			Message: message,
			Details: details,
		},
		Meta: buildMeta(r),
	})
}

// BadRequest writes a 400 BAD_REQUEST error.
func BadRequest(w http.ResponseWriter, r *http.Request, message string) {
	JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", message, nil)
}

// ValidationFailed writes a 400 VALIDATION_ERROR with per-field details.
func ValidationFailed(w http.ResponseWriter, r *http.Request, details []ErrorDetail) {
	JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
}

// InternalError logs err and writes a 500 without leaking details.
func InternalError(w http.ResponseWriter, r *http.Request, err error) {
	logging.Error().
		Err(err).
		Str("request_id", RequestIDFrom(r)).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg("request failed")
	JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
}

// DecodeJSON decodes the request body into dst.
func DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return fmt.Errorf("empty body")
	}
	return json.NewDecoder(r.Body).Decode(dst)
}
