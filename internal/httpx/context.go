package httpx

import (
	"context"
	"net/http"
)

type contextKey string

const (
	userIDKey      contextKey = "userID"
	emailKey       contextKey = "email"
	requestIDKey   contextKey = "requestID"
	requestInfoKey contextKey = "requestInfo"
)

// requestInfo is shared by pointer so that handlers deeper in the chain can
// report back to the access log.
type requestInfo struct {
	userID string
}

// UserIDFrom retrieves the authenticated user ID from the request context.
func UserIDFrom(r *http.Request) string {
	if v, ok := r.Context().Value(userIDKey).(string); ok {
		return v
	}
	return ""
}

// EmailFrom retrieves the authenticated user's email from the request context.
func EmailFrom(r *http.Request) string {
	if v, ok := r.Context().Value(emailKey).(string); ok {
		return v
	}
	return ""
}

// ContextWithUser returns a new context carrying the user ID and email.
func ContextWithUser(ctx context.Context, userID, email string) context.Context {
	if info, ok := ctx.Value(requestInfoKey).(*requestInfo); ok {
		info.userID = userID
	}
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, emailKey, email)
}

// RequestIDFrom retrieves the request ID from the request context.
func RequestIDFrom(r *http.Request) string {
	if v, ok := r.Context().Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// ContextWithRequestID returns a new context carrying the request ID.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}
