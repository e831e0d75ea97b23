package httpx

import (
	"net/http"
	"strconv"
)

// PathID parses a positive integer path value. ok is false when the segment
// is missing or not an integer, which callers treat as an unmatched route.
func PathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// QueryInt reads an integer query parameter, clamped to [1, max].
func QueryInt(r *http.Request, name string, def, max int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || v < 1 {
		return def
	}
	if v > max {
		return max
	}
	return v
}
