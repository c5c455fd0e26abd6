package shared

import (
	"net/http"
	"strconv"
)

// ParseLimit reads ?limit= bounded by maxLimit, falling back to
// defaultLimit when absent or malformed.
func ParseLimit(r *http.Request, defaultLimit, maxLimit int) int {
	limit := defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	return limit
}

// ParseBool reads an optional boolean query parameter.
func ParseBool(r *http.Request, key string) (value, present bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return false, false
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return parsed, true
}
