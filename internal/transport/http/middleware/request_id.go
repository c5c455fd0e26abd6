package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"hris/internal/requestctx"
)

const requestIDHeader = "X-Request-ID"

// RequestID honours an incoming X-Request-ID of sane length and otherwise
// mints one.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(requestIDHeader)
		if reqID == "" || len(reqID) > 128 {
			reqID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, reqID)
		next.ServeHTTP(w, r.WithContext(requestctx.WithRequestID(r.Context(), reqID)))
	})
}

func GetRequestID(ctx context.Context) string {
	return requestctx.RequestID(ctx)
}
