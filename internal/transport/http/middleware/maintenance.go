package middleware

import (
	"context"
	"net/http"

	"hris/internal/transport/http/api"
)

type MaintenanceChecker interface {
	InMaintenance(ctx context.Context) bool
}

// Maintenance turns away writes from everyone but admins while maintenance
// mode is on. Reads keep working.
func Maintenance(checker MaintenanceChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}
			if user, ok := GetUser(r.Context()); ok && user.IsAdmin() {
				next.ServeHTTP(w, r)
				return
			}
			if checker.InMaintenance(r.Context()) {
				w.Header().Set("Retry-After", "300")
				api.Fail(w, http.StatusServiceUnavailable, "maintenance", "the system is in maintenance mode", GetRequestID(r.Context()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
