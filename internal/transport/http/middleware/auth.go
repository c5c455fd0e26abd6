package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"hris/internal/domain/auth"
	"hris/internal/transport/http/api"
)

type ctxKey string

const ctxKeyUser ctxKey = "user"

// Auth attaches the identity from a valid bearer token. Requests without one
// pass through untouched; RequireAuth decides whether that is acceptable.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
			if !found || !strings.EqualFold(scheme, "bearer") {
				next.ServeHTTP(w, r)
				return
			}
			claims, err := auth.ParseToken(secret, strings.TrimSpace(token))
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), claims.Identity())))
		})
	}
}

func WithUser(ctx context.Context, identity auth.Identity) context.Context {
	return context.WithValue(ctx, ctxKeyUser, identity)
}

func GetUser(ctx context.Context) (auth.Identity, bool) {
	user, ok := ctx.Value(ctxKeyUser).(auth.Identity)
	return user, ok && user.UserID != ""
}

func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUser(r.Context()); !ok {
			api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", GetRequestID(r.Context()))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// AccountChecker resolves the identity an account holds right now.
type AccountChecker interface {
	CurrentIdentity(ctx context.Context, userID string) (auth.Identity, error)
}

// RequireActiveAccount reloads the caller's account on every request. Removed
// or deactivated accounts get 401 and the stored role replaces the one in the
// token, so changes apply before the token expires.
func RequireActiveAccount(accounts AccountChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUser(r.Context())
			if !ok {
				api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", GetRequestID(r.Context()))
				return
			}
			current, err := accounts.CurrentIdentity(r.Context(), user.UserID)
			if err != nil {
				api.FailError(w, err, GetRequestID(r.Context()))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), current)))
		})
	}
}

// Authorizer answers whether an identity may perform action on resource.
type Authorizer interface {
	Can(identity auth.Identity, action, resource string) (bool, error)
}

// Require checks the route's resource/action pair against the policy once per
// request. Ownership and workflow-stage rules stay with the services.
func Require(policy Authorizer, resource, action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := GetRequestID(r.Context())
			user, ok := GetUser(r.Context())
			if !ok {
				api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
				return
			}
			allowed, err := policy.Can(user, action, resource)
			if err != nil {
				slog.Error("policy check failed", "requestId", reqID, "err", err)
				api.Fail(w, http.StatusInternalServerError, "internal_error", "an unexpected error occurred", reqID)
				return
			}
			if !allowed {
				api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", reqID)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
