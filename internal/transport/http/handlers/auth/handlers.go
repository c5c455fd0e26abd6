package authhandler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hris/internal/domain/auth"
	"hris/internal/domain/users"
	"hris/internal/transport/http/api"
	"hris/internal/transport/http/middleware"
	"hris/internal/transport/http/shared"
)

type Handler struct {
	Users    *users.Service
	Secret   string
	TokenTTL time.Duration
}

func NewHandler(usersSvc *users.Service, secret string, ttl time.Duration) *Handler {
	return &Handler{Users: usersSvc, Secret: secret, TokenTTL: ttl}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	MFACode  string `json:"mfaCode"`
}

type loginResponse struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expiresAt"`
	User      users.User `json:"user"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.HandleLogin)
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload loginRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}

	user, err := h.Users.Authenticate(r.Context(), payload.Email, payload.Password, payload.MFACode)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}

	token, err := auth.GenerateToken(h.Secret, auth.Identity{UserID: user.ID, Email: user.Email, Role: user.Role}, h.TokenTTL)
	if err != nil {
		slog.Error("issue token failed", "requestId", reqID, "userId", user.ID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to issue token", reqID)
		return
	}
	api.Success(w, loginResponse{
		Token:     token,
		ExpiresAt: time.Now().UTC().Add(h.TokenTTL),
		User:      user,
	}, reqID)
}
