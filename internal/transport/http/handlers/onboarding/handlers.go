package onboardinghandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hris/internal/domain/auth"
	"hris/internal/domain/onboarding"
	"hris/internal/transport/http/api"
	"hris/internal/transport/http/middleware"
	"hris/internal/transport/http/shared"
)

type Handler struct {
	Service *onboarding.Service
	Policy  middleware.Authorizer
}

func NewHandler(service *onboarding.Service, policy middleware.Authorizer) *Handler {
	return &Handler{Service: service, Policy: policy}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/onboarding", func(r chi.Router) {
		r.With(middleware.Require(h.Policy, auth.ResOnboarding, auth.ActRead)).Get("/{employeeID}", h.handleGet)
		r.With(middleware.Require(h.Policy, auth.ResOnboarding, auth.ActUpdate)).Put("/{employeeID}", h.handleUpdate)
	})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	rec, err := h.Service.Get(r.Context(), user, chi.URLParam(r, "employeeID"))
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, rec, reqID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	var payload onboarding.Patch
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	rec, err := h.Service.Update(r.Context(), user, chi.URLParam(r, "employeeID"), payload)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, rec, reqID)
}
