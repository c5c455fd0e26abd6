package integrationshandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hris/internal/domain/auth"
	"hris/internal/domain/integrations"
	"hris/internal/transport/http/api"
	"hris/internal/transport/http/middleware"
	"hris/internal/transport/http/shared"
)

type Handler struct {
	Service *integrations.Service
	Policy  middleware.Authorizer
}

func NewHandler(service *integrations.Service, policy middleware.Authorizer) *Handler {
	return &Handler{Service: service, Policy: policy}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/integrations", func(r chi.Router) {
		r.Use(middleware.Require(h.Policy, auth.ResIntegrations, auth.ActManage))
		r.Get("/", h.handleList)
		r.Put("/{integrationID}", h.handleUpdate)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	list, err := h.Service.List(r.Context())
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, list, reqID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload integrations.Patch
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	updated, err := h.Service.Update(r.Context(), chi.URLParam(r, "integrationID"), payload)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, updated, reqID)
}
