package orghandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hris/internal/domain/auth"
	"hris/internal/domain/org"
	"hris/internal/transport/http/api"
	"hris/internal/transport/http/middleware"
	"hris/internal/transport/http/shared"
)

type Handler struct {
	Service *org.Service
	Policy  middleware.Authorizer
}

func NewHandler(service *org.Service, policy middleware.Authorizer) *Handler {
	return &Handler{Service: service, Policy: policy}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/departments", func(r chi.Router) {
		r.Use(middleware.Require(h.Policy, auth.ResDepartments, auth.ActManage))
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/{departmentID}", h.handleGet)
		r.Put("/{departmentID}", h.handleUpdate)
		r.Delete("/{departmentID}", h.handleDelete)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	depts, err := h.Service.List(r.Context())
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, depts, reqID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload org.Input
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	dept, err := h.Service.Create(r.Context(), payload)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Created(w, dept, reqID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	dept, err := h.Service.Get(r.Context(), chi.URLParam(r, "departmentID"))
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, dept, reqID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload org.Patch
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	dept, err := h.Service.Update(r.Context(), chi.URLParam(r, "departmentID"), payload)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, dept, reqID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "departmentID")); err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.NoContent(w)
}
