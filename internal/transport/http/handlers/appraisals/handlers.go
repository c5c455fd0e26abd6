package appraisalshandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hris/internal/domain/appraisals"
	"hris/internal/domain/auth"
	"hris/internal/transport/http/api"
	"hris/internal/transport/http/middleware"
	"hris/internal/transport/http/shared"
)

type Handler struct {
	Service *appraisals.Service
	Policy  middleware.Authorizer
}

func NewHandler(service *appraisals.Service, policy middleware.Authorizer) *Handler {
	return &Handler{Service: service, Policy: policy}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/appraisals", func(r chi.Router) {
		r.With(middleware.Require(h.Policy, auth.ResAppraisals, auth.ActRead)).Get("/", h.handleList)
		r.With(middleware.Require(h.Policy, auth.ResAppraisals, auth.ActCreate)).Post("/", h.handleCreate)
		r.With(middleware.Require(h.Policy, auth.ResAppraisals, auth.ActRead)).Get("/{appraisalID}", h.handleGet)
		r.With(middleware.Require(h.Policy, auth.ResAppraisals, auth.ActUpdate)).Put("/{appraisalID}", h.handleUpdate)
		r.With(middleware.Require(h.Policy, auth.ResAppraisals, auth.ActDelete)).Delete("/{appraisalID}", h.handleDelete)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	list, err := h.Service.List(r.Context(), user)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, list, reqID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload appraisals.CreateInput
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	created, err := h.Service.Create(r.Context(), payload)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Created(w, created, reqID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	item, err := h.Service.Get(r.Context(), user, chi.URLParam(r, "appraisalID"))
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, item, reqID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	var payload appraisals.Patch
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	updated, err := h.Service.Update(r.Context(), user, chi.URLParam(r, "appraisalID"), payload)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, updated, reqID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "appraisalID")); err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.NoContent(w)
}
