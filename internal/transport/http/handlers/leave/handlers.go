package leavehandler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"hris/internal/domain/auth"
	"hris/internal/domain/leave"
	"hris/internal/transport/http/api"
	"hris/internal/transport/http/middleware"
	"hris/internal/transport/http/shared"
)

type Handler struct {
	Service *leave.Service
	Policy  middleware.Authorizer
}

func NewHandler(service *leave.Service, policy middleware.Authorizer) *Handler {
	return &Handler{Service: service, Policy: policy}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leave-requests", func(r chi.Router) {
		r.With(middleware.Require(h.Policy, auth.ResLeave, auth.ActRead)).Get("/", h.handleList)
		r.With(middleware.Require(h.Policy, auth.ResLeave, auth.ActCreate)).Post("/", h.handleCreate)
		r.With(middleware.Require(h.Policy, auth.ResLeave, auth.ActRead)).Get("/{requestID}", h.handleGet)
		r.With(middleware.Require(h.Policy, auth.ResLeave, auth.ActUpdate)).Put("/{requestID}", h.handleUpdate)
		r.With(middleware.Require(h.Policy, auth.ResLeave, auth.ActDelete)).Delete("/{requestID}", h.handleDelete)
		r.With(middleware.Require(h.Policy, auth.ResLeave, auth.ActRead)).Get("/{requestID}/slip", h.handleSlip)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	filter := leave.ListFilter{
		Status:     r.URL.Query().Get("status"),
		EmployeeID: r.URL.Query().Get("employeeId"),
	}
	requests, err := h.Service.List(r.Context(), user, filter)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, requests, reqID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload leave.CreateInput
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	v := shared.NewValidator()
	start, startOK := v.Date("startDate", payload.StartDate)
	end, endOK := v.Date("endDate", payload.EndDate)
	if startOK && endOK && end.Before(start) {
		v.Add("endDate", "must be on or after startDate")
	}
	if v.Reject(w, reqID) {
		return
	}

	created, err := h.Service.Create(r.Context(), user, payload)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Created(w, created, reqID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	req, err := h.Service.Get(r.Context(), user, chi.URLParam(r, "requestID"))
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, req, reqID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload leave.UpdateInput
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	v := shared.NewValidator()
	if payload.StartDate != nil {
		v.Date("startDate", *payload.StartDate)
	}
	if payload.EndDate != nil {
		v.Date("endDate", *payload.EndDate)
	}
	if v.Reject(w, reqID) {
		return
	}

	updated, err := h.Service.Update(r.Context(), user, chi.URLParam(r, "requestID"), payload)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, updated, reqID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	if err := h.Service.Delete(r.Context(), user, chi.URLParam(r, "requestID")); err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.NoContent(w)
}

func (h *Handler) handleSlip(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	raw, req, err := h.Service.Slip(r.Context(), user, chi.URLParam(r, "requestID"))
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "leave-slip-"+req.ID+".pdf"))
	w.Header().Set("Content-Length", strconv.Itoa(len(raw)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}
