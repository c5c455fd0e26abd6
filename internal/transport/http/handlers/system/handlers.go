package systemhandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hris/internal/domain/auth"
	"hris/internal/domain/system"
	"hris/internal/transport/http/api"
	"hris/internal/transport/http/middleware"
	"hris/internal/transport/http/shared"
)

type Handler struct {
	Service *system.Service
	Policy  middleware.Authorizer
}

func NewHandler(service *system.Service, policy middleware.Authorizer) *Handler {
	return &Handler{Service: service, Policy: policy}
}

type maintenanceRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/system-settings", func(r chi.Router) {
		r.Use(middleware.Require(h.Policy, auth.ResSettings, auth.ActManage))
		r.Get("/", h.handleSettings)
		r.Put("/", h.handleUpdateSettings)
	})
	r.Route("/system", func(r chi.Router) {
		r.Use(middleware.Require(h.Policy, auth.ResSystem, auth.ActManage))
		r.Get("/stats", h.handleStats)
		r.Get("/jobs", h.handleJobs)
		r.Post("/backup", h.handleBackup)
		r.Post("/maintenance", h.handleMaintenance)
	})
}

func (h *Handler) handleSettings(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	settings, err := h.Service.Settings(r.Context())
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, settings, reqID)
}

func (h *Handler) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload system.SettingsPatch
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	settings, err := h.Service.UpdateSettings(r.Context(), payload)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, settings, reqID)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	stats, err := h.Service.Stats(r.Context())
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, stats, reqID)
}

func (h *Handler) handleJobs(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	runs, err := h.Service.JobRuns(r.Context(), shared.ParseLimit(r, 20, 200))
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, runs, reqID)
}

func (h *Handler) handleBackup(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	result, err := h.Service.Backup(r.Context())
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, result, reqID)
}

func (h *Handler) handleMaintenance(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload maintenanceRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	result, err := h.Service.Maintenance(r.Context(), *payload.Enabled)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, result, reqID)
}
