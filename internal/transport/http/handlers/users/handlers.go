package usershandler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hris/internal/domain/auth"
	"hris/internal/domain/onboarding"
	"hris/internal/domain/users"
	"hris/internal/transport/http/api"
	"hris/internal/transport/http/middleware"
	"hris/internal/transport/http/shared"
)

type Handler struct {
	Users      *users.Service
	Onboarding *onboarding.Service
	Policy     middleware.Authorizer
}

func NewHandler(usersSvc *users.Service, onboardingSvc *onboarding.Service, policy middleware.Authorizer) *Handler {
	return &Handler{Users: usersSvc, Onboarding: onboardingSvc, Policy: policy}
}

type toggleTwoFactorRequest struct {
	Code string `json:"code" validate:"required"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	profileRead := middleware.Require(h.Policy, auth.ResProfile, auth.ActRead)
	profileWrite := middleware.Require(h.Policy, auth.ResProfile, auth.ActUpdate)

	r.Route("/users", func(r chi.Router) {
		r.With(profileRead).Get("/me", h.handleMe)
		r.With(profileWrite).Put("/me", h.handleUpdateMe)
		r.With(profileWrite).Post("/change-password", h.handleChangePassword)
		r.With(profileWrite).Post("/2fa/setup", h.handleSetupTwoFactor)
		r.With(profileWrite).Post("/toggle-2fa", h.handleToggleTwoFactor)
	})

	r.Route("/employees", func(r chi.Router) {
		r.Use(middleware.Require(h.Policy, auth.ResEmployees, auth.ActManage))
		r.Get("/", h.handleListEmployees)
		r.Post("/", h.handleCreateEmployee)
		r.Get("/{employeeID}", h.handleGetEmployee)
		r.Put("/{employeeID}", h.handleUpdateEmployee)
		r.Delete("/{employeeID}", h.handleDeleteEmployee)
	})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	me, err := h.Users.Get(r.Context(), user.UserID)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, me, reqID)
}

func (h *Handler) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	var payload users.ProfilePatch
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	updated, err := h.Users.UpdateProfile(r.Context(), user, payload)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, updated, reqID)
}

func (h *Handler) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	var payload users.ChangePasswordInput
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	if err := h.Users.ChangePassword(r.Context(), user, payload); err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, map[string]string{"message": "password updated"}, reqID)
}

func (h *Handler) handleSetupTwoFactor(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	setup, err := h.Users.SetupTwoFactor(r.Context(), user)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, setup, reqID)
}

func (h *Handler) handleToggleTwoFactor(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	var payload toggleTwoFactorRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	enabled, err := h.Users.ToggleTwoFactor(r.Context(), user, payload.Code)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, map[string]bool{"twoFactorEnabled": enabled}, reqID)
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	list, err := h.Users.List(r.Context())
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filtered := list[:0]
		for _, u := range list {
			if u.Status == status {
				filtered = append(filtered, u)
			}
		}
		list = filtered
	}
	api.Success(w, list, reqID)
}

func (h *Handler) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	var payload users.CreateInput
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	if payload.StartDate != "" {
		v := shared.NewValidator()
		v.Date("startDate", payload.StartDate)
		if v.Reject(w, reqID) {
			return
		}
	}
	created, err := h.Users.Create(r.Context(), user, payload)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	if _, err := h.Onboarding.Ensure(r.Context(), created.ID, created.StartDate); err != nil {
		slog.Warn("onboarding seed failed", "employeeId", created.ID, "err", err)
	} else if refreshed, err := h.Users.Get(r.Context(), created.ID); err == nil {
		created = refreshed
	}
	api.Created(w, created, reqID)
}

func (h *Handler) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	employee, err := h.Users.Get(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, employee, reqID)
}

func (h *Handler) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	var payload users.EmployeePatch
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	if payload.StartDate != nil && *payload.StartDate != "" {
		v := shared.NewValidator()
		v.Date("startDate", *payload.StartDate)
		if v.Reject(w, reqID) {
			return
		}
	}
	updated, err := h.Users.UpdateEmployee(r.Context(), user, chi.URLParam(r, "employeeID"), payload)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, updated, reqID)
}

func (h *Handler) handleDeleteEmployee(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	if _, err := h.Users.Delete(r.Context(), user, chi.URLParam(r, "employeeID")); err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.NoContent(w)
}
