package accesshandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hris/internal/domain/access"
	"hris/internal/domain/auth"
	"hris/internal/transport/http/api"
	"hris/internal/transport/http/middleware"
	"hris/internal/transport/http/shared"
)

type Handler struct {
	Service *access.Service
	Policy  middleware.Authorizer
}

func NewHandler(service *access.Service, policy middleware.Authorizer) *Handler {
	return &Handler{Service: service, Policy: policy}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/roles", func(r chi.Router) {
		r.Use(middleware.Require(h.Policy, auth.ResRoles, auth.ActManage))
		r.Get("/", h.handleListRoles)
		r.Post("/", h.handleCreateRole)
		r.Get("/{roleID}", h.handleGetRole)
		r.Put("/{roleID}", h.handleUpdateRole)
		r.Delete("/{roleID}", h.handleDeleteRole)
	})
	r.Route("/permissions", func(r chi.Router) {
		r.Use(middleware.Require(h.Policy, auth.ResPermissions, auth.ActManage))
		r.Get("/", h.handleListPermissions)
		r.Post("/", h.handleCreatePermission)
		r.Put("/{permissionID}", h.handleUpdatePermission)
		r.Delete("/{permissionID}", h.handleDeletePermission)
	})
}

func (h *Handler) handleListRoles(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	roles, err := h.Service.ListRoles(r.Context())
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, roles, reqID)
}

func (h *Handler) handleCreateRole(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload access.RoleInput
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	role, err := h.Service.CreateRole(r.Context(), payload)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Created(w, role, reqID)
}

func (h *Handler) handleGetRole(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	role, err := h.Service.GetRole(r.Context(), chi.URLParam(r, "roleID"))
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, role, reqID)
}

func (h *Handler) handleUpdateRole(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload access.RolePatch
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	role, err := h.Service.UpdateRole(r.Context(), chi.URLParam(r, "roleID"), payload)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, role, reqID)
}

func (h *Handler) handleDeleteRole(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	if err := h.Service.DeleteRole(r.Context(), chi.URLParam(r, "roleID")); err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.NoContent(w)
}

func (h *Handler) handleListPermissions(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	perms, err := h.Service.ListPermissions(r.Context())
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, perms, reqID)
}

func (h *Handler) handleCreatePermission(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload access.PermissionInput
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	perm, err := h.Service.CreatePermission(r.Context(), payload)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Created(w, perm, reqID)
}

func (h *Handler) handleUpdatePermission(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload access.PermissionPatch
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	perm, err := h.Service.UpdatePermission(r.Context(), chi.URLParam(r, "permissionID"), payload)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, perm, reqID)
}

func (h *Handler) handleDeletePermission(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	if err := h.Service.DeletePermission(r.Context(), chi.URLParam(r, "permissionID")); err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.NoContent(w)
}
