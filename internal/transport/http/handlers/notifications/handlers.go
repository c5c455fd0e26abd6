package notificationshandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hris/internal/domain/auth"
	"hris/internal/domain/notifications"
	"hris/internal/transport/http/api"
	"hris/internal/transport/http/middleware"
	"hris/internal/transport/http/shared"
)

type Handler struct {
	Service *notifications.Service
	Policy  middleware.Authorizer
}

func NewHandler(service *notifications.Service, policy middleware.Authorizer) *Handler {
	return &Handler{Service: service, Policy: policy}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/notifications", func(r chi.Router) {
		r.With(middleware.Require(h.Policy, auth.ResNotifications, auth.ActRead)).Get("/", h.handleList)
		r.With(middleware.Require(h.Policy, auth.ResNotifications, auth.ActUpdate)).Put("/{notificationID}/read", h.handleMarkRead)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	unread, _ := shared.ParseBool(r, "unread")
	items, err := h.Service.List(r.Context(), user.UserID, unread)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, items, reqID)
}

func (h *Handler) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	item, err := h.Service.MarkRead(r.Context(), user.UserID, chi.URLParam(r, "notificationID"))
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, item, reqID)
}
