package attendancehandler

import (
	"errors"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hris/internal/domain/attendance"
	"hris/internal/domain/auth"
	"hris/internal/transport/http/api"
	"hris/internal/transport/http/middleware"
	"hris/internal/transport/http/shared"
)

const multipartMemory = 1 << 20

type Handler struct {
	Service *attendance.Service
	Policy  middleware.Authorizer
}

func NewHandler(service *attendance.Service, policy middleware.Authorizer) *Handler {
	return &Handler{Service: service, Policy: policy}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/attendance", func(r chi.Router) {
		r.With(middleware.Require(h.Policy, auth.ResAttendance, auth.ActRead)).Get("/", h.handleList)
		r.With(middleware.Require(h.Policy, auth.ResAttendance, auth.ActCreate)).Post("/", h.handleRecord)
		r.With(middleware.Require(h.Policy, auth.ResAttendance, auth.ActCreate)).Post("/upload", h.handleUpload)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	uploads, err := h.Service.List(r.Context(), user, r.URL.Query().Get("employeeId"))
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, uploads, reqID)
}

func (h *Handler) handleRecord(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	var payload attendance.Input
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	upload, err := h.Service.Record(r.Context(), user, payload)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Created(w, upload, reqID)
}

// handleUpload accepts either a multipart CSV timesheet under "file" or the
// same JSON body as handleRecord.
func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		h.handleRecord(w, r)
		return
	}

	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			api.Fail(w, http.StatusRequestEntityTooLarge, "payload_too_large", "upload exceeds the size limit", reqID)
			return
		}
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid multipart form", reqID)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		v := shared.NewValidator()
		v.Add("file", "is required")
		v.Reject(w, reqID)
		return
	}
	defer file.Close()

	upload, err := h.Service.Import(r.Context(), user, header.Filename, file)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Created(w, upload, reqID)
}
