package documentshandler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hris/internal/domain/auth"
	"hris/internal/domain/documents"
	"hris/internal/transport/http/api"
	"hris/internal/transport/http/middleware"
	"hris/internal/transport/http/shared"
)

// multipartMemory is how much of an upload is buffered in memory before
// spilling to a temp file.
const multipartMemory = 1 << 20

type Handler struct {
	Service *documents.Service
	Policy  middleware.Authorizer
}

func NewHandler(service *documents.Service, policy middleware.Authorizer) *Handler {
	return &Handler{Service: service, Policy: policy}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	read := middleware.Require(h.Policy, auth.ResDocuments, auth.ActRead)
	review := middleware.Require(h.Policy, auth.ResDocuments, auth.ActReview)

	r.Route("/documents", func(r chi.Router) {
		r.With(read).Get("/", h.handleList)
		r.With(middleware.Require(h.Policy, auth.ResDocuments, auth.ActCreate)).Post("/upload", h.handleUpload)
		r.With(read).Get("/types", h.handleTypes)
		r.With(read).Get("/required", h.handleRequired)
		r.With(review).Get("/stats", h.handleStats)
		r.With(read).Get("/compliance/{employeeID}", h.handleCompliance)
		r.With(read).Get("/employee/{employeeID}", h.handleListForEmployee)
		r.With(read).Get("/{documentID}", h.handleGet)
		r.With(read).Get("/{documentID}/download", h.handleDownload)
		r.With(middleware.Require(h.Policy, auth.ResDocuments, auth.ActAudit)).Get("/{documentID}/audit", h.handleAudit)
		r.With(review).Put("/{documentID}/approve", h.handleReview)
		r.With(middleware.Require(h.Policy, auth.ResDocuments, auth.ActDelete)).Delete("/{documentID}", h.handleDelete)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	q := r.URL.Query()
	filter := documents.Filter{
		Status:     q.Get("status"),
		Type:       q.Get("type"),
		EmployeeID: q.Get("employeeId"),
		ExpiryFrom: q.Get("expiryDateFrom"),
		ExpiryTo:   q.Get("expiryDateTo"),
	}
	if required, ok := shared.ParseBool(r, "isRequired"); ok {
		filter.IsRequired = &required
	}
	v := shared.NewValidator()
	if filter.ExpiryFrom != "" {
		v.Date("expiryDateFrom", filter.ExpiryFrom)
	}
	if filter.ExpiryTo != "" {
		v.Date("expiryDateTo", filter.ExpiryTo)
	}
	if v.Reject(w, reqID) {
		return
	}
	docs, err := h.Service.List(r.Context(), user, filter)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, docs, reqID)
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			api.Fail(w, http.StatusRequestEntityTooLarge, "payload_too_large", "file too large", reqID)
			return
		}
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "expected a multipart form", reqID)
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			slog.Warn("multipart cleanup failed", "err", err)
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		shared.FailValidation(w, reqID, []shared.ValidationIssue{{Field: "file", Reason: "is required"}})
		return
	}
	defer file.Close()

	doc, err := h.Service.Upload(r.Context(), user, documents.UploadInput{
		Type:              r.FormValue("type"),
		Message:           r.FormValue("message"),
		ExpiryDate:        r.FormValue("expiryDate"),
		RelatedEntityID:   r.FormValue("relatedEntityId"),
		RelatedEntityType: r.FormValue("relatedEntityType"),
		EmployeeID:        r.FormValue("employeeId"),
		FileName:          header.Filename,
		ContentType:       header.Header.Get("Content-Type"),
		Size:              header.Size,
		Content:           file,
	}, shared.ClientIP(r))
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Created(w, doc, reqID)
}

func (h *Handler) handleTypes(w http.ResponseWriter, r *http.Request) {
	api.Success(w, documents.Types(), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRequired(w http.ResponseWriter, r *http.Request) {
	api.Success(w, documents.RequiredTypes(), middleware.GetRequestID(r.Context()))
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

func (h *Handler) handleCompliance(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	result, err := h.Service.Compliance(r.Context(), user, chi.URLParam(r, "employeeID"))
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, result, reqID)
}

func (h *Handler) handleListForEmployee(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	docs, err := h.Service.ListForEmployee(r.Context(), user, chi.URLParam(r, "employeeID"))
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, docs, reqID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	doc, err := h.Service.Get(r.Context(), user, chi.URLParam(r, "documentID"))
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, doc, reqID)
}

func (h *Handler) handleDownload(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	doc, file, err := h.Service.Open(r.Context(), user, chi.URLParam(r, "documentID"), shared.ClientIP(r))
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	defer file.Close()

	w.Header().Set("Content-Type", doc.FileType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.OriginalFileName))
	http.ServeContent(w, r, doc.OriginalFileName, doc.UploadedAt, file)
}

func (h *Handler) handleAudit(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	entries, err := h.Service.AuditTrail(r.Context(), user, chi.URLParam(r, "documentID"))
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, entries, reqID)
}

func (h *Handler) handleReview(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	var payload documents.ReviewInput
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	doc, err := h.Service.Review(r.Context(), user, chi.URLParam(r, "documentID"), payload, shared.ClientIP(r))
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, doc, reqID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	if err := h.Service.Delete(r.Context(), user, chi.URLParam(r, "documentID"), shared.ClientIP(r)); err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.NoContent(w)
}
