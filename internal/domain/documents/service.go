package documents

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"hris/internal/apperror"
	"hris/internal/domain/auth"
	"hris/internal/domain/notifications"
	"hris/internal/domain/users"
	"hris/internal/platform/filestore"
	"hris/internal/requestctx"
)

const (
	dateLayout              = "2006-01-02"
	DefaultExpiryWindowDays = 30
	DefaultMaxUploadBytes   = 10 << 20
)

type Service struct {
	Store     StoreAPI
	Files     Files
	Directory Directory
	Notify    Notifier
	Expiry    ExpiryPolicy
	MaxBytes  int64
	Now       func() time.Time
}

func NewService(store StoreAPI, files Files, directory Directory, notify Notifier, expiry ExpiryPolicy, maxBytes int64) *Service {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &Service{
		Store:     store,
		Files:     files,
		Directory: directory,
		Notify:    notify,
		Expiry:    expiry,
		MaxBytes:  maxBytes,
		Now:       func() time.Time { return time.Now().UTC() },
	}
}

func canAccess(actor auth.Identity, employeeID string) bool {
	return actor.IsHROrAdmin() || actor.UserID == employeeID
}

// Upload validates the file before anything is written, stores it on disk and
// records the document with its "uploaded" audit entry.
func (s *Service) Upload(ctx context.Context, actor auth.Identity, in UploadInput, ip string) (Document, error) {
	info, ok := LookupType(strings.TrimSpace(in.Type))
	if !ok {
		return Document{}, apperror.FieldError("type", "must be a known document type")
	}
	if in.Content == nil {
		return Document{}, apperror.FieldError("file", "is required")
	}
	if !AllowedMIME(in.ContentType) {
		return Document{}, apperror.FieldError("file", "file type is not allowed")
	}
	if in.Size > s.MaxBytes {
		return Document{}, apperror.FieldError("file", fmt.Sprintf("must not exceed %d bytes", s.MaxBytes))
	}
	expiry, err := normalizeDate(in.ExpiryDate)
	if err != nil {
		return Document{}, apperror.FieldError("expiryDate", "must be a valid date in YYYY-MM-DD format")
	}
	relatedType := strings.TrimSpace(in.RelatedEntityType)
	if relatedType != "" && relatedType != RelatedLeaveRequest && relatedType != RelatedAllowanceClaim {
		return Document{}, apperror.FieldError("relatedEntityType", "must be leave_request or allowance_claim")
	}

	ownerID := actor.UserID
	if target := strings.TrimSpace(in.EmployeeID); target != "" && actor.IsHROrAdmin() {
		ownerID = target
	}
	owner, err := s.Directory.Get(ctx, ownerID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return Document{}, apperror.FieldError("employeeId", "must reference an existing user")
		}
		return Document{}, err
	}
	uploader := owner
	if ownerID != actor.UserID {
		if uploader, err = s.Directory.Get(ctx, actor.UserID); err != nil {
			uploader = users.User{ID: actor.UserID, Name: actor.Email}
		}
	}

	stored, err := s.Files.Save(in.Content, in.FileName, s.MaxBytes)
	if err != nil {
		if errors.Is(err, filestore.ErrTooLarge) {
			return Document{}, apperror.FieldError("file", fmt.Sprintf("must not exceed %d bytes", s.MaxBytes))
		}
		return Document{}, fmt.Errorf("store upload: %w", err)
	}

	now := s.Now()
	doc := Document{
		ID:                uuid.NewString(),
		EmployeeID:        owner.ID,
		EmployeeName:      owner.Name,
		Type:              info.Type,
		FileName:          stored.Name,
		OriginalFileName:  filepath.Base(in.FileName),
		FileSize:          stored.Size,
		FileType:          in.ContentType,
		FilePath:          stored.Path,
		Status:            StatusPending,
		Message:           strings.TrimSpace(in.Message),
		UploadedAt:        now,
		IsRequired:        info.Required,
		ExpiryDate:        expiry,
		RelatedEntityID:   strings.TrimSpace(in.RelatedEntityID),
		RelatedEntityType: relatedType,
	}
	entry := s.entry(doc.ID, ActionUploaded, uploader.ID, uploader.Name, ip,
		fmt.Sprintf("uploaded %s (%s)", doc.OriginalFileName, doc.Type))
	if err := s.Store.Create(ctx, doc, entry); err != nil {
		if rmErr := s.Files.Remove(stored.Path); rmErr != nil {
			requestctx.Logger(ctx).Warn("document upload cleanup failed", "path", stored.Path, "err", rmErr)
		}
		return Document{}, err
	}
	return doc, nil
}

// Review approves or rejects a pending document. The status check and the
// audit entry share one write.
func (s *Service) Review(ctx context.Context, actor auth.Identity, id string, in ReviewInput, ip string) (Document, error) {
	if !actor.IsHROrAdmin() {
		return Document{}, ErrReviewerOnly
	}
	status := strings.TrimSpace(in.Status)
	if status != StatusApproved && status != StatusRejected {
		return Document{}, apperror.FieldError("status", "must be approved or rejected")
	}
	reason := strings.TrimSpace(in.RejectionReason)
	if status == StatusRejected && reason == "" {
		return Document{}, apperror.FieldError("rejectionReason", "is required when rejecting a document")
	}
	reviewer := s.displayName(ctx, actor)

	updated, err := s.Store.Update(ctx, id, func(doc *Document) (AuditEntry, error) {
		if doc.Status != StatusPending {
			return AuditEntry{}, ErrNotPending
		}
		now := s.Now()
		doc.Status = status
		if status == StatusApproved {
			doc.ApprovedBy = actor.UserID
			doc.ApproverName = reviewer
			doc.ApprovedAt = &now
			return s.entry(doc.ID, ActionApproved, actor.UserID, reviewer, ip, "document approved"), nil
		}
		doc.RejectedBy = actor.UserID
		doc.RejectorName = reviewer
		doc.RejectedAt = &now
		doc.RejectionReason = reason
		return s.entry(doc.ID, ActionRejected, actor.UserID, reviewer, ip, "document rejected: "+reason), nil
	})
	if err != nil {
		return Document{}, err
	}

	info, _ := LookupType(updated.Type)
	if updated.Status == StatusApproved {
		s.send(ctx, updated.EmployeeID, notifications.TypeDocumentApproved, "Document approved",
			fmt.Sprintf("Your %s was approved", info.Label), updated.ID)
	} else {
		s.send(ctx, updated.EmployeeID, notifications.TypeDocumentRejected, "Document rejected",
			fmt.Sprintf("Your %s was rejected: %s", info.Label, updated.RejectionReason), updated.ID)
	}
	return updated, nil
}

func (s *Service) Get(ctx context.Context, actor auth.Identity, id string) (Document, error) {
	doc, err := s.Store.Get(ctx, id)
	if err != nil {
		return Document{}, err
	}
	if !canAccess(actor, doc.EmployeeID) {
		return Document{}, ErrNotVisible
	}
	return doc, nil
}

// List applies filter; employees only ever see their own documents.
func (s *Service) List(ctx context.Context, actor auth.Identity, filter Filter) ([]Document, error) {
	if !actor.IsHROrAdmin() {
		filter.EmployeeID = actor.UserID
	}
	var err error
	if filter.ExpiryFrom, err = normalizeDate(filter.ExpiryFrom); err != nil {
		return nil, apperror.FieldError("expiryDateFrom", "must be a valid date in YYYY-MM-DD format")
	}
	if filter.ExpiryTo, err = normalizeDate(filter.ExpiryTo); err != nil {
		return nil, apperror.FieldError("expiryDateTo", "must be a valid date in YYYY-MM-DD format")
	}
	docs, err := s.Store.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].UploadedAt.After(docs[j].UploadedAt)
	})
	return docs, nil
}

func (s *Service) ListForEmployee(ctx context.Context, actor auth.Identity, employeeID string) ([]Document, error) {
	if !canAccess(actor, employeeID) {
		return nil, ErrNotVisible
	}
	return s.List(ctx, actor, Filter{EmployeeID: employeeID})
}

// Open returns the stored file for streaming and records the download.
func (s *Service) Open(ctx context.Context, actor auth.Identity, id, ip string) (Document, *os.File, error) {
	doc, err := s.Get(ctx, actor, id)
	if err != nil {
		return Document{}, nil, err
	}
	f, err := s.Files.Open(doc.FilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) || errors.Is(err, filestore.ErrOutsideRoot) {
			return Document{}, nil, ErrFileMissing
		}
		return Document{}, nil, err
	}
	entry := s.entry(doc.ID, ActionDownloaded, actor.UserID, s.displayName(ctx, actor), ip, "downloaded "+doc.OriginalFileName)
	if err := s.Store.AppendAudit(ctx, entry); err != nil {
		_ = f.Close()
		return Document{}, nil, err
	}
	return doc, f, nil
}

// Delete records the "deleted" entry and removes the record in one write,
// then removes the file.
func (s *Service) Delete(ctx context.Context, actor auth.Identity, id, ip string) error {
	entry := s.entry(id, ActionDeleted, actor.UserID, s.displayName(ctx, actor), ip, "")
	removed, err := s.Store.Delete(ctx, id, func(doc Document) error {
		if !canAccess(actor, doc.EmployeeID) {
			return ErrNotVisible
		}
		return nil
	}, entry)
	if err != nil {
		return err
	}
	if err := s.Files.Remove(removed.FilePath); err != nil {
		requestctx.Logger(ctx).Warn("document file removal failed", "documentId", removed.ID, "err", err)
	}
	return nil
}

// AuditTrail returns a document's history, oldest first. It stays readable
// after the document itself is deleted.
func (s *Service) AuditTrail(ctx context.Context, actor auth.Identity, id string) ([]AuditEntry, error) {
	if !actor.IsHROrAdmin() {
		return nil, ErrReviewerOnly
	}
	entries, err := s.Store.Audit(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrNotFound
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})
	return entries, nil
}

func (s *Service) entry(docID, action, actorID, actorName, ip, details string) AuditEntry {
	return AuditEntry{
		ID:            uuid.NewString(),
		DocumentID:    docID,
		Action:        action,
		PerformedBy:   actorID,
		PerformerName: actorName,
		Timestamp:     s.Now(),
		Details:       details,
		IPAddress:     ip,
	}
}

func (s *Service) send(ctx context.Context, userID, ntype, title, message, docID string) {
	if s.Notify == nil {
		return
	}
	if err := s.Notify.Notify(ctx, userID, ntype, title, message, "/documents/"+docID); err != nil {
		requestctx.Logger(ctx).Warn("document notification failed", "documentId", docID, "userId", userID, "err", err)
	}
}

func (s *Service) displayName(ctx context.Context, actor auth.Identity) string {
	user, err := s.Directory.Get(ctx, actor.UserID)
	if err != nil {
		return actor.Email
	}
	return user.Name
}

// normalizeDate accepts YYYY-MM-DD or RFC3339 and returns YYYY-MM-DD. Empty
// input stays empty.
func normalizeDate(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed.UTC().Format(dateLayout), nil
	}
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return "", err
	}
	return parsed.Format(dateLayout), nil
}
