package documents

import (
	"context"
	"io"
	"os"

	"hris/internal/domain/users"
	"hris/internal/platform/filestore"
)

type StoreAPI interface {
	// Create stores the document together with its first audit entry.
	Create(ctx context.Context, doc Document, entry AuditEntry) error
	Get(ctx context.Context, id string) (Document, error)
	List(ctx context.Context, filter Filter) ([]Document, error)
	// Update runs fn inside one write and appends the audit entry it returns.
	Update(ctx context.Context, id string, fn func(*Document) (AuditEntry, error)) (Document, error)
	// Delete appends entry and removes the document in one write, provided
	// check accepts the stored version.
	Delete(ctx context.Context, id string, check func(Document) error, entry AuditEntry) (Document, error)
	AppendAudit(ctx context.Context, entry AuditEntry) error
	Audit(ctx context.Context, documentID string) ([]AuditEntry, error)
}

type Files interface {
	Save(r io.Reader, originalName string, limit int64) (filestore.StoredFile, error)
	Open(path string) (*os.File, error)
	Remove(path string) error
}

type Directory interface {
	Get(ctx context.Context, id string) (users.User, error)
	List(ctx context.Context) ([]users.User, error)
}

type Notifier interface {
	Notify(ctx context.Context, userID, ntype, title, message, link string) error
}

// ExpiryPolicy supplies how many days ahead a document counts as expiring.
type ExpiryPolicy interface {
	DocumentExpiryDays(ctx context.Context) int
}
