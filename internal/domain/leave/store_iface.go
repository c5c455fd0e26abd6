package leave

import (
	"context"

	"hris/internal/domain/users"
)

type StoreAPI interface {
	Create(ctx context.Context, r Request) error
	Get(ctx context.Context, id string) (Request, error)
	List(ctx context.Context, filter ListFilter) ([]Request, error)
	// Update runs fn against the stored request inside a single write; the
	// request is saved only when fn returns nil.
	Update(ctx context.Context, id string, fn func(*Request) error) (Request, error)
	// Delete removes the request when check accepts the stored version.
	Delete(ctx context.Context, id string, check func(Request) error) error
}

type Directory interface {
	Get(ctx context.Context, id string) (users.User, error)
	List(ctx context.Context) ([]users.User, error)
}

type Notifier interface {
	Notify(ctx context.Context, userID, ntype, title, message, link string) error
}
