package notifications

import "context"

type StoreAPI interface {
	Create(ctx context.Context, n Notification) error
	ListForUser(ctx context.Context, userID string, unreadOnly bool) ([]Notification, error)
	// MarkRead only touches notifications owned by userID and returns
	// ErrNotFound otherwise.
	MarkRead(ctx context.Context, userID, id string) (Notification, error)
}
