package notifications

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"hris/internal/apperror"
)

var ErrNotFound = apperror.NotFound("notification_not_found", "notification not found")

type Service struct {
	store StoreAPI
	Now   func() time.Time
}

func New(store StoreAPI) *Service {
	return &Service{store: store, Now: func() time.Time { return time.Now().UTC() }}
}

// Notify records an in-app notification. Delivery beyond the inbox is out of
// scope; callers treat failures as best-effort.
func (s *Service) Notify(ctx context.Context, userID, ntype, title, message, link string) error {
	if strings.TrimSpace(userID) == "" {
		return nil
	}
	return s.store.Create(ctx, Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      ntype,
		Title:     title,
		Message:   message,
		Link:      link,
		CreatedAt: s.Now(),
	})
}

func (s *Service) List(ctx context.Context, userID string, unreadOnly bool) ([]Notification, error) {
	return s.store.ListForUser(ctx, userID, unreadOnly)
}

func (s *Service) MarkRead(ctx context.Context, userID, id string) (Notification, error) {
	return s.store.MarkRead(ctx, userID, id)
}
