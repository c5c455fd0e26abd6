package store

import (
	"context"
	"slices"
	"sort"

	"hris/internal/domain/notifications"
	"hris/internal/platform/docstore"
)

type NotificationStore struct {
	db *docstore.DB[State]
}

func (s *NotificationStore) Create(ctx context.Context, n notifications.Notification) error {
	return s.db.Update(ctx, func(state *State) error {
		state.Notifications = append(state.Notifications, n)
		return nil
	})
}

func (s *NotificationStore) ListForUser(ctx context.Context, userID string, unreadOnly bool) ([]notifications.Notification, error) {
	out := []notifications.Notification{}
	err := s.db.View(func(state *State) error {
		for _, n := range state.Notifications {
			if n.UserID != userID || (unreadOnly && n.Read) {
				continue
			}
			out = append(out, n)
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, err
}

func (s *NotificationStore) MarkRead(ctx context.Context, userID, id string) (notifications.Notification, error) {
	var out notifications.Notification
	err := s.db.Update(ctx, func(state *State) error {
		idx := slices.IndexFunc(state.Notifications, func(n notifications.Notification) bool {
			return n.ID == id && n.UserID == userID
		})
		if idx < 0 {
			return notifications.ErrNotFound
		}
		state.Notifications[idx].Read = true
		out = state.Notifications[idx]
		return nil
	})
	return out, err
}
