package appraisals

import (
	"context"

	"hris/internal/domain/users"
)

type StoreAPI interface {
	Create(ctx context.Context, a Appraisal) error
	Get(ctx context.Context, id string) (Appraisal, error)
	List(ctx context.Context) ([]Appraisal, error)
	Update(ctx context.Context, id string, fn func(*Appraisal) error) (Appraisal, error)
	Delete(ctx context.Context, id string) error
}

type Directory interface {
	Get(ctx context.Context, id string) (users.User, error)
}

type Notifier interface {
	Notify(ctx context.Context, userID, ntype, title, message, link string) error
}
