package access

import (
	"context"

	"hris/internal/domain/users"
)

type StoreAPI interface {
	ListRoles(ctx context.Context) ([]Role, error)
	GetRole(ctx context.Context, id string) (Role, error)
	// CreateRole rejects a case-insensitive name clash with ErrRoleExists.
	CreateRole(ctx context.Context, role Role) error
	UpdateRole(ctx context.Context, id string, fn func(*Role) error) (Role, error)
	DeleteRole(ctx context.Context, id string, check func(Role) error) error

	ListPermissions(ctx context.Context) ([]Permission, error)
	GetPermission(ctx context.Context, id string) (Permission, error)
	CreatePermission(ctx context.Context, perm Permission) error
	// UpdatePermission keeps role references in step when the name changes.
	UpdatePermission(ctx context.Context, id string, fn func(*Permission) error) (Permission, error)
	// DeletePermission also strips the permission from every role.
	DeletePermission(ctx context.Context, id string) error
}

type Directory interface {
	List(ctx context.Context) ([]users.User, error)
}
