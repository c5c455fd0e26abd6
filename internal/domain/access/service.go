package access

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"hris/internal/apperror"
)

// Service manages the role and permission catalogue. Built-in roles keep
// their names; route access itself comes from the in-code policy table.
type Service struct {
	Store     StoreAPI
	Directory Directory
	Now       func() time.Time
}

func NewService(store StoreAPI, directory Directory) *Service {
	return &Service{Store: store, Directory: directory, Now: func() time.Time { return time.Now().UTC() }}
}

func (s *Service) ListRoles(ctx context.Context) ([]Role, error) {
	roles, err := s.Store.ListRoles(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.userCounts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range roles {
		roles[i].UserCount = counts[roles[i].Name]
	}
	return roles, nil
}

func (s *Service) GetRole(ctx context.Context, id string) (Role, error) {
	role, err := s.Store.GetRole(ctx, id)
	if err != nil {
		return Role{}, err
	}
	return s.withCount(ctx, role)
}

func (s *Service) CreateRole(ctx context.Context, in RoleInput) (Role, error) {
	perms, err := s.checkPermissions(ctx, in.Permissions)
	if err != nil {
		return Role{}, err
	}
	now := s.Now()
	role := Role{
		ID:          uuid.NewString(),
		Name:        normalizeName(in.Name),
		Description: strings.TrimSpace(in.Description),
		Permissions: perms,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if role.Name == "" {
		return Role{}, apperror.FieldError("name", "is required")
	}
	if err := s.Store.CreateRole(ctx, role); err != nil {
		return Role{}, err
	}
	return role, nil
}

func (s *Service) UpdateRole(ctx context.Context, id string, patch RolePatch) (Role, error) {
	var perms []string
	if patch.Permissions != nil {
		checked, err := s.checkPermissions(ctx, *patch.Permissions)
		if err != nil {
			return Role{}, err
		}
		perms = checked
	}
	updated, err := s.Store.UpdateRole(ctx, id, func(role *Role) error {
		if patch.Name != nil {
			name := normalizeName(*patch.Name)
			if name != role.Name && role.System {
				return ErrSystemRole
			}
			role.Name = name
		}
		if patch.Description != nil {
			role.Description = strings.TrimSpace(*patch.Description)
		}
		if patch.Permissions != nil {
			role.Permissions = perms
		}
		role.UpdatedAt = s.Now()
		return nil
	})
	if err != nil {
		return Role{}, err
	}
	return s.withCount(ctx, updated)
}

func (s *Service) DeleteRole(ctx context.Context, id string) error {
	counts, err := s.userCounts(ctx)
	if err != nil {
		return err
	}
	return s.Store.DeleteRole(ctx, id, func(role Role) error {
		if role.System {
			return ErrSystemRole
		}
		if counts[role.Name] > 0 {
			return ErrRoleInUse
		}
		return nil
	})
}

func (s *Service) ListPermissions(ctx context.Context) ([]Permission, error) {
	return s.Store.ListPermissions(ctx)
}

func (s *Service) CreatePermission(ctx context.Context, in PermissionInput) (Permission, error) {
	perm := Permission{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Resource:    strings.TrimSpace(in.Resource),
		Action:      strings.TrimSpace(in.Action),
	}
	if err := s.Store.CreatePermission(ctx, perm); err != nil {
		return Permission{}, err
	}
	return perm, nil
}

func (s *Service) UpdatePermission(ctx context.Context, id string, patch PermissionPatch) (Permission, error) {
	return s.Store.UpdatePermission(ctx, id, func(perm *Permission) error {
		set := func(dst *string, src *string) {
			if src != nil {
				*dst = strings.TrimSpace(*src)
			}
		}
		set(&perm.Name, patch.Name)
		set(&perm.Description, patch.Description)
		set(&perm.Resource, patch.Resource)
		set(&perm.Action, patch.Action)
		return nil
	})
}

func (s *Service) DeletePermission(ctx context.Context, id string) error {
	return s.Store.DeletePermission(ctx, id)
}

// checkPermissions de-duplicates names and rejects ones not in the catalogue.
func (s *Service) checkPermissions(ctx context.Context, names []string) ([]string, error) {
	catalogue, err := s.Store.ListPermissions(ctx)
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(catalogue))
	for _, perm := range catalogue {
		known[perm.Name] = true
	}
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if !known[name] {
			return nil, apperror.FieldError("permissions", "unknown permission "+name)
		}
		if !slices.Contains(out, name) {
			out = append(out, name)
		}
	}
	return out, nil
}

func (s *Service) withCount(ctx context.Context, role Role) (Role, error) {
	counts, err := s.userCounts(ctx)
	if err != nil {
		return Role{}, err
	}
	role.UserCount = counts[role.Name]
	return role, nil
}

func (s *Service) userCounts(ctx context.Context) (map[string]int, error) {
	people, err := s.Directory.List(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, person := range people {
		counts[person.Role]++
	}
	return counts, nil
}

func normalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), "_"))
}
