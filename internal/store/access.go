package store

import (
	"context"
	"slices"
	"strings"

	"hris/internal/domain/access"
	"hris/internal/platform/docstore"
)

type AccessStore struct {
	db *docstore.DB[State]
}

func findRole(state *State, id string) int {
	return slices.IndexFunc(state.Roles, func(r access.Role) bool { return r.ID == id })
}

func findPermission(state *State, id string) int {
	return slices.IndexFunc(state.Permissions, func(p access.Permission) bool { return p.ID == id })
}

func roleNameTaken(state *State, name, exceptID string) bool {
	return slices.ContainsFunc(state.Roles, func(r access.Role) bool {
		return r.ID != exceptID && strings.EqualFold(r.Name, name)
	})
}

func permissionNameTaken(state *State, name, exceptID string) bool {
	return slices.ContainsFunc(state.Permissions, func(p access.Permission) bool {
		return p.ID != exceptID && strings.EqualFold(p.Name, name)
	})
}

func (s *AccessStore) ListRoles(ctx context.Context) ([]access.Role, error) {
	var out []access.Role
	err := s.db.View(func(state *State) error {
		out = slices.Clone(state.Roles)
		return nil
	})
	return out, err
}

func (s *AccessStore) GetRole(ctx context.Context, id string) (access.Role, error) {
	var out access.Role
	err := s.db.View(func(state *State) error {
		idx := findRole(state, id)
		if idx < 0 {
			return access.ErrRoleNotFound
		}
		out = state.Roles[idx]
		return nil
	})
	return out, err
}

func (s *AccessStore) CreateRole(ctx context.Context, role access.Role) error {
	return s.db.Update(ctx, func(state *State) error {
		if roleNameTaken(state, role.Name, "") {
			return access.ErrRoleExists
		}
		state.Roles = append(state.Roles, role)
		return nil
	})
}

func (s *AccessStore) UpdateRole(ctx context.Context, id string, fn func(*access.Role) error) (access.Role, error) {
	var out access.Role
	err := s.db.Update(ctx, func(state *State) error {
		idx := findRole(state, id)
		if idx < 0 {
			return access.ErrRoleNotFound
		}
		role := state.Roles[idx]
		if err := fn(&role); err != nil {
			return err
		}
		role.ID = id
		if roleNameTaken(state, role.Name, id) {
			return access.ErrRoleExists
		}
		state.Roles[idx] = role
		out = role
		return nil
	})
	return out, err
}

func (s *AccessStore) DeleteRole(ctx context.Context, id string, check func(access.Role) error) error {
	return s.db.Update(ctx, func(state *State) error {
		idx := findRole(state, id)
		if idx < 0 {
			return access.ErrRoleNotFound
		}
		if err := check(state.Roles[idx]); err != nil {
			return err
		}
		state.Roles = slices.Delete(state.Roles, idx, idx+1)
		return nil
	})
}

func (s *AccessStore) ListPermissions(ctx context.Context) ([]access.Permission, error) {
	var out []access.Permission
	err := s.db.View(func(state *State) error {
		out = slices.Clone(state.Permissions)
		return nil
	})
	return out, err
}

func (s *AccessStore) GetPermission(ctx context.Context, id string) (access.Permission, error) {
	var out access.Permission
	err := s.db.View(func(state *State) error {
		idx := findPermission(state, id)
		if idx < 0 {
			return access.ErrPermissionNotFound
		}
		out = state.Permissions[idx]
		return nil
	})
	return out, err
}

func (s *AccessStore) CreatePermission(ctx context.Context, perm access.Permission) error {
	return s.db.Update(ctx, func(state *State) error {
		if permissionNameTaken(state, perm.Name, "") {
			return access.ErrPermissionExists
		}
		state.Permissions = append(state.Permissions, perm)
		return nil
	})
}

func (s *AccessStore) UpdatePermission(ctx context.Context, id string, fn func(*access.Permission) error) (access.Permission, error) {
	var out access.Permission
	err := s.db.Update(ctx, func(state *State) error {
		idx := findPermission(state, id)
		if idx < 0 {
			return access.ErrPermissionNotFound
		}
		perm := state.Permissions[idx]
		oldName := perm.Name
		if err := fn(&perm); err != nil {
			return err
		}
		perm.ID = id
		if permissionNameTaken(state, perm.Name, id) {
			return access.ErrPermissionExists
		}
		state.Permissions[idx] = perm
		if perm.Name != oldName {
			for i := range state.Roles {
				if slices.Contains(state.Roles[i].Permissions, oldName) {
					renamed := slices.Clone(state.Roles[i].Permissions)
					renamed[slices.Index(renamed, oldName)] = perm.Name
					state.Roles[i].Permissions = renamed
				}
			}
		}
		out = perm
		return nil
	})
	return out, err
}

func (s *AccessStore) DeletePermission(ctx context.Context, id string) error {
	return s.db.Update(ctx, func(state *State) error {
		idx := findPermission(state, id)
		if idx < 0 {
			return access.ErrPermissionNotFound
		}
		name := state.Permissions[idx].Name
		state.Permissions = slices.Delete(state.Permissions, idx, idx+1)
		for i := range state.Roles {
			if slices.Contains(state.Roles[i].Permissions, name) {
				state.Roles[i].Permissions = slices.DeleteFunc(slices.Clone(state.Roles[i].Permissions), func(p string) bool { return p == name })
			}
		}
		return nil
	})
}
