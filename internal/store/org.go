package store

import (
	"context"
	"slices"
	"strings"

	"hris/internal/domain/org"
	"hris/internal/platform/docstore"
)

type DepartmentStore struct {
	db *docstore.DB[State]
}

func findDepartment(state *State, id string) int {
	return slices.IndexFunc(state.Departments, func(d org.Department) bool { return d.ID == id })
}

func departmentNameTaken(state *State, name, exceptID string) bool {
	return slices.ContainsFunc(state.Departments, func(d org.Department) bool {
		return d.ID != exceptID && strings.EqualFold(d.Name, name)
	})
}

func (s *DepartmentStore) List(ctx context.Context) ([]org.Department, error) {
	var out []org.Department
	err := s.db.View(func(state *State) error {
		out = slices.Clone(state.Departments)
		return nil
	})
	return out, err
}

func (s *DepartmentStore) Get(ctx context.Context, id string) (org.Department, error) {
	var out org.Department
	err := s.db.View(func(state *State) error {
		idx := findDepartment(state, id)
		if idx < 0 {
			return org.ErrNotFound
		}
		out = state.Departments[idx]
		return nil
	})
	return out, err
}

func (s *DepartmentStore) Create(ctx context.Context, d org.Department) error {
	return s.db.Update(ctx, func(state *State) error {
		if departmentNameTaken(state, d.Name, "") {
			return org.ErrExists
		}
		state.Departments = append(state.Departments, d)
		return nil
	})
}

// Update renames the department on every member's record when the name
// changes.
func (s *DepartmentStore) Update(ctx context.Context, id string, fn func(*org.Department) error) (org.Department, error) {
	var out org.Department
	err := s.db.Update(ctx, func(state *State) error {
		idx := findDepartment(state, id)
		if idx < 0 {
			return org.ErrNotFound
		}
		dept := state.Departments[idx]
		oldName := dept.Name
		if err := fn(&dept); err != nil {
			return err
		}
		dept.ID = id
		if departmentNameTaken(state, dept.Name, id) {
			return org.ErrExists
		}
		state.Departments[idx] = dept
		if !strings.EqualFold(oldName, dept.Name) {
			for i := range state.Users {
				if strings.EqualFold(state.Users[i].Department, oldName) {
					state.Users[i].Department = dept.Name
				}
			}
		}
		out = dept
		return nil
	})
	return out, err
}

func (s *DepartmentStore) Delete(ctx context.Context, id string) error {
	return s.db.Update(ctx, func(state *State) error {
		idx := findDepartment(state, id)
		if idx < 0 {
			return org.ErrNotFound
		}
		state.Departments = slices.Delete(state.Departments, idx, idx+1)
		return nil
	})
}
