package store

import (
	"context"
	"slices"

	"hris/internal/domain/leave"
	"hris/internal/platform/docstore"
)

type LeaveStore struct {
	db *docstore.DB[State]
}

func findLeave(state *State, id string) int {
	return slices.IndexFunc(state.LeaveRequests, func(r leave.Request) bool { return r.ID == id })
}

func (s *LeaveStore) Create(ctx context.Context, r leave.Request) error {
	return s.db.Update(ctx, func(state *State) error {
		state.LeaveRequests = append(state.LeaveRequests, r)
		return nil
	})
}

func (s *LeaveStore) Get(ctx context.Context, id string) (leave.Request, error) {
	var out leave.Request
	err := s.db.View(func(state *State) error {
		idx := findLeave(state, id)
		if idx < 0 {
			return leave.ErrNotFound
		}
		out = state.LeaveRequests[idx]
		return nil
	})
	return out, err
}

func (s *LeaveStore) List(ctx context.Context, filter leave.ListFilter) ([]leave.Request, error) {
	var out []leave.Request
	err := s.db.View(func(state *State) error {
		out = make([]leave.Request, 0, len(state.LeaveRequests))
		for _, r := range state.LeaveRequests {
			if filter.Status != "" && r.Status != filter.Status {
				continue
			}
			if filter.EmployeeID != "" && r.EmployeeID != filter.EmployeeID {
				continue
			}
			out = append(out, r)
		}
		return nil
	})
	return out, err
}

func (s *LeaveStore) Update(ctx context.Context, id string, fn func(*leave.Request) error) (leave.Request, error) {
	var out leave.Request
	err := s.db.Update(ctx, func(state *State) error {
		idx := findLeave(state, id)
		if idx < 0 {
			return leave.ErrNotFound
		}
		r := state.LeaveRequests[idx]
		if err := fn(&r); err != nil {
			return err
		}
		r.ID = id
		state.LeaveRequests[idx] = r
		out = r
		return nil
	})
	return out, err
}

func (s *LeaveStore) Delete(ctx context.Context, id string, check func(leave.Request) error) error {
	return s.db.Update(ctx, func(state *State) error {
		idx := findLeave(state, id)
		if idx < 0 {
			return leave.ErrNotFound
		}
		if err := check(state.LeaveRequests[idx]); err != nil {
			return err
		}
		state.LeaveRequests = slices.Delete(state.LeaveRequests, idx, idx+1)
		return nil
	})
}
