package store

import (
	"context"

	"hris/internal/domain/attendance"
	"hris/internal/platform/docstore"
)

type AttendanceStore struct {
	db *docstore.DB[State]
}

func (s *AttendanceStore) Create(ctx context.Context, u attendance.Upload) error {
	return s.db.Update(ctx, func(state *State) error {
		state.AttendanceUploads = append(state.AttendanceUploads, u)
		return nil
	})
}

func (s *AttendanceStore) ListForEmployee(ctx context.Context, employeeID string) ([]attendance.Upload, error) {
	var out []attendance.Upload
	err := s.db.View(func(state *State) error {
		for _, u := range state.AttendanceUploads {
			if u.EmployeeID == employeeID {
				out = append(out, u)
			}
		}
		return nil
	})
	return out, err
}
