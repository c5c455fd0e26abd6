package store

import (
	"context"
	"slices"

	"hris/internal/domain/appraisals"
	"hris/internal/platform/docstore"
)

type AppraisalStore struct {
	db *docstore.DB[State]
}

func findAppraisal(state *State, id string) int {
	return slices.IndexFunc(state.Appraisals, func(a appraisals.Appraisal) bool { return a.ID == id })
}

func (s *AppraisalStore) Create(ctx context.Context, a appraisals.Appraisal) error {
	return s.db.Update(ctx, func(state *State) error {
		state.Appraisals = append(state.Appraisals, a)
		return nil
	})
}

func (s *AppraisalStore) Get(ctx context.Context, id string) (appraisals.Appraisal, error) {
	var out appraisals.Appraisal
	err := s.db.View(func(state *State) error {
		idx := findAppraisal(state, id)
		if idx < 0 {
			return appraisals.ErrNotFound
		}
		out = state.Appraisals[idx]
		return nil
	})
	return out, err
}

func (s *AppraisalStore) List(ctx context.Context) ([]appraisals.Appraisal, error) {
	var out []appraisals.Appraisal
	err := s.db.View(func(state *State) error {
		out = slices.Clone(state.Appraisals)
		return nil
	})
	return out, err
}

func (s *AppraisalStore) Update(ctx context.Context, id string, fn func(*appraisals.Appraisal) error) (appraisals.Appraisal, error) {
	var out appraisals.Appraisal
	err := s.db.Update(ctx, func(state *State) error {
		idx := findAppraisal(state, id)
		if idx < 0 {
			return appraisals.ErrNotFound
		}
		a := state.Appraisals[idx]
		if err := fn(&a); err != nil {
			return err
		}
		a.ID = id
		state.Appraisals[idx] = a
		out = a
		return nil
	})
	return out, err
}

func (s *AppraisalStore) Delete(ctx context.Context, id string) error {
	return s.db.Update(ctx, func(state *State) error {
		idx := findAppraisal(state, id)
		if idx < 0 {
			return appraisals.ErrNotFound
		}
		state.Appraisals = slices.Delete(state.Appraisals, idx, idx+1)
		return nil
	})
}
