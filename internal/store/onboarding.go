package store

import (
	"context"
	"slices"

	"hris/internal/domain/onboarding"
	"hris/internal/platform/docstore"
)

type OnboardingStore struct {
	db *docstore.DB[State]
}

func findOnboarding(state *State, employeeID string) int {
	return slices.IndexFunc(state.Onboarding, func(r onboarding.Record) bool { return r.EmployeeID == employeeID })
}

func (s *OnboardingStore) Get(ctx context.Context, employeeID string) (onboarding.Record, error) {
	var out onboarding.Record
	err := s.db.View(func(state *State) error {
		idx := findOnboarding(state, employeeID)
		if idx < 0 {
			return onboarding.ErrNotFound
		}
		out = state.Onboarding[idx]
		return nil
	})
	return out, err
}

func (s *OnboardingStore) Create(ctx context.Context, rec onboarding.Record) (onboarding.Record, bool, error) {
	var (
		out     onboarding.Record
		created bool
	)
	err := s.db.Update(ctx, func(state *State) error {
		if idx := findOnboarding(state, rec.EmployeeID); idx >= 0 {
			out = state.Onboarding[idx]
			return nil
		}
		rec.Progress = onboarding.Progress(rec.Checklist)
		state.Onboarding = append(state.Onboarding, rec)
		syncOnboarding(state, rec)
		out, created = rec, true
		return nil
	})
	return out, created, err
}

func (s *OnboardingStore) Update(ctx context.Context, employeeID string, fn func(*onboarding.Record) error) (onboarding.Record, error) {
	var out onboarding.Record
	err := s.db.Update(ctx, func(state *State) error {
		idx := findOnboarding(state, employeeID)
		if idx < 0 {
			return onboarding.ErrNotFound
		}
		rec := state.Onboarding[idx]
		if err := fn(&rec); err != nil {
			return err
		}
		rec.EmployeeID = employeeID
		state.Onboarding[idx] = rec
		syncOnboarding(state, rec)
		out = rec
		return nil
	})
	return out, err
}

func syncOnboarding(state *State, rec onboarding.Record) {
	if idx := findUser(state, rec.EmployeeID); idx >= 0 {
		state.Users[idx].OnboardingStatus = rec.Status
		state.Users[idx].OnboardingProgress = rec.Progress
	}
}
