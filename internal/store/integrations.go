package store

import (
	"context"
	"maps"
	"slices"

	"hris/internal/domain/integrations"
	"hris/internal/platform/docstore"
)

type IntegrationStore struct {
	db *docstore.DB[State]
}

func (s *IntegrationStore) List(ctx context.Context) ([]integrations.Integration, error) {
	var out []integrations.Integration
	err := s.db.View(func(state *State) error {
		out = make([]integrations.Integration, 0, len(state.Integrations))
		for _, in := range state.Integrations {
			in.Config = maps.Clone(in.Config)
			out = append(out, in)
		}
		return nil
	})
	return out, err
}

func (s *IntegrationStore) Update(ctx context.Context, id string, fn func(*integrations.Integration) error) (integrations.Integration, error) {
	var out integrations.Integration
	err := s.db.Update(ctx, func(state *State) error {
		idx := slices.IndexFunc(state.Integrations, func(in integrations.Integration) bool { return in.ID == id })
		if idx < 0 {
			return integrations.ErrNotFound
		}
		in := state.Integrations[idx]
		if err := fn(&in); err != nil {
			return err
		}
		in.ID = id
		state.Integrations[idx] = in
		out = in
		out.Config = maps.Clone(in.Config)
		return nil
	})
	return out, err
}
