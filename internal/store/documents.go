package store

import (
	"context"
	"slices"

	"hris/internal/domain/documents"
	"hris/internal/platform/docstore"
)

type DocumentStore struct {
	db *docstore.DB[State]
}

func findDocument(state *State, id string) int {
	return slices.IndexFunc(state.Documents, func(d documents.Document) bool { return d.ID == id })
}

func (s *DocumentStore) Create(ctx context.Context, doc documents.Document, entry documents.AuditEntry) error {
	return s.db.Update(ctx, func(state *State) error {
		state.Documents = append(state.Documents, doc)
		state.DocumentAuditLogs = append(state.DocumentAuditLogs, entry)
		return nil
	})
}

func (s *DocumentStore) Get(ctx context.Context, id string) (documents.Document, error) {
	var out documents.Document
	err := s.db.View(func(state *State) error {
		idx := findDocument(state, id)
		if idx < 0 {
			return documents.ErrNotFound
		}
		out = state.Documents[idx]
		return nil
	})
	return out, err
}

func (s *DocumentStore) List(ctx context.Context, filter documents.Filter) ([]documents.Document, error) {
	var out []documents.Document
	err := s.db.View(func(state *State) error {
		out = make([]documents.Document, 0, len(state.Documents))
		for _, doc := range state.Documents {
			if filter.Match(doc) {
				out = append(out, doc)
			}
		}
		return nil
	})
	return out, err
}

func (s *DocumentStore) Update(ctx context.Context, id string, fn func(*documents.Document) (documents.AuditEntry, error)) (documents.Document, error) {
	var out documents.Document
	err := s.db.Update(ctx, func(state *State) error {
		idx := findDocument(state, id)
		if idx < 0 {
			return documents.ErrNotFound
		}
		doc := state.Documents[idx]
		entry, err := fn(&doc)
		if err != nil {
			return err
		}
		doc.ID = id
		state.Documents[idx] = doc
		state.DocumentAuditLogs = append(state.DocumentAuditLogs, entry)
		out = doc
		return nil
	})
	return out, err
}

func (s *DocumentStore) Delete(ctx context.Context, id string, check func(documents.Document) error, entry documents.AuditEntry) (documents.Document, error) {
	var removed documents.Document
	err := s.db.Update(ctx, func(state *State) error {
		idx := findDocument(state, id)
		if idx < 0 {
			return documents.ErrNotFound
		}
		removed = state.Documents[idx]
		if err := check(removed); err != nil {
			return err
		}
		state.DocumentAuditLogs = append(state.DocumentAuditLogs, entry)
		state.Documents = slices.Delete(state.Documents, idx, idx+1)
		return nil
	})
	return removed, err
}

func (s *DocumentStore) AppendAudit(ctx context.Context, entry documents.AuditEntry) error {
	return s.db.Update(ctx, func(state *State) error {
		state.DocumentAuditLogs = append(state.DocumentAuditLogs, entry)
		return nil
	})
}

func (s *DocumentStore) Audit(ctx context.Context, documentID string) ([]documents.AuditEntry, error) {
	var out []documents.AuditEntry
	err := s.db.View(func(state *State) error {
		for _, entry := range state.DocumentAuditLogs {
			if entry.DocumentID == documentID {
				out = append(out, entry)
			}
		}
		return nil
	})
	return out, err
}
