// Package docstore keeps a single JSON document in memory and persists it
// whole after every committed write.
//
// Readers run concurrently under View. Writers are serialized by Update; a
// write whose callback fails, or whose persistence fails, is rolled back to the
// last persisted snapshot so memory never runs ahead of storage. Values read
// inside View must be copied out before the callback returns, and nested
// slices must be replaced rather than mutated in place inside Update.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// Persister stores the serialized document. Load returns (nil, nil) when
// nothing has been stored yet.
type Persister interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

var ErrPersist = errors.New("persist document")

type DB[T any] struct {
	mu        sync.RWMutex
	state     T
	snapshot  []byte
	persister Persister
}

// Open loads the document from p, or initialises it with init and stores the
// result when p is empty.
func Open[T any](ctx context.Context, p Persister, init func() T) (*DB[T], error) {
	raw, err := p.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	db := &DB[T]{persister: p}
	if len(raw) == 0 {
		db.state = init()
		encoded, err := encode(db.state)
		if err != nil {
			return nil, err
		}
		if err := p.Save(ctx, encoded); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersist, err)
		}
		db.snapshot = encoded
		return db, nil
	}
	if err := json.Unmarshal(raw, &db.state); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	db.snapshot = raw
	return db, nil
}

func (d *DB[T]) View(fn func(state *T) error) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return fn(&d.state)
}

func (d *DB[T]) Update(ctx context.Context, fn func(state *T) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := fn(&d.state); err != nil {
		d.rollback()
		return err
	}
	encoded, err := encode(d.state)
	if err != nil {
		d.rollback()
		return err
	}
	if err := d.persister.Save(ctx, encoded); err != nil {
		d.rollback()
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	d.snapshot = encoded
	return nil
}

// Snapshot returns the last persisted encoding of the document.
func (d *DB[T]) Snapshot() []byte {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]byte, len(d.snapshot))
	copy(out, d.snapshot)
	return out
}

func (d *DB[T]) rollback() {
	var restored T
	if err := json.Unmarshal(d.snapshot, &restored); err != nil {
		// The snapshot was produced by encode, so this only happens on a
		// programming error in T's JSON methods.
		panic(fmt.Sprintf("docstore: restore snapshot: %v", err))
	}
	d.state = restored
}

func encode[T any](state T) ([]byte, error) {
	raw, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return raw, nil
}
