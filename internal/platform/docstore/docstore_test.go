package docstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

type testDoc struct {
	Items   []string `json:"items"`
	Counter int      `json:"counter"`
}

func newTestDoc() testDoc {
	return testDoc{Items: []string{}}
}

func TestUpdatePersistsAndReloads(t *testing.T) {
	ctx := context.Background()
	persister := &MemoryPersister{}
	db, err := Open(ctx, persister, newTestDoc)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := db.Update(ctx, func(doc *testDoc) error {
		doc.Items = append(doc.Items, "a")
		doc.Counter++
		return nil
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	reopened, err := Open(ctx, persister, newTestDoc)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	_ = reopened.View(func(doc *testDoc) error {
		if doc.Counter != 1 || len(doc.Items) != 1 || doc.Items[0] != "a" {
			t.Fatalf("unexpected reloaded doc: %+v", doc)
		}
		return nil
	})
}

func TestUpdateRollsBackOnCallbackError(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, &MemoryPersister{}, newTestDoc)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	boom := errors.New("boom")
	err = db.Update(ctx, func(doc *testDoc) error {
		doc.Counter = 99
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected callback error, got %v", err)
	}
	_ = db.View(func(doc *testDoc) error {
		if doc.Counter != 0 {
			t.Fatalf("expected rollback, counter=%d", doc.Counter)
		}
		return nil
	})
}

func TestUpdateRollsBackOnPersistFailure(t *testing.T) {
	ctx := context.Background()
	persister := &MemoryPersister{}
	db, err := Open(ctx, persister, newTestDoc)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	persister.SetFailSaves(true)
	err = db.Update(ctx, func(doc *testDoc) error {
		doc.Items = append(doc.Items, "lost")
		return nil
	})
	if !errors.Is(err, ErrPersist) {
		t.Fatalf("expected persist error, got %v", err)
	}
	_ = db.View(func(doc *testDoc) error {
		if len(doc.Items) != 0 {
			t.Fatalf("memory ran ahead of storage: %+v", doc.Items)
		}
		return nil
	})
}

func TestConcurrentUpdatesAreSerialized(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, &MemoryPersister{}, newTestDoc)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = db.Update(ctx, func(doc *testDoc) error {
				doc.Counter++
				return nil
			})
		}()
	}
	wg.Wait()
	_ = db.View(func(doc *testDoc) error {
		if doc.Counter != 50 {
			t.Fatalf("expected 50 increments, got %d", doc.Counter)
		}
		return nil
	})
}

func TestFilePersisterRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "db.json")
	persister, err := NewFilePersister(path)
	if err != nil {
		t.Fatalf("new persister: %v", err)
	}
	raw, err := persister.Load(ctx)
	if err != nil || raw != nil {
		t.Fatalf("expected empty load, got %q err=%v", raw, err)
	}
	db, err := Open(ctx, persister, newTestDoc)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := db.Update(ctx, func(doc *testDoc) error {
		doc.Items = append(doc.Items, "persisted")
		return nil
	}); err != nil {
		t.Fatalf("update: %v", err)
	}
	onDisk, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(onDisk) != string(db.Snapshot()) {
		t.Fatal("expected file contents to match the last snapshot")
	}
	if err := persister.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
}
