package db

import (
	"context"
	"os"
	"testing"

	"hris/internal/platform/config"
)

func TestStatePersisterRoundTrip(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := Connect(ctx, config.Config{DatabaseURL: dbURL})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer pool.Close()
	if err := Migrate(ctx, pool); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	persister := NewStatePersister(pool)
	before, err := persister.Version(ctx)
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if err := persister.Save(ctx, []byte(`{"users":[]}`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	raw, err := persister.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(raw) == 0 {
		t.Fatal("expected stored document")
	}
	after, err := persister.Version(ctx)
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if after != before+1 {
		t.Fatalf("expected version %d, got %d", before+1, after)
	}
}
