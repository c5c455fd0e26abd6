package integrations_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"hris/internal/domain/integrations"
	"hris/internal/platform/config"
	"hris/internal/platform/docstore"
	"hris/internal/store"
)

func newService(t *testing.T) *integrations.Service {
	t.Helper()
	ctx := context.Background()
	s, err := store.Open(ctx, &docstore.MemoryPersister{})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := store.Seed(ctx, s, config.Config{}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	svc := integrations.NewService(s.Integrations())
	svc.Now = func() time.Time { return time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC) }
	return svc
}

func TestConnectStampsLastSyncAndMergesConfig(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	connected := integrations.StatusConnected
	got, err := svc.Update(ctx, "slack", integrations.Patch{
		Status: &connected,
		Config: map[string]string{"channel": "#hr", "webhook": " https://hooks.example.com/x "},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.LastSync == nil || !got.LastSync.Equal(svc.Now()) {
		t.Fatalf("expected lastSync stamp, got %v", got.LastSync)
	}
	if got.Config["webhook"] != "https://hooks.example.com/x" {
		t.Fatalf("expected trimmed config value, got %q", got.Config["webhook"])
	}

	got, err = svc.Update(ctx, "slack", integrations.Patch{Config: map[string]string{"channel": ""}})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, ok := got.Config["channel"]; ok {
		t.Fatal("expected empty value to remove the key")
	}
	if got.Config["webhook"] == "" || got.Status != integrations.StatusConnected {
		t.Fatalf("expected other fields untouched, got %+v", got)
	}

	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, in := range list {
		if in.ID == "slack" && in.Status != integrations.StatusConnected {
			t.Fatalf("expected persisted status, got %s", in.Status)
		}
	}
}

func TestUpdateRejectsEmptyAndUnknown(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	if _, err := svc.Update(ctx, "slack", integrations.Patch{}); err == nil {
		t.Fatal("expected empty patch to be rejected")
	}
	status := integrations.StatusDisconnected
	if _, err := svc.Update(ctx, "fax", integrations.Patch{Status: &status}); !errors.Is(err, integrations.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
