package attendance

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"hris/internal/domain/auth"
)

type memStore struct {
	mu      sync.Mutex
	uploads []Upload
}

func (m *memStore) Create(ctx context.Context, u Upload) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploads = append(m.uploads, u)
	return nil
}

func (m *memStore) ListForEmployee(ctx context.Context, employeeID string) ([]Upload, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Upload
	for _, u := range m.uploads {
		if u.EmployeeID == employeeID {
			out = append(out, u)
		}
	}
	return out, nil
}

func TestParseTimesheet(t *testing.T) {
	csv := "date,hours\n2025-01-02,8\n2025-01-03,7.5\n2025-01-03,0.5\n2025-01-04,0\n"
	summary, err := ParseTimesheet(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if summary.TotalHours != 16 || summary.WorkingDays != 2 {
		t.Fatalf("unexpected totals %+v", summary)
	}
	if summary.PeriodStart != "2025-01-02" || summary.PeriodEnd != "2025-01-04" {
		t.Fatalf("unexpected period %+v", summary)
	}
}

func TestParseTimesheetRejectsBadRows(t *testing.T) {
	cases := map[string]string{
		"empty":       "",
		"header only": "date,hours\n",
		"bad hours":   "2025-01-02,eight\n",
		"too many":    "2025-01-02,25\n",
		"bad date":    "2025-01-02,8\nyesterday,8\n",
		"short row":   "2025-01-02\n",
	}
	for name, body := range cases {
		if _, err := ParseTimesheet(strings.NewReader(body)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestRecordDefaultsAndScoping(t *testing.T) {
	store := &memStore{}
	svc := NewService(store)
	ctx := context.Background()
	employee := auth.Identity{UserID: "emp", Role: auth.RoleEmployee}

	upload, err := svc.Record(ctx, employee, Input{FileName: "jan.xlsx"})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if upload.TotalHours != DefaultTotalHours || upload.WorkingDays != DefaultWorkingDays || upload.Status != StatusProcessed {
		t.Fatalf("unexpected defaults %+v", upload)
	}

	if _, err := svc.List(ctx, employee, "someone-else"); !errors.Is(err, ErrNotVisible) {
		t.Fatalf("expected ErrNotVisible, got %v", err)
	}
	hr := auth.Identity{UserID: "hr", Role: auth.RoleHR}
	list, err := svc.List(ctx, hr, "emp")
	if err != nil || len(list) != 1 {
		t.Fatalf("hr should see one upload, got %d err=%v", len(list), err)
	}
}

func TestImportDerivesTotals(t *testing.T) {
	svc := NewService(&memStore{})
	upload, err := svc.Import(context.Background(), auth.Identity{UserID: "emp", Role: auth.RoleEmployee}, "feb.csv",
		strings.NewReader("2025-02-03,8\n2025-02-04,6\n"))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if upload.TotalHours != 14 || upload.WorkingDays != 2 || upload.PeriodStart != "2025-02-03" {
		t.Fatalf("unexpected upload %+v", upload)
	}
}
