package store

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"hris/internal/domain/access"
	"hris/internal/domain/auth"
	"hris/internal/domain/notifications"
	"hris/internal/domain/onboarding"
	"hris/internal/domain/org"
	"hris/internal/domain/users"
	"hris/internal/platform/config"
	"hris/internal/platform/docstore"
	"hris/internal/platform/jobs"
)

func openTestStore(t *testing.T) (*Store, *docstore.MemoryPersister) {
	t.Helper()
	persister := &docstore.MemoryPersister{}
	s, err := Open(context.Background(), persister)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return s, persister
}

func createUser(t *testing.T, s *Store, email string) users.User {
	t.Helper()
	u, err := s.Users().Create(context.Background(), users.User{Email: email, Name: email, Role: auth.RoleEmployee, Status: users.StatusActive}, users.Credentials{PasswordHash: "x"})
	if err != nil {
		t.Fatalf("create %s: %v", email, err)
	}
	return u
}

func TestEmployeeNumbersAreNeverReused(t *testing.T) {
	ctx := context.Background()
	s, _ := openTestStore(t)
	first := createUser(t, s, "a@example.com")
	second := createUser(t, s, "b@example.com")
	if first.EmployeeID != "EMP001" || second.EmployeeID != "EMP002" {
		t.Fatalf("unexpected numbers %s %s", first.EmployeeID, second.EmployeeID)
	}
	if err := s.Users().Delete(ctx, second.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	third := createUser(t, s, "c@example.com")
	if third.EmployeeID != "EMP003" {
		t.Fatalf("expected EMP003, got %s", third.EmployeeID)
	}
}

func TestDuplicateEmailIsCaseInsensitive(t *testing.T) {
	s, _ := openTestStore(t)
	createUser(t, s, "dup@example.com")
	_, err := s.Users().Create(context.Background(), users.User{Email: "DUP@example.com"}, users.Credentials{})
	if !errors.Is(err, users.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestDeleteUserClearsManagerReferences(t *testing.T) {
	ctx := context.Background()
	s, _ := openTestStore(t)
	mgr := createUser(t, s, "mgr@example.com")
	emp := createUser(t, s, "emp@example.com")
	if _, err := s.Users().Update(ctx, emp.ID, func(u *users.User) error {
		u.ManagerID = mgr.ID
		return nil
	}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := s.Users().Delete(ctx, mgr.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err := s.Users().Get(ctx, emp.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ManagerID != "" {
		t.Fatalf("expected cleared manager, got %q", got.ManagerID)
	}
}

func TestFailedPersistLeavesStateUntouched(t *testing.T) {
	s, persister := openTestStore(t)
	persister.SetFailSaves(true)
	_, err := s.Users().Create(context.Background(), users.User{Email: "lost@example.com"}, users.Credentials{})
	if !errors.Is(err, docstore.ErrPersist) {
		t.Fatalf("expected persist error, got %v", err)
	}
	persister.SetFailSaves(false)
	list, _ := s.Users().List(context.Background())
	if len(list) != 0 {
		t.Fatalf("expected no users after failed write, got %d", len(list))
	}
	if u := createUser(t, s, "next@example.com"); u.EmployeeID != "EMP001" {
		t.Fatalf("failed write consumed a number: %s", u.EmployeeID)
	}
}

func TestPermissionRenameAndDeleteTouchRoles(t *testing.T) {
	ctx := context.Background()
	s, _ := openTestStore(t)
	st := s.Access()
	if err := st.CreatePermission(ctx, access.Permission{ID: "p1", Name: "reports.read"}); err != nil {
		t.Fatalf("create permission: %v", err)
	}
	if err := st.CreateRole(ctx, access.Role{ID: "r1", Name: "auditor", Permissions: []string{"reports.read", "other"}}); err != nil {
		t.Fatalf("create role: %v", err)
	}
	if err := st.CreateRole(ctx, access.Role{ID: "r2", Name: "Auditor"}); !errors.Is(err, access.ErrRoleExists) {
		t.Fatalf("expected ErrRoleExists, got %v", err)
	}
	if _, err := st.UpdatePermission(ctx, "p1", func(p *access.Permission) error {
		p.Name = "reports.view"
		return nil
	}); err != nil {
		t.Fatalf("rename: %v", err)
	}
	role, _ := st.GetRole(ctx, "r1")
	if !slices.Equal(role.Permissions, []string{"reports.view", "other"}) {
		t.Fatalf("expected renamed reference, got %v", role.Permissions)
	}
	if err := st.DeletePermission(ctx, "p1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	role, _ = st.GetRole(ctx, "r1")
	if !slices.Equal(role.Permissions, []string{"other"}) {
		t.Fatalf("expected stripped reference, got %v", role.Permissions)
	}
}

func TestDepartmentRenameMovesMembers(t *testing.T) {
	ctx := context.Background()
	s, _ := openTestStore(t)
	emp := createUser(t, s, "emp@example.com")
	_, _ = s.Users().Update(ctx, emp.ID, func(u *users.User) error {
		u.Department = "engineering"
		return nil
	})
	if err := s.Departments().Create(ctx, org.Department{ID: "d1", Name: "Engineering"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.Departments().Create(ctx, org.Department{ID: "d2", Name: "ENGINEERING"}); !errors.Is(err, org.ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
	if _, err := s.Departments().Update(ctx, "d1", func(d *org.Department) error {
		d.Name = "Platform"
		return nil
	}); err != nil {
		t.Fatalf("rename: %v", err)
	}
	got, _ := s.Users().Get(ctx, emp.ID)
	if got.Department != "Platform" {
		t.Fatalf("expected member moved, got %q", got.Department)
	}
}

func TestOnboardingMirrorsOntoUser(t *testing.T) {
	ctx := context.Background()
	s, _ := openTestStore(t)
	emp := createUser(t, s, "new@example.com")
	rec := onboarding.Record{ID: "o1", EmployeeID: emp.ID, Status: onboarding.StatusPending, Checklist: onboarding.DefaultChecklist(time.Now())}
	if _, created, err := s.Onboarding().Create(ctx, rec); err != nil || !created {
		t.Fatalf("create: created=%v err=%v", created, err)
	}
	if _, created, _ := s.Onboarding().Create(ctx, rec); created {
		t.Fatal("second create should return the existing record")
	}
	if _, err := s.Onboarding().Update(ctx, emp.ID, func(r *onboarding.Record) error {
		r.Status = onboarding.StatusInProgress
		r.Progress = 50
		return nil
	}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ := s.Users().Get(ctx, emp.ID)
	if got.OnboardingStatus != onboarding.StatusInProgress || got.OnboardingProgress != 50 {
		t.Fatalf("expected mirrored progress, got %s/%d", got.OnboardingStatus, got.OnboardingProgress)
	}
}

func TestNotificationsAreOwnerScoped(t *testing.T) {
	ctx := context.Background()
	s, _ := openTestStore(t)
	st := s.Notifications()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	_ = st.Create(ctx, notifications.Notification{ID: "n1", UserID: "u1", CreatedAt: base})
	_ = st.Create(ctx, notifications.Notification{ID: "n2", UserID: "u1", CreatedAt: base.Add(time.Hour)})
	_ = st.Create(ctx, notifications.Notification{ID: "n3", UserID: "u2", CreatedAt: base})

	if _, err := st.MarkRead(ctx, "u2", "n1"); !errors.Is(err, notifications.ErrNotFound) {
		t.Fatalf("expected not found for another user's notification, got %v", err)
	}
	if _, err := st.MarkRead(ctx, "u1", "n1"); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	all, _ := st.ListForUser(ctx, "u1", false)
	if len(all) != 2 || all[0].ID != "n2" {
		t.Fatalf("expected newest first, got %+v", all)
	}
	unread, _ := st.ListForUser(ctx, "u1", true)
	if len(unread) != 1 || unread[0].ID != "n2" {
		t.Fatalf("expected only unread, got %+v", unread)
	}
}

func TestJobRunHistoryIsBounded(t *testing.T) {
	ctx := context.Background()
	s, _ := openTestStore(t)
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	var lastID string
	for i := 0; i < maxJobRuns+5; i++ {
		id, err := s.JobRuns().StartRun(ctx, "backup", start.Add(time.Duration(i)*time.Minute))
		if err != nil {
			t.Fatalf("start: %v", err)
		}
		lastID = id
	}
	if err := s.JobRuns().FinishRun(ctx, lastID, jobs.StatusCompleted, nil, "", start); err != nil {
		t.Fatalf("finish: %v", err)
	}
	runs, _ := s.System().JobRuns(ctx, "", 0)
	if len(runs) != maxJobRuns {
		t.Fatalf("expected %d runs, got %d", maxJobRuns, len(runs))
	}
	if runs[0].ID != lastID || runs[0].Status != jobs.StatusCompleted {
		t.Fatalf("expected newest completed run first, got %+v", runs[0])
	}
	limited, _ := s.System().JobRuns(ctx, "backup", 3)
	if len(limited) != 3 {
		t.Fatalf("expected limit to apply, got %d", len(limited))
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s, _ := openTestStore(t)
	cfg := config.Config{SeedAdminEmail: "admin@example.com", SeedAdminPassword: "Str0ng!pass", SeedAdminName: "Admin"}
	for i := 0; i < 2; i++ {
		if err := Seed(ctx, s, cfg); err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}
	roles, _ := s.Access().ListRoles(ctx)
	if len(roles) != len(auth.BuiltinRoles) {
		t.Fatalf("expected %d roles, got %d", len(auth.BuiltinRoles), len(roles))
	}
	for _, r := range roles {
		if !r.System {
			t.Fatalf("expected built-in role %s to be marked system", r.Name)
		}
	}
	list, _ := s.Users().List(ctx)
	if len(list) != 1 || list[0].Role != auth.RoleAdmin {
		t.Fatalf("expected a single admin, got %+v", list)
	}
	integrationsList, _ := s.Integrations().List(ctx)
	if len(integrationsList) == 0 {
		t.Fatal("expected default integrations")
	}
}

func TestSeedWithoutPasswordSkipsAdmin(t *testing.T) {
	ctx := context.Background()
	s, _ := openTestStore(t)
	if err := Seed(ctx, s, config.Config{SeedAdminEmail: "admin@example.com"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	list, _ := s.Users().List(ctx)
	if len(list) != 0 {
		t.Fatalf("expected no admin without a password, got %d users", len(list))
	}
}
