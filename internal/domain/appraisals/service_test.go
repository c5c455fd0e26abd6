package appraisals_test

import (
	"context"
	"errors"
	"testing"

	"hris/internal/domain/appraisals"
	"hris/internal/domain/auth"
	"hris/internal/domain/notifications"
	"hris/internal/domain/users"
	"hris/internal/platform/docstore"
	"hris/internal/store"
)

type fixture struct {
	svc      *appraisals.Service
	notes    *notifications.Service
	hr       auth.Identity
	manager  auth.Identity
	employee auth.Identity
	outsider auth.Identity
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	s, err := store.Open(ctx, &docstore.MemoryPersister{})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	create := func(email, role, managerID string) auth.Identity {
		u, err := s.Users().Create(ctx, users.User{Email: email, Name: email, Role: role, ManagerID: managerID, Status: users.StatusActive}, users.Credentials{})
		if err != nil {
			t.Fatalf("create %s: %v", email, err)
		}
		return auth.Identity{UserID: u.ID, Email: u.Email, Role: u.Role}
	}
	f := fixture{hr: create("hr@example.com", auth.RoleHR, "")}
	f.manager = create("lm@example.com", auth.RoleLineManager, "")
	f.employee = create("emp@example.com", auth.RoleEmployee, f.manager.UserID)
	f.outsider = create("out@example.com", auth.RoleEmployee, "")
	f.notes = notifications.New(s.Notifications())
	f.svc = appraisals.NewService(s.Appraisals(), s.Users(), f.notes)
	return f
}

func ptr(s string) *string { return &s }

func score(v float64) *float64 { return &v }

func TestAppraisalMovesForwardThroughReview(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	a, err := f.svc.Create(ctx, appraisals.CreateInput{
		EmployeeID: f.employee.UserID,
		Cycle:      "2026 H1",
		Criteria: []appraisals.CriterionInput{
			{Name: "Delivery", Weight: 2, MaxScore: 5},
			{Name: "Teamwork", Weight: 1, MaxScore: 5},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.Status != appraisals.StatusDraft || a.ManagerID != f.manager.UserID {
		t.Fatalf("expected draft defaulting to line manager, got %+v", a)
	}

	if _, err := f.svc.Update(ctx, f.employee, a.ID, appraisals.Patch{Status: ptr(appraisals.StatusSelfAssessment)}); !errors.Is(err, appraisals.ErrInvalidTransition) {
		t.Fatalf("expected employee unable to open self assessment, got %v", err)
	}
	if _, err := f.svc.Update(ctx, f.hr, a.ID, appraisals.Patch{Status: ptr(appraisals.StatusSelfAssessment)}); err != nil {
		t.Fatalf("open self assessment: %v", err)
	}

	delivery, teamwork := a.Criteria[0].ID, a.Criteria[1].ID
	_, err = f.svc.Update(ctx, f.employee, a.ID, appraisals.Patch{
		Responses: []appraisals.ResponsePatch{{CriteriaID: delivery, SelfScore: score(9)}},
	})
	if err == nil {
		t.Fatal("expected score above maximum to be rejected")
	}
	if _, err := f.svc.Update(ctx, f.employee, a.ID, appraisals.Patch{
		Responses: []appraisals.ResponsePatch{{CriteriaID: delivery, ManagerScore: score(4)}},
	}); !errors.Is(err, appraisals.ErrFieldForbidden) {
		t.Fatalf("expected employee blocked from manager score, got %v", err)
	}
	if _, err := f.svc.Update(ctx, f.employee, a.ID, appraisals.Patch{
		Responses: []appraisals.ResponsePatch{{CriteriaID: delivery, SelfScore: score(4)}, {CriteriaID: teamwork, SelfScore: score(3)}},
		Status:    ptr(appraisals.StatusManagerReview),
	}); err != nil {
		t.Fatalf("submit self assessment: %v", err)
	}

	if _, err := f.svc.Get(ctx, f.outsider, a.ID); !errors.Is(err, appraisals.ErrNotVisible) {
		t.Fatalf("expected outsider blocked, got %v", err)
	}
	if _, err := f.svc.Update(ctx, f.manager, a.ID, appraisals.Patch{
		Responses: []appraisals.ResponsePatch{{CriteriaID: delivery, ManagerScore: score(5)}},
		Status:    ptr(appraisals.StatusHRReview),
	}); err != nil {
		t.Fatalf("manager review: %v", err)
	}
	if _, err := f.svc.Update(ctx, f.hr, a.ID, appraisals.Patch{Status: ptr(appraisals.StatusManagerReview)}); !errors.Is(err, appraisals.ErrInvalidTransition) {
		t.Fatalf("expected backwards move rejected, got %v", err)
	}

	done, err := f.svc.Update(ctx, f.hr, a.ID, appraisals.Patch{Status: ptr(appraisals.StatusCompleted)})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	// Delivery uses the manager score (5, weight 2), teamwork the self score (3).
	if done.OverallScore != 4.33 || done.CompletedAt == nil {
		t.Fatalf("unexpected completion %+v", done)
	}
	if _, err := f.svc.Update(ctx, f.hr, a.ID, appraisals.Patch{OverallComment: ptr("late edit")}); !errors.Is(err, appraisals.ErrFinalized) {
		t.Fatalf("expected completed appraisal to be locked, got %v", err)
	}

	notes, err := f.notes.List(ctx, f.employee.UserID, false)
	if err != nil {
		t.Fatalf("notifications: %v", err)
	}
	if len(notes) == 0 {
		t.Fatal("expected the employee to be notified of status changes")
	}
}

func TestListShowsOnlyVisibleAppraisals(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	if _, err := f.svc.Create(ctx, appraisals.CreateInput{EmployeeID: f.employee.UserID, Cycle: "2026"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.svc.Create(ctx, appraisals.CreateInput{EmployeeID: "missing", Cycle: "2026"}); err == nil {
		t.Fatal("expected unknown employee rejected")
	}
	for name, tc := range map[string]struct {
		actor auth.Identity
		want  int
	}{
		"hr":       {f.hr, 1},
		"manager":  {f.manager, 1},
		"employee": {f.employee, 1},
		"outsider": {f.outsider, 0},
	} {
		got, err := f.svc.List(ctx, tc.actor)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if len(got) != tc.want {
			t.Fatalf("%s: expected %d appraisals, got %d", name, tc.want, len(got))
		}
	}
}
