package users_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"

	"hris/internal/apperror"
	"hris/internal/domain/auth"
	"hris/internal/domain/users"
	"hris/internal/platform/crypto"
	"hris/internal/platform/docstore"
	"hris/internal/store"
)

const testKey = "0123456789abcdef0123456789abcdef"

func newService(t *testing.T, key string) *users.Service {
	t.Helper()
	s, err := store.Open(context.Background(), &docstore.MemoryPersister{})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	cryptoSvc, err := crypto.New(key)
	if err != nil {
		t.Fatalf("crypto: %v", err)
	}
	return users.NewService(s.Users(), cryptoSvc, nil, "defaultPassword123")
}

var (
	admin = auth.Identity{UserID: "admin", Role: auth.RoleAdmin}
	hr    = auth.Identity{UserID: "hr", Role: auth.RoleHR}
)

func mustCreate(t *testing.T, svc *users.Service, actor auth.Identity, in users.CreateInput) users.User {
	t.Helper()
	u, err := svc.Create(context.Background(), actor, in)
	if err != nil {
		t.Fatalf("create %s: %v", in.Email, err)
	}
	return u
}

func TestCreateNormalizesAndAuthenticates(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, "")
	u := mustCreate(t, svc, hr, users.CreateInput{Email: "  Jane@Example.com ", Name: "Jane"})
	if u.Email != "jane@example.com" || u.Role != auth.RoleEmployee || u.EmployeeID != "EMP001" {
		t.Fatalf("unexpected user %+v", u)
	}
	if _, err := svc.Authenticate(ctx, "JANE@example.com", "wrong", ""); !errors.Is(err, users.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	got, err := svc.Authenticate(ctx, "jane@example.com", "defaultPassword123", "")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got.LastLoginAt == nil {
		t.Fatal("expected last login stamp")
	}
}

func TestInactiveUserCannotAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, "")
	u := mustCreate(t, svc, hr, users.CreateInput{Email: "gone@example.com", Name: "Gone"})
	removed, err := svc.Delete(ctx, hr, u.ID)
	if err != nil || removed {
		t.Fatalf("expected HR delete to deactivate, removed=%v err=%v", removed, err)
	}
	if _, err := svc.Authenticate(ctx, "gone@example.com", "defaultPassword123", ""); !errors.Is(err, users.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	removed, err = svc.Delete(ctx, admin, u.ID)
	if err != nil || !removed {
		t.Fatalf("expected admin delete to remove, removed=%v err=%v", removed, err)
	}
	if _, err := svc.Get(ctx, u.ID); !errors.Is(err, users.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestOnlyAdminsGrantAdmin(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, "")
	if _, err := svc.Create(ctx, hr, users.CreateInput{Email: "root@example.com", Name: "Root", Role: auth.RoleAdmin}); !errors.Is(err, users.ErrAdminOnly) {
		t.Fatalf("expected admin-only, got %v", err)
	}
	u := mustCreate(t, svc, hr, users.CreateInput{Email: "e@example.com", Name: "E"})
	role := auth.RoleAdmin
	if _, err := svc.UpdateEmployee(ctx, hr, u.ID, users.EmployeePatch{Role: &role}); !errors.Is(err, users.ErrAdminOnly) {
		t.Fatalf("expected admin-only on promotion, got %v", err)
	}
	if _, err := svc.UpdateEmployee(ctx, admin, u.ID, users.EmployeePatch{Role: &role}); err != nil {
		t.Fatalf("admin promotion: %v", err)
	}
	if _, err := svc.Delete(ctx, admin, admin.UserID); !errors.Is(err, users.ErrSelfDelete) {
		t.Fatalf("expected self delete rejection, got %v", err)
	}
}

func TestManagerCycleIsRejected(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, "")
	top := mustCreate(t, svc, hr, users.CreateInput{Email: "top@example.com", Name: "Top"})
	mid := mustCreate(t, svc, hr, users.CreateInput{Email: "mid@example.com", Name: "Mid", ManagerID: top.ID})
	low := mustCreate(t, svc, hr, users.CreateInput{Email: "low@example.com", Name: "Low", ManagerID: mid.ID})

	cases := map[string]string{
		"self":    top.ID,
		"cycle":   low.ID,
		"unknown": "missing",
	}
	for name, managerID := range cases {
		id := managerID
		_, err := svc.UpdateEmployee(ctx, hr, top.ID, users.EmployeePatch{ManagerID: &id})
		appErr, ok := apperror.As(err)
		if !ok || appErr.Code != "validation_error" {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
	}
	if _, err := svc.Create(ctx, hr, users.CreateInput{Email: "x@example.com", Name: "X", ManagerID: "missing"}); err == nil {
		t.Fatal("expected unknown manager to be rejected on create")
	}
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, "")
	u := mustCreate(t, svc, hr, users.CreateInput{Email: "pw@example.com", Name: "Pw", Password: "firstPass1"})
	me := auth.Identity{UserID: u.ID, Role: u.Role}

	if err := svc.ChangePassword(ctx, me, users.ChangePasswordInput{CurrentPassword: "nope", NewPassword: "secondPass2"}); !errors.Is(err, users.ErrWrongPassword) {
		t.Fatalf("expected wrong password, got %v", err)
	}
	if err := svc.ChangePassword(ctx, me, users.ChangePasswordInput{CurrentPassword: "firstPass1", NewPassword: "short"}); err == nil {
		t.Fatal("expected weak password to be rejected")
	}
	if err := svc.ChangePassword(ctx, me, users.ChangePasswordInput{CurrentPassword: "firstPass1", NewPassword: "secondPass2"}); err != nil {
		t.Fatalf("change: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "pw@example.com", "secondPass2", ""); err != nil {
		t.Fatalf("authenticate with new password: %v", err)
	}
}

func TestTwoFactorNeedsKey(t *testing.T) {
	svc := newService(t, "")
	u := mustCreate(t, svc, hr, users.CreateInput{Email: "k@example.com", Name: "K"})
	if _, err := svc.SetupTwoFactor(context.Background(), auth.Identity{UserID: u.ID}); !errors.Is(err, users.ErrTwoFactorDisabled) {
		t.Fatalf("expected mfa unavailable, got %v", err)
	}
}

func TestTwoFactorEnrollmentAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, testKey)
	u := mustCreate(t, svc, hr, users.CreateInput{Email: "mfa@example.com", Name: "Mfa", Password: "mfaPassword1"})
	me := auth.Identity{UserID: u.ID, Role: u.Role}

	setup, err := svc.SetupTwoFactor(ctx, me)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if _, err := svc.ToggleTwoFactor(ctx, me, "not-a-code"); !errors.Is(err, users.ErrTwoFactorCode) {
		t.Fatalf("expected invalid code, got %v", err)
	}
	code, err := totp.GenerateCode(setup.Secret, time.Now())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	enabled, err := svc.ToggleTwoFactor(ctx, me, code)
	if err != nil || !enabled {
		t.Fatalf("expected enabled, got %v err=%v", enabled, err)
	}
	if _, err := svc.Authenticate(ctx, "mfa@example.com", "mfaPassword1", ""); !errors.Is(err, users.ErrTwoFactorRequired) {
		t.Fatalf("expected mfa required, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "mfa@example.com", "mfaPassword1", code); err != nil {
		t.Fatalf("authenticate with code: %v", err)
	}
}

func TestUnknownEmailStillComparesPassword(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, "")
	mustCreate(t, svc, hr, users.CreateInput{Email: "known@example.com", Name: "Known"})

	var hashes []string
	restore := users.SetPasswordChecker(func(hash, password string) error {
		hashes = append(hashes, hash)
		return auth.CheckPassword(hash, password)
	})
	defer restore()

	if _, err := svc.Authenticate(ctx, "nobody@example.com", "whatever123", ""); !errors.Is(err, users.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "known@example.com", "whatever123", ""); !errors.Is(err, users.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if len(hashes) != 2 {
		t.Fatalf("expected a bcrypt comparison on both paths, got %d", len(hashes))
	}
	if !strings.HasPrefix(hashes[0], "$2") {
		t.Fatalf("expected unknown email to be compared against a bcrypt hash, got %q", hashes[0])
	}
}

func TestCurrentIdentityFollowsAccount(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, "")
	u := mustCreate(t, svc, hr, users.CreateInput{Email: "live@example.com", Name: "Live"})

	got, err := svc.CurrentIdentity(ctx, u.ID)
	if err != nil || got.Role != auth.RoleEmployee {
		t.Fatalf("unexpected identity %+v err=%v", got, err)
	}
	role := auth.RoleLineManager
	if _, err := svc.UpdateEmployee(ctx, admin, u.ID, users.EmployeePatch{Role: &role}); err != nil {
		t.Fatalf("promote: %v", err)
	}
	if got, _ = svc.CurrentIdentity(ctx, u.ID); got.Role != auth.RoleLineManager {
		t.Fatalf("expected current role, got %s", got.Role)
	}
	inactive := users.StatusInactive
	if _, err := svc.UpdateEmployee(ctx, admin, u.ID, users.EmployeePatch{Status: &inactive}); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := svc.CurrentIdentity(ctx, u.ID); !errors.Is(err, users.ErrAccountInactive) {
		t.Fatalf("expected inactive account, got %v", err)
	}
	if _, err := svc.CurrentIdentity(ctx, "missing"); !errors.Is(err, users.ErrAccountInactive) {
		t.Fatalf("expected removed account to be inactive, got %v", err)
	}
}
