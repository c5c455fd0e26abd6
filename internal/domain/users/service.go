package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"hris/internal/apperror"
	"hris/internal/domain/auth"
	"hris/internal/platform/crypto"
)

const (
	totpIssuer        = "HRIS"
	maxManagerDepth   = 64
	onboardingPending = "pending"
)

type Service struct {
	Store           StoreAPI
	Crypto          *crypto.Service
	Passwords       PasswordPolicy
	DefaultPassword string
	Now             func() time.Time
}

func NewService(store StoreAPI, cryptoSvc *crypto.Service, passwords PasswordPolicy, defaultPassword string) *Service {
	return &Service{
		Store:           store,
		Crypto:          cryptoSvc,
		Passwords:       passwords,
		DefaultPassword: defaultPassword,
		Now:             func() time.Time { return time.Now().UTC() },
	}
}

// checkPassword is swapped out in tests.
var checkPassword = auth.CheckPassword

// dummyHash is compared against for unknown emails so they cost the same
// bcrypt work as a wrong password.
var dummyHash = sync.OnceValue(func() string {
	hash, err := auth.HashPassword("unused-login-placeholder-0")
	if err != nil {
		panic(fmt.Sprintf("users: hash placeholder password: %v", err))
	}
	return hash
})

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Authenticate checks credentials and, when enabled, the TOTP code. Unknown
// users, inactive users and wrong passwords are indistinguishable.
func (s *Service) Authenticate(ctx context.Context, email, password, code string) (User, error) {
	user, creds, err := s.Store.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			_ = checkPassword(dummyHash(), password)
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if checkPassword(creds.PasswordHash, password) != nil || !user.Active() {
		return User{}, ErrInvalidCredentials
	}
	if user.TwoFactorEnabled {
		if strings.TrimSpace(code) == "" {
			return User{}, ErrTwoFactorRequired
		}
		secret, err := s.Crypto.OpenString(creds.TwoFactorSecret)
		if err != nil || !totp.Validate(strings.TrimSpace(code), secret) {
			return User{}, ErrTwoFactorInvalid
		}
	}
	now := s.Now()
	updated, err := s.Store.Update(ctx, user.ID, func(u *User) error {
		u.LastLoginAt = &now
		return nil
	})
	if err != nil {
		return User{}, err
	}
	return updated, nil
}

func (s *Service) Get(ctx context.Context, id string) (User, error) {
	return s.Store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.Store.List(ctx)
}

func (s *Service) Create(ctx context.Context, actor auth.Identity, in CreateInput) (User, error) {
	role := auth.NormalizeRole(in.Role)
	if role == "" {
		role = auth.RoleEmployee
	}
	if role == auth.RoleAdmin && !actor.IsAdmin() {
		return User{}, ErrAdminOnly
	}
	password := in.Password
	if password == "" {
		password = s.DefaultPassword
	}
	if issues := auth.PasswordIssues(password, s.minPasswordLength(ctx)); len(issues) > 0 && in.Password != "" {
		return User{}, apperror.FieldError("password", strings.Join(issues, "; "))
	}
	managerID := strings.TrimSpace(in.ManagerID)
	if managerID != "" {
		if _, err := s.Store.Get(ctx, managerID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return User{}, apperror.FieldError("managerId", "must reference an existing user")
			}
			return User{}, err
		}
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return User{}, err
	}
	now := s.Now()
	user := User{
		Email:            NormalizeEmail(in.Email),
		Name:             strings.TrimSpace(in.Name),
		Role:             role,
		Department:       strings.TrimSpace(in.Department),
		Position:         strings.TrimSpace(in.Position),
		ManagerID:        managerID,
		Phone:            strings.TrimSpace(in.Phone),
		Address:          strings.TrimSpace(in.Address),
		StartDate:        strings.TrimSpace(in.StartDate),
		Status:           StatusActive,
		OnboardingStatus: onboardingPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	return s.Store.Create(ctx, user, Credentials{PasswordHash: hash})
}

func (s *Service) UpdateProfile(ctx context.Context, actor auth.Identity, patch ProfilePatch) (User, error) {
	return s.Store.Update(ctx, actor.UserID, func(u *User) error {
		if patch.Name != nil {
			u.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Phone != nil {
			u.Phone = strings.TrimSpace(*patch.Phone)
		}
		if patch.Address != nil {
			u.Address = strings.TrimSpace(*patch.Address)
		}
		if patch.Avatar != nil {
			u.Avatar = strings.TrimSpace(*patch.Avatar)
		}
		u.UpdatedAt = s.Now()
		return nil
	})
}

func (s *Service) UpdateEmployee(ctx context.Context, actor auth.Identity, id string, patch EmployeePatch) (User, error) {
	current, err := s.Store.Get(ctx, id)
	if err != nil {
		return User{}, err
	}
	if patch.Role != nil {
		next := auth.NormalizeRole(*patch.Role)
		if (next == auth.RoleAdmin || current.Role == auth.RoleAdmin) && next != current.Role && !actor.IsAdmin() {
			return User{}, ErrAdminOnly
		}
	}
	if current.Role == auth.RoleAdmin && !actor.IsAdmin() {
		return User{}, ErrAdminOnly
	}
	if patch.ManagerID != nil {
		if err := s.validateManager(ctx, id, strings.TrimSpace(*patch.ManagerID)); err != nil {
			return User{}, err
		}
	}
	return s.Store.Update(ctx, id, func(u *User) error {
		apply := func(dst *string, src *string) {
			if src != nil {
				*dst = strings.TrimSpace(*src)
			}
		}
		apply(&u.Name, patch.Name)
		apply(&u.Department, patch.Department)
		apply(&u.Position, patch.Position)
		apply(&u.ManagerID, patch.ManagerID)
		apply(&u.Phone, patch.Phone)
		apply(&u.Address, patch.Address)
		apply(&u.StartDate, patch.StartDate)
		apply(&u.Status, patch.Status)
		if patch.Email != nil {
			u.Email = NormalizeEmail(*patch.Email)
		}
		if patch.Role != nil {
			u.Role = auth.NormalizeRole(*patch.Role)
		}
		u.UpdatedAt = s.Now()
		return nil
	})
}

// validateManager rejects unknown managers, self-management and reporting
// cycles.
func (s *Service) validateManager(ctx context.Context, userID, managerID string) error {
	if managerID == "" {
		return nil
	}
	if managerID == userID {
		return apperror.FieldError("managerId", "an employee cannot manage themselves")
	}
	all, err := s.Store.List(ctx)
	if err != nil {
		return err
	}
	byID := make(map[string]User, len(all))
	for _, u := range all {
		byID[u.ID] = u
	}
	if _, ok := byID[managerID]; !ok {
		return apperror.FieldError("managerId", "must reference an existing user")
	}
	cursor := managerID
	for depth := 0; cursor != "" && depth < maxManagerDepth; depth++ {
		if cursor == userID {
			return apperror.FieldError("managerId", "would create a reporting cycle")
		}
		cursor = byID[cursor].ManagerID
	}
	return nil
}

// Delete deactivates the account when HR asks and removes it when an admin
// asks. The boolean reports whether the record was removed.
func (s *Service) Delete(ctx context.Context, actor auth.Identity, id string) (bool, error) {
	if id == actor.UserID {
		return false, ErrSelfDelete
	}
	target, err := s.Store.Get(ctx, id)
	if err != nil {
		return false, err
	}
	if actor.IsAdmin() {
		return true, s.Store.Delete(ctx, id)
	}
	if target.Role == auth.RoleAdmin {
		return false, ErrAdminOnly
	}
	_, err = s.Store.Update(ctx, id, func(u *User) error {
		u.Status = StatusInactive
		u.UpdatedAt = s.Now()
		return nil
	})
	return false, err
}

func (s *Service) ChangePassword(ctx context.Context, actor auth.Identity, in ChangePasswordInput) error {
	creds, err := s.Store.Credentials(ctx, actor.UserID)
	if err != nil {
		return err
	}
	if checkPassword(creds.PasswordHash, in.CurrentPassword) != nil {
		return ErrWrongPassword
	}
	if issues := auth.PasswordIssues(in.NewPassword, s.minPasswordLength(ctx)); len(issues) > 0 {
		return apperror.FieldError("newPassword", strings.Join(issues, "; "))
	}
	if in.NewPassword == in.CurrentPassword {
		return apperror.FieldError("newPassword", "must differ from the current password")
	}
	hash, err := auth.HashPassword(in.NewPassword)
	if err != nil {
		return err
	}
	return s.Store.SetPassword(ctx, actor.UserID, hash)
}

// SetupTwoFactor issues a fresh TOTP secret. The secret only takes effect once
// ToggleTwoFactor confirms a code generated from it.
func (s *Service) SetupTwoFactor(ctx context.Context, actor auth.Identity) (TwoFactorSetup, error) {
	if !s.Crypto.Configured() {
		return TwoFactorSetup{}, ErrTwoFactorDisabled
	}
	user, err := s.Store.Get(ctx, actor.UserID)
	if err != nil {
		return TwoFactorSetup{}, err
	}
	if user.TwoFactorEnabled {
		return TwoFactorSetup{}, apperror.Validation("mfa_enabled", "disable two-factor authentication before re-enrolling")
	}
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: user.Email,
		Period:      30,
		Digits:      otp.DigitsSix,
	})
	if err != nil {
		return TwoFactorSetup{}, err
	}
	sealed, err := s.Crypto.SealString(key.Secret())
	if err != nil {
		return TwoFactorSetup{}, err
	}
	if err := s.Store.SetTwoFactor(ctx, actor.UserID, sealed, false); err != nil {
		return TwoFactorSetup{}, err
	}
	return TwoFactorSetup{Secret: key.Secret(), OtpauthURL: key.URL()}, nil
}

// ToggleTwoFactor flips two-factor authentication after verifying a code from
// the enrolled secret and returns the new state.
func (s *Service) ToggleTwoFactor(ctx context.Context, actor auth.Identity, code string) (bool, error) {
	if !s.Crypto.Configured() {
		return false, ErrTwoFactorDisabled
	}
	user, err := s.Store.Get(ctx, actor.UserID)
	if err != nil {
		return false, err
	}
	creds, err := s.Store.Credentials(ctx, actor.UserID)
	if err != nil {
		return false, err
	}
	if len(creds.TwoFactorSecret) == 0 {
		return false, ErrTwoFactorSetup
	}
	secret, err := s.Crypto.OpenString(creds.TwoFactorSecret)
	if err != nil {
		return false, ErrTwoFactorSetup
	}
	if !totp.Validate(strings.TrimSpace(code), secret) {
		return false, ErrTwoFactorCode
	}
	enabled := !user.TwoFactorEnabled
	stored := creds.TwoFactorSecret
	if !enabled {
		stored = nil
	}
	if err := s.Store.SetTwoFactor(ctx, actor.UserID, stored, enabled); err != nil {
		return false, err
	}
	return enabled, nil
}

func (s *Service) minPasswordLength(ctx context.Context) int {
	if s.Passwords == nil {
		return auth.DefaultPasswordMinLength
	}
	if n := s.Passwords.PasswordMinLength(ctx); n > 0 {
		return n
	}
	return auth.DefaultPasswordMinLength
}

// CurrentIdentity returns the identity the account holds now. Removed and
// deactivated accounts yield ErrAccountInactive.
func (s *Service) CurrentIdentity(ctx context.Context, userID string) (auth.Identity, error) {
	user, err := s.Store.Get(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return auth.Identity{}, ErrAccountInactive
	}
	if err != nil {
		return auth.Identity{}, err
	}
	if !user.Active() {
		return auth.Identity{}, ErrAccountInactive
	}
	return auth.Identity{UserID: user.ID, Email: user.Email, Role: user.Role}, nil
}
