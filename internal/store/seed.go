package store

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"hris/internal/domain/access"
	"hris/internal/domain/auth"
	"hris/internal/domain/integrations"
	"hris/internal/domain/onboarding"
	"hris/internal/domain/users"
	"hris/internal/platform/config"
)

// Seed fills empty catalogues with the built-in roles, permissions and
// integrations and creates the first admin account. Populated collections
// are left alone, so it is safe to run on every start.
func Seed(ctx context.Context, s *Store, cfg config.Config) error {
	now := time.Now().UTC()
	err := s.db.Update(ctx, func(state *State) error {
		if len(state.Permissions) == 0 {
			for _, perm := range auth.DefaultPermissions() {
				state.Permissions = append(state.Permissions, access.Permission{
					ID:       uuid.NewString(),
					Name:     perm.Key(),
					Resource: perm.Resource,
					Action:   perm.Action,
				})
			}
		}
		if len(state.Roles) == 0 {
			for _, role := range auth.BuiltinRoles {
				state.Roles = append(state.Roles, access.Role{
					ID:          uuid.NewString(),
					Name:        role,
					Description: auth.RoleDescription(role),
					Permissions: auth.RolePermissionKeys(role),
					System:      true,
					CreatedAt:   now,
					UpdatedAt:   now,
				})
			}
		}
		if len(state.Integrations) == 0 {
			state.Integrations = integrations.Defaults()
		}
		return nil
	})
	if err != nil {
		return err
	}
	return seedAdmin(ctx, s, cfg, now)
}

func seedAdmin(ctx context.Context, s *Store, cfg config.Config, now time.Time) error {
	if cfg.SeedAdminEmail == "" || cfg.SeedAdminPassword == "" {
		slog.Warn("seed admin skipped, SEED_ADMIN_EMAIL and SEED_ADMIN_PASSWORD must both be set")
		return nil
	}
	_, _, err := s.Users().FindByEmail(ctx, cfg.SeedAdminEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, users.ErrNotFound) {
		return err
	}
	hash, err := auth.HashPassword(cfg.SeedAdminPassword)
	if err != nil {
		return err
	}
	admin, err := s.Users().Create(ctx, users.User{
		Email:              cfg.SeedAdminEmail,
		Name:               cfg.SeedAdminName,
		Role:               auth.RoleAdmin,
		Status:             users.StatusActive,
		StartDate:          now.Format(time.DateOnly),
		OnboardingStatus:   onboarding.StatusCompleted,
		OnboardingProgress: 100,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, users.Credentials{PasswordHash: hash})
	if err != nil {
		return err
	}
	slog.Info("seeded admin user", "email", admin.Email, "employeeId", admin.EmployeeID)
	return nil
}
