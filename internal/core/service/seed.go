package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/shopdesk/commerce-api/internal/core/domain"
	"github.com/shopdesk/commerce-api/internal/core/ports"
)

// RoleSeeder upserts a role by slug. The system admin flag is written as given.
type RoleSeeder interface {
	Seed(ctx context.Context, role *domain.Role) (*domain.Role, error)
}

// AdminAccount is the first back-office login created by the seeder.
type AdminAccount struct {
	Name     string
	Email    string
	Password string
}

// DefaultRoles are the roles every installation starts with.
func DefaultRoles() []*domain.Role {
	return []*domain.Role{
		{
			Name:          "Super Admin",
			Slug:          domain.AdminRoleSlug,
			Description:   "Full access to every module",
			Permissions:   []string{},
			IsSystemAdmin: true,
		},
		{
			Name:        "Staff",
			Slug:        domain.StaffRoleSlug,
			Description: "Default role for new accounts",
			Permissions: []string{domain.PermDashboardView, domain.PermProductsView, domain.PermOrdersView},
		},
	}
}

// SeedAccess installs the default roles and, when account.Email is set, an
// admin user. Re-running it leaves existing roles and users untouched.
func SeedAccess(ctx context.Context, roles RoleSeeder, users ports.UserRepository, account AdminAccount, bcryptCost int, log zerolog.Logger) error {
	var admin *domain.Role
	for _, r := range DefaultRoles() {
		seeded, err := roles.Seed(ctx, r)
		if err != nil {
			return fmt.Errorf("seed role %s: %w", r.Slug, err)
		}
		if seeded.IsSystemAdmin {
			admin = seeded
		}
		log.Info().Str("slug", seeded.Slug).Str("role_id", seeded.ID).Msg("role ready")
	}

	email := normalizeEmail(account.Email)
	if email == "" {
		return nil
	}

	if existing, err := users.FindByEmail(ctx, email); err == nil {
		log.Info().Str("user_id", existing.ID).Msg("admin account already exists")
		return nil
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("seed admin: %w", err)
	}

	if admin == nil {
		return fmt.Errorf("%w: seeded roles carry no system admin role", domain.ErrConfiguration)
	}
	hash, err := hashPassword(account.Password, bcryptCost)
	if err != nil {
		return err
	}

	name := strings.TrimSpace(account.Name)
	if name == "" {
		name = "Administrator"
	}
	now := time.Now().UTC()
	created, err := users.Create(ctx, &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		RoleID:       admin.ID,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	log.Info().Str("user_id", created.ID).Msg("admin account created")
	return nil
}
