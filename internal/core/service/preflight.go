package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopdesk/commerce-api/internal/core/domain"
	"github.com/shopdesk/commerce-api/internal/core/ports"
)

// CheckRoleSeed verifies the roles collection can serve the access model: the
// system admin role exists and at least one other role is available for
// self-registration. Any gap is reported as domain.ErrConfiguration.
func CheckRoleSeed(ctx context.Context, roles ports.RoleRepository) error {
	admin, err := roles.FindBySlug(ctx, domain.AdminRoleSlug)
	switch {
	case errors.Is(err, domain.ErrRoleNotFound):
		return fmt.Errorf("%w: admin role %q is missing, run the seeder", domain.ErrConfiguration, domain.AdminRoleSlug)
	case err != nil:
		return fmt.Errorf("check role seed: %w", err)
	case !admin.IsSystemAdmin:
		return fmt.Errorf("%w: role %q is not flagged as system admin", domain.ErrConfiguration, domain.AdminRoleSlug)
	}

	if _, err := roles.FindAssignable(ctx); err != nil {
		if errors.Is(err, domain.ErrRoleNotFound) {
			return fmt.Errorf("%w: no assignable role for registration, run the seeder", domain.ErrConfiguration)
		}
		return fmt.Errorf("check role seed: %w", err)
	}
	return nil
}
