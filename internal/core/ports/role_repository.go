package ports

import (
	"context"

	"github.com/shopdesk/commerce-api/internal/core/domain"
)

// RoleRepository persists roles.
type RoleRepository interface {
	List(ctx context.Context) ([]*domain.Role, error)
	FindByID(ctx context.Context, id string) (*domain.Role, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Role, error)
	// FindAssignable returns any role that is not the system admin role,
	// oldest first. Used as the self-registration fallback.
	FindAssignable(ctx context.Context) (*domain.Role, error)
	Create(ctx context.Context, role *domain.Role) (*domain.Role, error)
	// Update writes name, slug, description and permissions. It never touches
	// the system admin flag.
	Update(ctx context.Context, role *domain.Role) error
	Delete(ctx context.Context, id string) error
}
