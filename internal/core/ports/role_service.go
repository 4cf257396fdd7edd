package ports

import (
	"context"

	"github.com/shopdesk/commerce-api/internal/core/domain"
)

// CreateRoleInput is the payload for a new role.
type CreateRoleInput struct {
	Name        string
	Description string
	Permissions []string
}

// UpdateRoleInput carries optional role changes; nil fields are left alone.
type UpdateRoleInput struct {
	Name        *string
	Slug        *string
	Description *string
	Permissions *[]string
}

// RoleService manages the role catalog.
type RoleService interface {
	ListRoles(ctx context.Context) ([]*domain.Role, error)
	GetRole(ctx context.Context, id string) (*domain.Role, error)
	CreateRole(ctx context.Context, actor *domain.User, input CreateRoleInput) (*domain.Role, error)
	UpdateRole(ctx context.Context, actor *domain.User, id string, input UpdateRoleInput) (*domain.Role, error)
	DeleteRole(ctx context.Context, actor *domain.User, id string) error
	PermissionCatalog() map[string]map[string]string
}
