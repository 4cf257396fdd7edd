package ports

import (
	"context"

	"github.com/shopdesk/commerce-api/internal/core/domain"
)

// ListUsersFilter narrows ListUsers. Zero values mean "no filter".
type ListUsersFilter struct {
	RoleID string
	Active *bool
}

// UserRepository persists users. Every read returns the user with its role
// joined in; a dangling role reference yields User.Role == nil.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, filter ListUsersFilter) ([]*domain.User, error)
	// Update writes name, email, avatar, role reference and active flag.
	Update(ctx context.Context, user *domain.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	Delete(ctx context.Context, id string) error
}
