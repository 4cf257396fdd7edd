package ports

import (
	"context"

	"github.com/shopdesk/commerce-api/internal/core/domain"
)

// CreateUserInput is the back-office "create user" payload.
type CreateUserInput struct {
	Name      string
	Email     string
	Password  string
	RoleID    string
	AvatarURL string
}

// UpdateUserInput carries optional profile changes made by an operator.
type UpdateUserInput struct {
	Name      *string
	Email     *string
	AvatarURL *string
}

// UserService is the gated user administration surface.
type UserService interface {
	ListUsers(ctx context.Context, filter ListUsersFilter) ([]*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	CreateUser(ctx context.Context, actor *domain.User, input CreateUserInput) (*domain.User, error)
	UpdateUser(ctx context.Context, actor *domain.User, id string, input UpdateUserInput) (*domain.User, error)
	AssignRole(ctx context.Context, actor *domain.User, id, roleID string) (*domain.User, error)
	SetActive(ctx context.Context, actor *domain.User, id string, active bool) (*domain.User, error)
	DeleteUser(ctx context.Context, actor *domain.User, id string) error
}
