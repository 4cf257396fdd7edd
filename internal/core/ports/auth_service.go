package ports

import (
	"context"

	"github.com/shopdesk/commerce-api/internal/core/domain"
)

// RegisterInput is the self-registration payload.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	IP       string
}

// LoginInput carries credentials plus request metadata used for throttling
// and auditing.
type LoginInput struct {
	Email    string
	Password string
	IP       string
}

// UpdateProfileInput holds optional self-service profile changes.
type UpdateProfileInput struct {
	Name      *string
	AvatarURL *string
}

// AuthService covers credential verification and token issuance.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (string, *domain.User, error)
	Login(ctx context.Context, input LoginInput) (string, *domain.User, error)
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
	UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*domain.User, error)
}

// SessionResolver turns a bearer token into the acting user, role joined.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*domain.User, error)
}

// LoginLimiter throttles repeated failed logins for the same account.
type LoginLimiter interface {
	Allow(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}
