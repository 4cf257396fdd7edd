package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/shopdesk/commerce-api/internal/core/domain"
	"github.com/shopdesk/commerce-api/internal/core/ports"
)

// AuthOptions tunes AuthService.
type AuthOptions struct {
	BcryptCost      int
	DefaultRoleSlug string
}

// AuthService implements registration, login, password changes and session
// resolution.
type AuthService struct {
	users   ports.UserRepository
	roles   ports.RoleRepository
	tokens  *TokenIssuer
	limiter ports.LoginLimiter
	audit   ports.AuditRecorder
	log     zerolog.Logger
	opts    AuthOptions

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(
	users ports.UserRepository,
	roles ports.RoleRepository,
	tokens *TokenIssuer,
	limiter ports.LoginLimiter,
	audit ports.AuditRecorder,
	log zerolog.Logger,
	opts AuthOptions,
) *AuthService {
	if opts.BcryptCost == 0 {
		opts.BcryptCost = DefaultBcryptCost
	}
	if opts.DefaultRoleSlug == "" {
		opts.DefaultRoleSlug = domain.StaffRoleSlug
	}
	if limiter == nil {
		limiter = noopLimiter{}
	}
	if audit == nil {
		audit = noopRecorder{}
	}
	return &AuthService{
		users:   users,
		roles:   roles,
		tokens:  tokens,
		limiter: limiter,
		audit:   audit,
		log:     log,
		opts:    opts,
	}
}

// Register creates a storefront account with the default role and logs it in.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (string, *domain.User, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return "", nil, fmt.Errorf("%w: name, email and password are required", domain.ErrInvalidInput)
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return "", nil, domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return "", nil, fmt.Errorf("register: %w", err)
	}

	role, err := s.defaultRole(ctx)
	if err != nil {
		return "", nil, err
	}

	hash, err := hashPassword(in.Password, s.opts.BcryptCost)
	if err != nil {
		return "", nil, err
	}

	now := time.Now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		RoleID:       role.ID,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return "", nil, err
	}

	token, err := s.tokens.Issue(created.ID)
	if err != nil {
		return "", nil, err
	}

	s.audit.Enqueue(domain.AuthEvent{
		Type:      domain.EventUserRegistered,
		ActorID:   created.ID,
		SubjectID: created.ID,
		Email:     created.Email,
		IP:        in.IP,
	})
	s.log.Info().Str("user_id", created.ID).Str("role", role.Slug).Msg("user registered")

	return token, created, nil
}

// defaultRole picks the role handed out on self-registration: the configured
// slug, otherwise any role that is not the system admin role.
func (s *AuthService) defaultRole(ctx context.Context) (*domain.Role, error) {
	role, err := s.roles.FindBySlug(ctx, s.opts.DefaultRoleSlug)
	switch {
	case err == nil && !role.IsSystemAdmin:
		return role, nil
	case err != nil && !errors.Is(err, domain.ErrRoleNotFound):
		return nil, fmt.Errorf("default role: %w", err)
	}

	role, err = s.roles.FindAssignable(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrRoleNotFound) {
			s.log.Error().Str("slug", s.opts.DefaultRoleSlug).Msg("no assignable role exists, seed the roles collection")
			return nil, fmt.Errorf("%w: no assignable role exists", domain.ErrConfiguration)
		}
		return nil, fmt.Errorf("default role: %w", err)
	}
	return role, nil
}

// Login verifies credentials and returns a token plus the user with its role.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (string, *domain.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	allowed, err := s.limiter.Allow(ctx, email)
	if err != nil {
		s.log.Warn().Err(err).Msg("login limiter unavailable, allowing attempt")
		allowed = true
	}
	if !allowed {
		s.audit.Enqueue(domain.AuthEvent{Type: domain.EventLoginThrottled, Email: email, IP: in.IP})
		return "", nil, domain.ErrTooManyAttempts
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Burn the same bcrypt time as a real comparison.
			passwordMatches(s.timingHash(), in.Password)
			s.loginFailed(ctx, email, "", in.IP, "unknown email")
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("login: %w", err)
	}

	if !passwordMatches(user.PasswordHash, in.Password) {
		s.loginFailed(ctx, email, user.ID, in.IP, "wrong password")
		return "", nil, domain.ErrInvalidCredentials
	}

	if !user.IsActive {
		s.audit.Enqueue(domain.AuthEvent{
			Type:      domain.EventLoginFailed,
			SubjectID: user.ID,
			Email:     email,
			Detail:    "account disabled",
			IP:        in.IP,
		})
		return "", nil, domain.ErrAccountDisabled
	}

	if err := s.limiter.Reset(ctx, email); err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to reset login limiter")
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, err
	}

	s.audit.Enqueue(domain.AuthEvent{
		Type:      domain.EventLoginSucceeded,
		ActorID:   user.ID,
		SubjectID: user.ID,
		Email:     email,
		IP:        in.IP,
	})
	return token, user, nil
}

func (s *AuthService) loginFailed(ctx context.Context, email, userID, ip, reason string) {
	if err := s.limiter.RecordFailure(ctx, email); err != nil {
		s.log.Warn().Err(err).Msg("failed to record login failure")
	}
	s.audit.Enqueue(domain.AuthEvent{
		Type:      domain.EventLoginFailed,
		SubjectID: userID,
		Email:     email,
		Detail:    reason,
		IP:        ip,
	})
}

func (s *AuthService) timingHash() string {
	s.dummyOnce.Do(func() {
		hash, err := hashPassword("timing-equaliser", s.opts.BcryptCost)
		if err != nil {
			s.log.Warn().Err(err).Msg("failed to build timing hash")
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

// ChangePassword replaces the password of an authenticated user after
// checking the current one.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !passwordMatches(user.PasswordHash, currentPassword) {
		return domain.ErrWrongPassword
	}

	hash, err := hashPassword(newPassword, s.opts.BcryptCost)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("change password: %w", err)
	}

	s.audit.Enqueue(domain.AuthEvent{
		Type:      domain.EventPasswordChanged,
		ActorID:   user.ID,
		SubjectID: user.ID,
		Email:     user.Email,
	})
	return nil
}

// UpdateProfile lets a user edit their own display name and avatar.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, in ports.UpdateProfileInput) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", domain.ErrInvalidInput)
		}
		user.Name = name
	}
	if in.AvatarURL != nil {
		user.AvatarURL = strings.TrimSpace(*in.AvatarURL)
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return s.users.FindByID(ctx, user.ID)
}

// Resolve verifies a bearer token and loads the acting user with the current
// state of their role. Nothing is cached: a role edit or a disablement takes
// effect on the next request.
func (s *AuthService) Resolve(ctx context.Context, token string) (*domain.User, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("resolve session: %w", err)
	}
	if !user.IsActive {
		return nil, domain.ErrAccountDisabled
	}
	return user, nil
}

type noopLimiter struct{}

func (noopLimiter) Allow(context.Context, string) (bool, error) { return true, nil }
func (noopLimiter) RecordFailure(context.Context, string) error { return nil }
func (noopLimiter) Reset(context.Context, string) error         { return nil }

type noopRecorder struct{}

func (noopRecorder) Enqueue(domain.AuthEvent) {}
