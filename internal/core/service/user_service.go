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

// UserService implements back-office user administration. Route guards decide
// who may call each operation; the service additionally stops non-admins from
// touching admin accounts or handing out the admin role.
type UserService struct {
	users      ports.UserRepository
	roles      ports.RoleRepository
	audit      ports.AuditRecorder
	log        zerolog.Logger
	bcryptCost int
}

func NewUserService(users ports.UserRepository, roles ports.RoleRepository, audit ports.AuditRecorder, log zerolog.Logger, bcryptCost int) *UserService {
	if audit == nil {
		audit = noopRecorder{}
	}
	if bcryptCost == 0 {
		bcryptCost = DefaultBcryptCost
	}
	return &UserService{users: users, roles: roles, audit: audit, log: log, bcryptCost: bcryptCost}
}

func (s *UserService) ListUsers(ctx context.Context, filter ports.ListUsersFilter) ([]*domain.User, error) {
	return s.users.List(ctx, filter)
}

func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *UserService) CreateUser(ctx context.Context, actor *domain.User, in ports.CreateUserInput) (*domain.User, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	if name == "" || email == "" {
		return nil, fmt.Errorf("%w: name and email are required", domain.ErrInvalidInput)
	}

	role, err := s.roles.FindByID(ctx, in.RoleID)
	if err != nil {
		return nil, err
	}
	if role.IsSystemAdmin && !actor.IsSystemAdmin() {
		return nil, fmt.Errorf("%w: only an admin can grant the admin role", domain.ErrForbidden)
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("create user: %w", err)
	}

	hash, err := hashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		RoleID:       role.ID,
		AvatarURL:    strings.TrimSpace(in.AvatarURL),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	s.record(actor, domain.EventUserCreated, created, role.Slug)
	return created, nil
}

func (s *UserService) UpdateUser(ctx context.Context, actor *domain.User, id string, in ports.UpdateUserInput) (*domain.User, error) {
	user, err := s.editableUser(ctx, actor, id)
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
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if email == "" {
			return nil, fmt.Errorf("%w: email cannot be empty", domain.ErrInvalidInput)
		}
		if email != user.Email {
			if _, err := s.users.FindByEmail(ctx, email); err == nil {
				return nil, domain.ErrDuplicateEmail
			} else if !errors.Is(err, domain.ErrUserNotFound) {
				return nil, fmt.Errorf("update user: %w", err)
			}
			user.Email = email
		}
	}
	if in.AvatarURL != nil {
		user.AvatarURL = strings.TrimSpace(*in.AvatarURL)
	}

	return s.save(ctx, actor, user, domain.EventUserUpdated, "")
}

// AssignRole points a user at another role. Changing your own role is not
// allowed, which also keeps an admin from locking themselves out.
func (s *UserService) AssignRole(ctx context.Context, actor *domain.User, id, roleID string) (*domain.User, error) {
	if actor != nil && actor.ID == id {
		return nil, fmt.Errorf("%w: you cannot change your own role", domain.ErrForbidden)
	}
	user, err := s.editableUser(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	role, err := s.roles.FindByID(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if role.IsSystemAdmin && !actor.IsSystemAdmin() {
		return nil, fmt.Errorf("%w: only an admin can grant the admin role", domain.ErrForbidden)
	}

	user.RoleID = role.ID
	return s.save(ctx, actor, user, domain.EventUserRoleChanged, role.Slug)
}

// SetActive enables or disables an account. A disabled user is rejected on
// their very next request even though their token is still valid.
func (s *UserService) SetActive(ctx context.Context, actor *domain.User, id string, active bool) (*domain.User, error) {
	if actor != nil && actor.ID == id {
		return nil, fmt.Errorf("%w: you cannot change your own status", domain.ErrForbidden)
	}
	user, err := s.editableUser(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	user.IsActive = active
	detail := "disabled"
	if active {
		detail = "enabled"
	}
	return s.save(ctx, actor, user, domain.EventUserStatusChanged, detail)
}

// DeleteUser hard-deletes an account. Holders of the admin role can never be
// deleted.
func (s *UserService) DeleteUser(ctx context.Context, actor *domain.User, id string) error {
	if actor != nil && actor.ID == id {
		return fmt.Errorf("%w: you cannot delete yourself", domain.ErrForbidden)
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if user.IsSystemAdmin() {
		return fmt.Errorf("%w: admin accounts cannot be deleted", domain.ErrProtectedResource)
	}
	if err := s.users.Delete(ctx, user.ID); err != nil {
		return err
	}

	s.record(actor, domain.EventUserDeleted, user, "")
	s.log.Info().Str("user_id", user.ID).Str("actor_id", actorID(actor)).Msg("user deleted")
	return nil
}

func (s *UserService) editableUser(ctx context.Context, actor *domain.User, id string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.IsSystemAdmin() && !actor.IsSystemAdmin() {
		return nil, fmt.Errorf("%w: only an admin can modify an admin account", domain.ErrForbidden)
	}
	return user, nil
}

func (s *UserService) save(ctx context.Context, actor, user *domain.User, event domain.AuthEventType, detail string) (*domain.User, error) {
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	updated, err := s.users.FindByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	s.record(actor, event, updated, detail)
	return updated, nil
}

func (s *UserService) record(actor *domain.User, event domain.AuthEventType, subject *domain.User, detail string) {
	s.audit.Enqueue(domain.AuthEvent{
		Type:      event,
		ActorID:   actorID(actor),
		SubjectID: subject.ID,
		Email:     subject.Email,
		Detail:    detail,
	})
}
