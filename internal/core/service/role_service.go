package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/shopdesk/commerce-api/internal/core/domain"
	"github.com/shopdesk/commerce-api/internal/core/ports"
)

// RoleService manages roles. Submitted permission sets are checked against the
// registry, so a role can only hold grantable permissions.
//
// Concurrent edits of the same role are last-write-wins.
type RoleService struct {
	roles    ports.RoleRepository
	registry *domain.Registry
	audit    ports.AuditRecorder
	log      zerolog.Logger
}

func NewRoleService(roles ports.RoleRepository, registry *domain.Registry, audit ports.AuditRecorder, log zerolog.Logger) *RoleService {
	if audit == nil {
		audit = noopRecorder{}
	}
	return &RoleService{roles: roles, registry: registry, audit: audit, log: log}
}

func (s *RoleService) ListRoles(ctx context.Context) ([]*domain.Role, error) {
	return s.roles.List(ctx)
}

func (s *RoleService) GetRole(ctx context.Context, id string) (*domain.Role, error) {
	return s.roles.FindByID(ctx, id)
}

// CreateRole stores a new role. The slug is derived from the name; the admin
// slug is reserved for the seeded system admin role.
func (s *RoleService) CreateRole(ctx context.Context, actor *domain.User, in ports.CreateRoleInput) (*domain.Role, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: role name is required", domain.ErrInvalidInput)
	}
	slug, err := s.assignableSlug(name)
	if err != nil {
		return nil, err
	}
	perms, err := s.registry.Normalize(in.Permissions)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.roles.Create(ctx, &domain.Role{
		Name:        name,
		Slug:        slug,
		Description: strings.TrimSpace(in.Description),
		Permissions: perms,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, err
	}

	s.audit.Enqueue(domain.AuthEvent{
		Type:      domain.EventRoleCreated,
		ActorID:   actorID(actor),
		SubjectID: created.ID,
		Detail:    created.Slug,
	})
	s.log.Info().Str("role_id", created.ID).Str("slug", created.Slug).Str("actor_id", actorID(actor)).Msg("role created")
	return created, nil
}

// UpdateRole applies the non-nil fields of in. Renaming does not move the
// slug; only an explicit slug change does, and never for the admin role.
func (s *RoleService) UpdateRole(ctx context.Context, actor *domain.User, id string, in ports.UpdateRoleInput) (*domain.Role, error) {
	role, err := s.roles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var changed []string
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: role name cannot be empty", domain.ErrInvalidInput)
		}
		role.Name = name
		changed = append(changed, "name")
	}
	if in.Slug != nil {
		slug := domain.Slugify(*in.Slug)
		if slug != role.Slug {
			if role.IsSystemAdmin {
				return nil, fmt.Errorf("%w: the admin role slug cannot change", domain.ErrProtectedResource)
			}
			if slug, err = s.assignableSlug(slug); err != nil {
				return nil, err
			}
			role.Slug = slug
			changed = append(changed, "slug")
		}
	}
	if in.Description != nil {
		role.Description = strings.TrimSpace(*in.Description)
		changed = append(changed, "description")
	}
	if in.Permissions != nil {
		perms, err := s.registry.Normalize(*in.Permissions)
		if err != nil {
			return nil, err
		}
		role.Permissions = perms
		changed = append(changed, "permissions")
	}
	role.UpdatedAt = time.Now().UTC()

	if err := s.roles.Update(ctx, role); err != nil {
		return nil, err
	}

	s.audit.Enqueue(domain.AuthEvent{
		Type:      domain.EventRoleUpdated,
		ActorID:   actorID(actor),
		SubjectID: role.ID,
		Detail:    strings.Join(changed, ","),
	})
	return role, nil
}

// DeleteRole removes a role. The system admin role is never deletable, not
// even by an admin. Users still pointing at a deleted role resolve to "no
// role" and are denied everything.
func (s *RoleService) DeleteRole(ctx context.Context, actor *domain.User, id string) error {
	role, err := s.roles.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if role.IsSystemAdmin {
		return fmt.Errorf("%w: the admin role cannot be deleted", domain.ErrProtectedResource)
	}
	if err := s.roles.Delete(ctx, role.ID); err != nil {
		return err
	}

	s.audit.Enqueue(domain.AuthEvent{
		Type:      domain.EventRoleDeleted,
		ActorID:   actorID(actor),
		SubjectID: role.ID,
		Detail:    role.Slug,
	})
	s.log.Info().Str("role_id", role.ID).Str("slug", role.Slug).Str("actor_id", actorID(actor)).Msg("role deleted")
	return nil
}

// PermissionCatalog exposes the registry for the admin checkbox matrix.
func (s *RoleService) PermissionCatalog() map[string]map[string]string {
	return s.registry.Catalog()
}

func (s *RoleService) assignableSlug(source string) (string, error) {
	slug := domain.Slugify(source)
	if slug == "" {
		return "", fmt.Errorf("%w: role name must contain letters or digits", domain.ErrInvalidInput)
	}
	if slug == domain.AdminRoleSlug {
		return "", fmt.Errorf("%w: slug %q is reserved", domain.ErrProtectedResource, slug)
	}
	return slug, nil
}

func actorID(actor *domain.User) string {
	if actor == nil {
		return ""
	}
	return actor.ID
}
