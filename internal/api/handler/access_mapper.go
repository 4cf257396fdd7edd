package handler

import (
	"github.com/shopdesk/commerce-api/internal/core/domain"
	"github.com/shopdesk/commerce-api/internal/core/ports"
)

// --- Domain → Response ---

func toRoleResponse(r *domain.Role) *roleResponse {
	if r == nil {
		return nil
	}
	perms := r.Permissions
	if perms == nil {
		perms = []string{}
	}
	return &roleResponse{
		ID:            r.ID,
		Name:          r.Name,
		Slug:          r.Slug,
		Description:   r.Description,
		Permissions:   perms,
		IsSystemAdmin: r.IsSystemAdmin,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func toRoleResponses(roles []*domain.Role) []*roleResponse {
	out := make([]*roleResponse, 0, len(roles))
	for _, r := range roles {
		out = append(out, toRoleResponse(r))
	}
	return out
}

// toUserResponse never copies the password hash.
func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
		IsActive:  u.IsActive,
		Role:      toRoleResponse(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toUserResponses(users []*domain.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out
}

func toAuditEventResponses(events []*domain.AuthEvent) []auditEventResponse {
	out := make([]auditEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, auditEventResponse{
			ID:         e.ID,
			Type:       string(e.Type),
			ActorID:    e.ActorID,
			SubjectID:  e.SubjectID,
			Email:      e.Email,
			Detail:     e.Detail,
			IP:         e.IP,
			OccurredAt: e.OccurredAt,
		})
	}
	return out
}

// --- Request → Service input ---

func toUpdateRoleInput(req updateRoleRequest) ports.UpdateRoleInput {
	return ports.UpdateRoleInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Permissions: req.Permissions,
	}
}

func toCreateUserInput(req createUserRequest) ports.CreateUserInput {
	return ports.CreateUserInput{
		Name:      req.Name,
		Email:     req.Email,
		Password:  req.Password,
		RoleID:    req.RoleID,
		AvatarURL: req.AvatarURL,
	}
}
