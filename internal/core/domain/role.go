package domain

import (
	"slices"
	"time"
)

const (
	// AdminRoleSlug is the slug of the seeded system admin role.
	AdminRoleSlug = "admin"
	// StaffRoleSlug is the default role handed out on self-registration.
	StaffRoleSlug = "staff"
)

// Role is a named bundle of permission strings.
//
// IsSystemAdmin marks the single role that bypasses every permission check
// and can never be deleted. It is only ever set by the seeder.
type Role struct {
	ID            string
	Name          string
	Slug          string
	Description   string
	Permissions   []string
	IsSystemAdmin bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasPermission reports whether permission is literally present in the stored set.
func (r *Role) HasPermission(permission string) bool {
	if r == nil {
		return false
	}
	return slices.Contains(r.Permissions, permission)
}
