package domain

import "time"

// User models an authenticated actor of the back office or storefront.
//
// RoleID is the persisted reference; Role is the joined document and is nil
// when the reference dangles.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	RoleID       string
	Role         *Role
	AvatarURL    string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsSystemAdmin reports whether the user currently holds the system admin role.
func (u *User) IsSystemAdmin() bool {
	return u != nil && u.Role != nil && u.Role.IsSystemAdmin
}
