package domain

import "fmt"

// Authorize decides whether role may perform the operation guarded by
// permission. It has no side effects.
//
//  1. no role            -> ErrForbidden
//  2. system admin role  -> allowed, stored permissions are ignored
//  3. otherwise          -> allowed only if the permission is in the role's set
func Authorize(role *Role, permission string) error {
	if role == nil {
		return fmt.Errorf("%w: no role assigned", ErrForbidden)
	}
	if role.IsSystemAdmin {
		return nil
	}
	if role.HasPermission(permission) {
		return nil
	}
	return fmt.Errorf("%w: missing permission %s", ErrForbidden, permission)
}

// RequireAdmin allows only the system admin role, regardless of permissions.
func RequireAdmin(role *Role) error {
	if role == nil || !role.IsSystemAdmin {
		return fmt.Errorf("%w: admin role required", ErrForbidden)
	}
	return nil
}
