package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/shopdesk/commerce-api/internal/core/domain"
	"github.com/shopdesk/commerce-api/internal/core/ports"
)

func newUserSvc(f *fixture) *UserService {
	return NewUserService(f.users, f.roles, f.audit, zerolog.Nop(), bcrypt.MinCost)
}

func TestUserService_CreateUser(t *testing.T) {
	f := newFixture()
	svc := newUserSvc(f)
	admin := f.addUser("root@shop.test", f.admin, true)

	user, err := svc.CreateUser(context.Background(), admin, ports.CreateUserInput{
		Name:     "Eve",
		Email:    "eve@shop.test",
		Password: testPassword,
		RoleID:   f.editor.ID,
	})
	require.NoError(t, err)
	assert.True(t, user.IsActive)
	require.NotNil(t, user.Role)
	assert.Equal(t, "product-editor", user.Role.Slug)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(testPassword)))
	assert.Equal(t, domain.EventUserCreated, f.audit.last().Type)
}

func TestUserService_CreateUser_Errors(t *testing.T) {
	f := newFixture()
	svc := newUserSvc(f)
	ctx := context.Background()
	manager := f.addUser("manager@shop.test", f.editor, true)

	_, err := svc.CreateUser(ctx, manager, ports.CreateUserInput{Name: "X", Email: "x@shop.test", Password: testPassword, RoleID: "missing"})
	assert.ErrorIs(t, err, domain.ErrRoleNotFound)

	_, err = svc.CreateUser(ctx, manager, ports.CreateUserInput{Name: "X", Email: "manager@shop.test", Password: testPassword, RoleID: f.staff.ID})
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)

	_, err = svc.CreateUser(ctx, manager, ports.CreateUserInput{Name: "X", Email: "x@shop.test", Password: testPassword, RoleID: f.admin.ID})
	assert.ErrorIs(t, err, domain.ErrForbidden, "only an admin hands out the admin role")

	_, err = svc.CreateUser(ctx, manager, ports.CreateUserInput{Name: "", Email: "x@shop.test", Password: testPassword, RoleID: f.staff.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUserService_UpdateUser(t *testing.T) {
	f := newFixture()
	svc := newUserSvc(f)
	ctx := context.Background()
	admin := f.addUser("root@shop.test", f.admin, true)
	target := f.addUser("staff@shop.test", f.staff, true)
	f.addUser("other@shop.test", f.staff, true)

	updated, err := svc.UpdateUser(ctx, admin, target.ID, ports.UpdateUserInput{Name: ptr("Renamed"), Email: ptr("new@shop.test")})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "new@shop.test", updated.Email)

	_, err = svc.UpdateUser(ctx, admin, target.ID, ports.UpdateUserInput{Email: ptr("other@shop.test")})
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)

	_, err = svc.UpdateUser(ctx, admin, "missing", ports.UpdateUserInput{Name: ptr("X")})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserService_NonAdminCannotTouchAdminAccounts(t *testing.T) {
	f := newFixture()
	svc := newUserSvc(f)
	ctx := context.Background()
	admin := f.addUser("root@shop.test", f.admin, true)
	manager := f.addUser("manager@shop.test", f.editor, true)

	_, err := svc.UpdateUser(ctx, manager, admin.ID, ports.UpdateUserInput{Name: ptr("pwned")})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.SetActive(ctx, manager, admin.ID, false)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.AssignRole(ctx, manager, admin.ID, f.staff.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	stored, err := f.users.FindByID(ctx, admin.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsActive)
	assert.True(t, stored.IsSystemAdmin())
}

func TestUserService_AssignRole(t *testing.T) {
	f := newFixture()
	svc := newUserSvc(f)
	ctx := context.Background()
	admin := f.addUser("root@shop.test", f.admin, true)
	manager := f.addUser("manager@shop.test", f.editor, true)
	target := f.addUser("staff@shop.test", f.staff, true)

	updated, err := svc.AssignRole(ctx, manager, target.ID, f.editor.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.Role)
	assert.Equal(t, f.editor.ID, updated.Role.ID)
	assert.Equal(t, domain.EventUserRoleChanged, f.audit.last().Type)

	_, err = svc.AssignRole(ctx, manager, target.ID, f.admin.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	promoted, err := svc.AssignRole(ctx, admin, target.ID, f.admin.ID)
	require.NoError(t, err)
	assert.True(t, promoted.IsSystemAdmin())

	_, err = svc.AssignRole(ctx, admin, admin.ID, f.staff.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden, "no self role change")

	_, err = svc.AssignRole(ctx, admin, manager.ID, "missing")
	assert.ErrorIs(t, err, domain.ErrRoleNotFound)
}

func TestUserService_SetActive(t *testing.T) {
	f := newFixture()
	svc := newUserSvc(f)
	ctx := context.Background()
	admin := f.addUser("root@shop.test", f.admin, true)
	target := f.addUser("staff@shop.test", f.staff, true)

	disabled, err := svc.SetActive(ctx, admin, target.ID, false)
	require.NoError(t, err)
	assert.False(t, disabled.IsActive)
	assert.Equal(t, "disabled", f.audit.last().Detail)

	enabled, err := svc.SetActive(ctx, admin, target.ID, true)
	require.NoError(t, err)
	assert.True(t, enabled.IsActive)

	_, err = svc.SetActive(ctx, admin, admin.ID, false)
	assert.ErrorIs(t, err, domain.ErrForbidden, "no self disable")
}

func TestUserService_DeleteUser(t *testing.T) {
	f := newFixture()
	svc := newUserSvc(f)
	ctx := context.Background()
	admin := f.addUser("root@shop.test", f.admin, true)
	second := f.addUser("root2@shop.test", f.admin, true)
	target := f.addUser("staff@shop.test", f.staff, true)

	require.NoError(t, svc.DeleteUser(ctx, admin, target.ID))
	_, err := svc.GetUser(ctx, target.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	err = svc.DeleteUser(ctx, admin, second.ID)
	assert.ErrorIs(t, err, domain.ErrProtectedResource)

	err = svc.DeleteUser(ctx, admin, admin.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	err = svc.DeleteUser(ctx, admin, "missing")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserService_ListUsers(t *testing.T) {
	f := newFixture()
	svc := newUserSvc(f)
	f.addUser("a@shop.test", f.staff, true)
	f.addUser("b@shop.test", f.staff, false)
	f.addUser("c@shop.test", f.editor, true)

	all, err := svc.ListUsers(context.Background(), ports.ListUsersFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
	for _, u := range all {
		assert.NotNil(t, u.Role, "list embeds the role")
	}

	active, err := svc.ListUsers(context.Background(), ports.ListUsersFilter{RoleID: f.staff.ID, Active: ptr(true)})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "a@shop.test", active[0].Email)
}
