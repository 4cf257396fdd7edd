package handler

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/shopdesk/commerce-api/internal/api/apierr"
	"github.com/shopdesk/commerce-api/internal/api/middleware"
	"github.com/shopdesk/commerce-api/internal/core/domain"
	"github.com/shopdesk/commerce-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Service stubs
// ---------------------------------------------------------------------------

type stubAuthService struct {
	registerFn       func(ctx context.Context, in ports.RegisterInput) (string, *domain.User, error)
	loginFn          func(ctx context.Context, in ports.LoginInput) (string, *domain.User, error)
	changePasswordFn func(ctx context.Context, userID, current, next string) error
	updateProfileFn  func(ctx context.Context, userID string, in ports.UpdateProfileInput) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (string, *domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, in ports.LoginInput) (string, *domain.User, error) {
	return s.loginFn(ctx, in)
}

func (s *stubAuthService) ChangePassword(ctx context.Context, userID, current, next string) error {
	return s.changePasswordFn(ctx, userID, current, next)
}

func (s *stubAuthService) UpdateProfile(ctx context.Context, userID string, in ports.UpdateProfileInput) (*domain.User, error) {
	return s.updateProfileFn(ctx, userID, in)
}

type stubRoleService struct {
	listFn   func(ctx context.Context) ([]*domain.Role, error)
	getFn    func(ctx context.Context, id string) (*domain.Role, error)
	createFn func(ctx context.Context, actor *domain.User, in ports.CreateRoleInput) (*domain.Role, error)
	updateFn func(ctx context.Context, actor *domain.User, id string, in ports.UpdateRoleInput) (*domain.Role, error)
	deleteFn func(ctx context.Context, actor *domain.User, id string) error
}

func (s *stubRoleService) ListRoles(ctx context.Context) ([]*domain.Role, error) {
	return s.listFn(ctx)
}

func (s *stubRoleService) GetRole(ctx context.Context, id string) (*domain.Role, error) {
	return s.getFn(ctx, id)
}

func (s *stubRoleService) CreateRole(ctx context.Context, actor *domain.User, in ports.CreateRoleInput) (*domain.Role, error) {
	return s.createFn(ctx, actor, in)
}

func (s *stubRoleService) UpdateRole(ctx context.Context, actor *domain.User, id string, in ports.UpdateRoleInput) (*domain.Role, error) {
	return s.updateFn(ctx, actor, id, in)
}

func (s *stubRoleService) DeleteRole(ctx context.Context, actor *domain.User, id string) error {
	return s.deleteFn(ctx, actor, id)
}

func (s *stubRoleService) PermissionCatalog() map[string]map[string]string {
	return domain.DefaultRegistry().Catalog()
}

type stubUserService struct {
	listFn      func(ctx context.Context, filter ports.ListUsersFilter) ([]*domain.User, error)
	getFn       func(ctx context.Context, id string) (*domain.User, error)
	createFn    func(ctx context.Context, actor *domain.User, in ports.CreateUserInput) (*domain.User, error)
	updateFn    func(ctx context.Context, actor *domain.User, id string, in ports.UpdateUserInput) (*domain.User, error)
	assignFn    func(ctx context.Context, actor *domain.User, id, roleID string) (*domain.User, error)
	setActiveFn func(ctx context.Context, actor *domain.User, id string, active bool) (*domain.User, error)
	deleteFn    func(ctx context.Context, actor *domain.User, id string) error
}

func (s *stubUserService) ListUsers(ctx context.Context, filter ports.ListUsersFilter) ([]*domain.User, error) {
	return s.listFn(ctx, filter)
}

func (s *stubUserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.getFn(ctx, id)
}

func (s *stubUserService) CreateUser(ctx context.Context, actor *domain.User, in ports.CreateUserInput) (*domain.User, error) {
	return s.createFn(ctx, actor, in)
}

func (s *stubUserService) UpdateUser(ctx context.Context, actor *domain.User, id string, in ports.UpdateUserInput) (*domain.User, error) {
	return s.updateFn(ctx, actor, id, in)
}

func (s *stubUserService) AssignRole(ctx context.Context, actor *domain.User, id, roleID string) (*domain.User, error) {
	return s.assignFn(ctx, actor, id, roleID)
}

func (s *stubUserService) SetActive(ctx context.Context, actor *domain.User, id string, active bool) (*domain.User, error) {
	return s.setActiveFn(ctx, actor, id, active)
}

func (s *stubUserService) DeleteUser(ctx context.Context, actor *domain.User, id string) error {
	return s.deleteFn(ctx, actor, id)
}

type stubAuditService struct {
	listFn func(ctx context.Context, filter ports.AuditFilter) ([]*domain.AuthEvent, error)
}

func (s *stubAuditService) Record(context.Context, domain.AuthEvent) error { return nil }

func (s *stubAuditService) List(ctx context.Context, filter ports.AuditFilter) ([]*domain.AuthEvent, error) {
	return s.listFn(ctx, filter)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var (
	staffRole = &domain.Role{
		ID:          "role-staff",
		Name:        "Staff",
		Slug:        domain.StaffRoleSlug,
		Permissions: []string{domain.PermProductsView},
		CreatedAt:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	adminRole = &domain.Role{
		ID:            "role-admin",
		Name:          "Administrator",
		Slug:          domain.AdminRoleSlug,
		IsSystemAdmin: true,
	}
)

func sampleUser(id string, role *domain.Role) *domain.User {
	return &domain.User{
		ID:           id,
		Name:         "Alice",
		Email:        id + "@shop.test",
		PasswordHash: "$2a$10$secret-hash",
		RoleID:       role.ID,
		Role:         role,
		IsActive:     true,
	}
}

// newCtx builds an echo context for a JSON request. pathParams are name/value
// pairs.
func newCtx(method, target, body string, pathParams ...string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	req.Header.Set(echo.HeaderXRealIP, "203.0.113.7")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var names, values []string
	for i := 0; i+1 < len(pathParams); i += 2 {
		names = append(names, pathParams[i])
		values = append(values, pathParams[i+1])
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	return c, rec
}

func asUser(c echo.Context, user *domain.User) {
	middleware.SetUser(c, user)
}

func requireAPIError(t *testing.T, err error, status int, code string) {
	t.Helper()
	require.Error(t, err)
	var apiErr *apierr.Error
	require.True(t, errors.As(err, &apiErr), "expected *apierr.Error, got %T: %v", err, err)
	require.Equal(t, status, apiErr.Status)
	require.Equal(t, code, apiErr.Code)
}

func mustNotCall(t *testing.T) {
	t.Helper()
	t.Fatal("service should not be called")
}
