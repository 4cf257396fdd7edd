package middleware

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopdesk/commerce-api/internal/api/apierr"
	"github.com/shopdesk/commerce-api/internal/core/domain"
)

func withUser(c echo.Context, role *domain.Role) {
	c.Set(userContextKey, &domain.User{ID: "u1", Role: role, IsActive: true})
}

func TestRequirePermission_Allows(t *testing.T) {
	reg := domain.DefaultRegistry()
	c, rec := newCtx("")
	withUser(c, &domain.Role{Slug: "staff", Permissions: []string{domain.PermProductsView}})

	err := RequirePermission(reg, domain.PermProductsView)(okHandler)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequirePermission_Forbids(t *testing.T) {
	reg := domain.DefaultRegistry()
	c, _ := newCtx("")
	withUser(c, &domain.Role{Slug: "staff", Permissions: []string{domain.PermProductsView}})

	err := RequirePermission(reg, domain.PermProductsDelete)(func(echo.Context) error {
		t.Fatal("should not reach next handler")
		return nil
	})(c)
	requireAPIError(t, err, http.StatusForbidden, apierr.CodeForbidden)
	assert.Contains(t, err.Error(), domain.PermProductsDelete)
}

func TestRequirePermission_AdminBypassesEveryRoute(t *testing.T) {
	reg := domain.DefaultRegistry()
	for _, p := range reg.Permissions() {
		c, rec := newCtx("")
		withUser(c, &domain.Role{Slug: domain.AdminRoleSlug, IsSystemAdmin: true})

		require.NoError(t, RequirePermission(reg, p)(okHandler)(c), p)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRequirePermission_NoRoleIsDenied(t *testing.T) {
	c, _ := newCtx("")
	withUser(c, nil)

	err := RequirePermission(domain.DefaultRegistry(), domain.PermDashboardView)(okHandler)(c)
	requireAPIError(t, err, http.StatusForbidden, apierr.CodeForbidden)
}

func TestRequirePermission_NoSession(t *testing.T) {
	c, _ := newCtx("")
	err := RequirePermission(domain.DefaultRegistry(), domain.PermDashboardView)(okHandler)(c)
	requireAPIError(t, err, http.StatusUnauthorized, apierr.CodeUnauthorized)
}

func TestRequirePermission_PanicsOnUnknownPermission(t *testing.T) {
	assert.Panics(t, func() {
		RequirePermission(domain.DefaultRegistry(), "prodcts.view")
	})
}

func TestRequireAdmin(t *testing.T) {
	c, rec := newCtx("")
	withUser(c, &domain.Role{Slug: domain.AdminRoleSlug, IsSystemAdmin: true})
	require.NoError(t, RequireAdmin()(okHandler)(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	c, _ = newCtx("")
	withUser(c, &domain.Role{Slug: "manager", Permissions: domain.DefaultRegistry().Permissions()})
	err := RequireAdmin()(okHandler)(c)
	requireAPIError(t, err, http.StatusForbidden, apierr.CodeForbidden)

	c, _ = newCtx("")
	err = RequireAdmin()(okHandler)(c)
	requireAPIError(t, err, http.StatusUnauthorized, apierr.CodeUnauthorized)
}
