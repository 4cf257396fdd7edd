package middleware

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/shopdesk/commerce-api/internal/api/apierr"
	"github.com/shopdesk/commerce-api/internal/api/metrics"
	"github.com/shopdesk/commerce-api/internal/core/domain"
)

// RequirePermission lets the request through only when the acting user's role
// grants permission, or is the system admin role. Declaring a permission that
// is not in the registry is a programming error and panics at route setup.
func RequirePermission(registry *domain.Registry, permission string) echo.MiddlewareFunc {
	if !registry.Has(permission) {
		panic(fmt.Sprintf("middleware: route declares unknown permission %q", permission))
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := UserFromContext(c)
			if !ok {
				return apierr.Unauthorized(apierr.CodeUnauthorized, "authentication required")
			}

			if err := domain.Authorize(user.Role, permission); err != nil {
				metrics.AuthzDecisionsTotal.WithLabelValues(permission, "deny").Inc()
				return err
			}
			result := "allow"
			if user.IsSystemAdmin() {
				result = "bypass"
			}
			metrics.AuthzDecisionsTotal.WithLabelValues(permission, result).Inc()
			return next(c)
		}
	}
}

// RequireAdmin restricts a route to holders of the system admin role.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := UserFromContext(c)
			if !ok {
				return apierr.Unauthorized(apierr.CodeUnauthorized, "authentication required")
			}
			if err := domain.RequireAdmin(user.Role); err != nil {
				metrics.AuthzDecisionsTotal.WithLabelValues("admin", "deny").Inc()
				return err
			}
			metrics.AuthzDecisionsTotal.WithLabelValues("admin", "bypass").Inc()
			return next(c)
		}
	}
}
