package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/shopdesk/commerce-api/internal/api/apierr"
	"github.com/shopdesk/commerce-api/internal/api/metrics"
	"github.com/shopdesk/commerce-api/internal/core/domain"
	"github.com/shopdesk/commerce-api/internal/core/ports"
)

const userContextKey = "auth.user"

// Authenticate resolves the bearer token into the acting user and stores it on
// the context. The user and role are loaded fresh on every request.
func Authenticate(resolver ports.SessionResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return err
			}

			start := time.Now()
			user, err := resolver.Resolve(c.Request().Context(), token)
			metrics.SessionResolveDuration.WithLabelValues(resolveResult(err)).Observe(time.Since(start).Seconds())
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					// The token is genuine but its user is gone: a session
					// problem, not a missing resource.
					return apierr.Unauthorized(apierr.CodeUserNotFound, "user no longer exists")
				}
				return err
			}

			SetUser(c, user)
			return next(c)
		}
	}
}

// bearerToken extracts the token from the Authorization header. A missing or
// malformed header is reported the same way as a bad token.
func bearerToken(header string) (string, error) {
	if header == "" {
		return "", invalidToken("missing authorization header")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", invalidToken("invalid authorization header")
	}
	return strings.TrimSpace(parts[1]), nil
}

func invalidToken(message string) *apierr.Error {
	return apierr.Wrap(domain.ErrInvalidToken, http.StatusUnauthorized, apierr.CodeInvalidToken, message)
}

func resolveResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrInvalidToken):
		return "invalid_token"
	case errors.Is(err, domain.ErrUserNotFound):
		return "user_not_found"
	case errors.Is(err, domain.ErrAccountDisabled):
		return "disabled"
	default:
		return "error"
	}
}

// SetUser stores the acting user on the request context.
func SetUser(c echo.Context, user *domain.User) {
	c.Set(userContextKey, user)
}

// UserFromContext returns the user stored by Authenticate.
func UserFromContext(c echo.Context) (*domain.User, bool) {
	user, ok := c.Get(userContextKey).(*domain.User)
	return user, ok && user != nil
}
