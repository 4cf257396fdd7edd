package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/shopdesk/commerce-api/internal/api/apierr"
	"github.com/shopdesk/commerce-api/internal/api/middleware"
	"github.com/shopdesk/commerce-api/internal/core/domain"
)

// currentUser returns the user resolved by the Authenticate middleware. A
// missing user means the route was registered without it.
func currentUser(c echo.Context) (*domain.User, error) {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		return nil, apierr.Unauthorized(apierr.CodeUnauthorized, "authentication required")
	}
	return user, nil
}

// bindAndValidate decodes the body into req and runs struct validation.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return apierr.BadRequest("invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return apierr.Validation(err)
	}
	return nil
}
