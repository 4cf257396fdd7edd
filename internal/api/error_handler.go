package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/shopdesk/commerce-api/internal/api/apierr"
	"github.com/shopdesk/commerce-api/internal/api/middleware"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain errors to their HTTP status and stable code.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"code": "<CODE>", "error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		apiErr := resolveError(err)
		if apiErr.Status >= 500 {
			event := log.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID))
			if user, ok := middleware.UserFromContext(c); ok {
				event = event.Str("user_id", user.ID)
			}
			event.Msg("unhandled error")
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(apiErr.Status)
			return
		}
		_ = c.JSON(apiErr.Status, apiErr.Response())
	}
}

func resolveError(err error) *apierr.Error {
	if apiErr, ok := apierr.FromDomain(err); ok {
		return apiErr
	}

	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := fmt.Sprintf("%v", he.Message)
		return apierr.Wrap(err, he.Code, apierr.CodeForStatus(he.Code), msg)
	}

	return apierr.Internal(err)
}
