package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopdesk/commerce-api/internal/api/apierr"
	"github.com/shopdesk/commerce-api/internal/core/domain"
)

type stubResolver struct {
	user *domain.User
	err  error
	seen string
}

func (r *stubResolver) Resolve(_ context.Context, token string) (*domain.User, error) {
	r.seen = token
	return r.user, r.err
}

func newCtx(authHeader string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func okHandler(c echo.Context) error { return c.NoContent(http.StatusOK) }

func requireAPIError(t *testing.T, err error, status int, code string) {
	t.Helper()
	require.Error(t, err)
	got, ok := apierr.FromDomain(err)
	require.True(t, ok, "unexpected error %v", err)
	assert.Equal(t, status, got.Status)
	assert.Equal(t, code, got.Code)
}

func TestAuthenticate_StoresUser(t *testing.T) {
	user := &domain.User{ID: "u1", IsActive: true}
	resolver := &stubResolver{user: user}
	c, rec := newCtx("Bearer abc.def.ghi")

	var got *domain.User
	err := Authenticate(resolver)(func(c echo.Context) error {
		got, _ = UserFromContext(c)
		return okHandler(c)
	})(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc.def.ghi", resolver.seen)
	assert.Same(t, user, got)
}

func TestAuthenticate_HeaderErrors(t *testing.T) {
	for _, header := range []string{"", "abc.def.ghi", "Basic dXNlcjpwYXNz", "Bearer ", "Bearer"} {
		t.Run(header, func(t *testing.T) {
			c, _ := newCtx(header)
			err := Authenticate(&stubResolver{})(func(echo.Context) error {
				t.Fatal("next must not run")
				return nil
			})(c)
			requireAPIError(t, err, http.StatusUnauthorized, apierr.CodeInvalidToken)
			assert.ErrorIs(t, err, domain.ErrInvalidToken)
		})
	}
}

func TestAuthenticate_ResolverFailures(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"invalid token", domain.ErrInvalidToken, http.StatusUnauthorized, apierr.CodeInvalidToken},
		{"user gone", domain.ErrUserNotFound, http.StatusUnauthorized, apierr.CodeUserNotFound},
		{"disabled", domain.ErrAccountDisabled, http.StatusForbidden, apierr.CodeAccountDisabled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newCtx("Bearer token")
			err := Authenticate(&stubResolver{err: tt.err})(okHandler)(c)
			requireAPIError(t, err, tt.status, tt.code)
		})
	}
}

func TestAuthenticate_StoreErrorIsNotMapped(t *testing.T) {
	c, _ := newCtx("Bearer token")
	err := Authenticate(&stubResolver{err: errors.New("mongo timeout")})(okHandler)(c)
	require.Error(t, err)
	_, ok := apierr.FromDomain(err)
	assert.False(t, ok, "store failures must surface as 500, never as allow or deny")
}
