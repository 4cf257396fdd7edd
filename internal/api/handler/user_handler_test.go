package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopdesk/commerce-api/internal/api/apierr"
	"github.com/shopdesk/commerce-api/internal/core/domain"
	"github.com/shopdesk/commerce-api/internal/core/ports"
)

func TestUserHandler_List_Filters(t *testing.T) {
	stub := &stubUserService{
		listFn: func(_ context.Context, filter ports.ListUsersFilter) ([]*domain.User, error) {
			assert.Equal(t, staffRole.ID, filter.RoleID)
			require.NotNil(t, filter.Active)
			assert.False(t, *filter.Active)
			return []*domain.User{sampleUser("user-1", staffRole)}, nil
		},
	}
	c, rec := newCtx(http.MethodGet, "/users?role_id=role-staff&active=false", "")

	require.NoError(t, NewUserHandler(stub).List(c))

	var resp []userResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	require.NotNil(t, resp[0].Role, "list embeds the full role")
	assert.Equal(t, domain.StaffRoleSlug, resp[0].Role.Slug)
}

func TestUserHandler_List_BadActiveParam(t *testing.T) {
	c, _ := newCtx(http.MethodGet, "/users?active=maybe", "")

	err := NewUserHandler(&stubUserService{}).List(c)
	requireAPIError(t, err, http.StatusBadRequest, apierr.CodeBadRequest)
}

func TestUserHandler_Get_DanglingRole(t *testing.T) {
	stub := &stubUserService{
		getFn: func(_ context.Context, id string) (*domain.User, error) {
			u := sampleUser(id, staffRole)
			u.Role = nil
			return u, nil
		},
	}
	c, rec := newCtx(http.MethodGet, "/users/user-1", "", "id", "user-1")

	require.NoError(t, NewUserHandler(stub).Get(c))
	assert.Contains(t, rec.Body.String(), `"role":null`)
}

func TestUserHandler_Create(t *testing.T) {
	actor := sampleUser("admin", adminRole)
	stub := &stubUserService{
		createFn: func(_ context.Context, got *domain.User, in ports.CreateUserInput) (*domain.User, error) {
			assert.Same(t, actor, got)
			assert.Equal(t, staffRole.ID, in.RoleID)
			assert.Equal(t, "s3cretpass", in.Password)
			return sampleUser("user-9", staffRole), nil
		},
	}
	c, rec := newCtx(http.MethodPost, "/users",
		`{"name":"Eve","email":"eve@shop.test","password":"s3cretpass","role_id":"role-staff"}`)
	asUser(c, actor)

	require.NoError(t, NewUserHandler(stub).Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestUserHandler_Create_MissingRole(t *testing.T) {
	c, _ := newCtx(http.MethodPost, "/users", `{"name":"Eve","email":"eve@shop.test","password":"s3cretpass"}`)
	asUser(c, sampleUser("admin", adminRole))

	err := NewUserHandler(&stubUserService{}).Create(c)
	requireAPIError(t, err, http.StatusUnprocessableEntity, apierr.CodeValidation)
	assert.Contains(t, err.Error(), "role_id is required")
}

func TestUserHandler_Update(t *testing.T) {
	stub := &stubUserService{
		updateFn: func(_ context.Context, _ *domain.User, id string, in ports.UpdateUserInput) (*domain.User, error) {
			assert.Equal(t, "user-1", id)
			require.NotNil(t, in.Email)
			assert.Equal(t, "new@shop.test", *in.Email)
			assert.Nil(t, in.Name)
			return sampleUser(id, staffRole), nil
		},
	}
	c, rec := newCtx(http.MethodPut, "/users/user-1", `{"email":"new@shop.test"}`, "id", "user-1")
	asUser(c, sampleUser("admin", adminRole))

	require.NoError(t, NewUserHandler(stub).Update(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUserHandler_AssignRole(t *testing.T) {
	stub := &stubUserService{
		assignFn: func(_ context.Context, _ *domain.User, id, roleID string) (*domain.User, error) {
			assert.Equal(t, "user-1", id)
			if roleID == adminRole.ID {
				return nil, domain.ErrForbidden
			}
			return sampleUser(id, staffRole), nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := newCtx(http.MethodPut, "/users/user-1/role", `{"role_id":"role-staff"}`, "id", "user-1")
	asUser(c, sampleUser("manager", staffRole))
	require.NoError(t, h.AssignRole(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	c, _ = newCtx(http.MethodPut, "/users/user-1/role", `{"role_id":"role-admin"}`, "id", "user-1")
	asUser(c, sampleUser("manager", staffRole))
	assert.ErrorIs(t, h.AssignRole(c), domain.ErrForbidden)
}

func TestUserHandler_SetStatus(t *testing.T) {
	var got *bool
	stub := &stubUserService{
		setActiveFn: func(_ context.Context, _ *domain.User, id string, active bool) (*domain.User, error) {
			got = &active
			u := sampleUser(id, staffRole)
			u.IsActive = active
			return u, nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := newCtx(http.MethodPut, "/users/user-1/status", `{"is_active":false}`, "id", "user-1")
	asUser(c, sampleUser("admin", adminRole))
	require.NoError(t, h.SetStatus(c))
	require.NotNil(t, got)
	assert.False(t, *got)
	assert.Contains(t, rec.Body.String(), `"is_active":false`)

	c, _ = newCtx(http.MethodPut, "/users/user-1/status", `{}`, "id", "user-1")
	asUser(c, sampleUser("admin", adminRole))
	requireAPIError(t, h.SetStatus(c), http.StatusUnprocessableEntity, apierr.CodeValidation)
}

func TestUserHandler_Delete(t *testing.T) {
	stub := &stubUserService{
		deleteFn: func(_ context.Context, _ *domain.User, id string) error {
			if id == "root" {
				return domain.ErrProtectedResource
			}
			return nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := newCtx(http.MethodDelete, "/users/user-1", "", "id", "user-1")
	asUser(c, sampleUser("admin", adminRole))
	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	c, _ = newCtx(http.MethodDelete, "/users/root", "", "id", "root")
	asUser(c, sampleUser("admin", adminRole))
	assert.ErrorIs(t, h.Delete(c), domain.ErrProtectedResource)
}

func TestUserHandler_RequiresSession(t *testing.T) {
	c, _ := newCtx(http.MethodDelete, "/users/user-1", "", "id", "user-1")

	err := NewUserHandler(&stubUserService{}).Delete(c)
	requireAPIError(t, err, http.StatusUnauthorized, apierr.CodeUnauthorized)
}

func TestUserHandler_List_NoFilters(t *testing.T) {
	stub := &stubUserService{
		listFn: func(_ context.Context, filter ports.ListUsersFilter) ([]*domain.User, error) {
			assert.Empty(t, filter.RoleID)
			assert.Nil(t, filter.Active, "an absent active param does not filter")
			return nil, nil
		},
	}
	c, rec := newCtx(http.MethodGet, "/users", "")

	require.NoError(t, NewUserHandler(stub).List(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}
