package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopdesk/commerce-api/internal/core/domain"
	"github.com/shopdesk/commerce-api/internal/core/ports"
)

func TestRoleHandler_List(t *testing.T) {
	stub := &stubRoleService{
		listFn: func(context.Context) ([]*domain.Role, error) {
			return []*domain.Role{adminRole, staffRole}, nil
		},
	}
	c, rec := newCtx(http.MethodGet, "/roles", "")

	require.NoError(t, NewRoleHandler(stub).List(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp []roleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.True(t, resp[0].IsSystemAdmin)
	assert.Equal(t, domain.StaffRoleSlug, resp[1].Slug)
}

func TestRoleHandler_Get_NotFound(t *testing.T) {
	stub := &stubRoleService{
		getFn: func(_ context.Context, id string) (*domain.Role, error) {
			assert.Equal(t, "missing", id)
			return nil, domain.ErrRoleNotFound
		},
	}
	c, _ := newCtx(http.MethodGet, "/roles/missing", "", "id", "missing")

	assert.ErrorIs(t, NewRoleHandler(stub).Get(c), domain.ErrRoleNotFound)
}

func TestRoleHandler_Create(t *testing.T) {
	actor := sampleUser("admin", adminRole)
	stub := &stubRoleService{
		createFn: func(_ context.Context, got *domain.User, in ports.CreateRoleInput) (*domain.Role, error) {
			assert.Same(t, actor, got)
			assert.Equal(t, "Product Editor", in.Name)
			assert.Equal(t, []string{domain.PermProductsView, domain.PermProductsUpdate}, in.Permissions)
			return &domain.Role{ID: "role-2", Name: in.Name, Slug: "product-editor", Permissions: in.Permissions}, nil
		},
	}
	c, rec := newCtx(http.MethodPost, "/roles",
		`{"name":"Product Editor","permissions":["products.view","products.update"]}`)
	asUser(c, actor)

	require.NoError(t, NewRoleHandler(stub).Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"slug":"product-editor"`)
}

func TestRoleHandler_Create_InvalidPermission(t *testing.T) {
	stub := &stubRoleService{
		createFn: func(context.Context, *domain.User, ports.CreateRoleInput) (*domain.Role, error) {
			return nil, domain.ErrInvalidPermission
		},
	}
	c, _ := newCtx(http.MethodPost, "/roles", `{"name":"Typo","permissions":["prodcts.view"]}`)
	asUser(c, sampleUser("admin", adminRole))

	assert.ErrorIs(t, NewRoleHandler(stub).Create(c), domain.ErrInvalidPermission)
}

func TestRoleHandler_Update_OnlySentFields(t *testing.T) {
	stub := &stubRoleService{
		updateFn: func(_ context.Context, _ *domain.User, id string, in ports.UpdateRoleInput) (*domain.Role, error) {
			assert.Equal(t, "role-2", id)
			assert.Nil(t, in.Name)
			assert.Nil(t, in.Slug)
			assert.Nil(t, in.Description)
			require.NotNil(t, in.Permissions)
			assert.Empty(t, *in.Permissions)
			return &domain.Role{ID: id, Name: "Editor", Slug: "editor"}, nil
		},
	}
	c, rec := newCtx(http.MethodPut, "/roles/role-2", `{"permissions":[]}`, "id", "role-2")
	asUser(c, sampleUser("admin", adminRole))

	require.NoError(t, NewRoleHandler(stub).Update(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"permissions":[]`)
}

func TestRoleHandler_Delete(t *testing.T) {
	deleted := ""
	stub := &stubRoleService{
		deleteFn: func(_ context.Context, _ *domain.User, id string) error {
			if id == adminRole.ID {
				return domain.ErrProtectedResource
			}
			deleted = id
			return nil
		},
	}
	h := NewRoleHandler(stub)

	c, rec := newCtx(http.MethodDelete, "/roles/role-2", "", "id", "role-2")
	asUser(c, sampleUser("admin", adminRole))
	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "role-2", deleted)

	c, _ = newCtx(http.MethodDelete, "/roles/role-admin", "", "id", adminRole.ID)
	asUser(c, sampleUser("admin", adminRole))
	assert.ErrorIs(t, h.Delete(c), domain.ErrProtectedResource)
}

func TestRoleHandler_Permissions(t *testing.T) {
	c, rec := newCtx(http.MethodGet, "/roles/permissions-list", "")

	require.NoError(t, NewRoleHandler(&stubRoleService{}).Permissions(c))

	var catalog map[string]map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &catalog))
	assert.Equal(t, domain.PermOrdersUpdateStatus, catalog["orders"]["update_status"])
	assert.Equal(t, domain.PermRolesManage, catalog["roles"]["manage"])
}
