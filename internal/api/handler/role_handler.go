package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shopdesk/commerce-api/internal/core/ports"
)

// RoleHandler serves the role catalog.
type RoleHandler struct {
	service ports.RoleService
}

func NewRoleHandler(service ports.RoleService) *RoleHandler {
	return &RoleHandler{service: service}
}

// List returns every role.
//
// @Summary      List roles
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   roleResponse
// @Failure      401  {object}  apierr.Response
// @Failure      403  {object}  apierr.Response
// @Router       /roles [get]
func (h *RoleHandler) List(c echo.Context) error {
	roles, err := h.service.ListRoles(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRoleResponses(roles))
}

// Get returns a single role.
//
// @Summary      Get role
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Role ID"
// @Success      200  {object}  roleResponse
// @Failure      404  {object}  apierr.Response
// @Router       /roles/{id} [get]
func (h *RoleHandler) Get(c echo.Context) error {
	role, err := h.service.GetRole(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRoleResponse(role))
}

// Create adds a role. The slug is derived from the name.
//
// @Summary      Create role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createRoleRequest  true  "Role definition"
// @Success      201   {object}  roleResponse
// @Failure      400   {object}  apierr.Response
// @Failure      409   {object}  apierr.Response
// @Failure      422   {object}  apierr.Response
// @Router       /roles [post]
func (h *RoleHandler) Create(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req createRoleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	role, err := h.service.CreateRole(c.Request().Context(), actor, ports.CreateRoleInput{
		Name:        req.Name,
		Description: req.Description,
		Permissions: req.Permissions,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toRoleResponse(role))
}

// Update edits a role. Omitted fields are left unchanged.
//
// @Summary      Update role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Role ID"
// @Param        body  body      updateRoleRequest  true  "Fields to change"
// @Success      200   {object}  roleResponse
// @Failure      400   {object}  apierr.Response
// @Failure      404   {object}  apierr.Response
// @Failure      409   {object}  apierr.Response
// @Router       /roles/{id} [put]
func (h *RoleHandler) Update(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req updateRoleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	role, err := h.service.UpdateRole(c.Request().Context(), actor, c.Param("id"), toUpdateRoleInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRoleResponse(role))
}

// Delete removes a role. The system admin role cannot be deleted.
//
// @Summary      Delete role
// @Tags         roles
// @Security     BearerAuth
// @Param        id  path  string  true  "Role ID"
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  apierr.Response
// @Failure      404  {object}  apierr.Response
// @Router       /roles/{id} [delete]
func (h *RoleHandler) Delete(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteRole(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "role deleted"})
}

// Permissions returns the permission catalog grouped by module.
//
// @Summary      Permission catalog
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]map[string]string
// @Router       /roles/permissions-list [get]
func (h *RoleHandler) Permissions(c echo.Context) error {
	return c.JSON(http.StatusOK, h.service.PermissionCatalog())
}
