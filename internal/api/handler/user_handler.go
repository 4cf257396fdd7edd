package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shopdesk/commerce-api/internal/api/apierr"
	"github.com/shopdesk/commerce-api/internal/core/ports"
)

// UserHandler serves back-office user administration.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// List returns users, optionally filtered by role and active flag.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        role_id  query     string  false  "Role ID"
// @Param        active   query     bool    false  "Active flag"
// @Success      200      {array}   userResponse
// @Failure      400      {object}  apierr.Response
// @Failure      403      {object}  apierr.Response
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	var filter ports.ListUsersFilter
	var active bool
	err := echo.QueryParamsBinder(c).
		String("role_id", &filter.RoleID).
		Bool("active", &active).
		BindError()
	if err != nil {
		return apierr.Wrap(err, http.StatusBadRequest, apierr.CodeBadRequest, "active must be true or false")
	}
	if c.QueryParam("active") != "" {
		filter.Active = &active
	}

	users, err := h.service.ListUsers(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponses(users))
}

// Get returns a single user with its role.
//
// @Summary      Get user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  userResponse
// @Failure      404  {object}  apierr.Response
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.service.GetUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Create adds a user with an explicit role.
//
// @Summary      Create user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "User details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  apierr.Response
// @Failure      403   {object}  apierr.Response
// @Failure      404   {object}  apierr.Response
// @Failure      422   {object}  apierr.Response
// @Router       /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req createUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.service.CreateUser(c.Request().Context(), actor, toCreateUserInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// Update edits a user's profile fields.
//
// @Summary      Update user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User ID"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  apierr.Response
// @Failure      403   {object}  apierr.Response
// @Failure      404   {object}  apierr.Response
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req updateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.service.UpdateUser(c.Request().Context(), actor, c.Param("id"), ports.UpdateUserInput{
		Name:      req.Name,
		Email:     req.Email,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// AssignRole points a user at another role.
//
// @Summary      Assign role
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User ID"
// @Param        body  body      assignRoleRequest  true  "Role to assign"
// @Success      200   {object}  userResponse
// @Failure      403   {object}  apierr.Response
// @Failure      404   {object}  apierr.Response
// @Router       /users/{id}/role [put]
func (h *UserHandler) AssignRole(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req assignRoleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.service.AssignRole(c.Request().Context(), actor, c.Param("id"), req.RoleID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// SetStatus enables or disables a user.
//
// @Summary      Enable or disable user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "User ID"
// @Param        body  body      setStatusRequest  true  "Desired state"
// @Success      200   {object}  userResponse
// @Failure      403   {object}  apierr.Response
// @Failure      404   {object}  apierr.Response
// @Router       /users/{id}/status [put]
func (h *UserHandler) SetStatus(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req setStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.service.SetActive(c.Request().Context(), actor, c.Param("id"), *req.IsActive)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Delete removes a user. Holders of the system admin role cannot be deleted.
//
// @Summary      Delete user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  apierr.Response
// @Failure      403  {object}  apierr.Response
// @Failure      404  {object}  apierr.Response
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteUser(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "user deleted"})
}
