package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sample-intranet/identity-api/internal/api/middleware"
	"github.com/sample-intranet/identity-api/internal/core/domain"
	"github.com/sample-intranet/identity-api/internal/core/ports"
)

// UserHandler handles the protected user-directory routes. Every handler
// runs the full authorization chain (token validation, directory recheck,
// access gate) before touching the directory.
type UserHandler struct {
	service ports.IdentityService
}

func NewUserHandler(service ports.IdentityService) *UserHandler {
	return &UserHandler{service: service}
}

// List returns a page of active users.
//
// @Summary      List active users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        skip   query     int  false  "Records to skip"          default(0)
// @Param        limit  query     int  false  "Maximum records to return" default(100)
// @Success      200  {array}   userView
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	if _, err := h.service.Authorize(ctx, middleware.Token(c), domain.OpList, ""); err != nil {
		return err
	}

	skip, err := queryInt(c, "skip", 0)
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit", 100)
	if err != nil {
		return err
	}

	users, err := h.service.ListUsers(ctx, skip, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newUserViews(users))
}

// queryInt reads an optional non-negative integer query parameter.
func queryInt(c echo.Context, name string, def int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be a non-negative integer")
	}
	return n, nil
}

// Search finds active users by name substring.
//
// @Summary      Search active users by name
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        name  query     string  true  "Name substring (case-insensitive)"
// @Success      200   {array}   userView
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /users/search [get]
func (h *UserHandler) Search(c echo.Context) error {
	ctx := c.Request().Context()
	if _, err := h.service.Authorize(ctx, middleware.Token(c), domain.OpSearch, ""); err != nil {
		return err
	}

	term := c.QueryParam("name")
	if term == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name query parameter is required")
	}

	users, err := h.service.SearchUsers(ctx, term)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newUserViews(users))
}

// Get returns a single user. Regular users may only read themselves.
//
// @Summary      Get a user by id
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  userView
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")
	if _, err := h.service.Authorize(ctx, middleware.Token(c), domain.OpReadAny, id); err != nil {
		return err
	}

	user, err := h.service.GetUser(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newUserView(user))
}

// Update partially updates a user. Regular users may only update their own
// name; role and active changes require admin.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User id"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  userView
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")
	actor, err := h.service.Authorize(ctx, middleware.Token(c), domain.OpWriteAny, id)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	patch, err := req.patch()
	if err != nil {
		return err
	}

	user, err := h.service.UpdateUser(ctx, actor, id, patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newUserView(user))
}

// Delete removes a user permanently. Admin only.
//
// @Summary      Delete a user
// @Tags         users
// @Security     BearerAuth
// @Param        id  path  string  true  "User id"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")
	if _, err := h.service.Authorize(ctx, middleware.Token(c), domain.OpDeleteAny, id); err != nil {
		return err
	}

	if err := h.service.DeleteUser(ctx, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
