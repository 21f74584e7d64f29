package handler // handler package contains the admin user management handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/qualifica/professor-rating-api/internal/repository"
)

// userDirectory is the slice of the user repository the handler needs.
// *repository.UserRepo satisfies it.
type userDirectory interface {
	List(ctx context.Context) ([]repository.User, error)
	FindByEmail(ctx context.Context, email string) (*repository.User, error)
	FindByID(ctx context.Context, id uint64) (*repository.User, error)
	Update(ctx context.Context, id uint64, name, role string) (*repository.User, error)
	Delete(ctx context.Context, id uint64) error
}

// UserHandler serves the account management endpoints. All routes are
// ADMIN-gated by the router; account creation stays on /v1/auth/register.
type UserHandler struct {
	Users userDirectory
}

func NewUserHandler(u userDirectory) *UserHandler {
	if u == nil {
		panic("nil store passed to NewUserHandler")
	}
	return &UserHandler{Users: u}
}

type userUpdateReq struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// ListUsers handles GET /v1/users (ADMIN).
func (h *UserHandler) ListUsers(c echo.Context) error {
	items, err := h.Users.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "query failed"})
	}
	out := make([]userPayload, 0, len(items))
	for i := range items {
		out = append(out, sanitizeUser(&items[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// GetUserByEmail handles GET /v1/users/email/:email (ADMIN).
func (h *UserHandler) GetUserByEmail(c echo.Context) error {
	email := strings.TrimSpace(c.Param("email"))
	if email == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "email required"})
	}
	u, err := h.Users.FindByEmail(c.Request().Context(), email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, sanitizeUser(u))
}

// UpdateUser handles PATCH /v1/users/:id (ADMIN). Only name and role are
// editable here; passwords and the verified flag move through the auth
// flows exclusively.
func (h *UserHandler) UpdateUser(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	existing, err := h.Users.FindByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "query failed"})
	}

	var body userUpdateReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	name := existing.Name
	if v := strings.TrimSpace(body.Name); v != "" {
		name = v
	}
	role := existing.Role
	if v := strings.ToUpper(strings.TrimSpace(body.Role)); v != "" {
		if v != repository.RoleStudent && v != repository.RoleAdmin {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "role must be STUDENT or ADMIN"})
		}
		role = v
	}

	updated, err := h.Users.Update(c.Request().Context(), id, name, role)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, sanitizeUser(updated))
}

// DeleteUser handles DELETE /v1/users/:id (ADMIN).
func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	if err := h.Users.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
