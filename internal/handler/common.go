package handler // handler defines http handlers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/qualifica/professor-rating-api/internal/repository"
)

// getUserID extracts the user_id placed in context by the JWT middleware.
func getUserID(c echo.Context) (uint64, error) {
	if id, ok := c.Get("user_id").(uint64); ok {
		return id, nil
	}
	return 0, errors.New("invalid user_id in context")
}

// isAdmin reports whether the request carries the ADMIN role claim.
func isAdmin(c echo.Context) bool {
	role, _ := c.Get("role").(string)
	return role == repository.RoleAdmin
}

// listParams reads the shared listing query parameters: ?search trims
// to a fragment filter, ?page is 1-based, ?limit is clamped to [1,100]
// with a default of 20. The returned offset is derived from page*limit.
func listParams(c echo.Context) (search string, page, limit, offset int) {
	search = strings.TrimSpace(c.QueryParam("search"))
	limit = 20
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			limit = n
			if limit > 100 {
				limit = 100
			}
		}
	}
	page = 1
	if v := c.QueryParam("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			page = n
		}
	}
	offset = (page - 1) * limit
	return search, page, limit, offset
}

// userPayload is the sanitized user shape returned by every endpoint.
// The password hash never crosses the HTTP boundary.
type userPayload struct {
	ID              uint64    `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Role            string    `json:"role"`
	IsEmailVerified bool      `json:"isEmailVerified"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func sanitizeUser(u *repository.User) userPayload {
	return userPayload{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		Role:            u.Role,
		IsEmailVerified: u.IsEmailVerified,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}
