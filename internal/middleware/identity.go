package middleware

// identity.go defines helper functions shared across middleware files.
// currentUserID pulls the identity stored by JWTAuth out of the Echo
// context; rate limit keys use it so authenticated traffic is bucketed
// per user rather than per IP alone.

import (
    "strconv"

    "github.com/labstack/echo/v4"
)

// currentUserID returns the authenticated user's id as a string, or
// "anon" when the request carries no identity.
func currentUserID(c echo.Context) string {
    if v := c.Get("user_id"); v != nil {
        if id, ok := v.(uint64); ok {
            return strconv.FormatUint(id, 10)
        }
    }
    return "anon"
}
