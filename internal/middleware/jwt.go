package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "context"  // context carries the request deadline into the ledger lookup
    "errors"   // errors.Is distinguishes revocation from other failures
    "net/http" // HTTP status codes for responses
    "strings"  // string utilities for prefix checking and trimming

    "github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

    "github.com/qualifica/professor-rating-api/internal/auth" // auth provides claims and sentinel errors
)

// TokenValidator verifies a bearer token end to end: signature and
// expiry first, then the revocation ledger. *auth.Service satisfies it.
type TokenValidator interface {
    ValidateToken(ctx context.Context, raw string) (*auth.Claims, error)
}

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects the authenticated identity into the request context.
// Handlers on protected routes can read `c.Get("user_id")` (uint64),
// `c.Get("email")` and `c.Get("role")`.  A cryptographically valid token
// whose jti sits in the revocation ledger is rejected with 403; every
// other failure is a plain 401.
func JWTAuth(v TokenValidator) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            // A valid header starts with "Bearer " followed by the JWT.
            header := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(header, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }
            raw := strings.TrimPrefix(header, "Bearer ")

            claims, err := v.ValidateToken(c.Request().Context(), raw)
            if err != nil {
                if errors.Is(err, auth.ErrTokenRevoked) {
                    return c.JSON(http.StatusForbidden, echo.Map{"error": "token has been revoked"})
                }
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }

            uid, err := claims.UserID()
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
            }

            // Store the identity in the context for handlers and
            // downstream middleware.
            c.Set("user_id", uid)
            c.Set("email", claims.Email)
            c.Set("role", claims.Role)
            return next(c)
        }
    }
}

// OptionalJWTAuth behaves like JWTAuth but lets unauthenticated requests
// through untouched.  Registration uses it: an anonymous caller may
// create a student account, while an admin's bearer token is what allows
// minting another admin.  A token that is present but invalid (including
// a revoked one) is still rejected rather than downgraded to anonymous.
func OptionalJWTAuth(v TokenValidator) echo.MiddlewareFunc {
    required := JWTAuth(v)
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        guarded := required(next)
        return func(c echo.Context) error {
            if c.Request().Header.Get("Authorization") == "" {
                return next(c)
            }
            return guarded(c)
        }
    }
}
