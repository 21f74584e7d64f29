package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/qualifica/professor-rating-api/internal/handler"    // import the handlers that implement business logic
	"github.com/qualifica/professor-rating-api/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check,
// used by load balancers and monitoring systems.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies
// the necessary middleware.  The validator is the revocation-aware token
// check implemented by the auth service; limit is the Redis token-bucket
// rate limiter protecting the credential endpoints.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, v middleware.TokenValidator, limit echo.MiddlewareFunc) {
	// Unauthenticated operations live under /v1/auth.  Registration runs
	// behind the optional JWT middleware: an anonymous caller creates a
	// student account, while an admin's bearer token authorizes minting
	// another admin.
	g := e.Group("/v1/auth", limit)
	g.POST("/register", a.Register, middleware.OptionalJWTAuth(v))
	g.POST("/login", a.Login)
	// Logout deliberately skips JWT middleware: it must succeed even for
	// malformed or expired tokens, which the middleware would reject.
	g.POST("/logout", a.Logout)
	// The emailed magic link is a GET; SPAs that post the token use the
	// POST variant.  Both consume the same single-use link.
	g.GET("/verify", a.VerifyEmail)
	g.POST("/verify-email", a.VerifyEmail)
	g.POST("/resend-verification", a.ResendVerification)

	// Protected endpoints require a valid, unrevoked access token.
	auth := e.Group("/v1/auth")
	auth.Use(middleware.JWTAuth(v))
	auth.GET("/profile", a.Profile)
}
