package router

import (
	"github.com/labstack/echo/v4"

	"github.com/qualifica/professor-rating-api/internal/handler"
	"github.com/qualifica/professor-rating-api/internal/middleware"
	"github.com/qualifica/professor-rating-api/internal/repository"
)

// RegisterResources registers the user management, university,
// professor and rating routes.  Reads are public (and run behind the
// Redis response cache); catalog and account writes require the ADMIN
// role and ratings are posted by authenticated students.
func RegisterResources(e *echo.Echo, us *handler.UserHandler, u *handler.UniversityHandler, p *handler.ProfessorHandler, r *handler.RatingHandler, v middleware.TokenValidator, cache echo.MiddlewareFunc) {
	// Public browse endpoints.  The cache middleware only caches GETs.
	pub := e.Group("/v1", cache)
	pub.GET("/universities", u.ListUniversities)
	pub.GET("/universities/:id", u.GetUniversity)
	pub.GET("/professors", p.ListProfessors)
	pub.GET("/professors/:id", p.GetProfessor)
	pub.GET("/professors/:id/ratings", r.ListRatingsForProfessor)
	pub.GET("/ratings/:id", r.GetRating)

	// Catalog and account management is reserved for administrators.
	admin := e.Group("/v1")
	admin.Use(middleware.JWTAuth(v))
	admin.Use(middleware.RequireRole(repository.RoleAdmin))
	admin.GET("/users", us.ListUsers)
	admin.GET("/users/email/:email", us.GetUserByEmail)
	admin.PATCH("/users/:id", us.UpdateUser)
	admin.DELETE("/users/:id", us.DeleteUser)
	admin.POST("/universities", u.CreateUniversity)
	admin.PATCH("/universities/:id", u.UpdateUniversity)
	admin.DELETE("/universities/:id", u.DeleteUniversity)
	admin.POST("/professors", p.CreateProfessor)
	admin.PATCH("/professors/:id", p.UpdateProfessor)
	admin.DELETE("/professors/:id", p.DeleteProfessor)

	// Ratings belong to students; update/delete additionally allow the
	// ADMIN role for moderation, enforced in the handler via ownership.
	rated := e.Group("/v1")
	rated.Use(middleware.JWTAuth(v))
	rated.Use(middleware.RequireRole(repository.RoleStudent, repository.RoleAdmin))
	rated.POST("/ratings", r.CreateRating)
	rated.PATCH("/ratings/:id", r.UpdateRating)
	rated.DELETE("/ratings/:id", r.DeleteRating)
}
