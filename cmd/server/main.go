package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // loads .env files in dev environments
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/qualifica/professor-rating-api/internal/auth"
	"github.com/qualifica/professor-rating-api/internal/config"
	"github.com/qualifica/professor-rating-api/internal/database"
	"github.com/qualifica/professor-rating-api/internal/email"
	"github.com/qualifica/professor-rating-api/internal/handler"
	"github.com/qualifica/professor-rating-api/internal/middleware"
	"github.com/qualifica/professor-rating-api/internal/queue"
	"github.com/qualifica/professor-rating-api/internal/repository"
	"github.com/qualifica/professor-rating-api/internal/router"
)

func main() {
	_ = godotenv.Load() // best effort; real deployments set env vars directly
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}

	users := repository.NewUserRepo(db)
	links := repository.NewMagicLinkRepo(db)
	revoked := repository.NewRevokedTokenRepo(db)
	universities := repository.NewUniversityRepo(db)
	professors := repository.NewProfessorRepo(db)
	ratings := repository.NewRatingRepo(db)

	mailer := email.NewGateway(cfg.AppName, cfg.AMQPURL)
	authSvc := auth.New(auth.Config{
		Secret:        cfg.JWTSecret,
		TokenTTL:      cfg.TokenTTL,
		VerifyBaseURL: cfg.VerifyBaseURL,
		BcryptCost:    cfg.BcryptCost,
	}, users, links, revoked, mailer)

	// The email consumer drains the email.send queue in the background
	// and keeps reconnecting on broker failures.
	go func() {
		if err := queue.StartEmailConsumer(cfg.AMQPURL); err != nil {
			log.Printf("email consumer stopped: %v", err)
		}
	}()

	// Redis backs the rate limiter and the public response cache.  A nil
	// client disables both and the API keeps serving.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and response cache disabled")
	}
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(authSvc), authSvc, limiter)
	router.RegisterResources(e,
		handler.NewUserHandler(users),
		handler.NewUniversityHandler(universities),
		handler.NewProfessorHandler(professors, ratings),
		handler.NewRatingHandler(ratings),
		authSvc, cache)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
