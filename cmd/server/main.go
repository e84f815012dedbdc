package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/matildaw/happy-thoughts-api/internal/config"
	"github.com/matildaw/happy-thoughts-api/internal/database"
	"github.com/matildaw/happy-thoughts-api/internal/handler"
	"github.com/matildaw/happy-thoughts-api/internal/middleware"
	"github.com/matildaw/happy-thoughts-api/internal/queue"
	"github.com/matildaw/happy-thoughts-api/internal/repository"
	"github.com/matildaw/happy-thoughts-api/internal/router"
	"github.com/matildaw/happy-thoughts-api/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: with no client the limiter and cache become
	// pass-through middleware.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, rate limiting and caching disabled")
	}

	users := repository.NewUserRepo(db)
	thoughts := repository.NewThoughtRepo(db)

	deps := router.Deps{
		Thoughts: handler.NewThoughtHandler(thoughts, users, service.NewActivityPublisher()),
		Users:    handler.NewUserHandler(users, cfg.BcryptCost),
		Tokens:   users,
		Limit:    middleware.RateLimit(config.LoadRateLimitConfig(), rdb),
		Cache:    middleware.ResponseCache(config.LoadCacheConfig(), rdb),
	}

	go func() {
		if err := queue.StartActivityConsumer(); err != nil {
			log.Printf("activity consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	router.Register(e, deps)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
