// Package main is the entry point for the messenger backend. It wires the
// connection pool, repositories, handlers, and middleware, and serves the
// JSON API.
package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/joho/godotenv"

	"github.com/jonesmarquelle/messenger/internal/config"
	"github.com/jonesmarquelle/messenger/internal/database"
	"github.com/jonesmarquelle/messenger/internal/handlers"
	"github.com/jonesmarquelle/messenger/internal/metrics"
	"github.com/jonesmarquelle/messenger/internal/middleware"
	"github.com/jonesmarquelle/messenger/internal/repository"
	"github.com/jonesmarquelle/messenger/internal/security"
	"github.com/jonesmarquelle/messenger/internal/services"
)

func main() {
	// Missing .env is fine; the environment may be set directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	if cfg.MigrateOnStart {
		if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
	}

	pool, err := database.Connect(context.Background(), database.Config{
		URL:      cfg.DatabaseURL,
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer pool.Close()

	logger := security.NewLogger()
	logger.Info("messenger backend starting")

	// Repositories share the one pool; it is the only store handle in the
	// process.
	userRepo := repository.NewUserRepository(pool)
	groupRepo := repository.NewGroupRepository(pool)
	messageRepo := repository.NewMessageRepository(pool)
	auditRepo := repository.NewAuditRepository(pool)

	authService := services.NewAuthService(userRepo)

	store := session.New(session.Config{
		Expiration:     cfg.SessionTimeout,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
		CookieName:     "messenger_session",
	})

	loginLimiter := security.NewRateLimiter(cfg.LoginRateLimit, time.Minute/time.Duration(cfg.LoginRateLimit))
	defer loginLimiter.Stop()

	messageLimiter := security.NewRateLimiter(cfg.MessageRateLimit, time.Minute/time.Duration(cfg.MessageRateLimit))
	defer messageLimiter.Stop()

	groupLimiter := security.NewRateLimiter(cfg.GroupRateLimit, time.Minute/time.Duration(cfg.GroupRateLimit))
	defer groupLimiter.Stop()

	authHandler := handlers.NewAuthHandler(store, authService, logger)
	usersHandler := handlers.NewUsersHandler(userRepo, groupRepo, logger)
	groupsHandler := handlers.NewGroupsHandler(groupRepo, userRepo, auditRepo, logger)
	messagesHandler := handlers.NewMessagesHandler(messageRepo, logger)

	app := fiber.New()

	app.Use(recover.New())
	app.Use(middleware.RequestLogger(logger))
	app.Use(middleware.SecureHeaders())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded"})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", metrics.Handler())

	api := app.Group("/api")

	api.Post("/login",
		middleware.RateLimit(loginLimiter, logger, "login"),
		authHandler.Login,
	)
	api.Post("/logout", authHandler.Logout)

	// Everything past this point requires a valid session.
	api.Use(middleware.AuthRequired(store))

	api.Get("/users", usersHandler.Get)

	api.Get("/groups", groupsHandler.Get)
	api.Put("/groups",
		middleware.RateLimit(groupLimiter, logger, "groups"),
		groupsHandler.Put,
	)

	api.Get("/messages", messagesHandler.Get)
	api.Put("/messages",
		middleware.RateLimit(messageLimiter, logger, "messages"),
		messagesHandler.Put,
	)

	logger.Info("listening on :" + cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Critical("server stopped", err)
		log.Fatalf("server stopped: %v", err)
	}
}
