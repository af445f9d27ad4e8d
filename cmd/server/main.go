package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/movaride/movaride-backend/internal/config"
	"github.com/movaride/movaride-backend/internal/database"
	"github.com/movaride/movaride-backend/internal/handlers"
	"github.com/movaride/movaride-backend/internal/logging"
	"github.com/movaride/movaride-backend/internal/middleware"
	"github.com/movaride/movaride-backend/internal/ratelimit"
	"github.com/movaride/movaride-backend/internal/routes"
	"github.com/movaride/movaride-backend/internal/services"
	"github.com/movaride/movaride-backend/internal/tokens"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file loaded", "reason", err)
	}

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// Login rate limiting is optional; without Redis it is disabled.
	var loginLimiter *ratelimit.Limiter
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		loginLimiter = ratelimit.New(rdb, cfg.LoginRateLimit, cfg.LoginRateWindow)
		slog.Info("login rate limiting enabled", "addr", cfg.RedisAddr)
	}

	// Services
	userService := services.NewUserService(database.DB)
	verificationService := services.NewVerificationService(
		database.DB, services.LogMailer{}, "http://localhost:"+cfg.Port)
	driverService := services.NewDriverService(database.DB)
	rideService := services.NewRideService(database.DB)

	// Token lifecycle core
	signer := tokens.NewSigner(cfg.JWTSecret, cfg.JWTAccessExpiry)
	refreshStore := tokens.NewRefreshTokenStore(database.DB, cfg.JWTRefreshExpiry)
	blacklist := tokens.NewBlacklist(database.DB)
	tokenService := tokens.NewService(signer, refreshStore, blacklist, userService)

	sweeperDone := make(chan struct{})
	tokens.StartSweeper(tokenService, cfg.SweepInterval, sweeperDone)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, verificationService, tokenService)
	userHandler := handlers.NewUserHandler(userService)
	driverHandler := handlers.NewDriverHandler(driverService)
	rideHandler := handlers.NewRideHandler(rideService)
	healthHandler := handlers.NewHealthHandler()

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      os.Getenv("APP_ENV"),
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		return c.Next()
	})

	routes.Setup(app, tokenService, loginLimiter,
		authHandler, userHandler, driverHandler, rideHandler, healthHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	close(sweeperDone)
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
