package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/movaride/movaride-backend/internal/handlers"
	"github.com/movaride/movaride-backend/internal/middleware"
	"github.com/movaride/movaride-backend/internal/models"
	"github.com/movaride/movaride-backend/internal/ratelimit"
	"github.com/movaride/movaride-backend/internal/tokens"
)

func Setup(
	app *fiber.App,
	tokenService *tokens.Service,
	loginLimiter *ratelimit.Limiter,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	driverHandler *handlers.DriverHandler,
	rideHandler *handlers.RideHandler,
	healthHandler *handlers.HealthHandler,
) {
	app.Get("/health", healthHandler.Check)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	protected := middleware.Protected(tokenService)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	// Auth, public
	auth := api.Group("/auth")
	auth.Post("/login", middleware.LoginRateLimit(loginLimiter), authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)
	auth.Post("/logout", authHandler.Logout)

	// Email verification
	api.Post("/verify/send", authHandler.SendVerification)
	api.Get("/verify", authHandler.ConfirmVerification)

	// Users
	api.Post("/users/signup", userHandler.Signup)
	api.Get("/users", protected, adminOnly, userHandler.List)

	// Drivers
	api.Post("/drivers/signup", driverHandler.Signup)
	api.Get("/drivers", protected, adminOnly, driverHandler.List)
	api.Get("/drivers/available", protected, adminOnly, driverHandler.Available)
	api.Post("/drivers/:id/approve", protected, adminOnly, driverHandler.Approve)
	api.Put("/drivers/location", protected, middleware.RequireRole(models.RoleDriver), driverHandler.UpdateLocation)

	// Rides
	api.Post("/rides", protected, middleware.RequireRole(models.RoleUser), rideHandler.Create)
	api.Get("/rides", protected, rideHandler.List)
	api.Get("/rides/:id", protected, rideHandler.Get)
	api.Patch("/rides/:id", protected, rideHandler.UpdateStatus)
	api.Post("/rides/:id/select-driver", protected, adminOnly, rideHandler.SelectDriver)
	api.Post("/rides/:id/payment", protected, rideHandler.RecordPayment)

	// Quote without creating a ride
	api.Get("/eta", protected, rideHandler.Quote)
}
