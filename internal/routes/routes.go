package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/vanypau15/nutrify-backend/internal/auth"
	"github.com/vanypau15/nutrify-backend/internal/config"
	"github.com/vanypau15/nutrify-backend/internal/dto"
	"github.com/vanypau15/nutrify-backend/internal/handlers"
	"github.com/vanypau15/nutrify-backend/internal/middleware"
)

// Setup registers every route. limiterStorage may be nil, in which case
// rate-limit counters stay in process memory.
func Setup(
	app *fiber.App,
	cfg *config.Config,
	tokens *auth.TokenService,
	limiterStorage fiber.Storage,
	authHandler *handlers.AuthHandler,
	foodHandler *handlers.FoodHandler,
	trackingHandler *handlers.TrackingHandler,
	healthHandler *handlers.HealthHandler,
) {
	// Health stays outside the rate limits.
	app.Get("/health", healthHandler.Check)

	// General API rate limiter: per IP per minute
	app.Use(newLimiter("api", cfg.RateLimitMax, limiterStorage))

	// Auth: public, with a stricter per-IP limit
	authLimit := newLimiter("auth", cfg.AuthRateLimitMax, limiterStorage)
	app.Post("/register", authLimit, authHandler.Register)
	app.Post("/login", authLimit, authHandler.Login)

	// Protected routes (bearer token required)
	protected := middleware.RequireAuth(tokens)
	app.Get("/foods", protected, foodHandler.List)
	app.Get("/foods/search/:name", protected, foodHandler.Search)
	app.Post("/track", protected, trackingHandler.Track)
	app.Get("/track/:userId/:date", protected, trackingHandler.ByUserAndDate)

	app.Use(handlers.NotFound)
}

// newLimiter keys counters by scope and client IP so limiters sharing one
// storage do not count against each other.
func newLimiter(scope string, max int, storage fiber.Storage) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               max,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return scope + ":" + c.IP() },
		Storage:           storage,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Error: true, Message: "Too many requests",
			})
		},
	})
}
