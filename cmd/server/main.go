package main

import (
	"context"
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
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/vanypau15/nutrify-backend/internal/auth"
	"github.com/vanypau15/nutrify-backend/internal/config"
	"github.com/vanypau15/nutrify-backend/internal/database"
	"github.com/vanypau15/nutrify-backend/internal/handlers"
	"github.com/vanypau15/nutrify-backend/internal/logging"
	"github.com/vanypau15/nutrify-backend/internal/middleware"
	"github.com/vanypau15/nutrify-backend/internal/ratelimit"
	"github.com/vanypau15/nutrify-backend/internal/repository"
	"github.com/vanypau15/nutrify-backend/internal/routes"
	"github.com/vanypau15/nutrify-backend/internal/services"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg := config.Load()

	// Structured logging (JSON to stdout)
	stdout := logging.Setup(cfg.AppEnv)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Storage
	var (
		stores      repository.Stores
		sqlDB       *gorm.DB
		mongoClient *mongo.Client
		dbLog       *logging.DBHandler
		cleanupDone = make(chan struct{})
	)
	if cfg.UsesSQL() {
		db, err := database.Connect(cfg)
		if err != nil {
			slog.Error("database connection failed", "error", err)
			os.Exit(1)
		}
		if err := database.Migrate(db); err != nil {
			slog.Error("migration failed", "error", err)
			os.Exit(1)
		}
		sqlDB = db
		stores = repository.NewGormStores(db)

		// DB log handler (ERROR+ async batch)
		dbLog = logging.NewDBHandler(db)
		slog.SetDefault(slog.New(logging.NewMultiHandler(stdout, dbLog)))

		// Log cleanup (30-day retention)
		logging.StartCleanup(db, cleanupDone)
	} else {
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		client, err := repository.ConnectMongo(connectCtx, cfg.DatabaseURL)
		cancel()
		if err != nil {
			slog.Error("database connection failed", "driver", cfg.DBDriver, "error", err)
			os.Exit(1)
		}
		mongoClient = client
		mdb := client.Database(cfg.MongoDB)
		if err := repository.EnsureMongoIndexes(ctx, mdb); err != nil {
			slog.Error("index creation failed", "error", err)
			os.Exit(1)
		}
		stores = repository.NewMongoStores(mdb)
		slog.Info("database connected", "driver", cfg.DBDriver, "database", cfg.MongoDB)
	}

	// Services
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.JWTExpiry)
	authService := services.NewAuthService(stores.Users, tokens)
	foodService := services.NewFoodService(stores.Foods)
	trackingService := services.NewTrackingService(stores.Trackings, stores.Foods, cfg.Location)

	if cfg.SeedFoods {
		if _, err := foodService.SeedDefaults(ctx); err != nil {
			slog.Error("food seeding failed", "error", err)
			os.Exit(1)
		}
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	foodHandler := handlers.NewFoodHandler(foodService)
	trackingHandler := handlers.NewTrackingHandler(trackingService)
	healthHandler := handlers.NewHealthHandler(stores.Health)

	// Shared rate-limit counters
	var limiterStorage fiber.Storage
	if cfg.RedisAddr != "" {
		rdb, err := ratelimit.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			slog.Error("redis connection failed", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		limiterStorage = ratelimit.NewRedisStorage(rdb)
		slog.Info("rate limiter using redis", "addr", cfg.RedisAddr)
	}

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: handlers.ErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${locals:requestid}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	// Routes
	routes.Setup(app, cfg, tokens, limiterStorage, authHandler, foodHandler, trackingHandler, healthHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "driver", cfg.DBDriver)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	close(cleanupDone)
	if dbLog != nil {
		dbLog.Stop()
	}
	sentry.Flush(2 * time.Second)

	if limiterStorage != nil {
		if err := limiterStorage.Close(); err != nil {
			slog.Error("redis close error", "error", err)
		}
	}

	// Close database connections
	if sqlDB != nil {
		if err := database.Close(sqlDB); err != nil {
			slog.Error("database close error", "error", err)
		}
	}
	if mongoClient != nil {
		disconnectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}
