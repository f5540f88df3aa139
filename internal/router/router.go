package router

import (
	"log"
	"time"

	"github.com/confessit/backend/internal/handlers"
	appMiddleware "github.com/confessit/backend/internal/middleware"
	"github.com/confessit/backend/internal/models"
	"github.com/confessit/backend/internal/moderation"
	"github.com/confessit/backend/internal/ratelimit"
	"github.com/confessit/backend/internal/repositories"
	"github.com/confessit/backend/internal/service"
	"github.com/confessit/backend/pkg/config"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// Vote and comment endpoints tolerate short bursts but not sustained
// hammering from one IP.
const (
	writeRateRPS   = 1.0
	writeRateBurst = 5
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, cfg *config.Config, db *config.DB) error {
	repo, err := buildRepository(cfg, db)
	if err != nil {
		return err
	}

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)
	e.GET("/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"message": "Hello, World!"})
	})

	filter := moderation.NewFilter()

	limiter := ratelimit.NewCooldownLimiter(time.Duration(cfg.CooldownSeconds) * time.Second)
	go limiter.StartPruning(10*time.Minute, nil)

	writeLimiter := appMiddleware.NewIPRateLimiter(rate.Limit(writeRateRPS), writeRateBurst)
	go func() {
		for {
			time.Sleep(10 * time.Minute)
			writeLimiter.Cleanup(10 * time.Minute)
		}
	}()

	confessionService := service.NewConfessionService(repo, filter, limiter, cfg.AdminKey)
	confessionHandler := handlers.NewConfessionHandler(confessionService)
	confessionHandler.RegisterConfessionRoutes(e, appMiddleware.RateLimitMiddleware(writeLimiter))
	log.Println("Confession routes configured.")

	return nil
}

// buildRepository selects the store implementation for the configured
// driver and runs the SQL migrations when needed.
func buildRepository(cfg *config.Config, db *config.DB) (repositories.ConfessionRepository, error) {
	switch cfg.StoreDriver {
	case "mongo":
		log.Println("Using MongoDB confession store.")
		return repositories.NewMongoConfessionRepository(db.Mongo.Database(cfg.MongoDatabase)), nil
	case "postgres":
		err := db.Postgres.AutoMigrate(
			&models.ConfessionRecord{},
			&models.VoteRecord{},
			&models.CommentRecord{},
		)
		if err != nil {
			return nil, err
		}
		log.Println("PostgreSQL auto-migrations completed, using SQL confession store.")
		return repositories.NewSQLConfessionRepository(db.Postgres), nil
	default:
		log.Println("Using in-memory confession store.")
		return repositories.NewMemoryConfessionRepository(), nil
	}
}
