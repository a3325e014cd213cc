package main

import (
	"errors"
	"time"

	"catalog/internal/config"
	"catalog/internal/handlers"
	"catalog/internal/metrics"
	"catalog/internal/middleware"
	"catalog/internal/repositories"
	"catalog/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NewApp builds the HTTP application: middleware, health and metrics
// endpoints, and the API under cfg.APIPrefix. publisher may be nil.
func NewApp(cfg *config.Config, db *gorm.DB, publisher services.EventPublisher, logger *zap.Logger) *fiber.App {
	if logger == nil {
		logger = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		AppName:      "catalog",
		ErrorHandler: errorHandler(logger),
	})

	m := metrics.New()
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${method} ${path} ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(m.Middleware())

	app.Get("/health", healthHandler(db, publisher != nil))
	app.Get("/metrics", m.Handler())

	// --- Repositories, services and handlers ---
	userRepo := repositories.NewGORMUserRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	categoryRepo := repositories.NewGORMCategoryRepository(db)

	tokens := services.NewTokenService(cfg.JWTSecret, cfg.JWTTTL)
	authService := services.NewAuthService(userRepo, tokens, publisher, logger)
	productService := services.NewProductService(productRepo)
	categoryService := services.NewCategoryService(categoryRepo)

	auth := middleware.AuthRequired(tokens, logger)
	api := app.Group(cfg.APIPrefix)
	handlers.NewAuthHandler(authService, logger).RegisterRoutes(api, auth)
	handlers.NewProductHandler(productService, logger).RegisterRoutes(api, auth)
	handlers.NewCategoryHandler(categoryService, logger).RegisterRoutes(api, auth)

	return app
}

func healthHandler(db *gorm.DB, eventsEnabled bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		events := "disabled"
		if eventsEnabled {
			events = "enabled"
		}

		status, dbStatus := fiber.StatusOK, "up"
		if err := pingDB(db); err != nil {
			status, dbStatus = fiber.StatusServiceUnavailable, "down"
		}

		health := "healthy"
		if status != fiber.StatusOK {
			health = "unhealthy"
		}
		return c.Status(status).JSON(fiber.Map{
			"status":   health,
			"time":     time.Now().Format(time.RFC3339),
			"database": dbStatus,
			"events":   events,
		})
	}
}

func pingDB(db *gorm.DB) error {
	if db == nil {
		return repositories.ErrNoStore
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// errorHandler renders errors that escape the handlers, such as unknown
// routes or recovered panics.
func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
			return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
		}
		logger.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "something went wrong",
			"error":   "internal server error",
		})
	}
}
