// Package app assembles the HTTP application from its dependencies.
package app

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"bloglist/internal/apperror"
	"bloglist/internal/config"
	"bloglist/internal/handlers"
	"bloglist/internal/metrics"
	"bloglist/internal/middleware"
	"bloglist/internal/repositories"
	"bloglist/internal/services"
)

// Deps are the collaborators of the application. Events and Cache are
// optional.
type Deps struct {
	Config  *config.Config
	Log     *zap.Logger
	Metrics *metrics.Metrics
	Users   repositories.UserRepository
	Blogs   repositories.BlogRepository
	Events  services.EventPublisher
	Cache   services.StatsCache
}

// New builds the Fiber app with every route registered. The returned
// AuthService issues and checks the tokens the app accepts.
func New(d Deps) (*fiber.App, *services.AuthService) {
	authService := services.NewAuthService(d.Users, d.Config.JWTSecret, d.Config.TokenTTL, d.Metrics, d.Log)
	blogService := services.NewBlogService(d.Blogs, d.Events, d.Cache, d.Metrics, d.Log)
	statsService := services.NewStatsService(d.Blogs, d.Cache, d.Log)

	authRequired := middleware.AuthRequired(authService)
	userHandler := handlers.NewUserHandler(authService)
	statsHandler := handlers.NewStatsHandler(statsService)
	blogHandler := handlers.NewBlogHandler(blogService, authRequired)

	app := fiber.New(fiber.Config{
		AppName:               "bloglist",
		ErrorHandler:          apperror.Handler(d.Log),
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(middleware.Metrics(d.Metrics))
	app.Use(middleware.RequestLogger(d.Log))

	api := app.Group("/api")
	userHandler.RegisterRoutes(api)
	statsHandler.RegisterRoutes(api)
	blogHandler.RegisterRoutes(api)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	app.Get("/metrics", d.Metrics.Handler())

	return app, authService
}
