package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/trendlens/trendlens-go/internal/handler"
	"github.com/trendlens/trendlens-go/internal/middleware"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Outlier  *handler.OutlierHandler
	Snapshot *handler.SnapshotHandler
	Trend    *handler.TrendHandler
	Topic    *handler.TopicHandler
	Health   *handler.HealthHandler
}

// Setup configures the middleware stack and all API routes on the given Fiber app.
func Setup(app *fiber.App, h *Handlers, corsOrigins string) {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger())
	app.Use(middleware.NewCORS(corsOrigins))
	app.Use(handler.MetricsMiddleware())

	// Health and metrics (before API group, not rate limited)
	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)
	app.Get("/metrics", handler.MetricsHandler())

	queryLimit := middleware.NewQueryRateLimiter().Handler()
	collectLimit := middleware.NewCollectRateLimiter().Handler()
	verifyLimit := middleware.NewVerifyRateLimiter().Handler()
	topicWriteLimit := middleware.NewTopicWriteRateLimiter().Handler()

	// API routes
	api := app.Group("/api")

	// Outlier ledger
	api.Get("/outliers", h.Outlier.List, queryLimit)
	api.Put("/outliers", h.Outlier.Verify, verifyLimit)

	// Snapshot history
	api.Get("/snapshots", h.Snapshot.List, queryLimit)

	// Collection runs and upstream categories
	api.Get("/trends", h.Trend.Get, collectLimit)
	api.Post("/trends", h.Trend.Collect, collectLimit)

	// Trending topics
	api.Get("/topics", h.Topic.List, queryLimit)
	api.Post("/topics", h.Topic.Create, topicWriteLimit)
	api.Put("/topics/:topicId", h.Topic.Replace, topicWriteLimit)
	api.Delete("/topics/:topicId", h.Topic.Delete, topicWriteLimit)
}
