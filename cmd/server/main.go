package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v3"

	"github.com/trendlens/trendlens-go/internal/config"
	"github.com/trendlens/trendlens-go/internal/db"
	"github.com/trendlens/trendlens-go/internal/handler"
	"github.com/trendlens/trendlens-go/internal/middleware"
	"github.com/trendlens/trendlens-go/internal/repository"
	"github.com/trendlens/trendlens-go/internal/router"
	"github.com/trendlens/trendlens-go/internal/service"
	"github.com/trendlens/trendlens-go/internal/youtube"
)

func main() {
	cfg := config.Load()
	middleware.InitLogger(cfg.LogLevel, "trendlens")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	handler.InitMetrics(pool)

	cache := service.NewCacheService(cfg.RedisURL)
	defer cache.Close()

	source := youtube.NewClient(cfg.YouTubeAPIKey, cfg.YouTubeBaseURL)

	snapshotRepo := repository.NewSnapshotRepo(pool)
	outlierRepo := repository.NewOutlierRepo(pool)
	topicRepo := repository.NewTopicRepo(pool)

	collectSvc := service.NewCollectService(source, snapshotRepo, topicRepo, cache, cfg)
	trendSvc := service.NewTrendService(snapshotRepo, cache)
	snapshotSvc := service.NewSnapshotService(snapshotRepo, trendSvc)
	ledgerSvc := service.NewOutlierLedgerService(outlierRepo)
	topicSvc := service.NewTopicService(topicRepo)

	// In-process collector: only when an interval is configured; otherwise
	// runs are triggered through the API alone.
	var worker *service.CollectorWorker
	if cfg.CollectInterval > 0 {
		worker = service.NewCollectorWorker(collectSvc, cfg.CollectRegions, cfg.CollectInterval)
		go worker.Start(ctx)
	}

	app := fiber.New(fiber.Config{
		AppName:      "TrendLens API",
		ServerHeader: "TrendLens",
	})

	router.Setup(app, &router.Handlers{
		Outlier:  handler.NewOutlierHandler(ledgerSvc, cfg.DefaultRegion),
		Snapshot: handler.NewSnapshotHandler(snapshotSvc, cfg.DefaultRegion, cfg.DefaultSnapshotType),
		Trend:    handler.NewTrendHandler(collectSvc, source, cache, cfg.DefaultRegion),
		Topic:    handler.NewTopicHandler(topicSvc),
		Health:   handler.NewHealthHandler(pool, cache.Client(), cfg.YouTubeAPIKey != ""),
	}, cfg.CORSOrigins)

	// Graceful shutdown on SIGINT/SIGTERM
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig

		log.Println("shutting down")
		if worker != nil {
			worker.Stop()
		}
		cancel()
		_ = app.Shutdown()
	}()

	log.Printf("TrendLens backend starting on :%s (env=%s)", cfg.Port, cfg.Environment)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
