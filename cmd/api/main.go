package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/hrumbles/candidate-pipeline/internal/api/dto"
	httptransport "github.com/hrumbles/candidate-pipeline/internal/api/http"
	"github.com/hrumbles/candidate-pipeline/internal/api/http/handlers"
	"github.com/hrumbles/candidate-pipeline/internal/auth"
	"github.com/hrumbles/candidate-pipeline/internal/cache"
	"github.com/hrumbles/candidate-pipeline/internal/config"
	"github.com/hrumbles/candidate-pipeline/internal/events"
	"github.com/hrumbles/candidate-pipeline/internal/observability"
	"github.com/hrumbles/candidate-pipeline/internal/persistence"
	"github.com/hrumbles/candidate-pipeline/internal/repository"
	"github.com/hrumbles/candidate-pipeline/internal/service"
	"github.com/hrumbles/candidate-pipeline/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if _, err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	pool := pg.PoolHandle()

	statusRepo := cache.NewStatusCache(repository.NewStatusRepository(pool), redis.ClientHandle(), cfg.Pipeline.CatalogCacheTTL, cfg.Redis.OpTimeout, logger)
	catalogService := service.NewCatalogService(statusRepo, logger)

	dispatcher := events.NewInMemoryDispatcher(logger)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartEventWorkers(dispatcher, notificationService, events.NewRedisPublisher(redis.ClientHandle(), cfg.Pipeline.EventChannel, cfg.Redis.OpTimeout))

	transitionService := service.NewTransitionService(service.TransitionDependencies{
		Catalog:         catalogService,
		CandidateRepo:   repository.NewCandidateRepository(pool),
		TimelineRepo:    repository.NewTimelineRepository(pool),
		TxManager:       repository.NewTxManager(pool),
		Dispatcher:      dispatcher,
		Metrics:         metrics,
		Logger:          logger,
		EnforceTerminal: cfg.Pipeline.EnforceTerminal,
	})

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	validator := dto.NewValidator()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httptransport.ErrorHandler(logger, metrics),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}),
		Catalog:        handlers.NewCatalogHandler(catalogService, validator),
		Candidates:     handlers.NewCandidatesHandler(transitionService, validator),
		AuthMiddleware: auth.NewAuthMiddleware(tokens),
		Metrics:        metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
