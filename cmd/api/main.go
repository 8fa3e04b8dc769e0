package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/lintasnet/fieldops/internal/api/http"
	"github.com/lintasnet/fieldops/internal/api/http/handlers"
	"github.com/lintasnet/fieldops/internal/auth"
	"github.com/lintasnet/fieldops/internal/config"
	"github.com/lintasnet/fieldops/internal/events"
	"github.com/lintasnet/fieldops/internal/observability"
	"github.com/lintasnet/fieldops/internal/persistence"
	"github.com/lintasnet/fieldops/internal/repository"
	"github.com/lintasnet/fieldops/internal/service"
	"github.com/lintasnet/fieldops/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
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
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	natsPublisher, err := events.NewNATSPublisher(cfg.NATS, logger)
	if err != nil {
		logger.Fatal("failed to connect nats", zap.Error(err))
	}
	defer natsPublisher.Close()

	pool := pg.PoolHandle()
	ticketRepo := repository.NewTicketRepository(pool)
	historyRepo := repository.NewTicketHistoryRepository(pool)
	technicianRepo := repository.NewTechnicianRepository(pool)
	customerRepo := repository.NewCustomerRepository(pool)
	packageRepo := repository.NewServicePackageRepository(pool)

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	tokens := auth.NewTokenManager(cfg.Auth)
	authService := service.NewAuthService(technicianRepo, tokens)
	authMiddleware := auth.NewAuthMiddleware(tokens, technicianRepo)

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:     ticketRepo,
		HistoryRepo:    historyRepo,
		TechnicianRepo: technicianRepo,
		CustomerRepo:   customerRepo,
		PackageRepo:    packageRepo,
		Dispatcher:     dispatcher,
		Metrics:        metrics,
	})

	notificationService := service.NewNotificationService(service.NotificationDependencies{
		Seen:       service.NewRedisSeenSet(redis.Client, cfg.Notification.DedupeTTL()),
		WebhookURL: cfg.Notification.WebhookURL,
		Logger:     logger,
	})
	worker.StartNotificationWorker(dispatcher, notificationService, natsPublisher)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		AuthMiddleware: authMiddleware,
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
