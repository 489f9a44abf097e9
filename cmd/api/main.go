package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	httptransport "github.com/school-kit/helpdesk-service/internal/api/http"
	"github.com/school-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/school-kit/helpdesk-service/internal/config"
	"github.com/school-kit/helpdesk-service/internal/events"
	"github.com/school-kit/helpdesk-service/internal/export"
	"github.com/school-kit/helpdesk-service/internal/identity"
	"github.com/school-kit/helpdesk-service/internal/observability"
	"github.com/school-kit/helpdesk-service/internal/persistence"
	"github.com/school-kit/helpdesk-service/internal/repository"
	"github.com/school-kit/helpdesk-service/internal/service"
	"github.com/school-kit/helpdesk-service/internal/store"
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

	redisClient := persistence.NewRedisClient(cfg.Redis, logger)
	defer redisClient.Close() //nolint:errcheck

	records, ready, cleanup, err := buildStore(ctx, cfg, redisClient, logger)
	if err != nil {
		logger.Fatal("failed to open record store", zap.Error(err))
	}
	defer cleanup()

	ticketRepo := repository.NewTicketRepository(records)
	userRepo := repository.NewUserRepository(records)

	dispatcher := events.NewDispatcher()
	notifications := service.NewNotificationService(dispatcher, logger, redisClient, cfg.Notification)
	notifications.Register()

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: ticketRepo,
		UserRepo:   userRepo,
		Dispatcher: dispatcher,
	})
	userService := service.NewUserService(userRepo)

	provider := identity.NewProvider(userRepo)

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:   handlers.NewHealthHandler(ready),
		Auth:     handlers.NewAuthHandler(provider),
		Tickets:  handlers.NewTicketsHandler(ticketService),
		Users:    handlers.NewUsersHandler(userService),
		Reports:  handlers.NewReportsHandler(ticketService, export.NewExporter(records)),
		Catalog:  handlers.NewCatalogHandler(),
		Metrics:  handlers.NewMetricsHandler(metrics),
		Identity: identity.NewMiddleware(provider),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

// buildStore opens the backend named by STORE_BACKEND. The ready func backs
// the readiness probe; cleanup releases backend connections.
func buildStore(ctx context.Context, cfg *config.Config, redisClient *redis.Client, logger *zap.Logger) (store.RecordStore, func(ctx context.Context) error, func(), error) {
	switch cfg.Store.Backend {
	case config.StoreBackendRedis:
		ready := func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
		return store.NewRedisStore(redisClient, cfg.Store.KeyPrefix), ready, func() {}, nil
	case config.StoreBackendPostgres:
		pool, err := persistence.ConnectPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pool, logger); err != nil {
				pool.Close()
				return nil, nil, nil, err
			}
		}
		ready := func(ctx context.Context) error { return pool.Ping(ctx) }
		return store.NewPostgresStore(pool), ready, pool.Close, nil
	default:
		return store.NewMemoryStore(), nil, func() {}, nil
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
