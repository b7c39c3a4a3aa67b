package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/paykash-service/internal/api/http"
	"github.com/spec-kit/paykash-service/internal/api/http/handlers"
	"github.com/spec-kit/paykash-service/internal/auth"
	"github.com/spec-kit/paykash-service/internal/config"
	"github.com/spec-kit/paykash-service/internal/events"
	"github.com/spec-kit/paykash-service/internal/observability"
	"github.com/spec-kit/paykash-service/internal/persistence"
	"github.com/spec-kit/paykash-service/internal/ratelimit"
	"github.com/spec-kit/paykash-service/internal/repository"
	"github.com/spec-kit/paykash-service/internal/service"
	"github.com/spec-kit/paykash-service/internal/worker"
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

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	resetRepo := repository.NewPINResetRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:   userRepo,
		PINReset:   resetRepo,
		Dispatcher: dispatcher,
	})
	userService := service.NewUserService(userRepo)
	authMiddleware := auth.NewMiddleware(authService.TokenManager(), userRepo)

	var loginLimit fiber.Handler
	if cfg.RateLimit.Enabled {
		limiter := ratelimit.NewSlidingWindowLimiter(
			redis.Client,
			cfg.RateLimit.LoginRequests,
			cfg.RateLimit.LoginWindow(),
			cfg.RateLimit.KeyPrefix+"login:")
		loginLimit = ratelimit.LoginLimit(limiter, logger)
	}

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, *cfg, logger, metrics)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService, cfg.App),
		Users:          handlers.NewUsersHandler(userService),
		AuthMiddleware: authMiddleware,
		LoginRateLimit: loginLimit,
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
