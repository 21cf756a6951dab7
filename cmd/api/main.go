package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/call-monitoring-service/internal/api/http"
	"github.com/spec-kit/call-monitoring-service/internal/api/http/handlers"
	"github.com/spec-kit/call-monitoring-service/internal/auth"
	"github.com/spec-kit/call-monitoring-service/internal/config"
	"github.com/spec-kit/call-monitoring-service/internal/events"
	"github.com/spec-kit/call-monitoring-service/internal/observability"
	"github.com/spec-kit/call-monitoring-service/internal/persistence"
	"github.com/spec-kit/call-monitoring-service/internal/repository"
	"github.com/spec-kit/call-monitoring-service/internal/service"
	"github.com/spec-kit/call-monitoring-service/internal/worker"
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
	callRepo := repository.NewCallRepository(pool)
	evaluationRepo := repository.NewEvaluationRepository(pool)
	dashboardRepo := repository.NewDashboardRepository(pool)
	refreshRepo := repository.NewRefreshTokenRepository(redis.Client)

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:         userRepo,
		RefreshTokenRepo: refreshRepo,
	})
	userService := service.NewUserService(userRepo, cfg.Auth.BcryptCost)
	callService := service.NewCallService(service.CallDependencies{
		CallRepo:       callRepo,
		EvaluationRepo: evaluationRepo,
		Dispatcher:     dispatcher,
	})
	evaluationService := service.NewEvaluationService(service.EvaluationDependencies{
		EvaluationRepo: evaluationRepo,
		CallRepo:       callRepo,
		Dispatcher:     dispatcher,
	})
	dashboardService := service.NewDashboardService(dashboardRepo, cfg.Dashboard)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(userService),
		Calls:          handlers.NewCallsHandler(callService),
		Evaluations:    handlers.NewEvaluationsHandler(evaluationService),
		Dashboard:      handlers.NewDashboardHandler(dashboardService),
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
