package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/sfrp-tup/helpline/internal/api/http"
	"github.com/sfrp-tup/helpline/internal/api/http/handlers"
	"github.com/sfrp-tup/helpline/internal/auth"
	"github.com/sfrp-tup/helpline/internal/config"
	"github.com/sfrp-tup/helpline/internal/events"
	"github.com/sfrp-tup/helpline/internal/mail"
	"github.com/sfrp-tup/helpline/internal/observability"
	"github.com/sfrp-tup/helpline/internal/persistence"
	"github.com/sfrp-tup/helpline/internal/repository"
	"github.com/sfrp-tup/helpline/internal/service"
	"github.com/sfrp-tup/helpline/internal/worker"
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
	categoryRepo := repository.NewCategoryRepository(pool)
	requestRepo := repository.NewRequestRepository(pool)
	attachmentRepo := repository.NewAttachmentRepository(pool)
	updateRepo := repository.NewComplaintUpdateRepository(pool)
	overdueLogRepo := repository.NewOverdueLogRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()

	var sender mail.Sender
	if cfg.Notification.SendEmails {
		sender = mail.NewSMTPSender(cfg.Mail)
	} else {
		sender = mail.NewLogSender(logger)
	}

	notificationService := service.NewNotificationService(sender, cfg.Notification, logger)
	notificationService.Register(dispatcher)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authService := service.NewAuthService(userRepo, tokens, cfg.Auth, logger)
	authMiddleware := auth.NewAuthMiddleware(tokens, userRepo)

	validator := service.NewFormValidator(categoryRepo)
	submissionService := service.NewSubmissionService(pool, requestRepo, attachmentRepo, updateRepo, validator, dispatcher, logger)
	dashboardService := service.NewDashboardService(requestRepo, attachmentRepo, updateRepo)
	workflowService := service.NewWorkflowService(requestRepo, updateRepo, userRepo, dispatcher, logger)
	categoryService := service.NewCategoryService(categoryRepo)

	overdueService := service.NewOverdueService(
		requestRepo, overdueLogRepo, userRepo,
		sender, redis.Client,
		cfg.Overdue, cfg.Notification.BaseURL, logger,
	)

	scheduler, err := worker.NewSchedulerManager(logger)
	if err != nil {
		logger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := scheduler.RegisterOverdueJob(overdueService, cfg.Overdue.Interval()); err != nil {
		logger.Fatal("failed to register overdue job", zap.Error(err))
	}
	scheduler.Start()
	defer scheduler.Stop() //nolint:errcheck

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(authService),
		Categories:     handlers.NewCategoriesHandler(categoryService),
		Requests:       handlers.NewRequestsHandler(submissionService),
		Dashboard:      handlers.NewDashboardHandler(dashboardService, workflowService),
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
