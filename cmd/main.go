package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/h-shvedko/sociallyhub-sub010/internal/api"
	"github.com/h-shvedko/sociallyhub-sub010/internal/auth"
	"github.com/h-shvedko/sociallyhub-sub010/internal/config"
	"github.com/h-shvedko/sociallyhub-sub010/internal/db"
	"github.com/h-shvedko/sociallyhub-sub010/internal/repository"
	"github.com/h-shvedko/sociallyhub-sub010/internal/scheduler"
	"github.com/h-shvedko/sociallyhub-sub010/internal/service"
	"github.com/h-shvedko/sociallyhub-sub010/pkg/logger"
	"github.com/hellofresh/health-go/v5"
	healthPostgres "github.com/hellofresh/health-go/v5/checks/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func main() {
	logger, err := logger.NewLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("starting application")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err = pool.Ping(context.Background()); err != nil {
		logger.Fatal("failed to ping database", zap.Error(err))
	}

	logger.Info("database connection established")

	transactor := db.NewPgxTransactor(pool)
	tokens := auth.NewTokenManager(cfg.TokenSecret, cfg.TokenTTL)

	userRepo := repository.NewPgxUserRepository(pool)
	workspaceRepo := repository.NewPgxWorkspaceRepository(pool)
	postRepo := repository.NewPgxPostRepository(pool)
	templateRepo := repository.NewPgxTemplateRepository(pool)
	campaignRepo := repository.NewPgxCampaignRepository(pool)
	ticketRepo := repository.NewPgxTicketRepository(pool)
	experimentRepo := repository.NewPgxExperimentRepository(pool)
	metricsRepo := repository.NewPgxMetricsRepository(pool)
	articleRepo := repository.NewPgxArticleRepository(pool)

	authSvc := service.NewAuthService(tokens).WithUserRepo(userRepo)
	workspaceSvc := service.NewWorkspaceService(transactor).WithWorkspaceRepo(workspaceRepo).WithUserRepo(userRepo)
	postSvc := service.NewPostService(transactor).WithPostRepo(postRepo).WithWorkspaceRepo(workspaceRepo)
	templateSvc := service.NewTemplateService(transactor).WithTemplateRepo(templateRepo).WithPostRepo(postRepo).WithWorkspaceRepo(workspaceRepo)
	campaignSvc := service.NewCampaignService(transactor).WithCampaignRepo(campaignRepo).WithWorkspaceRepo(workspaceRepo)
	analyticsSvc := service.NewAnalyticsService(transactor).WithMetricsRepo(metricsRepo).WithPostRepo(postRepo).WithWorkspaceRepo(workspaceRepo)
	abtestSvc := service.NewABTestService(transactor).WithExperimentRepo(experimentRepo).WithWorkspaceRepo(workspaceRepo)
	ticketSvc := service.NewTicketService(transactor).WithTicketRepo(ticketRepo).WithWorkspaceRepo(workspaceRepo)
	adminSvc := service.NewAdminService(transactor).WithUserRepo(userRepo)
	helpcenterSvc := service.NewHelpCenterService().WithArticleRepo(articleRepo)

	healthChecker := api.MustNewHealthChecker(health.Config{
		Name:      "postgres",
		Timeout:   5 * time.Second,
		SkipOnErr: false,
		Check: healthPostgres.New(healthPostgres.Config{
			DSN: cfg.DatabaseURL,
		}),
	})

	e := echo.New()

	handler := api.NewHandler(logger, tokens).
		WithHealthChecker(healthChecker).
		WithAuthService(authSvc).
		WithWorkspaceService(workspaceSvc).
		WithPostService(postSvc).
		WithTemplateService(templateSvc).
		WithCampaignService(campaignSvc).
		WithAnalyticsService(analyticsSvc).
		WithABTestService(abtestSvc).
		WithTicketService(ticketSvc).
		WithAdminService(adminSvc).
		WithHelpCenterService(helpcenterSvc)

	handler.RegisterRoutes(e)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	publisher := scheduler.NewPublisher(transactor, postRepo, logger, cfg.PublishInterval, cfg.PublishBatch)
	go publisher.Run(ctx)

	go func() {
		logger.Info("server starting", zap.String("addr", cfg.Addr))
		if err := e.Start(cfg.Addr); err != nil {
			logger.Warn("server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
