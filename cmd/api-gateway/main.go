package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/match-scheduler-gateway/api/swagger"
	"github.com/noah-isme/match-scheduler-gateway/internal/handler"
	internalmiddleware "github.com/noah-isme/match-scheduler-gateway/internal/middleware"
	"github.com/noah-isme/match-scheduler-gateway/internal/models"
	"github.com/noah-isme/match-scheduler-gateway/internal/repository"
	"github.com/noah-isme/match-scheduler-gateway/internal/service"
	"github.com/noah-isme/match-scheduler-gateway/internal/upstream"
	"github.com/noah-isme/match-scheduler-gateway/pkg/cache"
	"github.com/noah-isme/match-scheduler-gateway/pkg/config"
	"github.com/noah-isme/match-scheduler-gateway/pkg/database"
	"github.com/noah-isme/match-scheduler-gateway/pkg/jobs"
	"github.com/noah-isme/match-scheduler-gateway/pkg/logger"
	corsmiddleware "github.com/noah-isme/match-scheduler-gateway/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/match-scheduler-gateway/pkg/middleware/requestid"
	"github.com/noah-isme/match-scheduler-gateway/pkg/storage"
)

// @title Match Scheduler Gateway
// @version 1.0.0
// @description Scheduling wizard in front of the tournament match scheduler
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metricsSvc := service.NewMetricsService()
	checks := map[string]handler.Pinger{}

	redisClient := connectRedis(ctx, cfg, logr)
	if redisClient != nil {
		defer redisClient.Close() //nolint:errcheck
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	db := connectPostgres(ctx, cfg, logr)
	if db != nil {
		defer db.Close() //nolint:errcheck
		checks["postgres"] = db.PingContext
	}

	client := upstream.New(upstream.Config{
		BaseURL:            cfg.Upstream.BaseURL,
		Timeout:            cfg.Upstream.Timeout,
		ManualSchedulePath: cfg.Upstream.ManualSchedulePath,
	}, metricsSvc, logr)

	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.MatchCache.TTL, logr, redisClient != nil)
	matchSvc := service.NewMatchService(client, cacheSvc, cfg.MatchCache.TTL, logr)
	readinessSvc := service.NewStageReadinessService(client, matchSvc, logr)

	var runSvc *service.SchedulingRunService
	var runQueue *jobs.Queue
	if db != nil {
		runSvc = service.NewSchedulingRunService(repository.NewSchedulingRunRepository(db), nil, metricsSvc, logr)
		runQueue = jobs.NewQueue("scheduling-runs", runSvc.HandleJob, jobs.QueueConfig{
			Workers:    cfg.RunHistory.Workers,
			MaxRetries: cfg.RunHistory.Retries,
			Logger:     logr,
		})
		runSvc.AttachQueue(runQueue)
		runQueue.Start(ctx)
	}

	wizardSvc := service.NewWizardService(client, client, matchSvc, runRecorder(runSvc), metricsSvc, validator.New(), logr, service.WizardConfig{
		SessionTTL:    cfg.Wizard.SessionTTL,
		SweepInterval: cfg.Wizard.SweepInterval,
	})
	go wizardSvc.Run(ctx)

	exportSvc := service.NewExportService(wizardSvc, nil, nil, logr)
	if cfg.Export.SigningSecret != "" {
		store, err := storage.NewLocalStorage(cfg.Export.Dir)
		if err != nil {
			logr.Warn("match sheet publishing disabled", zap.Error(err))
		} else {
			exportSvc.WithPublishing(store, storage.NewSignedURLSigner(cfg.Export.SigningSecret, cfg.Export.LinkTTL), cfg.Export.LinkTTL)
			go exportSvc.RunCleanup(ctx, time.Hour)
		}
	}

	audience := ""
	if len(cfg.JWT.Audience) > 0 {
		audience = cfg.JWT.Audience[0]
	}
	authSvc := service.NewAuthService(logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		Issuer:            cfg.JWT.Issuer,
		Audience:          audience,
		Leeway:            30 * time.Second,
	})

	wizardHandler := handler.NewWizardHandler(wizardSvc, exportSvc)
	stageHandler := handler.NewStageHandler(readinessSvc, matchSvc, runSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, checks)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr, "/health", "/ready", "/metrics"))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))
	r.Use(internalmiddleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	public := r.Group(cfg.APIPrefix)
	public.GET("/exports/:token", wizardHandler.Download)

	api := r.Group(cfg.APIPrefix)
	api.Use(internalmiddleware.JWT(authSvc))

	api.GET("/matches", stageHandler.Matches)
	stages := api.Group("/stages/:id")
	stages.GET("/readiness", stageHandler.Readiness)
	stages.GET("/matches", stageHandler.StageMatches)
	stages.GET("/scheduling-runs", internalmiddleware.RequireRoles(models.RoleAdmin, models.RoleHeadReferee), stageHandler.SchedulingRuns)

	wizards := api.Group("/wizards")
	wizards.Use(internalmiddleware.RequireRoles(models.RoleAdmin, models.RoleHeadReferee))
	wizards.POST("", wizardHandler.Open)
	wizards.GET("/:id", wizardHandler.Get)
	wizards.DELETE("/:id", wizardHandler.Close)
	wizards.PUT("/:id/config", wizardHandler.UpdateConfig)
	wizards.POST("/:id/teams", wizardHandler.EnterTeams)
	wizards.GET("/:id/teams", wizardHandler.ListTeams)
	wizards.POST("/:id/teams/toggle", wizardHandler.ToggleTeam)
	wizards.POST("/:id/teams/select-filtered", wizardHandler.SelectFiltered)
	wizards.POST("/:id/back", wizardHandler.Back)
	wizards.POST("/:id/reset", wizardHandler.Reset)
	wizards.POST("/:id/submit", wizardHandler.Submit)
	wizards.GET("/:id/results", wizardHandler.Results)
	wizards.GET("/:id/export", wizardHandler.Export)
	wizards.POST("/:id/export/link", wizardHandler.PublishExport)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "upstream", cfg.Upstream.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	if runQueue != nil {
		runQueue.Stop(shutdownCtx)
	}
}

func connectRedis(ctx context.Context, cfg *config.Config, logr *zap.Logger) *redis.Client {
	if !cfg.MatchCache.Enabled {
		return nil
	}
	client, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("match cache disabled, redis unavailable", zap.Error(err))
		return nil
	}
	return client
}

func connectPostgres(ctx context.Context, cfg *config.Config, logr *zap.Logger) *sqlx.DB {
	if !cfg.RunHistory.Enabled {
		return nil
	}
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Warn("run history disabled, postgres unavailable", zap.Error(err))
		return nil
	}
	if err := database.EnsureSchema(ctx, db); err != nil {
		logr.Warn("run history disabled, schema setup failed", zap.Error(err))
		_ = db.Close()
		return nil
	}
	return db
}

// runRecorder keeps a nil service from reaching the wizard as a non-nil interface.
func runRecorder(svc *service.SchedulingRunService) interface {
	Record(ctx context.Context, run models.SchedulingRun)
} {
	if svc == nil {
		return nil
	}
	return svc
}
