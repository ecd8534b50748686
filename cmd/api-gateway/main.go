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
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/timetable-optimizer/api/swagger"
	"github.com/noah-isme/timetable-optimizer/internal/handler"
	internalmiddleware "github.com/noah-isme/timetable-optimizer/internal/middleware"
	"github.com/noah-isme/timetable-optimizer/internal/models"
	"github.com/noah-isme/timetable-optimizer/internal/repository"
	"github.com/noah-isme/timetable-optimizer/internal/service"
	"github.com/noah-isme/timetable-optimizer/pkg/cache"
	"github.com/noah-isme/timetable-optimizer/pkg/config"
	"github.com/noah-isme/timetable-optimizer/pkg/database"
	"github.com/noah-isme/timetable-optimizer/pkg/jobs"
	"github.com/noah-isme/timetable-optimizer/pkg/logger"
	corsmiddleware "github.com/noah-isme/timetable-optimizer/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/timetable-optimizer/pkg/middleware/requestid"
)

// @title Timetable Optimizer API
// @version 0.1.0
// @description Generates, reviews and exports conflict-aware class timetables
// @BasePath /
// @schemes http

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

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db, logr); err != nil {
			logr.Fatal("failed to apply migrations", zap.Error(err))
		}
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, continuing without cache", zap.Error(err))
			redisClient = nil
		}
	}
	cacheRepo := repository.NewCacheRepository(redisClient, cfg.Cache.KeyPrefix, logr)
	defer cacheRepo.Close() //nolint:errcheck

	metrics := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.DefaultTTL, logr,
		cfg.Cache.Enabled && cfg.Scheduler.CacheEnabled && redisClient != nil)

	timetableRepo := repository.NewGeneratedTimetableRepository(db)
	entryRepo := repository.NewTimetableEntryRepository(db)

	generator := service.NewTimetableGeneratorService(
		timetableRepo,
		entryRepo,
		db,
		cacheSvc,
		metrics,
		validator.New(),
		logr,
		service.TimetableGeneratorConfig{
			ProposalTTL:       cfg.Scheduler.ProposalTTL,
			DefaultCandidates: cfg.Scheduler.DefaultCandidates,
			MaxCandidates:     cfg.Scheduler.MaxCandidates,
			Workers:           cfg.Scheduler.Workers,
			Timeout:           cfg.Scheduler.Timeout,
			DefaultParameters: models.OptimizationParameters{
				MaxClassesPerDay:   cfg.Scheduler.MaxClassesPerDay,
				PreferredStartTime: cfg.Scheduler.PreferredStartTime,
				PreferredEndTime:   cfg.Scheduler.PreferredEndTime,
			},
		},
	)

	queue := jobs.NewQueue("timetable-generation", generator.HandleJob, jobs.QueueConfig{
		Workers:    cfg.Scheduler.JobWorkers,
		MaxRetries: cfg.Scheduler.JobRetries,
		RetryDelay: cfg.Scheduler.JobRetryDelay,
		OnFailure:  generator.HandleJobFailure,
		Logger:     logr,
	})
	queue.Start(ctx)
	defer queue.Stop()
	generator.AttachQueue(queue)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics, "/metrics", "/health", "/ready"))

	checks := map[string]handler.Pinger{"database": timetableRepo}
	if redisClient != nil {
		checks["redis"] = cacheRepo
	}
	metricsHandler := handler.NewMetricsHandler(metrics, checks)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	if cfg.Scheduler.Enabled {
		handler.NewTimetableHandler(generator).Register(r.Group(cfg.APIPrefix))
	} else {
		logr.Warn("scheduler disabled, timetable routes not mounted")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Scheduler.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Error("server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
