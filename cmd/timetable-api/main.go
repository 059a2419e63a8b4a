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
	"go.uber.org/zap"

	_ "github.com/noah-isme/interview-timetable-api/api/swagger"
	"github.com/noah-isme/interview-timetable-api/internal/handler"
	"github.com/noah-isme/interview-timetable-api/internal/middleware"
	"github.com/noah-isme/interview-timetable-api/internal/models"
	"github.com/noah-isme/interview-timetable-api/internal/repository"
	"github.com/noah-isme/interview-timetable-api/internal/service"
	"github.com/noah-isme/interview-timetable-api/pkg/cache"
	"github.com/noah-isme/interview-timetable-api/pkg/config"
	"github.com/noah-isme/interview-timetable-api/pkg/jobs"
	"github.com/noah-isme/interview-timetable-api/pkg/logger"
)

// @title Interview Timetable API
// @version 1.0.0
// @description Availability grid for interview scheduling: viewers mark free slots, admins block slots and pick dates.
// @BasePath /
// @schemes http

const shutdownTimeout = 10 * time.Second

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

	metrics := service.NewMetricsService()

	state := service.NewScheduleState(logr)
	if cfg.Schedule.SeedFile != "" {
		seed, err := service.LoadScheduleSeed(cfg.Schedule.SeedFile)
		if err != nil {
			logr.Fatal("failed to load schedule seed", zap.String("path", cfg.Schedule.SeedFile), zap.Error(err))
		}
		if _, err := state.ApplySeed(seed); err != nil {
			logr.Fatal("invalid schedule seed", zap.String("path", cfg.Schedule.SeedFile), zap.Error(err))
		}
	}
	metrics.SetScheduleRevision(state.Snapshot().Revision)
	defer state.Subscribe(func(snap models.AdminSnapshot) {
		metrics.SetScheduleRevision(snap.Revision)
	})()

	var (
		redisPinger cache.Pinger
		cacheRepo   service.CacheRepository
	)
	if cfg.Cache.Enabled {
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("grid cache disabled, redis unavailable", zap.Error(err))
		} else {
			redisPinger = client
			repo := repository.NewCacheRepository(client, logr)
			defer repo.Close() //nolint:errcheck
			cacheRepo = repo
		}
	}
	gridCache := service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, cfg.Cache.Prefix, logr, cacheRepo != nil)
	defer gridCache.WatchSchedule(state)()

	var recorder *service.SubmissionRecorder
	queue := jobs.NewQueue("submissions", func(ctx context.Context, job jobs.Job) error {
		return recorder.Handle(ctx, job)
	}, jobs.QueueConfig{
		Workers:    cfg.Jobs.Workers,
		BufferSize: cfg.Jobs.BufferSize,
		MaxRetries: cfg.Jobs.MaxRetries,
		RetryDelay: cfg.Jobs.RetryDelay,
		Logger:     logr,
	})
	recorder = service.NewSubmissionRecorder(queue, logr)
	queue.Start(ctx)

	sessions := service.NewSessionService(state, recorder, gridCache, metrics, logr, service.SessionServiceConfig{
		IdleTTL:       cfg.Sessions.IdleTTL,
		SweepInterval: cfg.Sessions.SweepInterval,
		MaxSessions:   cfg.Sessions.MaxSessions,
	})
	sessions.StartSweeper(ctx)

	router := handler.NewRouter(handler.RouterConfig{
		APIPrefix:      cfg.APIPrefix,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		EnableDocs:     cfg.Env != config.EnvProduction,
		EnableMetrics:  cfg.Metrics.Enabled,
		Logger:         logr,
		State:          state,
		Sessions:       sessions,
		Exports:        service.NewExportService(sessions, logr, nil, nil),
		Metrics:        metrics,
		Limiter:        middleware.NewGestureLimiter(cfg.Sessions.GestureRate, cfg.Sessions.GestureBurst, metrics, logr),
		Validator:      handler.NewValidator(),
		Redis:          redisPinger,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("graceful shutdown failed", zap.Error(err))
	}
	queue.Stop()
}
