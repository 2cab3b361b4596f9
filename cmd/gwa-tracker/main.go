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
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/gwa-tracker/api/swagger"
	"github.com/noah-isme/gwa-tracker/internal/handler"
	internalmiddleware "github.com/noah-isme/gwa-tracker/internal/middleware"
	"github.com/noah-isme/gwa-tracker/internal/repository"
	"github.com/noah-isme/gwa-tracker/internal/service"
	"github.com/noah-isme/gwa-tracker/pkg/config"
	"github.com/noah-isme/gwa-tracker/pkg/kvstore"
	"github.com/noah-isme/gwa-tracker/pkg/logger"
	corsmiddleware "github.com/noah-isme/gwa-tracker/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/gwa-tracker/pkg/middleware/requestid"
	"github.com/noah-isme/gwa-tracker/pkg/observability"
)

// @title GWA Tracker API
// @version 1.0.0
// @description Subjects, GWA and honor standing, with an archive of past semesters
// @BasePath /api/v1
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

	flushSentry, err := observability.InitSentry(cfg.Sentry, cfg.Env)
	if err != nil {
		logr.Warn("sentry disabled", zap.Error(err))
	}
	defer flushSentry()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var metrics *service.MetricsService
	if cfg.Metrics.Enabled {
		metrics = service.NewMetricsService()
	}

	rawStore, err := kvstore.Open(ctx, cfg)
	if err != nil {
		logr.Fatal("failed to open store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	defer rawStore.Close() //nolint:errcheck
	store := rawStore
	if metrics != nil {
		store = kvstore.Observed(rawStore, metrics.ObserveStore)
	}

	validate := validator.New()
	settingsRepo := repository.NewSettingsRepository(store, cfg.Store.AutosaveKey, cfg.Store.AutosaveDefault)
	subjectRepo := repository.NewSubjectRepository(store, cfg.Store.SubjectsKey, settingsRepo)
	semesterRepo := repository.NewSemesterRepository(store, cfg.Store.SemestersKey, settingsRepo)

	subjects := service.NewSubjectService(subjectRepo, validate, logr.Named("subjects"))
	semesters := service.NewSemesterService(semesterRepo, subjects, validate, logr.Named("semesters"))
	if metrics != nil {
		subjects.WithObserver(metrics)
		semesters.WithObserver(metrics)
	}
	settings := service.NewSettingsService(settingsRepo, logr.Named("settings"), subjects, semesters)

	loadCtx, cancelLoad := context.WithTimeout(ctx, cfg.Store.WriteTimeout)
	if err := subjects.Load(loadCtx); err != nil {
		logr.Fatal("failed to load subjects", zap.Error(err))
	}
	if err := semesters.Load(loadCtx); err != nil {
		logr.Fatal("failed to load semesters", zap.Error(err))
	}
	cancelLoad()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics))

	ops := handler.NewMetricsHandler(metrics, map[string]handler.ReadinessCheck{
		"store": func(ctx context.Context) error { return kvstore.Ping(ctx, store) },
	})
	r.GET("/health", ops.Health)
	r.GET("/ready", ops.Ready)
	if metrics != nil {
		r.GET("/metrics", ops.Prometheus)
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r, cfg.APIPrefix, handler.Handlers{
		Subjects:  handler.NewSubjectHandler(subjects, service.NewViewService(cfg.View.DefaultPageSize, cfg.View.PageSizeOptions)),
		Semesters: handler.NewSemesterHandler(semesters, cfg.View.SchoolYearCount),
		Settings:  handler.NewSettingsHandler(settings),
		Export:    handler.NewExportHandler(service.NewExportService(subjects, semesters)),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "store", cfg.Store.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	logr.Info("server stopped")
}
