package main

import (
	"context"
	"crypto/tls"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"github.com/KasumiMercury/campus-schedule-optimizer/internal/config"
	"github.com/KasumiMercury/campus-schedule-optimizer/internal/handler"
	"github.com/KasumiMercury/campus-schedule-optimizer/internal/health"
	"github.com/KasumiMercury/campus-schedule-optimizer/internal/infra/repository"
	"github.com/KasumiMercury/campus-schedule-optimizer/internal/infra/resultrecorder"
	"github.com/KasumiMercury/campus-schedule-optimizer/internal/observability/logging"
	"github.com/KasumiMercury/campus-schedule-optimizer/internal/observability/metrics"
	"github.com/KasumiMercury/campus-schedule-optimizer/internal/observability/middleware"
	"github.com/KasumiMercury/campus-schedule-optimizer/internal/service/calendar"
	"github.com/KasumiMercury/campus-schedule-optimizer/internal/service/calsync"
	"github.com/KasumiMercury/campus-schedule-optimizer/internal/service/normalize"
	"github.com/KasumiMercury/campus-schedule-optimizer/internal/service/optimize"
)

// Version is set via ldflags at build time
var Version = "dev"

const module = logging.Module("schedule-optimizer")

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	obs, err := initObservability(ctx)
	if err != nil {
		slog.Error("failed to initialize observability", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			slog.Warn("observability shutdown error", slog.String("error", err.Error()))
		}
	}()

	slog.SetDefault(obs.Logger())

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		return 1
	}
	obs.SetLevel(cfg.LogLevel)

	if err := config.ValidateForRun(cfg); err != nil {
		slog.Error("configuration validation error", slog.String("error", err.Error()))
		return 1
	}

	if err := cfg.TaskQueue.Validate(); err != nil {
		slog.Error("task queue configuration error", slog.String("error", err.Error()))
		return 1
	}

	defaults, err := cfg.Scheduler.DefaultPreferences()
	if err != nil {
		slog.Error("invalid default preferences", slog.String("error", err.Error()))
		return 1
	}

	location, err := cfg.Scheduler.Location()
	if err != nil {
		slog.Error("invalid timezone", slog.String("error", err.Error()))
		return 1
	}

	categoryPolicy := calendar.DefaultCategoryPolicy()
	if cfg.Scheduler.CategoryPolicyFile != "" {
		categoryPolicy, err = calendar.LoadCategoryPolicy(cfg.Scheduler.CategoryPolicyFile)
		if err != nil {
			slog.Error("failed to load category policy",
				slog.String("path", cfg.Scheduler.CategoryPolicyFile),
				slog.String("error", err.Error()),
			)
			return 1
		}
	}

	httpMetrics, err := metrics.NewHTTPMetrics()
	if err != nil {
		slog.Error("failed to initialize HTTP metrics", slog.String("error", err.Error()))
		return 1
	}

	scheduleMetrics, err := metrics.NewScheduleMetrics()
	if err != nil {
		slog.Error("failed to initialize schedule metrics", slog.String("error", err.Error()))
		return 1
	}

	// InfluxDB locally, BigQuery on gcloud
	resultRecorder, err := resultrecorder.NewRecorder(ctx, resultrecorder.LoadConfig())
	if err != nil {
		slog.Error("failed to initialize schedule result recorder", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		if err := resultRecorder.Close(); err != nil {
			slog.Warn("failed to close schedule result recorder", slog.String("error", err.Error()))
		}
	}()

	taskQueue, cleanup, err := initTaskQueue(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize task queue", slog.String("error", err.Error()))
		return 1
	}
	if cleanup != nil {
		defer func() {
			if err := cleanup(); err != nil {
				slog.Error("task queue cleanup error", slog.String("error", err.Error()))
			}
		}()
	}

	provider, err := newCalendarProvider(ctx, cfg.Sync)
	if err != nil {
		slog.Error("failed to initialize calendar provider", slog.String("error", err.Error()))
		return 1
	}

	redisOptions := &redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	if cfg.Redis.TLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	redisClient := redis.NewClient(redisOptions)

	if err := redisotel.InstrumentTracing(redisClient); err != nil {
		slog.Error("failed to instrument redis tracing",
			slog.String("event", "redis.otel.tracing.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	if err := redisotel.InstrumentMetrics(redisClient); err != nil {
		slog.Error("failed to instrument redis metrics",
			slog.String("event", "redis.otel.metrics.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.Error("failed to connect redis",
			slog.String("event", "redis.connect.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	defer func() {
		if err := redisClient.Close(); err != nil {
			slog.Warn("failed to close redis client", slog.String("error", err.Error()))
		}
	}()

	slog.Info("redis connected",
		slog.String("addr", cfg.Redis.Addr),
	)

	syncLedger := repository.NewSyncLedger(redisClient, cfg.Redis.KeyPrefix, cfg.Sync.LedgerTTL)

	normalizer := normalize.NewNormalizer(defaults)
	optimizeService := optimize.NewService(optimize.NewOptimizer(defaults), scheduleMetrics, resultRecorder)
	materializer := calendar.NewMaterializer(location, categoryPolicy)
	syncService := calsync.NewService(
		provider,
		syncLedger,
		calsync.Config{
			BatchSize:      cfg.Sync.BatchSize,
			MaxConcurrency: cfg.Sync.MaxConcurrency,
			CallTimeout:    cfg.Sync.CallTimeout,
		},
		scheduleMetrics,
		resultRecorder,
	)

	scheduleHandler := handler.NewScheduleHandler(optimizeService)
	calendarHandler := handler.NewCalendarHandler(normalizer, materializer, syncService, taskQueue, scheduleMetrics)

	r := gin.New()
	r.Use(middleware.Gin(middleware.GinConfig{
		SkipPaths:  []string{"/health", "/health/live", "/health/ready"},
		Module:     module,
		Worker:     taskQueue != nil,
		TracerName: "github.com/KasumiMercury/campus-schedule-optimizer/internal/observability/middleware",
		JobNameResolver: func(c *gin.Context) string {
			if taskName := c.Request.Header.Get("X-CloudTasks-TaskName"); taskName != "" {
				return taskName
			}
			return c.Request.URL.Path
		},
		HTTPMetrics: httpMetrics,
	}))
	r.Use(middleware.PanicRecoveryGin())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", logging.RequestIDHeader, "X-User-ID"},
		ExposeHeaders:    []string{logging.RequestIDHeader, "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	healthChecker := health.NewChecker(redisClient, Version, provider.Name())
	r.GET("/health/live", healthChecker.LiveHandler())
	r.GET("/health/ready", healthChecker.ReadyHandler())
	r.GET("/health", healthChecker.Handler())

	handler.RegisterRoutes(r, scheduleHandler, calendarHandler)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Port),
			slog.String("timezone", location.String()),
			slog.String("sync_provider", provider.Name()),
			slog.Int("sync_batch_size", cfg.Sync.BatchSize),
			slog.Int("sync_max_concurrency", cfg.Sync.MaxConcurrency),
			slog.Any("excluded_categories", categoryPolicy.Excluded()),
		)
		serverErr <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shutdown server", slog.String("error", err.Error()))
			return 1
		}

		slog.Info("server exited properly")
		return 0

	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return 0
		}
		slog.Error("server exited with error", slog.String("error", err.Error()))
		return 1
	}
}
