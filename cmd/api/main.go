package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/carelog/ward-api/internal/config"
	analyticsHandler "github.com/carelog/ward-api/internal/handler/analytics"
	"github.com/carelog/ward-api/internal/handler/dashboard"
	"github.com/carelog/ward-api/internal/handler/mortality"
	"github.com/carelog/ward-api/internal/middleware"
	"github.com/carelog/ward-api/internal/repository/postgres"
	"github.com/carelog/ward-api/internal/router"
	reportService "github.com/carelog/ward-api/internal/service/report"
	"github.com/carelog/ward-api/pkg/logger"
	redisBroker "github.com/carelog/ward-api/pkg/messaging/redis"
	"github.com/carelog/ward-api/pkg/metrics"

	"github.com/carelog/ward-api/internal/handler"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(&logger.Config{
		Level:      logger.ParseLevel(cfg.Logging.Level),
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
	})

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	patientRepo := postgres.NewPatientRecordRepository(db)
	observationRepo := postgres.NewObservationRepository(db)

	m := metrics.NewMetrics("ward", "api")

	reportSvc := reportService.NewService(patientRepo, observationRepo, m, appLogger, reportService.Options{
		WeekStart: time.Weekday(cfg.Analytics.WeekStartDay),
		TopN:      cfg.Analytics.TopN,
		CacheTTL:  cfg.Analytics.CacheTTL(),
	})

	broker, err := redisBroker.NewRedisBroker(redisBroker.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, appLogger.Zerolog())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := reportSvc.ListenInvalidations(ctx, broker); err != nil {
		log.Fatal().Err(err).Msg("failed to start cache invalidation listener")
	}

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	h := handler.NewHandler(db)
	dashboardHandler := dashboard.NewHandler(reportSvc)
	analyticsH := analyticsHandler.NewHandler(reportSvc)
	mortalityHandler := mortality.NewHandler(reportSvc)

	r := router.NewRouter(authMiddleware, h, router.Config{
		RateLimitRPS:   float64(cfg.Server.RateLimitRPS),
		RateLimitBurst: cfg.Server.RateLimitBurst,
		Timeout:        time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		CORS:           middleware.DefaultCORSConfig(),
		MetricsPrefix:  "ward",
	}, dashboardHandler, analyticsH, mortalityHandler)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
